package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"jsfinder/internal/dataset"
	"jsfinder/internal/finder"
	"jsfinder/internal/session"
)

type datasetLoadedMsg struct {
	ds  *dataset.Dataset
	err error
}
type traversalDoneMsg struct{ out session.Outcome }

type fileChangedMsg struct{ path string }
type watchErrorMsg struct{ err error }

// Options configures Run.
type Options struct {
	Source  string
	Dataset dataset.Options
	Match   finder.Predicate
	Finder  []finder.Option
	Log     *zap.Logger
	Watch   bool
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	matchStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	folderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	faint       = lipgloss.NewStyle().Faint(true)
)

type model struct {
	opts Options
	log  *zap.Logger
	sess *session.Session

	ctx    context.Context
	cancel context.CancelFunc

	loadingDataset bool
	lastChange     string

	spin spinner.Model
	vp   viewport.Model
}

// Run loads the dataset at opts.Source and starts the interactive finder.
func Run(opts Options) error {
	m := newModel(opts)
	defer m.cancel()
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(opts Options) *model {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	m := &model{opts: opts, log: log, loadingDataset: true}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.sess = session.New(nil, opts.Match, log, opts.Finder...)
	m.spin = spinner.New()
	m.spin.Spinner = spinner.Dot
	m.spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	m.vp = viewport.New(80, 20)
	return m
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick, m.loadCmd()}
	if m.opts.Watch {
		cmds = append(cmds, m.watchCmd())
	}
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		// header (4 lines), spacer and footer
		reserved := 7
		m.vp.Width = msg.Width
		m.vp.Height = max(msg.Height-reserved, 3)
		m.refreshViewport()
		return m, nil
	case datasetLoadedMsg:
		m.loadingDataset = false
		if msg.err != nil {
			m.sess.LoadFailed(msg.err)
		} else {
			m.log.Debug("dataset loaded", zap.String("source", msg.ds.Source), zap.Int("roots", msg.ds.Len()))
			m.sess.Reload(msg.ds)
		}
		m.refreshViewport()
		return m, nil
	case traversalDoneMsg:
		m.sess.Finish(msg.out)
		m.refreshViewport()
		return m, nil
	case fileChangedMsg:
		m.lastChange = msg.path
		m.loadingDataset = true
		m.refreshViewport()
		return m, tea.Batch(m.loadCmd(), m.watchCmd())
	case watchErrorMsg:
		m.log.Warn("watch error", zap.Error(msg.err))
		m.lastChange = "watch error: " + msg.err.Error()
		return m, nil
	}

	var cmd tea.Cmd
	m.spin, cmd = m.spin.Update(msg)
	return m, cmd
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.cancel()
		return m, tea.Quit
	case "up", "k", "left", "h":
		m.move(-1)
	case "down", "j", "right", "l":
		m.move(1)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		_ = m.sess.Select(int(msg.String()[0]-'1'))
	case "enter", " ":
		if m.loadingDataset {
			return m, nil
		}
		job, err := m.sess.Start()
		m.refreshViewport()
		if err != nil {
			return m, nil
		}
		return m, m.runCmd(job)
	case "r":
		if m.sess.State().Phase == session.Loading {
			return m, nil
		}
		m.loadingDataset = true
		m.refreshViewport()
		return m, m.loadCmd()
	case "pgup", "pgdown", "home", "end":
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	}
	m.refreshViewport()
	return m, nil
}

// move steps the selection, staying inside the dataset.
func (m *model) move(delta int) {
	ds := m.sess.Dataset()
	if ds == nil || ds.Len() == 0 || m.sess.State().Phase == session.Loading {
		return
	}
	next := m.sess.Selected() + delta
	if next < 0 || next >= ds.Len() {
		return
	}
	_ = m.sess.Select(next)
}

func (m *model) runCmd(job *session.Job) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return traversalDoneMsg{out: job.Execute(ctx)}
	}
}

func (m *model) refreshViewport() {
	m.vp.SetContent(m.body())
	m.vp.GotoTop()
}

// body renders the "All Files" and "JavaScript Files" sections.
func (m *model) body() string {
	st := m.sess.State()
	var b strings.Builder

	b.WriteString(headStyle.Render("All Files"))
	b.WriteString("\n")
	if st.Phase == session.Ready && len(st.Result.Tree.Children) > 0 {
		renderTree(&b, st.Result.Tree.Children, 0)
	} else {
		b.WriteString(faint.Render("No files available."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(headStyle.Render("JavaScript Files"))
	b.WriteString("\n")
	switch {
	case st.Phase == session.Ready && len(st.Result.Matches) > 0:
		for _, name := range st.Result.Matches {
			b.WriteString("  " + matchStyle.Render(name) + "\n")
		}
	case st.Phase == session.Loading:
	default:
		b.WriteString(faint.Render("No JavaScript files found."))
		b.WriteString("\n")
	}
	return b.String()
}

func renderTree(b *strings.Builder, nodes []finder.Node, depth int) {
	indent := strings.Repeat("  ", depth+1)
	for _, n := range nodes {
		if n.Folder {
			b.WriteString(indent + folderStyle.Render("Folder:") + "\n")
			renderTree(b, n.Children, depth+1)
			continue
		}
		b.WriteString(indent + "• " + n.Name + "\n")
	}
}

func (m *model) View() string {
	header := titleStyle.Render("File Finder")
	if m.opts.Watch {
		header += faint.Render("  (watching " + m.opts.Source + ")")
	}

	selector := "Select Root Dataset: "
	ds := m.sess.Dataset()
	switch {
	case m.loadingDataset:
		selector += m.spin.View() + " loading " + m.opts.Source
	case ds == nil || ds.Len() == 0:
		selector += faint.Render("none")
	default:
		selector += fmt.Sprintf("‹ %s › of %d", dataset.Label(m.sess.Selected()), ds.Len())
	}

	st := m.sess.State()
	button := "[enter] Find JavaScript Files"
	if st.Phase == session.Loading {
		button = m.spin.View() + " Loading..."
	}
	status := ""
	if st.Phase == session.Failed {
		status = errorStyle.Render(st.Message)
	} else if m.lastChange != "" {
		status = faint.Render("changed: " + m.lastChange)
	}

	footer := faint.Render("Controls: [↑/↓] root  [1-9] pick  [enter] find  [r] reload  [q] quit")
	container := lipgloss.NewStyle().Padding(1)
	return container.Render(strings.Join([]string{header, selector, button, status, "", m.vp.View(), footer}, "\n"))
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
