// Package session holds the user-facing state of one finder session: the loaded
// dataset, the selected root and the outcome of the last traversal.
//
// Transitions are made only by Session methods and are meant to be called from
// a single goroutine (the TUI update loop or a CLI command). Traversals run
// outside that goroutine via Job.Execute and report back through Finish.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"jsfinder/internal/dataset"
	"jsfinder/internal/finder"
	"jsfinder/internal/folder"
)

// Phase is the coarse state of a session.
type Phase int

const (
	Idle Phase = iota
	Loading
	Ready
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "error"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// State is a snapshot of the session. Result is set only in Ready and Message
// only in Failed.
type State struct {
	Phase   Phase
	RunID   string
	Result  finder.Result
	Message string
}

// Unselected marks a session with no root chosen.
const Unselected = -1

type Session struct {
	ds       *dataset.Dataset
	selected int
	state    State
	match    finder.Predicate
	opts     []finder.Option
	log      *zap.Logger
}

// New starts a session over ds. The first root is preselected when one exists.
func New(ds *dataset.Dataset, match finder.Predicate, log *zap.Logger, opts ...finder.Option) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{ds: ds, selected: Unselected, match: match, opts: opts, log: log}
	if ds != nil && ds.Len() > 0 {
		s.selected = 0
	}
	return s
}

func (s *Session) State() State { return s.state }

func (s *Session) Selected() int { return s.selected }

func (s *Session) Dataset() *dataset.Dataset { return s.ds }

// Select changes the chosen root and clears any previous result. An out of
// range index leaves the selection untouched and moves the session to Failed.
func (s *Session) Select(i int) error {
	if s.state.Phase == Loading {
		return fmt.Errorf("traversal %s still running", s.state.RunID)
	}
	if s.ds == nil || i < 0 || i >= s.ds.Len() {
		err := fmt.Errorf("%w: %d", dataset.ErrInvalidSelection, i)
		s.fail("", "Invalid root index")
		return err
	}
	s.selected = i
	s.state = State{Phase: Idle}
	return nil
}

// Reload swaps in a new dataset, keeping the selection when it is still valid.
func (s *Session) Reload(ds *dataset.Dataset) {
	s.ds = ds
	switch {
	case ds == nil || ds.Len() == 0:
		s.selected = Unselected
	case s.selected == Unselected || s.selected >= ds.Len():
		s.selected = 0
	}
	s.state = State{Phase: Idle}
}

// LoadFailed records a dataset load failure. The previous dataset stays usable.
func (s *Session) LoadFailed(err error) {
	s.log.Warn("dataset load failed", zap.Error(err))
	s.fail("", "Error loading dataset: "+err.Error())
}

// Job is one traversal of the selected root.
type Job struct {
	RunID string
	Index int
	root  *folder.Memory
	match finder.Predicate
	opts  []finder.Option
}

// Outcome is what Job.Execute reports back to Finish.
type Outcome struct {
	RunID  string
	Result finder.Result
	Err    error
}

// Start validates the selection, builds the folder tree and moves the session
// to Loading. Selection and construction errors move it to Failed instead.
func (s *Session) Start() (*Job, error) {
	if s.state.Phase == Loading {
		return nil, fmt.Errorf("traversal %s still running", s.state.RunID)
	}
	if s.ds == nil || s.selected == Unselected {
		s.fail("", "Invalid root index")
		return nil, fmt.Errorf("%w: no root selected", dataset.ErrInvalidSelection)
	}
	root, err := s.ds.Select(s.selected)
	if err != nil {
		if errors.Is(err, dataset.ErrInvalidSelection) {
			s.fail("", "Invalid root index")
		} else {
			s.fail("", "Error building folders: "+err.Error())
		}
		return nil, err
	}
	id := uuid.NewString()
	s.state = State{Phase: Loading, RunID: id}
	s.log.Debug("traversal started", zap.String("run", id), zap.Int("root", s.selected))
	return &Job{RunID: id, Index: s.selected, root: root, match: s.match, opts: s.opts}, nil
}

// Execute runs the traversal. It touches no session state and may run on any goroutine.
func (j *Job) Execute(ctx context.Context) Outcome {
	res, err := finder.Collect(ctx, j.root, j.match, j.opts...)
	return Outcome{RunID: j.RunID, Result: res, Err: err}
}

// Finish applies an outcome. Outcomes from superseded runs are ignored and
// reported as false.
func (s *Session) Finish(o Outcome) bool {
	if s.state.Phase != Loading || s.state.RunID != o.RunID {
		return false
	}
	if o.Err != nil {
		s.log.Warn("traversal failed", zap.String("run", o.RunID), zap.Error(o.Err))
		s.fail(o.RunID, "Error finding JavaScript files: "+o.Err.Error())
		return true
	}
	s.log.Debug("traversal finished", zap.String("run", o.RunID), zap.Int("matches", len(o.Result.Matches)))
	s.state = State{Phase: Ready, RunID: o.RunID, Result: o.Result}
	return true
}

// Run is Start, Execute and Finish in one call.
func (s *Session) Run(ctx context.Context) (finder.Result, error) {
	job, err := s.Start()
	if err != nil {
		return finder.Result{}, err
	}
	out := job.Execute(ctx)
	s.Finish(out)
	return out.Result, out.Err
}

func (s *Session) fail(runID, msg string) {
	s.state = State{Phase: Failed, RunID: runID, Message: msg}
}
