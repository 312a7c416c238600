package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsfinder/internal/dataset"
	"jsfinder/internal/finder"
)

func load(t *testing.T, doc string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Parse([]byte(doc), dataset.FormatJSON)
	require.NoError(t, err)
	return ds
}

const twoRoots = `[{"root": ["a.js", "b.txt", ["c.js", ["d.js"]]]}, {"root": ["readme.md", "notes.txt"]}]`

func TestSession_RunReady(t *testing.T) {
	s := New(load(t, twoRoots), finder.JavaScript, nil)
	assert.Equal(t, 0, s.Selected())
	assert.Equal(t, Idle, s.State().Phase)

	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.js", "c.js", "d.js"}, res.Matches)

	st := s.State()
	assert.Equal(t, Ready, st.Phase)
	assert.NotEmpty(t, st.RunID)
	assert.Equal(t, res, st.Result)
}

func TestSession_EmptyResultIsReady(t *testing.T) {
	s := New(load(t, twoRoots), finder.JavaScript, nil)
	require.NoError(t, s.Select(1))

	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Matches)
	assert.Equal(t, Ready, s.State().Phase)
}

func TestSession_InvalidSelection(t *testing.T) {
	s := New(load(t, twoRoots), finder.JavaScript, nil)

	err := s.Select(5)
	assert.ErrorIs(t, err, dataset.ErrInvalidSelection)
	assert.Equal(t, Failed, s.State().Phase)
	assert.Equal(t, "Invalid root index", s.State().Message)
	assert.Equal(t, 0, s.Selected(), "selection must survive a rejected index")

	// the dataset is still usable for a valid selection
	require.NoError(t, s.Select(0))
	_, err = s.Run(context.Background())
	assert.NoError(t, err)
}

func TestSession_NoRoots(t *testing.T) {
	s := New(load(t, `[]`), finder.JavaScript, nil)
	assert.Equal(t, Unselected, s.Selected())

	_, err := s.Run(context.Background())
	assert.ErrorIs(t, err, dataset.ErrInvalidSelection)
	assert.Equal(t, Failed, s.State().Phase)
}

func TestSession_ConstructionError(t *testing.T) {
	s := New(load(t, `[{"root": ["a.js", {"read": 1}]}]`), finder.JavaScript, nil)

	_, err := s.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, Failed, s.State().Phase)
	assert.Contains(t, s.State().Message, "root[1]")
}

func TestSession_StaleOutcomeIgnored(t *testing.T) {
	s := New(load(t, twoRoots), finder.JavaScript, nil)

	job, err := s.Start()
	require.NoError(t, err)
	assert.Equal(t, Loading, s.State().Phase)

	_, err = s.Start()
	assert.Error(t, err, "only one traversal at a time")
	assert.Error(t, s.Select(1))

	assert.False(t, s.Finish(Outcome{RunID: "someone-else"}))
	assert.Equal(t, Loading, s.State().Phase)

	assert.True(t, s.Finish(job.Execute(context.Background())))
	assert.Equal(t, Ready, s.State().Phase)
}

func TestSession_TraversalError(t *testing.T) {
	s := New(load(t, twoRoots), finder.JavaScript, nil)

	job, err := s.Start()
	require.NoError(t, err)
	assert.True(t, s.Finish(Outcome{RunID: job.RunID, Err: errors.New("boom")}))

	st := s.State()
	assert.Equal(t, Failed, st.Phase)
	assert.Equal(t, "Error finding JavaScript files: boom", st.Message)
}

func TestSession_Reload(t *testing.T) {
	s := New(load(t, twoRoots), finder.JavaScript, nil)
	require.NoError(t, s.Select(1))

	s.Reload(load(t, `[{"root": ["x.js"]}]`))
	assert.Equal(t, 0, s.Selected())
	assert.Equal(t, Idle, s.State().Phase)

	s.LoadFailed(errors.New("bad json"))
	assert.Equal(t, Failed, s.State().Phase)
	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"x.js"}, res.Matches)
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "ready", Ready.String())
	assert.Equal(t, "error", Failed.String())
}
