// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/docbuild/pkg/types"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	start := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

	for i, status := range []types.BuildStatus{types.BuildSucceeded, types.BuildFailed, types.BuildSucceeded} {
		id, err := s.Record(ctx, Run{
			StartedAt:  start.Add(time.Duration(i) * time.Minute),
			FinishedAt: start.Add(time.Duration(i)*time.Minute + time.Second),
			Source:     "guia.md",
			Output:     "guia.docx",
			Directives: i,
			Images:     i + 1,
			Status:     status,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), id)
	}

	runs, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, int64(3), runs[0].ID)
	assert.Equal(t, int64(2), runs[1].ID)
	assert.Equal(t, types.BuildFailed, runs[1].Status)
	assert.True(t, runs[0].StartedAt.Equal(start.Add(2*time.Minute)))
	assert.Equal(t, 3, runs[0].Images)

	all, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRecentEmpty(t *testing.T) {
	runs, err := openTemp(t).Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Record(ctx, Run{Source: "a.md", Output: "a.docx", Status: types.BuildFailed, ExitCode: 43, Error: "pandoc exited with code 43"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	runs, err := s.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 43, runs[0].ExitCode)
	assert.Equal(t, "pandoc exited with code 43", runs[0].Error)
}

func TestFromReport(t *testing.T) {
	r := types.BuildReport{
		Source:     "guia.md",
		Output:     "guia.docx",
		Status:     types.BuildSucceeded,
		Directives: []types.Directive{{Kind: types.KindFunc2D, File: "a.png"}},
		Images:     []types.ImageRecord{{Path: "a.png"}, {Path: "b.png"}},
	}
	run := FromReport(r)
	assert.Equal(t, 1, run.Directives)
	assert.Equal(t, 2, run.Images)
	assert.Equal(t, types.BuildSucceeded, run.Status)
}
