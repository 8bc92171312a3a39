package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rwaldren/shuntyard/internal/journal"
	"github.com/rwaldren/shuntyard/internal/yard"
)

func seedJournal(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "events.db")

	store, err := journal.Open(dbPath)
	require.NoError(t, err)
	defer store.Close()

	ts := time.Date(2025, 1, 1, 6, 0, 0, 0, time.UTC)
	events := []yard.Event{
		{ID: "e1", Seq: 1, Timestamp: ts, Type: yard.EventTrainCreated, TrainID: "a", Severity: yard.SeverityInfo, Message: "train T-1 arrived at entry"},
		{ID: "e2", Seq: 2, Timestamp: ts.Add(time.Second), Type: yard.EventTrainMoved, TrainID: "a", Severity: yard.SeverityInfo, Message: "train T-1 moved to bay1"},
		{ID: "e3", Seq: 3, Timestamp: ts.Add(2 * time.Second), Type: yard.EventTrainQueued, TrainID: "b", Severity: yard.SeverityWarning, Message: "train T-2 waiting for a free inspection bay"},
	}
	for _, ev := range events {
		require.NoError(t, store.Append(context.Background(), ev))
	}
	return dbPath
}

func TestTraceAllEvents(t *testing.T) {
	dbPath := seedJournal(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dbPath})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "train T-1 arrived at entry")
	assert.Contains(t, output, "train T-1 moved to bay1")
	assert.Contains(t, output, "waiting for a free inspection bay")
}

func TestTraceFilterByTrain(t *testing.T) {
	dbPath := seedJournal(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dbPath, "--train", "b"})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.NotContains(t, output, "T-1")
	assert.Contains(t, output, "waiting for a free inspection bay")
}

func TestTraceFilterBySeverityJSON(t *testing.T) {
	dbPath := seedJournal(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dbPath, "--severity", "warning"})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(3), data["total"])

	events, ok := data["events"].([]any)
	require.True(t, ok)
	require.Len(t, events, 1)
}

func TestTraceSinceSeqAndLimit(t *testing.T) {
	dbPath := seedJournal(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dbPath, "--since-seq", "1", "--limit", "1"})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "moved to bay1")
	assert.NotContains(t, output, "arrived at entry")
	assert.NotContains(t, output, "waiting")
}

func TestTraceMissingDatabase(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTraceCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"/nonexistent/events.db"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [db_not_found]")
}
