package mealplanner

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionLogFilePath(t *testing.T) {
	path := NewSessionLogFilePath("us.anthropic.Claude:v1/test")
	assert.True(t, strings.HasPrefix(path, "./logs/"))
	assert.True(t, strings.HasSuffix(path, ".us.anthropic.claude_v1_test.json"), path)
}

func TestFileSessionLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewFileSessionLogger(&buf)

	steps := []StepLog{
		{SessionID: "s1", Step: 1, Stage: "gather", Next: "suggest", Timestamp: time.Unix(0, 0).UTC()},
		{SessionID: "s1", Step: 2, Stage: "suggest", Next: "check_overlap", Timestamp: time.Unix(1, 0).UTC()},
	}
	for _, s := range steps {
		require.NoError(t, logger.LogStep(s))
	}
	assert.Zero(t, buf.Len(), "steps are buffered until Flush")

	require.NoError(t, logger.Flush())

	var doc struct {
		PlanningSession struct {
			Steps []StepLog `json:"steps"`
		} `json:"planning_session"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, steps, doc.PlanningSession.Steps)

	assert.NoError(t, NewFileSessionLogger(nil).Flush())
}

func TestStdoutSessionLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := &StdoutSessionLogger{out: &buf}

	require.NoError(t, logger.LogStep(StepLog{SessionID: "s1", Step: 1, Stage: "gather"}))
	require.NoError(t, logger.LogStep(StepLog{SessionID: "s1", Step: 2, Stage: "done", Error: "boom"}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var last StepLog
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &last))
	assert.Equal(t, "done", last.Stage)
	assert.Equal(t, "boom", last.Error)
}

func TestNoOpSessionLogger(t *testing.T) {
	assert.NoError(t, NewNoOpSessionLogger().LogStep(StepLog{}))
}
