package mealplanner

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// SessionLogger records one entry per workflow transition.
type SessionLogger interface {
	LogStep(step StepLog) error
}

// NewSessionLogFilePath returns a file path based on a cleaned up model name or id to make it easier to identify logs produced with various extractors.
func NewSessionLogFilePath(model string) string {
	return fmt.Sprintf(
		"./logs/%d.%s.json",
		time.Now().Unix(),
		strings.NewReplacer(":", "_", "/", "_").Replace(strings.ToLower(model)),
	)
}

// StepLog represents a single transition of a planning session
type StepLog struct {
	SessionID string    `json:"session_id"`
	Step      int       `json:"step"`
	Stage     string    `json:"stage"`
	Next      string    `json:"next,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// FileSessionLogger accumulates steps and writes them on Flush
type FileSessionLogger struct {
	steps  []StepLog
	writer io.Writer
}

func NewFileSessionLogger(writer io.Writer) *FileSessionLogger {
	return &FileSessionLogger{
		steps:  make([]StepLog, 0),
		writer: writer,
	}
}

// LogStep buffers the step (does not flush immediately)
func (l *FileSessionLogger) LogStep(step StepLog) error {
	l.steps = append(l.steps, step)
	return nil
}

// Flush writes all buffered steps as a single JSON document
func (l *FileSessionLogger) Flush() error {
	if l.writer == nil {
		return nil
	}

	data, err := json.MarshalIndent(map[string]any{
		"planning_session": map[string]any{
			"timestamp": time.Now(),
			"steps":     l.steps,
		},
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session log: %w", err)
	}

	if _, err := l.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write session log: %w", err)
	}

	l.steps = l.steps[:0]
	return nil
}

// NoOpSessionLogger discards all log entries
type NoOpSessionLogger struct{}

func NewNoOpSessionLogger() *NoOpSessionLogger {
	return &NoOpSessionLogger{}
}

func (nop *NoOpSessionLogger) LogStep(step StepLog) error {
	return nil
}

// StdoutSessionLogger writes each step as a JSON line (for Lambda/CloudWatch)
type StdoutSessionLogger struct {
	out io.Writer
}

func NewStdoutSessionLogger() *StdoutSessionLogger {
	return &StdoutSessionLogger{out: os.Stdout}
}

func (l *StdoutSessionLogger) LogStep(step StepLog) error {
	data, err := json.Marshal(step)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(l.out, string(data))
	return err
}
