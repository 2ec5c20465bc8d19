// Package logging writes structured audit records for analysis runs as JSON
// lines.
package logging

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/RowanDark/cipherlab/internal/redact"
)

// EventType names what happened in an audit record.
type EventType string

const (
	EventKeySizeRanked     EventType = "keysize_ranked"
	EventKeyRecovered      EventType = "key_recovered"
	EventKeyRecoveryFailed EventType = "key_recovery_failed"
	EventLineDetected      EventType = "line_detected"
	EventCBCEncrypt        EventType = "cbc_encrypt"
	EventCBCDecrypt        EventType = "cbc_decrypt"
	EventPrimitiveError    EventType = "primitive_error"
	EventOperation         EventType = "operation_executed"
	EventPipeline          EventType = "pipeline_executed"
	EventRecipeSaved       EventType = "recipe_saved"
	EventConfigLoaded      EventType = "config_loaded"
)

// Decision records the outcome of an audited step.
type Decision string

const (
	DecisionInfo    Decision = "info"
	DecisionSuccess Decision = "success"
	DecisionFailure Decision = "failure"
)

// AuditEvent is one JSON line in the audit log.
type AuditEvent struct {
	Timestamp time.Time      `json:"timestamp"`
	Component string         `json:"component"`
	RunID     string         `json:"run_id,omitempty"`
	EventType EventType      `json:"event_type"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Decision  Decision       `json:"decision,omitempty"`
	Reason    string         `json:"reason,omitempty"`
}

// NewRunID returns a sortable identifier used to correlate the events of a
// single analysis run.
func NewRunID() string {
	return ulid.Make().String()
}

// Option configures an AuditLogger.
type Option func(*options) error

type options struct {
	writers []io.Writer
	closers []io.Closer
	stdout  bool
	runID   string
}

// WithWriter adds w as an audit sink.
func WithWriter(w io.Writer) Option {
	return func(o *options) error {
		if w == nil {
			return errors.New("writer cannot be nil")
		}
		o.writers = append(o.writers, w)
		return nil
	}
}

// WithFile appends audit records to the file at path, creating it with
// owner-only permissions.
func WithFile(path string) Option {
	return func(o *options) error {
		if strings.TrimSpace(path) == "" {
			return errors.New("file path cannot be empty")
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("open audit log: %w", err)
		}
		o.writers = append(o.writers, f)
		o.closers = append(o.closers, f)
		return nil
	}
}

// WithoutStdout drops the default stdout sink.
func WithoutStdout() Option {
	return func(o *options) error {
		o.stdout = false
		return nil
	}
}

// WithRunID stamps every event that has no run id of its own.
func WithRunID(id string) Option {
	return func(o *options) error {
		o.runID = strings.TrimSpace(id)
		return nil
	}
}

type sink struct {
	mu      sync.Mutex
	encoder *json.Encoder
	closers []io.Closer
}

// AuditLogger serialises AuditEvents to its sinks. A nil *AuditLogger
// discards everything, so callers can hold one unconditionally.
type AuditLogger struct {
	component string
	runID     string
	sink      *sink
	owner     bool
}

// NewAuditLogger builds a logger for component. Without options it writes
// to stdout.
func NewAuditLogger(component string, opts ...Option) (*AuditLogger, error) {
	o := &options{stdout: true}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			for _, c := range o.closers {
				_ = c.Close()
			}
			return nil, err
		}
	}
	writers := o.writers
	if o.stdout {
		writers = append([]io.Writer{os.Stdout}, writers...)
	}
	if len(writers) == 0 {
		return nil, errors.New("no writers configured for audit logger")
	}
	enc := json.NewEncoder(io.MultiWriter(writers...))
	enc.SetEscapeHTML(false)
	return &AuditLogger{
		component: component,
		runID:     o.runID,
		sink:      &sink{encoder: enc, closers: o.closers},
		owner:     true,
	}, nil
}

// MustNewAuditLogger is NewAuditLogger that panics on error.
func MustNewAuditLogger(component string, opts ...Option) *AuditLogger {
	logger, err := NewAuditLogger(component, opts...)
	if err != nil {
		panic(err)
	}
	return logger
}

// Close releases files opened by WithFile. Child loggers do not own them.
func (l *AuditLogger) Close() error {
	if l == nil || !l.owner || l.sink == nil {
		return nil
	}
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	var firstErr error
	for _, c := range l.sink.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.sink.closers = nil
	return firstErr
}

// Emit writes event after filling in defaults and redacting key material.
func (l *AuditLogger) Emit(event AuditEvent) error {
	if l == nil || l.sink == nil {
		return nil
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	} else {
		event.Timestamp = event.Timestamp.UTC()
	}
	if event.Component == "" {
		event.Component = l.component
	}
	if event.RunID == "" {
		event.RunID = l.runID
	}
	event.Reason = redact.String(event.Reason)
	if len(event.Metadata) > 0 {
		event.Metadata = redact.Map(event.Metadata)
	}
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return l.sink.encoder.Encode(event)
}

// WithComponent returns a child logger sharing this logger's sinks.
func (l *AuditLogger) WithComponent(component string) *AuditLogger {
	if l == nil || l.sink == nil {
		return nil
	}
	return &AuditLogger{component: component, runID: l.runID, sink: l.sink}
}

// WithRunID returns a child logger that stamps events with id.
func (l *AuditLogger) WithRunID(id string) *AuditLogger {
	if l == nil || l.sink == nil {
		return nil
	}
	return &AuditLogger{component: l.component, runID: id, sink: l.sink}
}
