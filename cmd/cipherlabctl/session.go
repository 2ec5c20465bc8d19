package main

import (
	"os"

	"github.com/RowanDark/cipherlab/internal/config"
	"github.com/RowanDark/cipherlab/internal/logging"
)

// session carries the resolved configuration and audit logger of one
// command invocation.
type session struct {
	cfg   config.Config
	audit *logging.AuditLogger
	runID string
}

// openSession loads configuration and opens the audit log. Events go to the
// configured audit_log file and, when auditStderr is set, to stderr. With
// neither, audit is nil and events are dropped.
func openSession(component string, auditStderr bool) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, runID: logging.NewRunID()}

	opts := []logging.Option{logging.WithoutStdout(), logging.WithRunID(s.runID)}
	sinks := 0
	if auditStderr {
		opts = append(opts, logging.WithWriter(os.Stderr))
		sinks++
	}
	if cfg.AuditLog != "" {
		opts = append(opts, logging.WithFile(cfg.AuditLog))
		sinks++
	}
	if sinks > 0 {
		s.audit, err = logging.NewAuditLogger(component, opts...)
		if err != nil {
			return nil, err
		}
	}

	_ = s.audit.Emit(logging.AuditEvent{
		EventType: logging.EventConfigLoaded,
		Decision:  logging.DecisionInfo,
		Metadata: map[string]any{
			"min_key_size": cfg.Analysis.MinKeySize,
			"max_key_size": cfg.Analysis.MaxKeySize,
			"candidates":   cfg.Analysis.Candidates,
			"workers":      cfg.Analysis.Workers,
		},
	})
	return s, nil
}

func (s *session) Close() {
	if s == nil {
		return
	}
	_ = s.audit.Close()
}
