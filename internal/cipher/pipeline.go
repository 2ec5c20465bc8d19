package cipher

import (
	"context"
	"errors"
	"fmt"

	"github.com/RowanDark/cipherlab/internal/cbc"
	"github.com/RowanDark/cipherlab/internal/logging"
)

// Runner executes pipelines against a registry and reports each step to an
// optional audit logger. The zero value uses the default registry and does
// not log.
type Runner struct {
	Registry *Registry
	Audit    *logging.AuditLogger
}

func (r *Runner) registry() *Registry {
	if r.Registry != nil {
		return r.Registry
	}
	return DefaultRegistry()
}

// Run applies p's operations to input in order. Execution stops at the
// first failing step and returns no partial output.
func (r *Runner) Run(ctx context.Context, p *Pipeline, input []byte) ([]byte, error) {
	reg := r.registry()
	result := input

	for i, opConfig := range p.Operations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		op, exists := reg.Get(opConfig.Name)
		if !exists {
			return nil, fmt.Errorf("unknown operation at step %d: %s", i, opConfig.Name)
		}

		output, err := op.Execute(ctx, result, opConfig.Parameters)
		if err != nil {
			r.stepFailed(i, opConfig, err)
			return nil, fmt.Errorf("operation %s failed at step %d: %w", opConfig.Name, i, err)
		}
		r.emit(logging.AuditEvent{
			EventType: logging.EventOperation,
			Decision:  logging.DecisionSuccess,
			Metadata: map[string]any{
				"step":         i,
				"operation":    opConfig.Name,
				"parameters":   opConfig.Parameters,
				"input_bytes":  len(result),
				"output_bytes": len(output),
			},
		})
		result = output
	}

	r.emit(logging.AuditEvent{
		EventType: logging.EventPipeline,
		Decision:  logging.DecisionSuccess,
		Metadata: map[string]any{
			"steps":        len(p.Operations),
			"input_bytes":  len(input),
			"output_bytes": len(result),
		},
	})
	return result, nil
}

func (r *Runner) stepFailed(step int, opConfig OperationConfig, err error) {
	eventType := logging.EventOperation
	metadata := map[string]any{
		"step":      step,
		"operation": opConfig.Name,
	}
	var perr *cbc.PrimitiveError
	if errors.As(err, &perr) {
		eventType = logging.EventPrimitiveError
		metadata["block"] = perr.Block
	}
	r.emit(logging.AuditEvent{
		EventType: eventType,
		Decision:  logging.DecisionFailure,
		Reason:    err.Error(),
		Metadata:  metadata,
	})
}

func (r *Runner) emit(event logging.AuditEvent) {
	if r.Audit == nil {
		return
	}
	_ = r.Audit.Emit(event)
}
