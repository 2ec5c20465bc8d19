package cipher

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Registry maps operation names to implementations. It is safe for
// concurrent use.
type Registry struct {
	mu  sync.RWMutex
	ops map[string]Operation
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ops: make(map[string]Operation)}
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide registry holding the built-in
// operations.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		if err := RegisterBuiltins(defaultRegistry); err != nil {
			panic(fmt.Sprintf("register builtin operations: %v", err))
		}
	})
	return defaultRegistry
}

// Register adds op to the registry.
func (r *Registry) Register(op Operation) error {
	if op == nil {
		return fmt.Errorf("cannot register nil operation")
	}

	name := op.Name()
	if name == "" {
		return fmt.Errorf("operation name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ops[name]; exists {
		return fmt.Errorf("operation %s is already registered", name)
	}

	r.ops[name] = op
	return nil
}

// Get retrieves an operation by name
func (r *Registry) Get(name string) (Operation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	op, exists := r.ops[name]
	return op, exists
}

// List returns all registered operations sorted by name.
func (r *Registry) List() []Operation {
	return r.filter(func(Operation) bool { return true })
}

// ListByType returns operations filtered by type
func (r *Registry) ListByType(opType OperationType) []Operation {
	return r.filter(func(op Operation) bool { return op.Type() == opType })
}

func (r *Registry) filter(keep func(Operation) bool) []Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ops := make([]Operation, 0, len(r.ops))
	for _, op := range r.ops {
		if keep(op) {
			ops = append(ops, op)
		}
	}
	slices.SortFunc(ops, func(a, b Operation) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return ops
}

// Unregister removes an operation from the registry
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.ops, name)
}

// RegisterOperation adds an operation to the default registry
func RegisterOperation(op Operation) error {
	return DefaultRegistry().Register(op)
}

// GetOperation retrieves an operation from the default registry by name
func GetOperation(name string) (Operation, bool) {
	return DefaultRegistry().Get(name)
}

// ListOperations returns all operations in the default registry
func ListOperations() []Operation {
	return DefaultRegistry().List()
}

// RegisterBuiltins registers every built-in operation on r.
func RegisterBuiltins(r *Registry) error {
	groups := [][]Operation{
		encodingOperations(),
		xorOperations(),
		blockOperations(),
	}
	for _, group := range groups {
		for _, op := range group {
			if err := r.Register(op); err != nil {
				return err
			}
		}
	}
	return nil
}
