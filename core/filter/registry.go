package filter

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/asaidimu/go-sift/core/frame"
	"go.uber.org/zap"
)

// ErrUnknownMatcher is returned by Registry.Get when a matcher kind was never
// registered. Configurations are expected to reference only registered kinds,
// so callers treat this as a programming error rather than a data problem.
var ErrUnknownMatcher = errors.New("unknown matcher kind")

// MatcherID identifies a matcher kind in the registry.
type MatcherID string

// MatcherConfig carries the raw parameters a matcher instance is built from:
// up to two free-form expressions, an open argument bag, and the type tag of
// the field the instance will be evaluated against.
type MatcherConfig struct {
	Expression  string
	Expression2 string
	Args        map[string]any
	FieldType   frame.FieldType
}

// MatcherInstance is a validated, ready-to-evaluate realization of a matcher
// kind for one configuration. When IsValid is false the instance contributes
// nothing to row selection; the per-parameter flags exist for UI feedback and
// are never consulted by the row-selection algorithm.
type MatcherInstance struct {
	IsValid            bool
	Expression1Invalid bool
	Expression2Invalid bool
	InvalidArgs        []string
	Test               func(value any) bool
}

// MatcherDescriptor declares a matcher kind: identity and UI metadata, the
// field types it supports (empty means all), and the factory producing
// instances. GetInstance must be pure and deterministic, and must report
// malformed configuration through IsValid rather than panicking — that
// contract is what lets the transform treat every kind uniformly.
type MatcherDescriptor struct {
	ID           MatcherID
	Name         string
	Description  string
	FieldTypes   []frame.FieldType
	Placeholder  string
	Placeholder2 string
	GetInstance  func(cfg MatcherConfig) MatcherInstance
}

// Supports reports whether the descriptor can be applied to a field of the
// given type. An empty FieldTypes list means the kind is type-agnostic.
func (d *MatcherDescriptor) Supports(ft frame.FieldType) bool {
	if len(d.FieldTypes) == 0 {
		return true
	}
	for _, t := range d.FieldTypes {
		if t == ft {
			return true
		}
	}
	return false
}

// Registry maps matcher kinds to their descriptors. It is safe for concurrent
// use; registration is expected at startup but not restricted to it.
type Registry struct {
	matchers map[MatcherID]MatcherDescriptor
	mu       sync.RWMutex
	logger   *zap.Logger
}

// NewRegistry creates an empty matcher registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		matchers: make(map[MatcherID]MatcherDescriptor),
		logger:   logger,
	}
}

// DefaultRegistry returns a registry pre-loaded with all built-in matcher
// kinds.
func DefaultRegistry(logger *zap.Logger) *Registry {
	r := NewRegistry(logger)
	r.RegisterAll(builtinMatchers())
	return r
}

// Register adds or replaces a matcher kind.
func (r *Registry) Register(d MatcherDescriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matchers[d.ID] = d
	r.logger.Info("Registered matcher", zap.String("id", string(d.ID)))
}

// RegisterAll registers multiple matcher kinds.
func (r *Registry) RegisterAll(descriptors []MatcherDescriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range descriptors {
		r.matchers[d.ID] = d
		r.logger.Info("Registered matcher", zap.String("id", string(d.ID)))
	}
}

// Get returns the descriptor for a matcher kind, or an error wrapping
// ErrUnknownMatcher if the kind was never registered.
func (r *Registry) Get(id MatcherID) (MatcherDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.matchers[id]
	if !ok {
		return MatcherDescriptor{}, fmt.Errorf("%w: %s", ErrUnknownMatcher, id)
	}
	return d, nil
}

// List returns all registered descriptors sorted by ID. It exists for
// discovery (e.g. populating an editor); the row-selection algorithm never
// calls it.
func (r *Registry) List() []MatcherDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]MatcherDescriptor, 0, len(r.matchers))
	for _, d := range r.matchers {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
