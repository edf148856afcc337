package filter

import (
	"fmt"

	"github.com/asaidimu/go-sift/core/frame"
	"go.uber.org/zap"
)

// Processor applies value filters to frames. It holds the matcher registry
// used to realize filter configurations and is safe for concurrent use as
// long as the registry is.
type Processor struct {
	registry *Registry
	logger   *zap.Logger
}

// NewProcessor creates a Processor backed by the given registry. A nil
// registry gets the default built-in matcher set; a nil logger is replaced
// with a no-op logger.
func NewProcessor(registry *Registry, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if registry == nil {
		registry = DefaultRegistry(logger)
	}
	return &Processor{registry: registry, logger: logger}
}

// Registry returns the matcher registry the processor dispatches to.
func (p *Processor) Registry() *Registry {
	return p.registry
}

// Apply selects rows from each frame according to the configured value
// filters, match policy, and sense, and returns frames holding only the
// selected rows. Frame order is preserved and each frame is processed
// independently.
//
// Filters are evaluated strictly in declared order: the first filter that
// actually applies to a frame seeds every row's decision, and later filters
// can only move rows toward exclusion (match=all) or toward inclusion
// (match=any). Filter order is therefore observable when filters disagree;
// callers relying on the combined result must keep their filter list stable.
//
// A filter whose field is absent from a frame, whose matcher does not support
// the field's type, or whose configuration fails to parse contributes nothing
// for that frame. If no filter applied to a frame its rows pass through
// untouched, and if no filter applied anywhere the input slice is returned
// as-is. The only error is a filter referencing an unregistered matcher kind.
func (p *Processor) Apply(frames []*frame.Frame, options FilterByValueOptions) ([]*frame.Frame, error) {
	if len(options.ValueFilters) == 0 {
		return frames, nil
	}

	include := options.sense() == FilterSenseInclude
	all := options.policy() == MatchPolicyAll

	out := make([]*frame.Frame, 0, len(frames))
	anyFiltered := false
	for _, fr := range frames {
		filtered, touched, err := p.filterFrame(fr, options.ValueFilters, include, all)
		if err != nil {
			return nil, fmt.Errorf("value filter failed: %w", err)
		}
		if !touched {
			out = append(out, fr)
			continue
		}
		anyFiltered = true
		p.logger.Debug("Filtered frame",
			zap.String("frame", fr.Name),
			zap.Int("rowsIn", fr.Length),
			zap.Int("rowsOut", filtered.Length))
		out = append(out, filtered)
	}

	// Conservative fallback: when nothing effective was configured, callers
	// get their input back rather than an accidental zero-row result.
	if !anyFiltered {
		return frames, nil
	}
	return out, nil
}

// filterFrame evaluates all filters against one frame and materializes the
// surviving rows. The returned bool reports whether any filter applied;
// when false the frame must pass through unchanged.
func (p *Processor) filterFrame(fr *frame.Frame, filters []ValueFilter, include, all bool) (*frame.Frame, bool, error) {
	// Tri-state per-row decision: nil is undetermined, otherwise the pointee
	// says whether the row is kept.
	decisions := make([]*bool, fr.Length)
	touched := false

	for _, vf := range filters {
		if vf.FieldName == "" {
			continue
		}
		field := fr.FieldByDisplayName(vf.FieldName)
		if field == nil {
			continue
		}

		descriptor, err := p.registry.Get(vf.FilterType)
		if err != nil {
			return nil, false, err
		}
		if !descriptor.Supports(field.Type) {
			p.logger.Debug("Matcher does not support field type",
				zap.String("matcher", string(vf.FilterType)),
				zap.String("fieldType", string(field.Type)))
			continue
		}

		instance := descriptor.GetInstance(MatcherConfig{
			Expression:  vf.FilterExpression,
			Expression2: vf.FilterExpression2,
			Args:        vf.FilterArgs,
			FieldType:   field.Type,
		})
		if !instance.IsValid {
			continue
		}

		// The first filter that applies to this frame seeds the decisions;
		// later ones only tighten them.
		first := !touched
		touched = true

		for r := 0; r < fr.Length; r++ {
			matched := instance.Test(field.At(r))
			if all {
				if !matched {
					decisions[r] = BoolPtr(!include)
				} else if first {
					decisions[r] = BoolPtr(include)
				}
			} else {
				if matched {
					decisions[r] = BoolPtr(include)
				} else if first {
					decisions[r] = BoolPtr(!include)
				}
			}
		}
	}

	if !touched {
		return nil, false, nil
	}

	out := fr.EmptyCopy()
	for r := 0; r < fr.Length; r++ {
		if d := decisions[r]; d != nil && *d {
			out.AppendRow(fr, r)
		}
	}
	return out, true, nil
}
