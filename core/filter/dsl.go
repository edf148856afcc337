// Package filter implements value-based row selection over columnar frames.
// A set of per-field matcher configurations is combined with a match policy
// (all/any) and a sense (include/exclude) to decide, row by row, which rows of
// each frame survive the transform.
package filter

// FilterSense controls the global sense of the transform: whether rows that
// satisfy the filters are kept or dropped.
type FilterSense string

// Supported filter senses.
const (
	FilterSenseInclude FilterSense = "include"
	FilterSenseExclude FilterSense = "exclude"
)

// MatchPolicy controls how multiple filters combine: conjunction or
// disjunction across the configured filters.
type MatchPolicy string

// Supported match policies.
const (
	MatchPolicyAll MatchPolicy = "all"
	MatchPolicyAny MatchPolicy = "any"
)

// ValueFilter is one configured filter: a target field (addressed by display
// name), a matcher kind, and the parameters the matcher consumes. An empty
// FieldName means the filter has no resolved target and is skipped.
type ValueFilter struct {
	FieldName         string         `json:"fieldName"`
	FilterExpression  string         `json:"filterExpression"`
	FilterExpression2 string         `json:"filterExpression2,omitempty"`
	FilterArgs        map[string]any `json:"filterArgs,omitempty"`
	FilterType        MatcherID      `json:"filterType"`
}

// FilterByValueOptions configures one invocation of Processor.Apply.
// A zero-value Type defaults to include; a zero-value Match defaults to all.
// An empty ValueFilters list makes the transform an identity.
type FilterByValueOptions struct {
	ValueFilters []ValueFilter `json:"filters"`
	Type         FilterSense   `json:"type,omitempty"`
	Match        MatchPolicy   `json:"match,omitempty"`
}

// sense returns the effective filter sense, applying the default.
func (o *FilterByValueOptions) sense() FilterSense {
	if o.Type == FilterSenseExclude {
		return FilterSenseExclude
	}
	return FilterSenseInclude
}

// policy returns the effective match policy, applying the default.
func (o *FilterByValueOptions) policy() MatchPolicy {
	if o.Match == MatchPolicyAny {
		return MatchPolicyAny
	}
	return MatchPolicyAll
}
