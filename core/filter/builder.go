// Fluent construction of FilterByValueOptions. The builder is a convenience
// over assembling the option struct by hand; it performs no validation, that
// remains the job of the matcher instances at apply time.
package filter

// OptionsBuilder provides a fluent API for building FilterByValueOptions.
type OptionsBuilder struct {
	options FilterByValueOptions
}

// NewOptionsBuilder creates a new, empty options builder.
func NewOptionsBuilder() *OptionsBuilder {
	return &OptionsBuilder{}
}

// Build returns the constructed options.
func (b *OptionsBuilder) Build() FilterByValueOptions {
	return b.options
}

// Reset clears all configuration, returning the builder to its initial state.
func (b *OptionsBuilder) Reset() *OptionsBuilder {
	b.options = FilterByValueOptions{}
	return b
}

// Include sets the include sense: rows satisfying the filters are kept.
func (b *OptionsBuilder) Include() *OptionsBuilder {
	b.options.Type = FilterSenseInclude
	return b
}

// Exclude sets the exclude sense: rows satisfying the filters are dropped.
func (b *OptionsBuilder) Exclude() *OptionsBuilder {
	b.options.Type = FilterSenseExclude
	return b
}

// MatchAll requires every filter to match (conjunction).
func (b *OptionsBuilder) MatchAll() *OptionsBuilder {
	b.options.Match = MatchPolicyAll
	return b
}

// MatchAny requires at least one filter to match (disjunction).
func (b *OptionsBuilder) MatchAny() *OptionsBuilder {
	b.options.Match = MatchPolicyAny
	return b
}

// Where begins a filter targeting the field with the given display name.
func (b *OptionsBuilder) Where(fieldName string) *ValueFilterBuilder {
	return &ValueFilterBuilder{parent: b, fieldName: fieldName}
}

// ValueFilterBuilder builds a single ValueFilter. It is not used directly but
// through OptionsBuilder.Where.
type ValueFilterBuilder struct {
	parent    *OptionsBuilder
	fieldName string
}

func (vb *ValueFilterBuilder) add(kind MatcherID, expr, expr2 string, args map[string]any) *OptionsBuilder {
	vb.parent.options.ValueFilters = append(vb.parent.options.ValueFilters, ValueFilter{
		FieldName:         vb.fieldName,
		FilterExpression:  expr,
		FilterExpression2: expr2,
		FilterArgs:        args,
		FilterType:        kind,
	})
	return vb.parent
}

// Matches adds a regex filter.
func (vb *ValueFilterBuilder) Matches(pattern string) *OptionsBuilder {
	return vb.add(MatcherRegex, pattern, "", nil)
}

// Contains adds a substring filter.
func (vb *ValueFilterBuilder) Contains(substring string) *OptionsBuilder {
	return vb.add(MatcherSubstring, substring, "", nil)
}

// Eq adds an equality filter.
func (vb *ValueFilterBuilder) Eq(value string) *OptionsBuilder {
	return vb.add(MatcherEqual, value, "", nil)
}

// Neq adds a not-equal filter.
func (vb *ValueFilterBuilder) Neq(value string) *OptionsBuilder {
	return vb.add(MatcherNotEqual, value, "", nil)
}

// Gt adds a greater-than filter.
func (vb *ValueFilterBuilder) Gt(threshold string) *OptionsBuilder {
	return vb.add(MatcherGreater, threshold, "", nil)
}

// Gte adds a greater-or-equal filter.
func (vb *ValueFilterBuilder) Gte(threshold string) *OptionsBuilder {
	return vb.add(MatcherGreaterOrEqual, threshold, "", nil)
}

// Lt adds a lower-than filter.
func (vb *ValueFilterBuilder) Lt(threshold string) *OptionsBuilder {
	return vb.add(MatcherLower, threshold, "", nil)
}

// Lte adds a lower-or-equal filter.
func (vb *ValueFilterBuilder) Lte(threshold string) *OptionsBuilder {
	return vb.add(MatcherLowerOrEqual, threshold, "", nil)
}

// Between adds an inclusive range filter.
func (vb *ValueFilterBuilder) Between(min, max string) *OptionsBuilder {
	return vb.add(MatcherRange, min, max, nil)
}

// IsNull adds a null-check filter.
func (vb *ValueFilterBuilder) IsNull() *OptionsBuilder {
	return vb.add(MatcherIsNull, "", "", nil)
}

// IsNotNull adds a not-null-check filter.
func (vb *ValueFilterBuilder) IsNotNull() *OptionsBuilder {
	return vb.add(MatcherIsNotNull, "", "", nil)
}

// IsTrue adds a boolean truth filter.
func (vb *ValueFilterBuilder) IsTrue() *OptionsBuilder {
	return vb.add(MatcherIsTrue, "", "", nil)
}

// IsFalse adds a boolean falsity filter.
func (vb *ValueFilterBuilder) IsFalse() *OptionsBuilder {
	return vb.add(MatcherIsFalse, "", "", nil)
}

// Custom adds a filter with an explicit matcher kind and raw parameters, for
// kinds registered outside the built-in set.
func (vb *ValueFilterBuilder) Custom(kind MatcherID, expr, expr2 string, args map[string]any) *OptionsBuilder {
	return vb.add(kind, expr, expr2, args)
}
