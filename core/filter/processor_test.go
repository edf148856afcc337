package filter

import (
	"testing"

	"github.com/asaidimu/go-sift/core/frame"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func statusFrame(t *testing.T) *frame.Frame {
	t.Helper()
	fr, err := frame.New("requests",
		&frame.Field{Name: "status", Type: frame.FieldTypeString, Values: []any{"ok", "fail", "ok", "fail"}},
		&frame.Field{Name: "latency", Type: frame.FieldTypeNumber, Values: []any{12.0, 250.0, 30.0, 480.0}},
	)
	assert.NoError(t, err)
	return fr
}

func fieldValues(fr *frame.Frame, name string) []any {
	f := fr.FieldByDisplayName(name)
	if f == nil {
		return nil
	}
	return f.Values
}

func TestNewProcessor(t *testing.T) {
	p := NewProcessor(nil, nil)
	assert.NotNil(t, p)
	assert.NotNil(t, p.Registry())

	r := NewRegistry(zap.NewNop())
	p = NewProcessor(r, zap.NewNop())
	assert.Equal(t, r, p.Registry())
}

func TestProcessor_Apply(t *testing.T) {
	logger := zap.NewNop()
	p := NewProcessor(DefaultRegistry(logger), logger)

	t.Run("Empty filter list is identity", func(t *testing.T) {
		frames := []*frame.Frame{statusFrame(t)}
		out, err := p.Apply(frames, FilterByValueOptions{})
		assert.NoError(t, err)
		assert.Equal(t, frames, out)
		assert.Same(t, frames[0], out[0])
	})

	t.Run("Sole invalid filter is identity", func(t *testing.T) {
		frames := []*frame.Frame{statusFrame(t)}
		out, err := p.Apply(frames, FilterByValueOptions{
			ValueFilters: []ValueFilter{
				{FieldName: "status", FilterType: MatcherRegex, FilterExpression: "("},
			},
		})
		assert.NoError(t, err)
		assert.Same(t, frames[0], out[0])
	})

	t.Run("Include equal keeps matching rows", func(t *testing.T) {
		out, err := p.Apply([]*frame.Frame{statusFrame(t)}, FilterByValueOptions{
			ValueFilters: []ValueFilter{
				{FieldName: "status", FilterType: MatcherEqual, FilterExpression: "ok"},
			},
			Type:  FilterSenseInclude,
			Match: MatchPolicyAll,
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, out[0].Length)
		assert.Equal(t, []any{"ok", "ok"}, fieldValues(out[0], "status"))
		assert.Equal(t, []any{12.0, 30.0}, fieldValues(out[0], "latency"))
	})

	t.Run("Exclude equal keeps the complement", func(t *testing.T) {
		out, err := p.Apply([]*frame.Frame{statusFrame(t)}, FilterByValueOptions{
			ValueFilters: []ValueFilter{
				{FieldName: "status", FilterType: MatcherEqual, FilterExpression: "ok"},
			},
			Type: FilterSenseExclude,
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, out[0].Length)
		assert.Equal(t, []any{"fail", "fail"}, fieldValues(out[0], "status"))
	})

	t.Run("Match any keeps rows satisfying either filter", func(t *testing.T) {
		// Row 2 ("ok", 30) matches only the first filter, row 3 ("fail", 480)
		// only the second; both must survive.
		out, err := p.Apply([]*frame.Frame{statusFrame(t)}, FilterByValueOptions{
			ValueFilters: []ValueFilter{
				{FieldName: "status", FilterType: MatcherEqual, FilterExpression: "ok"},
				{FieldName: "latency", FilterType: MatcherGreater, FilterExpression: "400"},
			},
			Type:  FilterSenseInclude,
			Match: MatchPolicyAny,
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, out[0].Length)
		assert.Equal(t, []any{"ok", "ok", "fail"}, fieldValues(out[0], "status"))
		assert.Equal(t, []any{12.0, 30.0, 480.0}, fieldValues(out[0], "latency"))
	})

	t.Run("Match all requires every filter", func(t *testing.T) {
		out, err := p.Apply([]*frame.Frame{statusFrame(t)}, FilterByValueOptions{
			ValueFilters: []ValueFilter{
				{FieldName: "status", FilterType: MatcherEqual, FilterExpression: "ok"},
				{FieldName: "latency", FilterType: MatcherGreater, FilterExpression: "20"},
			},
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, out[0].Length)
		assert.Equal(t, []any{30.0}, fieldValues(out[0], "latency"))
	})

	t.Run("Frame missing the field passes through, others are filtered", func(t *testing.T) {
		withField := statusFrame(t)
		withoutField, err := frame.New("other",
			&frame.Field{Name: "value", Type: frame.FieldTypeNumber, Values: []any{1.0, 2.0}},
		)
		assert.NoError(t, err)

		out, err := p.Apply([]*frame.Frame{withoutField, withField}, FilterByValueOptions{
			ValueFilters: []ValueFilter{
				{FieldName: "status", FilterType: MatcherEqual, FilterExpression: "ok"},
			},
		})
		assert.NoError(t, err)
		assert.Len(t, out, 2)
		assert.Same(t, withoutField, out[0], "untouched frame is returned as-is")
		assert.Equal(t, 2, out[1].Length)
	})

	t.Run("Unknown matcher kind is fatal", func(t *testing.T) {
		_, err := p.Apply([]*frame.Frame{statusFrame(t)}, FilterByValueOptions{
			ValueFilters: []ValueFilter{
				{FieldName: "status", FilterType: "bogus", FilterExpression: "x"},
			},
		})
		assert.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownMatcher)
	})

	t.Run("Unset field name skips the filter", func(t *testing.T) {
		frames := []*frame.Frame{statusFrame(t)}
		out, err := p.Apply(frames, FilterByValueOptions{
			ValueFilters: []ValueFilter{
				{FieldName: "", FilterType: MatcherEqual, FilterExpression: "ok"},
			},
		})
		assert.NoError(t, err)
		assert.Same(t, frames[0], out[0])
	})

	t.Run("Unsupported field type skips the filter", func(t *testing.T) {
		frames := []*frame.Frame{statusFrame(t)}
		out, err := p.Apply(frames, FilterByValueOptions{
			ValueFilters: []ValueFilter{
				// greater is numeric-only; status is a string field.
				{FieldName: "status", FilterType: MatcherGreater, FilterExpression: "10"},
			},
		})
		assert.NoError(t, err)
		assert.Same(t, frames[0], out[0])
	})

	t.Run("Field resolved by display name", func(t *testing.T) {
		fr, err := frame.New("named",
			&frame.Field{
				Name:   "s",
				Type:   frame.FieldTypeString,
				Values: []any{"a", "b"},
				Config: map[string]any{"displayName": "Series"},
			},
		)
		assert.NoError(t, err)

		out, err := p.Apply([]*frame.Frame{fr}, FilterByValueOptions{
			ValueFilters: []ValueFilter{
				{FieldName: "Series", FilterType: MatcherEqual, FilterExpression: "a"},
			},
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, out[0].Length)
	})

	t.Run("Seeding follows first applicable filter", func(t *testing.T) {
		// The first filter's field is absent from this frame, so the second
		// filter seeds the decisions and rows it matches are kept.
		out, err := p.Apply([]*frame.Frame{statusFrame(t)}, FilterByValueOptions{
			ValueFilters: []ValueFilter{
				{FieldName: "absent", FilterType: MatcherEqual, FilterExpression: "x"},
				{FieldName: "status", FilterType: MatcherEqual, FilterExpression: "ok"},
			},
			Match: MatchPolicyAny,
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, out[0].Length)
		assert.Equal(t, []any{"ok", "ok"}, fieldValues(out[0], "status"))
	})

	t.Run("Later filter cannot upgrade under all", func(t *testing.T) {
		// Under all, a row failing the first filter stays out even when a
		// later filter matches it.
		out, err := p.Apply([]*frame.Frame{statusFrame(t)}, FilterByValueOptions{
			ValueFilters: []ValueFilter{
				{FieldName: "status", FilterType: MatcherEqual, FilterExpression: "ok"},
				{FieldName: "latency", FilterType: MatcherGreater, FilterExpression: "0"},
			},
		})
		assert.NoError(t, err)
		assert.Equal(t, []any{"ok", "ok"}, fieldValues(out[0], "status"))
	})

	t.Run("Later non-match cannot downgrade under any", func(t *testing.T) {
		out, err := p.Apply([]*frame.Frame{statusFrame(t)}, FilterByValueOptions{
			ValueFilters: []ValueFilter{
				{FieldName: "status", FilterType: MatcherEqual, FilterExpression: "ok"},
				{FieldName: "latency", FilterType: MatcherGreater, FilterExpression: "9000"},
			},
			Match: MatchPolicyAny,
		})
		assert.NoError(t, err)
		assert.Equal(t, []any{"ok", "ok"}, fieldValues(out[0], "status"))
	})

	t.Run("Null values are handled", func(t *testing.T) {
		fr, err := frame.New("sparse",
			&frame.Field{Name: "value", Type: frame.FieldTypeNumber, Values: []any{1.0, nil, 3.0}},
		)
		assert.NoError(t, err)

		out, err := p.Apply([]*frame.Frame{fr}, FilterByValueOptions{
			ValueFilters: []ValueFilter{
				{FieldName: "value", FilterType: MatcherIsNotNull},
			},
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, out[0].Length)
		assert.Equal(t, []any{1.0, 3.0}, fieldValues(out[0], "value"))
	})
}

func TestProcessor_Apply_Properties(t *testing.T) {
	p := NewProcessor(nil, nil)
	options := FilterByValueOptions{
		ValueFilters: []ValueFilter{
			{FieldName: "status", FilterType: MatcherEqual, FilterExpression: "ok"},
			{FieldName: "latency", FilterType: MatcherLower, FilterExpression: "100"},
		},
		Type:  FilterSenseInclude,
		Match: MatchPolicyAll,
	}

	t.Run("Idempotence under all/include", func(t *testing.T) {
		once, err := p.Apply([]*frame.Frame{statusFrame(t)}, options)
		assert.NoError(t, err)
		twice, err := p.Apply(once, options)
		assert.NoError(t, err)

		assert.Equal(t, once[0].Length, twice[0].Length)
		for i := range once[0].Fields {
			assert.Equal(t, once[0].Fields[i].Values, twice[0].Fields[i].Values)
		}
	})

	t.Run("Field shape preservation", func(t *testing.T) {
		in := statusFrame(t)
		out, err := p.Apply([]*frame.Frame{in}, options)
		assert.NoError(t, err)

		assert.Len(t, out[0].Fields, len(in.Fields))
		for i, f := range out[0].Fields {
			assert.Equal(t, in.Fields[i].Name, f.Name)
			assert.Equal(t, in.Fields[i].Type, f.Type)
			assert.Equal(t, len(f.Values), out[0].Length)
		}
	})

	t.Run("Row order preservation", func(t *testing.T) {
		fr, err := frame.New("seq",
			&frame.Field{Name: "n", Type: frame.FieldTypeNumber, Values: []any{5.0, 1.0, 4.0, 2.0, 3.0}},
		)
		assert.NoError(t, err)

		out, err := p.Apply([]*frame.Frame{fr}, FilterByValueOptions{
			ValueFilters: []ValueFilter{
				{FieldName: "n", FilterType: MatcherGreater, FilterExpression: "2"},
			},
		})
		assert.NoError(t, err)
		// Subsequence of the input in original order, not sorted.
		assert.Equal(t, []any{5.0, 4.0, 3.0}, fieldValues(out[0], "n"))
	})
}
