package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/asaidimu/go-sift/core/frame"
)

// Built-in matcher kinds.
const (
	MatcherRegex          MatcherID = "regex"
	MatcherSubstring      MatcherID = "substring"
	MatcherEqual          MatcherID = "equal"
	MatcherNotEqual       MatcherID = "notEqual"
	MatcherGreater        MatcherID = "greater"
	MatcherGreaterOrEqual MatcherID = "greaterOrEqual"
	MatcherLower          MatcherID = "lower"
	MatcherLowerOrEqual   MatcherID = "lowerOrEqual"
	MatcherRange          MatcherID = "range"
	MatcherIsNull         MatcherID = "isNull"
	MatcherIsNotNull      MatcherID = "isNotNull"
	MatcherIsTrue         MatcherID = "isTrue"
	MatcherIsFalse        MatcherID = "isFalse"
)

var numericFieldTypes = []frame.FieldType{frame.FieldTypeNumber}

var booleanFieldTypes = []frame.FieldType{frame.FieldTypeBoolean}

// invalidInstance reports a configuration that failed to parse. The flags mark
// which parameter was at fault; Test is still total so a caller that ignores
// IsValid cannot crash the transform.
func invalidInstance(expr1, expr2 bool, args ...string) MatcherInstance {
	return MatcherInstance{
		IsValid:            false,
		Expression1Invalid: expr1,
		Expression2Invalid: expr2,
		InvalidArgs:        args,
		Test:               func(any) bool { return false },
	}
}

// valueToString renders a field value for string-based matchers. A nil value
// renders as the empty string.
func valueToString(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

func regexMatcher() MatcherDescriptor {
	return MatcherDescriptor{
		ID:          MatcherRegex,
		Name:        "Regex",
		Description: "Match values against a regular expression",
		Placeholder: "Regular expression",
		GetInstance: func(cfg MatcherConfig) MatcherInstance {
			if cfg.Expression == "" {
				return invalidInstance(true, false)
			}
			re, err := regexp.Compile(cfg.Expression)
			if err != nil {
				return invalidInstance(true, false)
			}
			return MatcherInstance{
				IsValid: true,
				Test: func(value any) bool {
					if value == nil {
						return false
					}
					return re.MatchString(valueToString(value))
				},
			}
		},
	}
}

func substringMatcher() MatcherDescriptor {
	return MatcherDescriptor{
		ID:          MatcherSubstring,
		Name:        "Contains substring",
		Description: "Match values containing the given substring",
		Placeholder: "Substring",
		GetInstance: func(cfg MatcherConfig) MatcherInstance {
			if cfg.Expression == "" {
				return invalidInstance(true, false)
			}
			needle := strings.ToLower(cfg.Expression)
			return MatcherInstance{
				IsValid: true,
				Test: func(value any) bool {
					if value == nil {
						return false
					}
					return strings.Contains(strings.ToLower(valueToString(value)), needle)
				},
			}
		},
	}
}

// equalityTest compares a field value against the configured expression. For
// number fields the comparison is numeric so "3" equals 3.0; everything else
// compares by rendered string.
func equalityTest(cfg MatcherConfig) func(value any) bool {
	if cfg.FieldType == frame.FieldTypeNumber {
		if want, ok := ToFloat64(cfg.Expression); ok {
			return func(value any) bool {
				got, ok := ToFloat64(value)
				return ok && got == want
			}
		}
	}
	return func(value any) bool {
		if value == nil {
			return false
		}
		return valueToString(value) == cfg.Expression
	}
}

func equalMatcher() MatcherDescriptor {
	return MatcherDescriptor{
		ID:          MatcherEqual,
		Name:        "Is equal",
		Description: "Match values equal to the expression",
		Placeholder: "Value",
		GetInstance: func(cfg MatcherConfig) MatcherInstance {
			if cfg.Expression == "" {
				return invalidInstance(true, false)
			}
			return MatcherInstance{IsValid: true, Test: equalityTest(cfg)}
		},
	}
}

func notEqualMatcher() MatcherDescriptor {
	return MatcherDescriptor{
		ID:          MatcherNotEqual,
		Name:        "Is not equal",
		Description: "Match values different from the expression",
		Placeholder: "Value",
		GetInstance: func(cfg MatcherConfig) MatcherInstance {
			if cfg.Expression == "" {
				return invalidInstance(true, false)
			}
			equals := equalityTest(cfg)
			return MatcherInstance{
				IsValid: true,
				// A null value is never equal to a concrete expression, so it
				// matches here.
				Test: func(value any) bool {
					if value == nil {
						return true
					}
					return !equals(value)
				},
			}
		},
	}
}

// comparisonMatcher builds the four single-threshold numeric kinds.
func comparisonMatcher(id MatcherID, name string, cmp func(v, threshold float64) bool) MatcherDescriptor {
	return MatcherDescriptor{
		ID:          id,
		Name:        name,
		Description: "Match numeric values against a threshold",
		FieldTypes:  numericFieldTypes,
		Placeholder: "Threshold",
		GetInstance: func(cfg MatcherConfig) MatcherInstance {
			threshold, ok := ToFloat64(cfg.Expression)
			if !ok {
				return invalidInstance(true, false)
			}
			return MatcherInstance{
				IsValid: true,
				Test: func(value any) bool {
					v, ok := ToFloat64(value)
					return ok && cmp(v, threshold)
				},
			}
		},
	}
}

// rangeBounds resolves the inclusive bounds for the range matcher. The two
// expressions take precedence; the "min"/"max" args are an alternative for
// callers that carry structured parameters.
func rangeBounds(cfg MatcherConfig) (lo, hi float64, inst *MatcherInstance) {
	lo, loOK := ToFloat64(cfg.Expression)
	hi, hiOK := ToFloat64(cfg.Expression2)
	if loOK && hiOK {
		return lo, hi, nil
	}
	if cfg.Expression == "" && cfg.Expression2 == "" && cfg.Args != nil {
		var badArgs []string
		lo, loOK = ToFloat64(cfg.Args["min"])
		hi, hiOK = ToFloat64(cfg.Args["max"])
		if !loOK {
			badArgs = append(badArgs, "min")
		}
		if !hiOK {
			badArgs = append(badArgs, "max")
		}
		if len(badArgs) > 0 {
			bad := invalidInstance(false, false, badArgs...)
			return 0, 0, &bad
		}
		return lo, hi, nil
	}
	bad := invalidInstance(!loOK, !hiOK)
	return 0, 0, &bad
}

func rangeMatcher() MatcherDescriptor {
	return MatcherDescriptor{
		ID:           MatcherRange,
		Name:         "Is between",
		Description:  "Match numeric values inside an inclusive range",
		FieldTypes:   numericFieldTypes,
		Placeholder:  "Min",
		Placeholder2: "Max",
		GetInstance: func(cfg MatcherConfig) MatcherInstance {
			lo, hi, bad := rangeBounds(cfg)
			if bad != nil {
				return *bad
			}
			return MatcherInstance{
				IsValid: true,
				Test: func(value any) bool {
					v, ok := ToFloat64(value)
					return ok && v >= lo && v <= hi
				},
			}
		},
	}
}

// nullMatcher builds the two null checks; they take no parameters and are
// valid for every field type.
func nullMatcher(id MatcherID, name string, wantNull bool) MatcherDescriptor {
	return MatcherDescriptor{
		ID:          id,
		Name:        name,
		Description: "Match on value presence",
		GetInstance: func(cfg MatcherConfig) MatcherInstance {
			return MatcherInstance{
				IsValid: true,
				Test: func(value any) bool {
					return (value == nil) == wantNull
				},
			}
		},
	}
}

// boolMatcher builds the two boolean kinds; a non-boolean or null value never
// matches either.
func boolMatcher(id MatcherID, name string, want bool) MatcherDescriptor {
	return MatcherDescriptor{
		ID:          id,
		Name:        name,
		Description: "Match boolean values",
		FieldTypes:  booleanFieldTypes,
		GetInstance: func(cfg MatcherConfig) MatcherInstance {
			return MatcherInstance{
				IsValid: true,
				Test: func(value any) bool {
					b, ok := value.(bool)
					return ok && b == want
				},
			}
		},
	}
}

// builtinMatchers returns descriptors for every built-in matcher kind.
func builtinMatchers() []MatcherDescriptor {
	return []MatcherDescriptor{
		regexMatcher(),
		substringMatcher(),
		equalMatcher(),
		notEqualMatcher(),
		comparisonMatcher(MatcherGreater, "Is greater", func(v, t float64) bool { return v > t }),
		comparisonMatcher(MatcherGreaterOrEqual, "Is greater or equal", func(v, t float64) bool { return v >= t }),
		comparisonMatcher(MatcherLower, "Is lower", func(v, t float64) bool { return v < t }),
		comparisonMatcher(MatcherLowerOrEqual, "Is lower or equal", func(v, t float64) bool { return v <= t }),
		rangeMatcher(),
		nullMatcher(MatcherIsNull, "Is null", true),
		nullMatcher(MatcherIsNotNull, "Is not null", false),
		boolMatcher(MatcherIsTrue, "Is true", true),
		boolMatcher(MatcherIsFalse, "Is false", false),
	}
}
