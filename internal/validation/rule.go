// Package validation checks and coerces request payloads against
// declarative schemas before they reach handlers.
//
// Schemas are built from immutable Rule values:
//
//	schema := validation.Object(
//		validation.Key("nome", validation.String().Trim().Min(3).Required()),
//		validation.Key("idade", validation.Number().Min(0)),
//	)
//
// Validation collects every violation, strips keys the schema does not
// declare and converts unambiguous values (numeric strings to numbers,
// "true"/"false" to booleans). Every builder method returns a copy, so a
// schema can be shared across goroutines and forked with Relax.
package validation

import (
	"maps"
	"regexp"
	"slices"
)

// Kind is the JSON type a Rule accepts.
type Kind int

const (
	KindAny Kind = iota
	KindString
	KindNumber
	KindBoolean
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "any"
	}
}

type caseMode int

const (
	caseNone caseMode = iota
	caseUpper
	caseLower
)

// Check is a custom predicate attached with Rule.Custom.
type Check struct {
	Code    string
	Message string
	Fn      func(v any) bool
}

// Rule describes the constraints for a single value.
type Rule struct {
	kind       Kind
	required   bool
	hasDefault bool
	def        any
	nullable   bool
	allowEmpty bool

	trim     bool
	caseMode caseMode
	pattern  *regexp.Regexp
	email    bool

	// string length, number value or array length depending on kind
	hasMin, hasMax bool
	min, max       float64
	length         int // -1 when unset
	positive       bool
	integer        bool

	valid  []any
	checks []Check

	fields []Field
	elem   *Rule

	messages map[string]string
}

// Field binds a key to its Rule inside an object schema.
type Field struct {
	Name string
	Rule Rule
}

// Key declares an object field.
func Key(name string, r Rule) Field {
	return Field{Name: name, Rule: r}
}

func newRule(k Kind) Rule {
	return Rule{kind: k, length: -1}
}

// Any accepts any value unchanged.
func Any() Rule { return newRule(KindAny) }

// String accepts strings. Empty strings are rejected unless AllowEmpty.
func String() Rule { return newRule(KindString) }

// Number accepts numbers and numeric strings.
func Number() Rule { return newRule(KindNumber) }

// Integer is Number().Integer().
func Integer() Rule { return Number().Integer() }

// Boolean accepts booleans and the strings "true" and "false".
func Boolean() Rule { return newRule(KindBoolean) }

// Object accepts objects with the given fields; undeclared keys are stripped.
func Object(fields ...Field) Rule {
	r := newRule(KindObject)
	r.fields = slices.Clone(fields)
	return r
}

// Array accepts arrays whose elements all satisfy elem.
func Array(elem Rule) Rule {
	r := newRule(KindArray)
	r.elem = &elem
	return r
}

// Kind reports the accepted type.
func (r Rule) Kind() Kind { return r.kind }

// IsRequired reports whether the value must be present.
func (r Rule) IsRequired() bool { return r.required }

// Fields returns a copy of the object fields.
func (r Rule) Fields() []Field { return slices.Clone(r.fields) }

// Required marks the value as mandatory.
func (r Rule) Required() Rule {
	r.required = true
	return r
}

// Optional undoes Required.
func (r Rule) Optional() Rule {
	r.required = false
	return r
}

// Default sets the value used when the key is absent. It implies Optional.
func (r Rule) Default(v any) Rule {
	r.required = false
	r.hasDefault = true
	r.def = v
	return r
}

// Nullable accepts JSON null.
func (r Rule) Nullable() Rule {
	r.nullable = true
	return r
}

// AllowEmpty accepts "" for string rules.
func (r Rule) AllowEmpty() Rule {
	r.allowEmpty = true
	return r
}

// Trim strips surrounding whitespace before any other string check.
func (r Rule) Trim() Rule {
	r.trim = true
	return r
}

// Uppercase converts strings to upper case.
func (r Rule) Uppercase() Rule {
	r.caseMode = caseUpper
	return r
}

// Lowercase converts strings to lower case.
func (r Rule) Lowercase() Rule {
	r.caseMode = caseLower
	return r
}

// Min is a lower bound: characters for strings, value for numbers, items
// for arrays.
func (r Rule) Min(n float64) Rule {
	r.hasMin = true
	r.min = n
	return r
}

// Max is an upper bound: characters for strings, value for numbers, items
// for arrays.
func (r Rule) Max(n float64) Rule {
	r.hasMax = true
	r.max = n
	return r
}

// Length requires an exact string or array length.
func (r Rule) Length(n int) Rule {
	r.length = n
	return r
}

// Positive requires a number strictly greater than zero.
func (r Rule) Positive() Rule {
	r.positive = true
	return r
}

// Integer rejects numbers with a fractional part.
func (r Rule) Integer() Rule {
	r.integer = true
	return r
}

// Pattern requires strings to match re.
func (r Rule) Pattern(re *regexp.Regexp) Rule {
	r.pattern = re
	return r
}

// Email requires a plausible e-mail address.
func (r Rule) Email() Rule {
	r.email = true
	return r
}

// Valid restricts the value to the listed options.
func (r Rule) Valid(values ...any) Rule {
	r.valid = slices.Clone(values)
	return r
}

// Custom adds a predicate evaluated after the built-in checks. The code
// identifies it for Message overrides.
func (r Rule) Custom(code, message string, fn func(v any) bool) Rule {
	r.checks = append(slices.Clip(r.checks), Check{Code: code, Message: message, Fn: fn})
	return r
}

// Message overrides the text reported for one failure code, e.g.
// "required", "type", "empty", "min", "max", "length", "pattern",
// "email", "integer", "positive", "valid" or a Custom code.
func (r Rule) Message(code, text string) Rule {
	m := maps.Clone(r.messages)
	if m == nil {
		m = make(map[string]string, 1)
	}
	m[code] = text
	r.messages = m
	return r
}
