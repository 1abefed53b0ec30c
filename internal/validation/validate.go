package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"net/mail"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// FieldError is one violation. Field is the dotted path of the offending
// value, e.g. "endereco.cidade" or "itens.0.quantidade".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"-"`
}

// Errors is the ordered list of violations of a single validation run.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return "validation: " + strings.Join(msgs, "; ")
}

// Result is the outcome of Validate. Value holds the coerced data with
// undeclared keys removed; it is only meaningful when Errors is empty.
type Result struct {
	Value  any
	Errors Errors
}

// OK reports whether validation succeeded.
func (r Result) OK() bool { return len(r.Errors) == 0 }

// Validate checks input against rule, collecting every violation.
func Validate(rule Rule, input any) Result {
	v := &validator{}
	out, _ := v.check(rule, nil, input, true)
	if len(v.errs) > 0 {
		return Result{Errors: v.errs}
	}
	return Result{Value: out}
}

type validator struct {
	errs Errors
}

func (v *validator) fail(r Rule, path []string, code string, args ...any) {
	label := labelOf(path)
	msg, ok := r.messages[code]
	if !ok {
		msg = defaultMessage(r.kind, code, label, args...)
	}
	v.errs = append(v.errs, FieldError{Field: strings.Join(path, "."), Message: msg, Code: code})
}

func labelOf(path []string) string {
	if len(path) == 0 {
		return "value"
	}
	return strings.Join(path, ".")
}

// check validates one value. present is false when the key was absent from
// its parent object. The second return says whether the key belongs in the
// output.
func (v *validator) check(r Rule, path []string, val any, present bool) (any, bool) {
	if !present {
		switch {
		case r.required:
			v.fail(r, path, "required")
		case r.hasDefault:
			return v.check(r, path, cloneJSON(r.def), true)
		}
		return nil, false
	}

	if val == nil {
		if r.nullable {
			return nil, true
		}
		v.fail(r, path, "type")
		return nil, true
	}

	switch r.kind {
	case KindString:
		return v.checkString(r, path, val), true
	case KindNumber:
		return v.checkNumber(r, path, val), true
	case KindBoolean:
		return v.checkBoolean(r, path, val), true
	case KindObject:
		return v.checkObject(r, path, val), true
	case KindArray:
		return v.checkArray(r, path, val), true
	default:
		v.runCustom(r, path, val)
		return val, true
	}
}

func (v *validator) checkString(r Rule, path []string, val any) any {
	s, ok := val.(string)
	if !ok {
		v.fail(r, path, "type")
		return val
	}
	if r.trim {
		s = strings.TrimSpace(s)
	}
	switch r.caseMode {
	case caseUpper:
		s = strings.ToUpper(s)
	case caseLower:
		s = strings.ToLower(s)
	}

	if s == "" {
		if !r.allowEmpty {
			v.fail(r, path, "empty")
		}
		return s
	}

	n := utf8.RuneCountInString(s)
	if r.length >= 0 && n != r.length {
		v.fail(r, path, "length", r.length)
	}
	if r.hasMin && float64(n) < r.min {
		v.fail(r, path, "min", r.min)
	}
	if r.hasMax && float64(n) > r.max {
		v.fail(r, path, "max", r.max)
	}
	if r.pattern != nil && !r.pattern.MatchString(s) {
		v.fail(r, path, "pattern", r.pattern.String())
	}
	if r.email && !validEmail(s) {
		v.fail(r, path, "email")
	}
	v.checkValid(r, path, s)
	v.runCustom(r, path, s)
	return s
}

func (v *validator) checkNumber(r Rule, path []string, val any) any {
	f, ok := toFloat(val)
	if !ok {
		v.fail(r, path, "type")
		return val
	}

	if r.integer && f != math.Trunc(f) {
		v.fail(r, path, "integer")
	}
	if r.hasMin && f < r.min {
		v.fail(r, path, "min", r.min)
	}
	if r.hasMax && f > r.max {
		v.fail(r, path, "max", r.max)
	}
	if r.positive && f <= 0 {
		v.fail(r, path, "positive")
	}
	v.checkValid(r, path, f)
	v.runCustom(r, path, f)
	return f
}

func (v *validator) checkBoolean(r Rule, path []string, val any) any {
	var b bool
	switch t := val.(type) {
	case bool:
		b = t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true":
			b = true
		case "false":
			b = false
		default:
			v.fail(r, path, "type")
			return val
		}
	default:
		v.fail(r, path, "type")
		return val
	}
	v.checkValid(r, path, b)
	v.runCustom(r, path, b)
	return b
}

func (v *validator) checkObject(r Rule, path []string, val any) any {
	obj, ok := val.(map[string]any)
	if !ok {
		v.fail(r, path, "type")
		return val
	}

	out := make(map[string]any, len(r.fields))
	for _, f := range r.fields {
		child, present := obj[f.Name]
		if cv, keep := v.check(f.Rule, appendPath(path, f.Name), child, present); keep {
			out[f.Name] = cv
		}
	}
	v.runCustom(r, path, out)
	return out
}

func (v *validator) checkArray(r Rule, path []string, val any) any {
	arr, ok := val.([]any)
	if !ok {
		v.fail(r, path, "type")
		return val
	}

	n := len(arr)
	if r.length >= 0 && n != r.length {
		v.fail(r, path, "length", r.length)
	}
	if r.hasMin && float64(n) < r.min {
		v.fail(r, path, "min", r.min)
	}
	if r.hasMax && float64(n) > r.max {
		v.fail(r, path, "max", r.max)
	}

	out := make([]any, 0, n)
	for i, item := range arr {
		if r.elem == nil {
			out = append(out, item)
			continue
		}
		cv, _ := v.check(*r.elem, appendPath(path, strconv.Itoa(i)), item, true)
		out = append(out, cv)
	}
	v.runCustom(r, path, out)
	return out
}

func (v *validator) checkValid(r Rule, path []string, val any) {
	if len(r.valid) == 0 {
		return
	}
	for _, allowed := range r.valid {
		if equalScalar(allowed, val) {
			return
		}
	}
	v.fail(r, path, "valid", r.valid)
}

func (v *validator) runCustom(r Rule, path []string, val any) {
	for _, c := range r.checks {
		if c.Fn(val) {
			continue
		}
		label := labelOf(path)
		msg, ok := r.messages[c.Code]
		if !ok {
			msg = c.Message
			if msg == "" {
				msg = fmt.Sprintf("%q is invalid", label)
			}
		}
		v.errs = append(v.errs, FieldError{Field: strings.Join(path, "."), Message: msg, Code: c.Code})
	}
}

func appendPath(path []string, elem string) []string {
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = elem
	return out
}

// toFloat converts JSON numbers and, in convert mode, numeric strings.
func toFloat(val any) (float64, bool) {
	var f float64
	switch t := val.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case int32:
		f = float64(t)
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func equalScalar(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		if _, isStr := b.(string); !isStr {
			fb, ok := toFloat(b)
			return ok && fa == fb
		}
	}
	return reflect.DeepEqual(a, b)
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	return at > 0 && strings.Contains(s[at+1:], ".")
}

// cloneJSON copies maps and slices so defaults are never shared between
// results.
func cloneJSON(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneJSON(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneJSON(e)
		}
		return out
	default:
		return v
	}
}
