package validation

import (
	"fmt"
	"strconv"
	"strings"
)

func defaultMessage(kind Kind, code, label string, args ...any) string {
	q := strconv.Quote(label)
	switch code {
	case "required":
		return q + " is required"
	case "type":
		switch kind {
		case KindObject:
			return q + " must be of type object"
		case KindArray:
			return q + " must be an array"
		default:
			return q + " must be a " + kind.String()
		}
	case "empty":
		return q + " is not allowed to be empty"
	case "integer":
		return q + " must be an integer"
	case "positive":
		return q + " must be a positive number"
	case "email":
		return q + " must be a valid email"
	case "pattern":
		return fmt.Sprintf("%s fails to match the required pattern: %v", q, arg(args))
	case "valid":
		return fmt.Sprintf("%s must be one of %s", q, formatList(arg(args)))
	case "length":
		if kind == KindArray {
			return fmt.Sprintf("%s must contain %v items", q, arg(args))
		}
		return fmt.Sprintf("%s length must be %v characters long", q, arg(args))
	case "min":
		switch kind {
		case KindString:
			return fmt.Sprintf("%s length must be at least %v characters long", q, arg(args))
		case KindArray:
			return fmt.Sprintf("%s must contain at least %v items", q, arg(args))
		default:
			return fmt.Sprintf("%s must be greater than or equal to %v", q, arg(args))
		}
	case "max":
		switch kind {
		case KindString:
			return fmt.Sprintf("%s length must be less than or equal to %v characters long", q, arg(args))
		case KindArray:
			return fmt.Sprintf("%s must contain less than or equal to %v items", q, arg(args))
		default:
			return fmt.Sprintf("%s must be less than or equal to %v", q, arg(args))
		}
	}
	return q + " is invalid"
}

func arg(args []any) any {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func formatList(v any) string {
	items, ok := v.([]any)
	if !ok {
		return fmt.Sprint(v)
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprint(it)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
