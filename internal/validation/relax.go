package validation

import (
	"fmt"
	"slices"
	"strings"
)

// Relax returns a copy of schema in which the named fields are optional.
// Nested fields use dotted paths ("endereco.cidade"). Constraints other than
// presence are kept, so a relaxed "valor_custo" still rejects negatives.
// Relax panics if a path does not name a declared field; schemas are built
// at init time, where a typo should fail loudly.
func Relax(schema Rule, fields ...string) Rule {
	for _, f := range fields {
		schema = relaxPath(schema, strings.Split(f, "."), f)
	}
	return schema
}

func relaxPath(r Rule, path []string, full string) Rule {
	if r.kind != KindObject {
		panic(fmt.Sprintf("validation: Relax(%q): not an object", full))
	}
	i := slices.IndexFunc(r.fields, func(f Field) bool { return f.Name == path[0] })
	if i < 0 {
		panic(fmt.Sprintf("validation: Relax(%q): unknown field %q", full, path[0]))
	}

	fields := slices.Clone(r.fields)
	if len(path) == 1 {
		fields[i].Rule = fields[i].Rule.Optional()
	} else {
		fields[i].Rule = relaxPath(fields[i].Rule, path[1:], full)
	}
	r.fields = fields
	return r
}
