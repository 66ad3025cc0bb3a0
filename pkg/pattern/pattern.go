// Package pattern implements the include/exclude file selection values used by
// entity builders and the left-biased merge operation over them.
package pattern

// Pattern is either a plain ordered list of globs (include only) or a structured
// include/exclude pair. The zero value is the empty plain list and stands in for
// an undefined pattern. A pattern carrying excludes is structured whether or
// not Structured is set.
type Pattern struct {
	Include    []string
	Exclude    []string
	Structured bool
}

// Globs returns a plain pattern.
func Globs(globs ...string) Pattern {
	return Pattern{Include: concat(globs)}
}

// IncludeExclude returns a structured pattern.
func IncludeExclude(include, exclude []string) Pattern {
	return Pattern{
		Include:    concat(include),
		Exclude:    concat(exclude),
		Structured: true,
	}
}

// IsStructured reports whether p is an include/exclude pair.
func (p Pattern) IsStructured() bool {
	return p.Structured || len(p.Exclude) > 0
}

// IsZero reports whether p is the undefined pattern.
func (p Pattern) IsZero() bool {
	return !p.IsStructured() && len(p.Include) == 0
}

// Merge appends addition to base. Two plain patterns concatenate into a plain
// pattern; as soon as one side is structured the result is structured, with
// includes and excludes concatenated separately (a plain operand only
// contributes includes). Duplicates and order are preserved and neither
// operand is modified.
func Merge(base, addition Pattern) Pattern {
	if !base.IsStructured() && !addition.IsStructured() {
		return Pattern{Include: concat(base.Include, addition.Include)}
	}

	return Pattern{
		Include:    concat(base.Include, addition.Include),
		Exclude:    concat(base.Exclude, addition.Exclude),
		Structured: true,
	}
}

func concat(lists ...[]string) []string {
	size := 0
	for _, list := range lists {
		size += len(list)
	}

	result := make([]string, 0, size)
	for _, list := range lists {
		result = append(result, list...)
	}
	return result
}
