package pattern

import (
	"github.com/rotisserie/eris"
	"go.starlark.net/starlark"
)

// FromStarlark converts a script value into a Pattern. Strings become a single
// element plain pattern, lists and tuples of strings become plain patterns and
// dicts with "include" and/or "exclude" keys become structured patterns.
// None yields the undefined pattern.
func FromStarlark(value starlark.Value, field string) (Pattern, error) {
	switch value := value.(type) {
	case nil, starlark.NoneType:
		return Pattern{}, nil
	case starlark.String:
		return Globs(value.GoString()), nil
	case *starlark.List, starlark.Tuple:
		globs, err := stringList(value.(starlark.Iterable), field)
		if err != nil {
			return Pattern{}, err
		}
		return Pattern{Include: globs}, nil
	case *starlark.Dict:
		result := Pattern{Structured: true, Include: []string{}, Exclude: []string{}}
		for _, item := range value.Items() {
			key, ok := starlark.AsString(item[0])
			if !ok {
				return Pattern{}, eris.Errorf("%s: pattern keys must be strings, got %s", field, item[0].Type())
			}

			iterable, ok := item[1].(starlark.Iterable)
			if !ok {
				return Pattern{}, eris.Errorf("%s.%s: expected a list of strings, got %s", field, key, item[1].Type())
			}

			globs, err := stringList(iterable, field+"."+key)
			if err != nil {
				return Pattern{}, err
			}

			switch key {
			case "include":
				result.Include = globs
			case "exclude":
				result.Exclude = globs
			default:
				return Pattern{}, eris.Errorf("%s: unexpected pattern key %q, only include and exclude are valid", field, key)
			}
		}
		return result, nil
	}

	return Pattern{}, eris.Errorf("%s: expected a string, a list of strings or an include/exclude dict, got %s", field, value.Type())
}

// ToStarlark converts p into a fresh script value. Mutating the returned value
// does not affect p.
func ToStarlark(p Pattern) starlark.Value {
	if !p.IsStructured() {
		return stringsToList(p.Include)
	}

	dict := starlark.NewDict(2)
	// SetKey on a fresh, unfrozen dict with string keys cannot fail
	_ = dict.SetKey(starlark.String("include"), stringsToList(p.Include))
	_ = dict.SetKey(starlark.String("exclude"), stringsToList(p.Exclude))
	return dict
}

func stringList(input starlark.Iterable, field string) ([]string, error) {
	result := []string{}
	iter := input.Iterate()
	defer iter.Done()

	var item starlark.Value
	for iter.Next(&item) {
		value, ok := item.(starlark.String)
		if !ok {
			return nil, eris.Errorf("expected all items in %s to be strings but found %s", field, item.Type())
		}
		result = append(result, value.GoString())
	}
	return result, nil
}

func stringsToList(items []string) *starlark.List {
	values := make([]starlark.Value, len(items))
	for idx, item := range items {
		values[idx] = starlark.String(item)
	}
	return starlark.NewList(values)
}
