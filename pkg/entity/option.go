package entity

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/moefra/zako/pkg/rt"
)

// Option is a declared build option. Default is a string, bool, int64 or nil.
type Option struct {
	Name    string
	Default interface{}
	Help    string
}

// NewOption converts the values passed to option() by a script.
func NewOption(name string, defaultValue starlark.Value, help string) (Option, error) {
	if name == "" {
		return Option{}, rt.Runtimef("option names must not be empty")
	}

	result := Option{Name: name, Help: help}
	switch value := defaultValue.(type) {
	case nil, starlark.NoneType:
	case starlark.String:
		result.Default = value.GoString()
	case starlark.Bool:
		result.Default = bool(value)
	case starlark.Int:
		number, ok := value.Int64()
		if !ok {
			return Option{}, rt.Runtimef("default value of option %s is out of range", name)
		}
		result.Default = number
	default:
		return Option{}, rt.Runtimef("default value of option %s must be a string, bool, int or None but is a %s", name, defaultValue.Type())
	}
	return result, nil
}

func (o Option) defaultValue() starlark.Value {
	switch value := o.Default.(type) {
	case string:
		return starlark.String(value)
	case bool:
		return starlark.Bool(value)
	case int64:
		return starlark.MakeInt64(value)
	}
	return starlark.None
}

// OptionValue is the script representation of an Option.
type OptionValue struct {
	option Option
}

var (
	_ starlark.HasAttrs   = (*OptionValue)(nil)
	_ starlark.Comparable = (*OptionValue)(nil)
)

func NewOptionValue(option Option) *OptionValue {
	return &OptionValue{option: option}
}

// Option returns the wrapped declaration.
func (o *OptionValue) Option() Option {
	return o.option
}

func (o *OptionValue) String() string {
	return fmt.Sprintf("option(%q, default=%s)", o.option.Name, o.option.defaultValue().String())
}

func (o *OptionValue) Type() string {
	return "option"
}

// Freeze doesn't do anything since options are immutable anyway
func (o *OptionValue) Freeze() {}

func (o *OptionValue) Truth() starlark.Bool {
	return starlark.True
}

func (o *OptionValue) Hash() (uint32, error) {
	return starlark.String(o.option.Name).Hash()
}

func (o *OptionValue) Attr(name string) (starlark.Value, error) {
	switch name {
	case "name":
		return starlark.String(o.option.Name), nil
	case "default":
		return o.option.defaultValue(), nil
	case "help":
		return starlark.String(o.option.Help), nil
	}
	return nil, nil
}

func (o *OptionValue) AttrNames() []string {
	return []string{"default", "help", "name"}
}

func (o *OptionValue) CompareSameType(op syntax.Token, y_ starlark.Value, depth int) (bool, error) {
	y := y_.(*OptionValue)
	same := o.option == y.option

	switch op {
	case syntax.EQL:
		return same, nil
	case syntax.NEQ:
		return !same, nil
	}
	return false, rt.Runtimef("options only support == and !=")
}
