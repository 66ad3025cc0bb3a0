package entity

import (
	"fmt"

	"github.com/moefra/zako/pkg/id"
	"github.com/moefra/zako/pkg/kind"
	"github.com/moefra/zako/pkg/pattern"
	"github.com/moefra/zako/pkg/rt"
)

// Declaration contains the values a script passed to project(), build(),
// rule() or toolchain().
type Declaration struct {
	Kind        kind.Kind
	Name        string
	Description string
	// Meta is only used by projects
	Meta       Meta
	Builds     pattern.Pattern
	Rules      pattern.Pattern
	Toolchains pattern.Pattern
	Options    []Option
}

// Builder is a declared entity. Its pattern fields grow through AddBuild,
// AddRule and AddToolchain; its options are fixed by Declare.
type Builder struct {
	kind        kind.Kind
	name        string
	description string
	meta        Meta
	builds      pattern.Pattern
	rules       pattern.Pattern
	toolchains  pattern.Pattern
	options     []Option
	sealed      bool
	frozen      bool
}

// Declare validates decl and returns a builder for it.
func Declare(decl Declaration) (*Builder, error) {
	b := &Builder{
		kind:        decl.Kind,
		name:        decl.Name,
		description: decl.Description,
		builds:      pattern.Merge(pattern.Pattern{}, decl.Builds),
		rules:       pattern.Merge(pattern.Pattern{}, decl.Rules),
		toolchains:  pattern.Merge(pattern.Pattern{}, decl.Toolchains),
	}

	switch decl.Kind {
	case kind.Project:
		if decl.Meta.Group == "" || decl.Meta.Artifact == "" || decl.Meta.Version == "" {
			return nil, rt.Runtimef("a project needs a group, an artifact and a version")
		}
		b.meta = decl.Meta.clone()
		b.name = id.ArtifactID{Group: decl.Meta.Group, Artifact: decl.Meta.Artifact}.String()
	case kind.Build, kind.Rule, kind.Toolchain:
		if decl.Name == "" {
			return nil, rt.Runtimef("%s declarations need a name", decl.Kind)
		}
	default:
		return nil, rt.Runtimef("%s scripts can't declare entities", decl.Kind)
	}

	seen := make(map[string]bool, len(decl.Options))
	b.options = make([]Option, len(decl.Options))
	for idx, option := range decl.Options {
		if seen[option.Name] {
			return nil, rt.Runtimef("option %s was declared twice for %s", option.Name, b.name)
		}
		seen[option.Name] = true
		b.options[idx] = option
	}

	return b, nil
}

func (b *Builder) Kind() kind.Kind {
	return b.kind
}

func (b *Builder) Name() string {
	return b.name
}

// Options returns a copy of the options fixed at declaration.
func (b *Builder) Options() []Option {
	return cloneOptions(b.options)
}

func (b *Builder) Builds() pattern.Pattern {
	return pattern.Merge(pattern.Pattern{}, b.builds)
}

func (b *Builder) Rules() pattern.Pattern {
	return pattern.Merge(pattern.Pattern{}, b.rules)
}

func (b *Builder) Toolchains() pattern.Pattern {
	return pattern.Merge(pattern.Pattern{}, b.toolchains)
}

func (b *Builder) AddBuild(p pattern.Pattern) error {
	return b.add(&b.builds, p)
}

func (b *Builder) AddRule(p pattern.Pattern) error {
	return b.add(&b.rules, p)
}

func (b *Builder) AddToolchain(p pattern.Pattern) error {
	return b.add(&b.toolchains, p)
}

func (b *Builder) add(field *pattern.Pattern, p pattern.Pattern) error {
	if b.sealed || b.frozen {
		return rt.Runtimef("%s can't be modified after the script finished", b.label())
	}

	*field = pattern.Merge(*field, p)
	return nil
}

// Finalize seals the builder and returns the resulting entity. Every later
// mutation fails; calling Finalize again returns an equal entity.
func (b *Builder) Finalize() Entity {
	b.sealed = true

	return Entity{
		kind:        b.kind,
		name:        b.name,
		description: b.description,
		meta:        b.meta.clone(),
		builds:      b.Builds(),
		rules:       b.Rules(),
		toolchains:  b.Toolchains(),
		options:     b.Options(),
	}
}

func (b *Builder) label() string {
	if b.kind == kind.Project {
		return fmt.Sprintf("project %s@%s", b.name, b.meta.Version)
	}
	return fmt.Sprintf("%s %s", b.kind, b.name)
}

func cloneOptions(options []Option) []Option {
	result := make([]Option, len(options))
	copy(result, options)
	return result
}

// Entity is a finalized declaration. It can't be modified; every accessor
// returns a copy.
type Entity struct {
	kind        kind.Kind
	name        string
	description string
	meta        Meta
	builds      pattern.Pattern
	rules       pattern.Pattern
	toolchains  pattern.Pattern
	options     []Option
}

func (e Entity) Kind() kind.Kind {
	return e.kind
}

// Name is "group:artifact" for projects and the declared name otherwise.
func (e Entity) Name() string {
	return e.name
}

func (e Entity) Description() string {
	return e.description
}

// Meta returns the project metadata; it is empty for other kinds.
func (e Entity) Meta() Meta {
	return e.meta.clone()
}

func (e Entity) Builds() pattern.Pattern {
	return pattern.Merge(pattern.Pattern{}, e.builds)
}

func (e Entity) Rules() pattern.Pattern {
	return pattern.Merge(pattern.Pattern{}, e.rules)
}

func (e Entity) Toolchains() pattern.Pattern {
	return pattern.Merge(pattern.Pattern{}, e.toolchains)
}

func (e Entity) Options() []Option {
	return cloneOptions(e.options)
}
