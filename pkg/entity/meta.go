// Package entity implements the builder model for declared projects, build
// units, rules and toolchains. A Builder is returned to the script by
// Declare and stays mutable through its add_* methods until Finalize seals it
// into an Entity for the host engine.
package entity

import (
	"strings"

	"github.com/moefra/zako/pkg/rt"
)

// Author is a git style "name <email>" sign.
type Author struct {
	Name  string
	Email string
}

// ParseAuthor parses a "name <email>" string. Surrounding whitespace is
// ignored; the name and email must not be empty.
func ParseAuthor(text string) (Author, error) {
	parts := strings.Split(text, "<")
	if len(parts) != 2 {
		return Author{}, rt.Runtimef("invalid author %q, expected the form \"name <email>\"", text)
	}

	email := strings.TrimSpace(parts[1])
	if !strings.HasSuffix(email, ">") {
		return Author{}, rt.Runtimef("invalid author %q, the email must be closed with '>'", text)
	}

	author := Author{
		Name:  strings.TrimSpace(parts[0]),
		Email: strings.TrimSpace(strings.TrimSuffix(email, ">")),
	}
	if author.Name == "" || !strings.Contains(author.Email, "@") {
		return Author{}, rt.Runtimef("invalid author %q, expected the form \"name <email>\"", text)
	}
	return author, nil
}

func (a Author) String() string {
	return a.Name + " <" + a.Email + ">"
}

// Meta identifies a project. Group, Artifact and Version always come from the
// host package queries.
type Meta struct {
	Group       string
	Artifact    string
	Version     string
	Description string
	License     string
	Authors     []Author
}

func (m Meta) clone() Meta {
	result := m
	if m.Authors != nil {
		result.Authors = make([]Author, len(m.Authors))
		copy(result.Authors, m.Authors)
	}
	return result
}
