package entity

import (
	"encoding/gob"
	"os"

	"github.com/rotisserie/eris"

	"github.com/moefra/zako/pkg/kind"
	"github.com/moefra/zako/pkg/pattern"
)

// record mirrors Entity with exported fields for gob.
type record struct {
	Kind        kind.Kind
	Name        string
	Description string
	Meta        Meta
	Builds      pattern.Pattern
	Rules       pattern.Pattern
	Toolchains  pattern.Pattern
	Options     []Option
}

func init() {
	gob.Register(record{})
}

// WriteEntities stores the entities produced by the evaluation of script in
// file so the host engine can pick them up later.
func WriteEntities(file, script string, entities []Entity) error {
	handle, err := os.Create(file)
	if err != nil {
		return eris.Wrapf(err, "failed to create %s", file)
	}
	defer handle.Close()

	records := make([]record, len(entities))
	for idx, e := range entities {
		records[idx] = record{
			Kind:        e.kind,
			Name:        e.name,
			Description: e.description,
			Meta:        e.meta,
			Builds:      e.builds,
			Rules:       e.rules,
			Toolchains:  e.toolchains,
			Options:     e.options,
		}
	}

	encoder := gob.NewEncoder(handle)
	err = encoder.Encode(script)
	if err != nil {
		return eris.Wrap(err, "failed to encode script name")
	}

	err = encoder.Encode(records)
	if err != nil {
		return eris.Wrap(err, "failed to encode entities")
	}
	return handle.Close()
}

// ReadEntities loads a file written by WriteEntities and returns the script
// name and its entities.
func ReadEntities(file string) (string, []Entity, error) {
	handle, err := os.Open(file)
	if err != nil {
		return "", nil, eris.Wrapf(err, "failed to open %s", file)
	}
	defer handle.Close()

	decoder := gob.NewDecoder(handle)

	var script string
	err = decoder.Decode(&script)
	if err != nil {
		return "", nil, eris.Wrap(err, "failed to decode script name")
	}

	var records []record
	err = decoder.Decode(&records)
	if err != nil {
		return script, nil, eris.Wrap(err, "failed to decode entities")
	}

	result := make([]Entity, len(records))
	for idx, r := range records {
		result[idx] = Entity{
			kind:        r.Kind,
			name:        r.Name,
			description: r.Description,
			meta:        r.Meta,
			builds:      r.Builds,
			rules:       r.Rules,
			toolchains:  r.Toolchains,
			options:     r.Options,
		}
	}
	return script, result, nil
}
