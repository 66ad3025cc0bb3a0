package cmd

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/moefra/zako/pkg/entity"
	"github.com/moefra/zako/pkg/pattern"
)

var evalCmd = &cobra.Command{
	Use:   "eval <file>",
	Short: "Evaluate a script and print the declared entities",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := cmd.Flags().GetString("out")
		if err != nil {
			return err
		}

		result, err := evaluateFile(commandContext(cmd), args[0])
		if err != nil {
			return err
		}

		if out != "" {
			err = entity.WriteEntities(out, args[0], result.Entities)
			if err != nil {
				return err
			}
			logger.Info().Str("script", args[0]).Msgf("wrote %d entities to %s", len(result.Entities), out)
			return nil
		}

		encoded, err := yaml.Marshal(entitiesOutput(result.Entities))
		if err != nil {
			return eris.Wrap(err, "failed to encode entities")
		}

		_, err = fmt.Fprint(os.Stdout, string(encoded))
		return err
	},
}

type optionOutput struct {
	Name    string      `yaml:"name"`
	Default interface{} `yaml:"default"`
	Help    string      `yaml:"help,omitempty"`
}

type entityOutput struct {
	Kind        string         `yaml:"kind"`
	Name        string         `yaml:"name"`
	Version     string         `yaml:"version,omitempty"`
	Description string         `yaml:"description,omitempty"`
	License     string         `yaml:"license,omitempty"`
	Authors     []string       `yaml:"authors,omitempty"`
	Builds      interface{}    `yaml:"builds,omitempty"`
	Rules       interface{}    `yaml:"rules,omitempty"`
	Toolchains  interface{}    `yaml:"toolchains,omitempty"`
	Options     []optionOutput `yaml:"options,omitempty"`
}

func patternOutput(p pattern.Pattern) interface{} {
	if p.IsZero() {
		return nil
	}

	if !p.IsStructured() {
		return p.Include
	}
	return map[string][]string{
		"include": p.Include,
		"exclude": p.Exclude,
	}
}

func entitiesOutput(entities []entity.Entity) []entityOutput {
	result := make([]entityOutput, len(entities))
	for idx, e := range entities {
		meta := e.Meta()
		item := entityOutput{
			Kind:        string(e.Kind()),
			Name:        e.Name(),
			Version:     meta.Version,
			Description: e.Description(),
			License:     meta.License,
			Builds:      patternOutput(e.Builds()),
			Rules:       patternOutput(e.Rules()),
			Toolchains:  patternOutput(e.Toolchains()),
		}

		for _, author := range meta.Authors {
			item.Authors = append(item.Authors, author.String())
		}

		for _, option := range e.Options() {
			item.Options = append(item.Options, optionOutput{
				Name:    option.Name,
				Default: option.Default,
				Help:    option.Help,
			})
		}
		result[idx] = item
	}
	return result
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringP("out", "o", "", "write the entities to this file instead of printing them")
}
