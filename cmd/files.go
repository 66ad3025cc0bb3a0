package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/moefra/zako/pkg/pattern"
)

var filesCmd = &cobra.Command{
	Use:   "files <file>",
	Short: "List the files selected by the patterns of each declared entity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := evaluateFile(commandContext(cmd), args[0])
		if err != nil {
			return err
		}

		base := filepath.Dir(args[0])
		for _, e := range result.Entities {
			fmt.Printf("%s %s:\n", e.Kind(), e.Name())

			for _, field := range []struct {
				name  string
				value pattern.Pattern
			}{
				{"builds", e.Builds()},
				{"rules", e.Rules()},
				{"toolchains", e.Toolchains()},
			} {
				if field.value.IsZero() {
					continue
				}

				files, err := pattern.Resolve(base, field.value)
				if err != nil {
					return err
				}

				fmt.Printf("  %s:\n", field.name)
				for _, file := range files {
					fmt.Printf("   * %s\n", file)
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(filesCmd)
}
