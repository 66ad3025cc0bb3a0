package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moefra/zako/pkg/kind"
	"github.com/moefra/zako/pkg/modules"
)

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "Print which virtual modules each kind of script may load",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		maxNameLen := 0
		for _, k := range kind.All {
			if len(k) > maxNameLen {
				maxNameLen = len(k)
			}
		}

		lineFmt := fmt.Sprintf(" * %%-%ds %%s\n", maxNameLen+3)
		for _, k := range kind.All {
			names := modules.AllowedFor(k)
			for idx, name := range names {
				names[idx] = modules.Prefix + name
			}
			fmt.Printf(lineFmt, string(k)+":", strings.Join(names, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(kindsCmd)
}
