package cmd

import (
	"fmt"
	"os"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var checkCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Evaluate every script below a directory",
	Long: `This command looks for zako scripts below the given directory (or the current
one), evaluates them concurrently and reports every script that failed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}

		showProgress, err := cmd.Flags().GetBool("progress")
		if err != nil {
			return err
		}

		scripts, err := findScripts(dir)
		if err != nil {
			return err
		}

		if len(scripts) == 0 {
			logger.Warn().Msgf("No scripts found in %s", dir)
			return nil
		}

		bar := progressbar.NewOptions64(int64(len(scripts)),
			progressbar.OptionSetDescription("checking"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionSetVisibility(showProgress),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprint(os.Stderr, "\n")
			}),
		)

		ctx := commandContext(cmd)
		lock := sync.Mutex{}
		failed := 0

		var group errgroup.Group
		group.SetLimit(cfg.Engine.Workers)
		for _, script := range scripts {
			group.Go(func() error {
				result, err := evaluateFile(ctx, script)

				lock.Lock()
				defer lock.Unlock()

				if err != nil {
					failed++
					logger.Error().Err(err).Str("script", script).Msg("check failed")
				} else {
					logger.Debug().Str("script", script).Msgf("declares %d entities", len(result.Entities))
				}

				_ = bar.Add(1)
				return nil
			})
		}

		// the workers never return errors
		_ = group.Wait()

		if failed > 0 {
			return eris.Errorf("%d of %d scripts failed", failed, len(scripts))
		}

		logger.Info().Msgf("%d scripts passed", len(scripts))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolP("progress", "p", false, "show a progress bar")
}
