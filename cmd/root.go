// Package cmd implements the zako command line interface.
package cmd

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/moefra/zako/pkg/config"
	"github.com/moefra/zako/pkg/engine"
)

var (
	cfg    *config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "zako",
	Short: "Evaluates zako build description scripts",
	Long: `This command evaluates zako.star, BUILD.star, *.rule.star, *.toolchain.star and
*.script.star files in the zako sandbox and prints the entities they declare.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFile, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}

		var files []string
		if configFile != "" {
			files = []string{configFile}
		}

		cfg, err = config.Load(files...)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("log-level") {
			cfg.Log.Level, _ = cmd.Flags().GetString("log-level")
		}
		if cmd.Flags().Changed("json") {
			cfg.Log.JSON, _ = cmd.Flags().GetBool("json")
		}
		if cmd.Flags().Changed("zako-version") {
			cfg.Engine.Version, _ = cmd.Flags().GetString("zako-version")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		if cfg.Log.JSON {
			logger = zerolog.New(os.Stderr)
		} else {
			logger = zerolog.New(newConsoleWriter(os.Stderr, true))
		}
		logger = logger.Level(cfg.LogLevel()).With().Timestamp().Logger()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to the zako.toml configuration file")
	rootCmd.PersistentFlags().String("log-level", "info", "minimum level of printed messages")
	rootCmd.PersistentFlags().Bool("json", false, "print log messages as JSON")
	rootCmd.PersistentFlags().String("zako-version", "", "zako version reported to scripts")

	zerolog.ErrorMarshalFunc = func(err error) interface{} {
		return eris.ToString(err, os.Getenv("ZAKO_DEBUG") != "")
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return engine.WithLogger(ctx, &logger)
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
