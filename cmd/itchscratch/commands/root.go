package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"itchscratch/cmd/itchscratch/globals"
	"itchscratch/lib/telemetry"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "itchscratch",
	Short: "itchscratch scrapes your itch.io bundles into a sqlite database.",

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config, err := globals.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("load config %s: %w", configPath, err)
		}
		if debug {
			config.Debug = true
		}
		if dbFile != "" {
			config.Database.File = dbFile
		}
		if baseUrl != "" {
			config.BaseUrl = baseUrl
		}

		closeLog = telemetry.InitSlog(telemetry.SlogOptions{
			Debug:  config.Debug,
			LogDir: config.LogDir,
		})

		tel, err := telemetry.SetupFromEnv(cmd.Context(), "itchscratch")
		if err != nil {
			slog.Warn("failed to setup telemetry", "err", err)
		}

		cmd.SetContext(globals.Set(cmd.Context(), &globals.Value{
			Config:    config,
			Telemetry: tel,
		}))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		value := globals.Get(cmd.Context())
		err := value.Telemetry.Shutdown(context.Background())
		if err != nil {
			slog.Warn("failed to shutdown telemetry", "err", err)
		}
		closeLog()
	},
}

var (
	configPath string
	debug      bool
	dbFile     string
	baseUrl    string

	closeLog = func() {}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json5", "path to the configuration file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dbFile, "db", "", "database file or libsql url, overrides the config")
	rootCmd.PersistentFlags().StringVar(&baseUrl, "base-url", "", "site base url, overrides the config")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
