package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"itchscratch/cmd/itchscratch/globals"
	"itchscratch/cmd/itchscratch/utils"
	"itchscratch/lib/serviceutil"
	"itchscratch/services/importer"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the database and credentials, then import every bundle.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		value := globals.Get(ctx)

		if !ready(ctx, value) {
			idx, err := utils.Choose(
				os.Stdin, os.Stdout,
				"The database or credentials are missing.",
				[]string{"Initialize database and credentials", "Exit"},
				promptAttempts,
			)
			if err != nil {
				serviceutil.Fatal("no option chosen", err)
			}
			if idx == 1 {
				fmt.Println("exiting")
				return
			}
			err = initialize(ctx, value, true)
			if err != nil {
				serviceutil.Fatal("setup failed", err)
			}
			return
		}

		slog.InfoContext(ctx, "database and credentials are available")
		idx, err := utils.Choose(
			os.Stdin, os.Stdout,
			"What would you like to do?",
			[]string{"Show stored game count", "Reinitialize (this may take a few minutes)", "Exit"},
			promptAttempts,
		)
		if err != nil {
			serviceutil.Fatal("no option chosen", err)
		}
		switch idx {
		case 0:
			store, database, err := value.OpenStore()
			if err != nil {
				serviceutil.Fatal("failed to open database", err)
			}
			defer database.Close()
			count, err := store.CountRows(ctx)
			if err != nil {
				serviceutil.Fatal("failed to count rows", err)
			}
			fmt.Printf("%d games stored, use 'query' to look them up\n", count)
		case 1:
			if !utils.Confirm(os.Stdin, os.Stdout, "Reinitializing drops every stored game, continue?") {
				fmt.Println("cancelled")
				return
			}
			err = initialize(ctx, value, false)
			if err != nil {
				serviceutil.Fatal("setup failed", err)
			}
		case 2:
			fmt.Println("exiting")
		}
	},
}

// ready reports whether the database has a game table and credentials are
// stored.
func ready(ctx context.Context, value *globals.Value) bool {
	if !value.Config.Database.Exists() || !credentialsPresent(value) {
		return false
	}
	store, database, err := value.OpenStore()
	if err != nil {
		return false
	}
	defer database.Close()
	exists, err := store.TableExists(ctx)
	return err == nil && exists
}

func initialize(ctx context.Context, value *globals.Value, withLogin bool) error {
	err := resetDatabase(ctx, value)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "database initialized", "database", value.Config.Database.File)

	if withLogin {
		err = login(ctx, value, setupUsername, setupPassword)
		if err != nil {
			return err
		}
	}

	summary, err := runImport(ctx, value, importer.DefaultOptions())
	if err != nil {
		return err
	}
	printSummary(summary)
	return nil
}

var (
	setupUsername string
	setupPassword string
)

func init() {
	setupCmd.Flags().StringVar(&setupUsername, "username", "", "itch.io username or email")
	setupCmd.Flags().StringVar(&setupPassword, "password", "", "itch.io password")
	setupCmd.MarkFlagRequired("username")
	setupCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(setupCmd)
}
