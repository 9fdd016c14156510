package commands

import (
	"fmt"

	"itchscratch/cmd/itchscratch/globals"
	"itchscratch/lib/serviceutil"

	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Create or reset the game database.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		value := globals.Get(ctx)

		if dbClean {
			if !value.Config.Database.Exists() {
				fmt.Println("no database at", value.Config.Database.File)
				return
			}
			store, database, err := value.OpenStore()
			if err != nil {
				serviceutil.Fatal("failed to open database", err)
			}
			count, err := store.CountRows(ctx)
			database.Close()
			if err != nil {
				serviceutil.Fatal("failed to count rows", err)
			}
			fmt.Printf("removing %d games\n", count)
		}

		if dbInit || dbClean {
			err := resetDatabase(ctx, value)
			if err != nil {
				serviceutil.Fatal("failed to reset database", err)
			}
			fmt.Println("initialized", value.Config.Database.File)
			return
		}

		store, database, err := value.OpenStore()
		if err != nil {
			serviceutil.Fatal("failed to open database", err)
		}
		defer database.Close()
		err = store.EnsureSchema(ctx)
		if err != nil {
			serviceutil.Fatal("failed to create game table", err)
		}
		count, err := store.CountRows(ctx)
		if err != nil {
			serviceutil.Fatal("failed to count rows", err)
		}
		fmt.Printf("%s: %d games\n", value.Config.Database.File, count)
	},
}

var (
	dbInit  bool
	dbClean bool
)

func init() {
	dbCmd.Flags().BoolVar(&dbInit, "init", false, "drop every stored game and recreate the table")
	dbCmd.Flags().BoolVar(&dbClean, "clean", false, "print how many games are stored, then drop them")
	rootCmd.AddCommand(dbCmd)
}
