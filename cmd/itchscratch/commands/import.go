package commands

import (
	"itchscratch/cmd/itchscratch/globals"
	"itchscratch/lib/serviceutil"
	"itchscratch/services/importer"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Walk every purchased bundle and store its games.",
	Long: `Walk every purchased bundle and store its games.

By default nothing is fetched when the database already has rows, run
'db --init' first or pass --force to append anyway.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		opts := importer.DefaultOptions()
		opts.SkipIfPopulated = !importForce

		summary, err := runImport(ctx, globals.Get(ctx), opts)
		if err != nil {
			serviceutil.Fatal("import failed", err)
		}
		printSummary(summary)
	},
}

var importForce bool

func init() {
	importCmd.Flags().BoolVar(&importForce, "force", false, "import even if the database already has rows")
	rootCmd.AddCommand(importCmd)
}
