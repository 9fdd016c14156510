package commands

import (
	"errors"
	"fmt"
	"os"

	"itchscratch/cmd/itchscratch/globals"
	"itchscratch/cmd/itchscratch/utils"
	"itchscratch/lib/gamestore"
	"itchscratch/lib/scrapers/itch/view"
	"itchscratch/lib/serviceutil"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var scratchCmd = &cobra.Command{
	Use:   "scratch",
	Short: "Look a game up and download it, or open its page to claim it.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		value := globals.Get(ctx)

		if scratchTitle == "" {
			cmd.Help()
			return
		}

		store, database, err := value.OpenStore()
		if err != nil {
			serviceutil.Fatal("failed to open database", err)
		}
		game, err := store.GetByTitle(ctx, scratchTitle)
		database.Close()
		if errors.Is(err, gamestore.ErrGameNotFound) {
			fmt.Println("game not found")
			return
		}
		if err != nil {
			serviceutil.Fatal("failed to query game", err)
		}
		utils.GameTable(game).Render()

		if game.DLPage == "" || game.DLPage == view.Unclaimed {
			fmt.Println("This game is unclaimed and does not have a download page.")
			idx, err := utils.Choose(
				os.Stdin, os.Stdout,
				"What would you like to do?",
				[]string{"Open the game page to claim it", "Browse itch.io for more games", "Nothing"},
				promptAttempts,
			)
			if err != nil {
				serviceutil.Fatal("no option chosen", err)
			}
			switch idx {
			case 0:
				if game.HomePage == "" {
					fmt.Println("no home page is known for this game")
					return
				}
				openBrowser(game.HomePage)
			case 1:
				openBrowser(value.Config.BaseUrl)
			}
			return
		}

		idx, err := utils.Choose(
			os.Stdin, os.Stdout,
			"Download every file or pick one?",
			[]string{"all", "select"},
			promptAttempts,
		)
		if err != nil {
			serviceutil.Fatal("no option chosen", err)
		}
		err = download(ctx, value, downloadParams{
			PageUrl: game.DLPage,
			Key:     game.Key,
			Dest:    scratchDir,
			All:     idx == 0,
		})
		if err != nil {
			serviceutil.Fatal("download failed", err)
		}
	},
}

func openBrowser(target string) {
	fmt.Println("opening", target)
	err := browser.OpenURL(target)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to open browser:", err)
	}
}

var (
	scratchDir   string
	scratchTitle string
)

func init() {
	scratchCmd.Flags().StringVar(&scratchDir, "dir", "", "directory the files are written to")
	scratchCmd.Flags().StringVar(&scratchTitle, "title", "", "title of the game")
	scratchCmd.MarkFlagRequired("dir")
	rootCmd.AddCommand(scratchCmd)
}
