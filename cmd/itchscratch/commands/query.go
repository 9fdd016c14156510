package commands

import (
	"errors"
	"fmt"
	"strings"

	"itchscratch/cmd/itchscratch/globals"
	"itchscratch/cmd/itchscratch/utils"
	"itchscratch/lib/gamestore"
	"itchscratch/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Look games up in the database.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		value := globals.Get(ctx)

		store, database, err := value.OpenStore()
		if err != nil {
			serviceutil.Fatal("failed to open database", err)
		}
		defer database.Close()

		switch {
		case queryTitle != "":
			game, err := store.GetByTitle(ctx, queryTitle)
			if errors.Is(err, gamestore.ErrGameNotFound) {
				fmt.Printf("no game titled '%s'\n", queryTitle)
				titles, err := store.Titles(ctx)
				if err != nil {
					serviceutil.Fatal("failed to list titles", err)
				}
				suggestions := utils.Suggest(queryTitle, titles, 3)
				if len(suggestions) > 0 {
					fmt.Printf("did you mean: %s\n", strings.Join(suggestions, ", "))
				}
				return
			}
			if err != nil {
				serviceutil.Fatal("failed to query game", err)
			}
			utils.GameTable(game).Render()

		case queryGenre != "":
			games, err := store.ByGenre(ctx, queryGenre)
			if err != nil {
				serviceutil.Fatal("failed to query genre", err)
			}
			t := utils.NewTable()
			t.SetTitle(fmt.Sprintf("Genre: %s (%d)", queryGenre, len(games)))
			t.AppendHeader(table.Row{"Title", "Developer", "Genre", "Stars", "Download"})
			for _, g := range games {
				t.AppendRow(table.Row{g.Title, g.Developer, g.Genre, g.Stars, g.Download})
			}
			t.Render()

		case querySql != "":
			res, err := store.Query(ctx, querySql)
			if err != nil {
				serviceutil.Fatal("failed to run query", err)
			}
			t := utils.NewTable()
			header := make(table.Row, len(res.Columns))
			for i, c := range res.Columns {
				header[i] = c
			}
			t.AppendHeader(header)
			for _, r := range res.Rows {
				row := make(table.Row, len(r))
				for i, v := range r {
					row[i] = v
				}
				t.AppendRow(row)
			}
			t.Render()

		case queryRows:
			count, err := store.CountRows(ctx)
			if err != nil {
				serviceutil.Fatal("failed to count rows", err)
			}
			fmt.Printf("%d games\n", count)

		default:
			cmd.Help()
		}
	},
}

var (
	queryTitle string
	queryGenre string
	querySql   string
	queryRows  bool
)

func init() {
	queryCmd.Flags().StringVar(&queryTitle, "title", "", "show every field of the game with this title")
	queryCmd.Flags().StringVar(&queryGenre, "genre", "", "list games whose genre contains this text")
	queryCmd.Flags().StringVar(&querySql, "sql", "", "run a raw sql statement")
	queryCmd.Flags().BoolVar(&queryRows, "rows", false, "print the number of stored games")
	queryCmd.MarkFlagsMutuallyExclusive("title", "genre", "sql", "rows")
	rootCmd.AddCommand(queryCmd)
}
