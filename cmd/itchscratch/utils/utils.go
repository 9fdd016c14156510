package utils

import (
	"os"
	"sort"

	"itchscratch/lib/gamestore"
	"itchscratch/lib/textutil"

	"github.com/antzucaro/matchr"
	"github.com/jedib0t/go-pretty/v6/table"
)

func NewTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

// GameTable renders a game as a two column field/value table, empty fields
// are left out.
func GameTable(game gamestore.Game) table.Writer {
	t := NewTable()
	t.SetTitle(game.Title)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 80},
	})
	columns, values := game.Fields()
	for i, col := range columns {
		if values[i] == "" {
			continue
		}
		t.AppendRow(table.Row{col, values[i]})
	}
	return t
}

const suggestionThreshold = 0.8

// Suggest returns up to `limit` titles that are similar to `title` or
// contain it, best match first. Case and whitespace are ignored.
func Suggest(title string, titles []string, limit int) []string {
	type scored struct {
		title string
		score float64
	}

	query := textutil.NormalizeName(title)
	var matches []scored
	for _, t := range titles {
		score := matchr.JaroWinkler(query, textutil.NormalizeName(t), false)
		if score < suggestionThreshold && textutil.MatchName(t, []string{query}) {
			score = suggestionThreshold
		}
		if score < suggestionThreshold {
			continue
		}
		matches = append(matches, scored{title: t, score: score})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	out := []string{}
	for i := 0; i < len(matches) && i < limit; i++ {
		out = append(out, matches[i].title)
	}
	return out
}
