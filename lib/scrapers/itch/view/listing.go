package view

import (
	"context"
	"log/slog"
	"strings"

	"itchscratch/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
)

const (
	Unclaimed     = "UNCLAIMED"
	NoDownloadUrl = "No download URL"
	NoImage       = "No image available"
	NoFiles       = "No files"
	NoDescription = "No description"
)

// ListingGame holds the fields of a single row of a bundle listing page.
type ListingGame struct {
	Title     string
	Developer string
	// href of the title, the game page or its download page
	Link      string
	ImageURL  string
	FileCount string
	// platform names in display order, "Browser" last if present
	Platforms   []string
	Description string

	// Download is the download button href, or Unclaimed / NoDownloadUrl
	Download string
	// HomePage and Key are only set for claimed games, Key is Unclaimed
	// otherwise.
	HomePage string
	Key      string
	DLPage   string
}

func (g ListingGame) Claimed() bool {
	return g.Key != Unclaimed
}

// DetailUrl is where the game's info panel can be found.
func (g ListingGame) DetailUrl() string {
	if g.HomePage != "" {
		return g.HomePage
	}
	return g.Link
}

// GameListing is an insertion ordered mapping of title to row, a title
// seen again replaces the earlier row in place.
type GameListing struct {
	order []string
	games map[string]ListingGame
}

func NewGameListing() *GameListing {
	return &GameListing{games: map[string]ListingGame{}}
}

func (l *GameListing) Set(game ListingGame) {
	if _, ok := l.games[game.Title]; !ok {
		l.order = append(l.order, game.Title)
	}
	l.games[game.Title] = game
}

func (l *GameListing) Get(title string) (ListingGame, bool) {
	game, ok := l.games[title]
	return game, ok
}

func (l *GameListing) Len() int {
	if l == nil {
		return 0
	}
	return len(l.order)
}

func (l *GameListing) Games() []ListingGame {
	if l == nil {
		return nil
	}
	out := make([]ListingGame, len(l.order))
	for i, title := range l.order {
		out[i] = l.games[title]
	}
	return out
}

func ExtractGames(ctx context.Context, doc *goquery.Document) *GameListing {
	ctx, span := tracer.Start(ctx, "ExtractGames")
	defer span.End()

	listing := NewGameListing()
	rows := doc.Find(".game_row")
	span.SetAttributes(attribute.Int("rows", rows.Length()))
	slog.InfoContext(ctx, "games in current batch", "count", rows.Length())

	rows.Each(func(i int, row *goquery.Selection) {
		game, ok := extractGameRow(row)
		if !ok {
			slog.WarnContext(ctx, "skipping game row without a title", "row", i)
			return
		}
		listing.Set(game)
	})

	return listing
}

func extractGameRow(row *goquery.Selection) (ListingGame, bool) {
	titleLink := row.Find(".game_title a").First()
	title := strings.TrimSpace(titleLink.Text())
	if titleLink.Length() == 0 || title == "" {
		return ListingGame{}, false
	}

	game := ListingGame{
		Title:       title,
		Developer:   strings.TrimSpace(row.Find(".game_author a").First().Text()),
		Link:        titleLink.AttrOr("href", ""),
		ImageURL:    row.Find(".game_thumb").First().AttrOr("data-background_image", NoImage),
		FileCount:   NoFiles,
		Description: NoDescription,
		Key:         Unclaimed,
		DLPage:      Unclaimed,
	}

	fileCount := row.Find(".file_count").First()
	if fileCount.Length() > 0 {
		game.FileCount = textutil.FirstField(fileCount.Text())
	}
	shortText := row.Find(".game_short_text").First()
	if shortText.Length() > 0 {
		game.Description = strings.TrimSpace(shortText.Text())
	}

	game.Platforms = extractPlatforms(row)

	downloadBtn := row.Find("a.game_download_btn").First()
	if downloadBtn.Length() > 0 {
		game.Download = downloadBtn.AttrOr("href", "")
		if strings.Contains(game.Download, "download") {
			homePage, key, found := strings.Cut(game.Download, "/download/")
			if found {
				game.HomePage = homePage
				game.Key = key
				game.DLPage = game.Download
			}
		}
	} else if row.Find(`form button[name="action"][value="claim"]`).Length() > 0 {
		game.Download = Unclaimed
	} else {
		game.Download = NoDownloadUrl
	}

	return game, true
}

func extractPlatforms(row *goquery.Selection) []string {
	platforms := []string{}
	row.Find(".meta_row span[title]").Each(func(_ int, span *goquery.Selection) {
		title := span.AttrOr("title", "")
		platforms = append(platforms, strings.ReplaceAll(title, "Available for ", ""))
	})

	playable := false
	row.Find(".button_row").First().Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		playable = textutil.ContainsAll(a.Text(), "play", "browser")
		return !playable
	})
	if playable {
		platforms = append(platforms, "Browser")
	}
	return platforms
}
