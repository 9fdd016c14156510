package view

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"testing"

	_ "embed"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

//go:embed listing_page_test.html
var listingPageTest []byte

//go:embed bundles_page_test.html
var bundlesPageTest []byte

func parseFixture(t testing.TB, contents []byte) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(contents))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func parseString(t testing.TB, contents string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(contents))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestExtractGames(t *testing.T) {
	doc := parseFixture(t, listingPageTest)
	listing := ExtractGames(context.Background(), doc)

	expected := []ListingGame{
		{
			Title:       "A Short Hike",
			Developer:   "adamgryu",
			Link:        "https://adamgryu.itch.io/a-short-hike",
			ImageURL:    "https://img.itch.zone/hike.png",
			FileCount:   "3",
			Platforms:   []string{"Windows", "Linux", "Browser"},
			Description: "A little exploration game about hiking up a mountain.",
			Download:    "https://adamgryu.itch.io/a-short-hike/download/ABC123",
			HomePage:    "https://adamgryu.itch.io/a-short-hike",
			Key:         "ABC123",
			DLPage:      "https://adamgryu.itch.io/a-short-hike/download/ABC123",
		},
		{
			Title:       "Celeste Classic",
			Developer:   "Maddy Thorson",
			Link:        "https://mattmakesgames.itch.io/celesteclassic",
			ImageURL:    "https://img.itch.zone/celeste.png",
			FileCount:   NoFiles,
			Platforms:   []string{"macOS"},
			Description: NoDescription,
			Download:    Unclaimed,
			Key:         Unclaimed,
			DLPage:      Unclaimed,
		},
		{
			Title:       "No Files Yet",
			Developer:   "someone else",
			Link:        "https://someone.itch.io/no-files-2",
			ImageURL:    NoImage,
			FileCount:   NoFiles,
			Platforms:   []string{},
			Description: NoDescription,
			Download:    NoDownloadUrl,
			Key:         Unclaimed,
			DLPage:      Unclaimed,
		},
	}

	if diff := cmp.Diff(expected, listing.Games()); diff != "" {
		t.Fatal(diff)
	}

	hike, ok := listing.Get("A Short Hike")
	require.True(t, ok)
	require.True(t, hike.Claimed())
	require.Equal(t, "https://adamgryu.itch.io/a-short-hike", hike.DetailUrl())

	celeste, ok := listing.Get("Celeste Classic")
	require.True(t, ok)
	require.False(t, celeste.Claimed())
	require.Equal(t, celeste.Link, celeste.DetailUrl())
}

func TestExtractGamesDownloadWithoutKey(t *testing.T) {
	doc := parseString(t, `
		<div class="game_row">
			<h2 class="game_title"><a href="https://dev.itch.io/game">Game</a></h2>
			<a class="game_download_btn" href="https://dev.itch.io/game/purchase">Buy</a>
		</div>`)
	game, ok := ExtractGames(context.Background(), doc).Get("Game")
	require.True(t, ok)
	require.Equal(t, "https://dev.itch.io/game/purchase", game.Download)
	require.Equal(t, Unclaimed, game.Key)
	require.Equal(t, Unclaimed, game.DLPage)
	require.Equal(t, "", game.HomePage)
}

func TestExtractPlatformsBrowserOnly(t *testing.T) {
	doc := parseString(t, `
		<div class="game_row">
			<h2 class="game_title"><a href="https://dev.itch.io/game">Game</a></h2>
			<div class="button_row"><a href="#">Run game</a><a href="#">PLAY IN BROWSER</a></div>
		</div>`)
	game, ok := ExtractGames(context.Background(), doc).Get("Game")
	require.True(t, ok)
	require.Equal(t, []string{"Browser"}, game.Platforms)
}

func TestGameListingOrder(t *testing.T) {
	listing := NewGameListing()
	listing.Set(ListingGame{Title: "b", Developer: "1"})
	listing.Set(ListingGame{Title: "a"})
	listing.Set(ListingGame{Title: "b", Developer: "2"})

	require.Equal(t, 2, listing.Len())
	games := listing.Games()
	require.Equal(t, "b", games[0].Title)
	require.Equal(t, "2", games[0].Developer)
	require.Equal(t, "a", games[1].Title)
}

func TestPagination(t *testing.T) {
	ctx := context.Background()
	doc := parseFixture(t, listingPageTest)
	require.Equal(t, 3, TotalPages(ctx, doc))
	next, ok := NextPage(doc)
	require.True(t, ok)
	require.Equal(t, "?page=2", next)

	last := parseString(t, `<span class="pager_label">Page 3 of 3</span>`)
	require.Equal(t, 3, TotalPages(ctx, last))
	_, ok = NextPage(last)
	require.False(t, ok)

	empty := parseString(t, `<div></div>`)
	require.Equal(t, 0, TotalPages(ctx, empty))
	require.Equal(t, 0, TotalPages(ctx, parseString(t, `<span class="pager_label">Page one</span>`)))
}

func TestExtractBundles(t *testing.T) {
	base, err := url.Parse("https://itch.io")
	require.NoError(t, err)

	bundles := ExtractBundles(context.Background(), parseFixture(t, bundlesPageTest), base)
	expected := []Bundle{
		{
			Name: "Bundle for Racial Justice and Equality",
			Url:  "https://itch.io/bundle/download/abc123",
			Time: "12 June 2020 @ 04:20 UTC",
		},
		{
			Name: "Indie Bundle for Palestinian Aid",
			Url:  "https://itch.io/bundle/download/def456",
			Time: NoTimeInfo,
		},
	}
	if diff := cmp.Diff(expected, bundles); diff != "" {
		t.Fatal(diff)
	}
}
