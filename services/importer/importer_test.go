package importer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"itchscratch/lib/gamestore"
	"itchscratch/lib/gamestore/db"
	"itchscratch/lib/scrapers/itch/core"
	"itchscratch/lib/scrapers/itch/view"
	"itchscratch/lib/testutil"

	"github.com/stretchr/testify/require"
)

type recordingStore struct {
	rows     int64
	inserted []gamestore.Game
	failOn   string
}

func (s *recordingStore) CountRows(ctx context.Context) (int64, error) {
	return s.rows, nil
}

func (s *recordingStore) Insert(ctx context.Context, game gamestore.Game) (int64, error) {
	if game.Title == s.failOn {
		return 0, &gamestore.StorageError{Op: "insert", Title: game.Title, Err: errors.New("disk full")}
	}
	s.inserted = append(s.inserted, game)
	s.rows++
	return s.rows, nil
}

type fakeSite struct {
	server   *httptest.Server
	requests atomic.Int32
}

func (f *fakeSite) url(path string) string {
	return f.server.URL + path
}

const bundlesPage = `<html><body><div class="bundle_keys"><ul>
	<li><a href="/bundle/download/first">First Bundle</a> <abbr title="12 June 2020">Jun 12</abbr></li>
	%s
</ul></div></body></html>`

func gameRow(title, link, downloadHref string) string {
	button := `<form><button name="action" value="claim">Claim</button></form>`
	if downloadHref != "" {
		button = fmt.Sprintf(`<a class="game_download_btn" href="%s">Download</a>`, downloadHref)
	}
	return fmt.Sprintf(`<div class="game_row">
		<div class="game_title"><a href="%s">%s</a></div>
		<div class="game_author"><a href="#">dev</a></div>
		<div class="button_row">%s</div>
	</div>`, link, title, button)
}

const detailPage = `<html><body><div class="info_panel_wrapper"><table><tbody>
	<tr><td>Genre</td><td>%s</td></tr>
	<tr><td>Rating</td><td>Rated 4.5 out of 5 stars <span itemprop="ratingCount" content="10"></span></td></tr>
</tbody></table></div></body></html>`

// newFakeSite serves one bundle with a claimed and an unclaimed game on a
// single page, `extra` is added to the bundle list.
func newFakeSite(t *testing.T, extraBundles string) *fakeSite {
	site := &fakeSite{}
	mux := http.NewServeMux()
	mux.HandleFunc("/my-purchases/bundles", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, bundlesPage, extraBundles)
	})
	mux.HandleFunc("/bundle/download/first", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(
			w, "<html><body>%s%s</body></html>",
			gameRow("Claimed Game", site.url("/claimed"), site.url("/claimed/download/KEY1")),
			gameRow("Unclaimed Game", site.url("/unclaimed"), ""),
		)
	})
	mux.HandleFunc("/bundle/download/paged", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "":
			fmt.Fprintf(
				w, `<html><body><span class="pager_label">Page 1 of 2</span>%s<a class="next_page" href="?page=2">Next</a></body></html>`,
				gameRow("Page One Game", site.url("/unclaimed"), ""),
			)
		case "2":
			fmt.Fprintf(
				w, `<html><body><span class="pager_label">Page 2 of 2</span>%s</body></html>`,
				gameRow("Page Two Game", site.url("/unclaimed"), ""),
			)
		}
	})
	mux.HandleFunc("/bundle/download/loop", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(
			w, `<html><body>%s<a class="next_page" href="/bundle/download/loop">Next</a></body></html>`,
			gameRow("Loop Game", site.url("/unclaimed"), ""),
		)
	})
	mux.HandleFunc("/claimed", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, detailPage, "Adventure")
	})
	mux.HandleFunc("/unclaimed", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, detailPage, "Puzzle")
	})

	site.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		site.requests.Add(1)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(site.server.Close)
	return site
}

func newScraper(t *testing.T, site *fakeSite) view.Client {
	coreClient, err := core.NewClient(context.Background(), core.ClientOptions{
		BaseUrl: site.server.URL,
	})
	require.NoError(t, err)
	return view.NewClient(coreClient)
}

func TestImportOneBundle(t *testing.T) {
	_, cleanup := testutil.SetupService(t, testutil.ServiceParams{Name: "importer"})
	defer cleanup()

	site := newFakeSite(t, "")
	store := &recordingStore{}

	summary, err := New(newScraper(t, site), store, DefaultOptions()).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, store.inserted, 2)
	claimed := store.inserted[0]
	require.Equal(t, "Claimed Game", claimed.Title)
	require.Equal(t, "KEY1", claimed.Key)
	require.Equal(t, site.url("/claimed/download/KEY1"), claimed.DLPage)
	require.Equal(t, site.url("/claimed"), claimed.HomePage)
	require.Equal(t, "Adventure", claimed.Genre)
	require.Equal(t, "4.5", claimed.Stars)
	require.Equal(t, "10", claimed.RatingCount)

	unclaimed := store.inserted[1]
	require.Equal(t, "Unclaimed Game", unclaimed.Title)
	require.Equal(t, view.Unclaimed, unclaimed.Key)
	require.Equal(t, view.Unclaimed, unclaimed.DLPage)
	require.Equal(t, site.url("/unclaimed"), unclaimed.HomePage)
	require.Equal(t, "Puzzle", unclaimed.Genre)

	require.Equal(t, Summary{Bundles: 1, Pages: 1, Games: 2, Inserted: 2}, summary)
	// bundles page, one listing page, two game pages
	require.Equal(t, int32(4), site.requests.Load())
}

func TestImportSkipsPopulatedStore(t *testing.T) {
	site := newFakeSite(t, "")
	store := &recordingStore{rows: 1}

	summary, err := New(newScraper(t, site), store, DefaultOptions()).Run(context.Background())
	require.NoError(t, err)
	require.True(t, summary.Skipped)
	require.Equal(t, int64(1), summary.ExistingRows)
	require.Empty(t, store.inserted)
	require.Equal(t, int32(0), site.requests.Load())

	summary, err = New(newScraper(t, site), store, Options{SkipIfPopulated: false}).Run(context.Background())
	require.NoError(t, err)
	require.False(t, summary.Skipped)
	require.Len(t, store.inserted, 2)
}

func TestImportContinuesPastFailures(t *testing.T) {
	site := newFakeSite(t, `
		<li><a href="/bundle/download/missing">Missing Bundle</a></li>
		<li><a href="/bundle/download/paged">Paged Bundle</a></li>
		<li><a href="/bundle/download/loop">Loop Bundle</a></li>`)
	store := &recordingStore{failOn: "Claimed Game"}

	summary, err := New(newScraper(t, site), store, DefaultOptions()).Run(context.Background())
	require.NoError(t, err)

	titles := make([]string, len(store.inserted))
	for i, g := range store.inserted {
		titles[i] = g.Title
	}
	require.Equal(t, []string{"Unclaimed Game", "Page One Game", "Page Two Game", "Loop Game"}, titles)
	require.Equal(t, Summary{
		Bundles:      4,
		Pages:        4,
		Games:        5,
		Inserted:     4,
		InsertFailed: 1,
	}, summary)
}

func TestImportFailsWithoutBundlesPage(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	coreClient, err := core.NewClient(context.Background(), core.ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)

	_, err = New(view.NewClient(coreClient), &recordingStore{}, DefaultOptions()).Run(context.Background())
	var fetchErr *core.FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, http.StatusNotFound, fetchErr.Status)
}

func TestImportIntoGameStore(t *testing.T) {
	res, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "importer",
		DbSchema: db.Schema,
	})
	defer cleanup()

	site := newFakeSite(t, "")
	store := gamestore.NewStore(res.DB)
	ctx := context.Background()

	_, err := New(newScraper(t, site), store, DefaultOptions()).Run(ctx)
	require.NoError(t, err)

	count, err := store.CountRows(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	game, err := store.GetByTitle(ctx, "claimed game")
	require.NoError(t, err)
	require.Equal(t, "KEY1", game.Key)

	summary, err := New(newScraper(t, site), store, DefaultOptions()).Run(ctx)
	require.NoError(t, err)
	require.True(t, summary.Skipped)
}
