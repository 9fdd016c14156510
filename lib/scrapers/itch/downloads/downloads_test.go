package downloads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"itchscratch/lib/scrapers/itch/core"
	"itchscratch/lib/telemetry"

	_ "embed"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

//go:embed download_page_test.html
var downloadPageTest []byte

func TestExtractUploads(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(downloadPageTest))
	if err != nil {
		t.Fatal(err)
	}

	uploads := ExtractUploads(context.Background(), doc)
	expected := []Upload{
		{UploadId: "111", Title: "AShortHike_Windows.zip", FileSize: "412 MB", Source: SourceGameDownload},
		{UploadId: "222", Title: "AShortHike_Linux.tar.gz", FileSize: Unknown, Source: SourceGameDownload},
		{UploadId: "333", Title: Unknown, FileSize: "1 KB", Source: SourceGameDownload},
	}
	if diff := cmp.Diff(expected, uploads); diff != "" {
		t.Fatal(diff)
	}
	require.Equal(t, "file_333.zip", uploads[2].FileName())
}

func TestUrls(t *testing.T) {
	base, err := SiteBase("https://adamgryu.itch.io/a-short-hike/download/ABC123")
	require.NoError(t, err)
	require.Equal(t, "https://adamgryu.itch.io/a-short-hike", base)

	_, err = SiteBase("/a-short-hike/download/ABC123")
	require.Error(t, err)

	require.Equal(t, "ABC123", KeyFromUrl("https://adamgryu.itch.io/a-short-hike/download/ABC123"))
	require.Equal(t, "ABC123", KeyFromUrl("https://adamgryu.itch.io/a-short-hike/download/ABC123?after=1"))

	require.Equal(
		t,
		"https://adamgryu.itch.io/a-short-hike/file/111?source=game_download&key=ABC123",
		FileUrl(base, Upload{UploadId: "111", Source: SourceGameDownload, Key: "ABC123"}),
	)
}

func TestDownload(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/itch/downloads")
	defer cleanup()

	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("GET /a-short-hike/download/ABC123", func(w http.ResponseWriter, r *http.Request) {
		w.Write(downloadPageTest)
	})
	mux.HandleFunc("POST /a-short-hike/file/{id}", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "game_download", r.URL.Query().Get("source"))
		require.Equal(t, "ABC123", r.URL.Query().Get("key"))

		id := r.PathValue("id")
		if id == "222" {
			fmt.Fprint(w, `{"errors": ["gone"]}`)
			return
		}
		fmt.Fprintf(w, `{"url": "%s/cdn/%s"}`, server.URL, id)
	})
	mux.HandleFunc("GET /cdn/{id}", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "contents of %s", r.PathValue("id"))
	})
	server = httptest.NewServer(mux)
	defer server.Close()

	ctx := context.Background()
	coreClient, err := core.NewClient(ctx, core.ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)
	client := NewClient(coreClient)

	page, err := client.OpenPage(ctx, server.URL+"/a-short-hike/download/ABC123", "")
	require.NoError(t, err)
	require.Equal(t, "ABC123", page.Key)
	require.Len(t, page.Uploads, 3)

	dest := t.TempDir()

	windows, err := page.Find("AShortHike_Windows.zip")
	require.NoError(t, err)
	path, err := client.Download(ctx, page, windows, dest)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dest, "AShortHike_Windows.zip"), path)
	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "contents of 111", string(contents))

	linux, err := page.Find("AShortHike_Linux.tar.gz")
	require.NoError(t, err)
	_, err = client.Download(ctx, page, linux, dest)
	require.True(t, errors.Is(err, ErrNoDownloadUrl))

	_, err = page.Find("missing.zip")
	require.True(t, errors.Is(err, ErrFileNotFound))

	paths, err := client.DownloadAll(ctx, page, dest)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrNoDownloadUrl))
	require.Equal(t, []string{
		filepath.Join(dest, "AShortHike_Windows.zip"),
		filepath.Join(dest, "file_333.zip"),
	}, paths)
}

func TestOpenPageWithoutUploads(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>Nothing to download</body></html>`)
	}))
	defer server.Close()

	ctx := context.Background()
	coreClient, err := core.NewClient(ctx, core.ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)

	_, err = NewClient(coreClient).OpenPage(ctx, server.URL+"/game/download/KEY", "")
	require.True(t, errors.Is(err, ErrNoUploads))
}
