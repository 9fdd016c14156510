// Package downloads lists the files of a game's download page and fetches
// them.
package downloads

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("itchscratch.lib.scrapers.itch.downloads")

const (
	SourceGameDownload = "game_download"
	Unknown            = "Unknown"
)

var (
	ErrNoDownloadUrl = errors.New("no download url in file response")
	ErrFileNotFound  = errors.New("file not found in the available downloads")
	ErrNoUploads     = errors.New("no download links found")
)

// Upload is a single downloadable file on a download page.
type Upload struct {
	UploadId string
	Title    string
	FileSize string
	Source   string
	Key      string
}

// FileName is the name the upload is saved under.
func (u Upload) FileName() string {
	if u.Title == "" || u.Title == Unknown {
		return fmt.Sprintf("file_%s.zip", u.UploadId)
	}
	return u.Title
}

func ExtractUploads(ctx context.Context, doc *goquery.Document) []Upload {
	_, span := tracer.Start(ctx, "ExtractUploads")
	defer span.End()

	var uploads []Upload
	doc.Find("div.upload").Each(func(_ int, upload *goquery.Selection) {
		link := upload.Find("a.button.download_btn[data-upload_id]").First()
		if link.Length() == 0 {
			return
		}
		uploads = append(uploads, Upload{
			UploadId: link.AttrOr("data-upload_id", ""),
			Title:    upload.Find("strong.name").First().AttrOr("title", Unknown),
			FileSize: fileSize(upload),
			Source:   SourceGameDownload,
		})
	})
	return uploads
}

func fileSize(upload *goquery.Selection) string {
	size := upload.Find("span.file_size span").First()
	if size.Length() == 0 {
		return Unknown
	}
	return strings.TrimSpace(size.Text())
}

// SiteBase is the scheme, host and first path segment of a download page
// url, file endpoints hang off of it.
func SiteBase(pageUrl string) (string, error) {
	parsed, err := url.Parse(pageUrl)
	if err != nil {
		return "", err
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("download page url '%s' is not absolute", pageUrl)
	}
	first, _, _ := strings.Cut(strings.TrimPrefix(parsed.Path, "/"), "/")
	return fmt.Sprintf("%s://%s/%s", parsed.Scheme, parsed.Host, first), nil
}

// KeyFromUrl returns the last path segment of a download page url.
func KeyFromUrl(pageUrl string) string {
	trimmed := pageUrl
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	segments := strings.Split(trimmed, "/")
	return segments[len(segments)-1]
}

// FileUrl is the endpoint which hands out the real location of an upload.
func FileUrl(base string, upload Upload) string {
	return fmt.Sprintf(
		"%s/file/%s?source=%s&key=%s",
		base,
		url.PathEscape(upload.UploadId),
		url.QueryEscape(upload.Source),
		url.QueryEscape(upload.Key),
	)
}

// checkPageUrl logs the conditions under which a download page url is
// unlikely to work.
func checkPageUrl(ctx context.Context, pageUrl, key string) {
	if !strings.Contains(pageUrl, "/download/") {
		slog.WarnContext(ctx, "the url does not contain '/download/', this may not work correctly", "url", pageUrl)
	}
	if key != "" && !strings.HasSuffix(pageUrl, key) {
		slog.WarnContext(ctx, "the url does not end with the key, this may not work correctly", "url", pageUrl, "key", key)
	}
}
