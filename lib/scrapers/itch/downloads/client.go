package downloads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"itchscratch/lib/scrapers/itch/core"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Client struct {
	Core *core.Client
	// files are served from a cdn outside the site, so they are fetched
	// with a client that follows redirects anywhere
	files *resty.Client
}

func NewClient(coreClient *core.Client) Client {
	files := resty.New()
	files.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	for _, name := range []string{"User-Agent", "Cookie"} {
		if value := coreClient.Http.Header.Get(name); value != "" {
			files.SetHeader(name, value)
		}
	}
	return Client{Core: coreClient, files: files}
}

// Page is a fetched download page along with its uploads.
type Page struct {
	Url     string
	Base    string
	Key     string
	Uploads []Upload
}

// Find returns the upload with the given title.
func (p Page) Find(title string) (Upload, error) {
	for _, u := range p.Uploads {
		if u.Title == title {
			return u, nil
		}
	}
	return Upload{}, fmt.Errorf("%w: %s", ErrFileNotFound, title)
}

// OpenPage fetches a download page, an empty key is taken from the last
// segment of the url.
func (c Client) OpenPage(ctx context.Context, pageUrl, key string) (Page, error) {
	ctx, span := tracer.Start(ctx, "client:OpenPage")
	defer span.End()
	span.SetAttributes(attribute.String("url", pageUrl))

	base, err := SiteBase(pageUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid download page url")
		return Page{}, err
	}
	if key == "" {
		key = KeyFromUrl(pageUrl)
	}
	slog.InfoContext(ctx, "using key", "key", key)
	checkPageUrl(ctx, pageUrl, key)

	doc, err := c.Core.FetchDocument(ctx, pageUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch download page")
		return Page{}, err
	}

	uploads := ExtractUploads(ctx, doc)
	if len(uploads) == 0 {
		span.SetStatus(codes.Error, ErrNoUploads.Error())
		return Page{}, ErrNoUploads
	}
	for i := range uploads {
		uploads[i].Key = key
	}

	return Page{
		Url:     pageUrl,
		Base:    base,
		Key:     key,
		Uploads: uploads,
	}, nil
}

type fileResponse struct {
	Url string `json:"url"`
}

// Download asks the site for the location of an upload and streams it into
// `destDir`, returning the path of the written file.
func (c Client) Download(ctx context.Context, page Page, upload Upload, destDir string) (string, error) {
	ctx, span := tracer.Start(ctx, "client:Download")
	defer span.End()

	fileUrl := FileUrl(page.Base, upload)
	span.SetAttributes(
		attribute.String("file_url", fileUrl),
		attribute.String("upload_id", upload.UploadId),
	)
	slog.InfoContext(ctx, "initiating download request", "url", fileUrl, "file", upload.FileName())

	res, err := c.Core.Http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Post(fileUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to request file url")
		return "", err
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "file url request failed")
		return "", fmt.Errorf("request %s: unexpected status %d", fileUrl, res.StatusCode())
	}

	var body fileResponse
	err = json.Unmarshal(res.Body(), &body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse file response")
		return "", fmt.Errorf("parse file response: %w", err)
	}
	if body.Url == "" {
		slog.ErrorContext(ctx, "no download url found in response", "body", string(res.Body()))
		span.SetStatus(codes.Error, ErrNoDownloadUrl.Error())
		return "", ErrNoDownloadUrl
	}

	slog.InfoContext(ctx, "following redirect", "url", body.Url)
	stream, err := c.files.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(body.Url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to request file")
		return "", err
	}
	raw := stream.RawBody()
	defer raw.Close()
	if stream.StatusCode() != http.StatusOK {
		span.SetStatus(codes.Error, "file request failed")
		return "", fmt.Errorf("download %s: unexpected status %d", body.Url, stream.StatusCode())
	}

	err = os.MkdirAll(destDir, 0755)
	if err != nil {
		return "", err
	}
	localPath := filepath.Join(destDir, filepath.Base(upload.FileName()))
	file, err := os.Create(localPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create file")
		return "", err
	}
	defer file.Close()

	written, err := io.Copy(file, raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write file")
		return "", err
	}

	span.SetAttributes(attribute.Int64("bytes", written))
	slog.InfoContext(ctx, "downloaded", "path", localPath, "bytes", written)
	return localPath, nil
}

// DownloadAll downloads every upload of the page, a failed file does not
// stop the rest. The returned error joins every failure.
func (c Client) DownloadAll(ctx context.Context, page Page, destDir string) ([]string, error) {
	var paths []string
	var errs []error
	for _, upload := range page.Uploads {
		path, err := c.Download(ctx, page, upload, destDir)
		if err != nil {
			slog.ErrorContext(ctx, "failed to download", "file", upload.FileName(), "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", upload.FileName(), err))
			continue
		}
		paths = append(paths, path)
	}
	return paths, errors.Join(errs...)
}
