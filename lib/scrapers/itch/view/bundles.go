package view

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
)

const NoTimeInfo = "No time info available"

// Bundle is one entry of the purchased bundles page.
type Bundle struct {
	Name string
	// absolute url of the first listing page
	Url string
	// redemption window, as displayed by the site
	Time string
}

func ExtractBundles(ctx context.Context, doc *goquery.Document, base *url.URL) []Bundle {
	_, span := tracer.Start(ctx, "ExtractBundles")
	defer span.End()

	var bundles []Bundle
	doc.Find(".bundle_keys ul li a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		link, err := base.Parse(href)
		if err != nil {
			slog.WarnContext(ctx, "skipping bundle with invalid url", "href", href, "err", err)
			return
		}

		bundles = append(bundles, Bundle{
			Name: strings.TrimSpace(a.Text()),
			Url:  link.String(),
			Time: a.NextAllFiltered("abbr").First().AttrOr("title", NoTimeInfo),
		})
	})

	span.SetAttributes(attribute.Int("bundles", len(bundles)))
	return bundles
}

// TotalPages reads the "Page N of M" pager label, it is only used for
// progress reporting. Returns 0 when there is no pager.
func TotalPages(ctx context.Context, doc *goquery.Document) int {
	label := doc.Find(".pager_label").First()
	if label.Length() == 0 {
		return 0
	}
	fields := strings.Fields(label.Text())
	if len(fields) == 0 {
		return 0
	}
	total, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		slog.DebugContext(ctx, "unreadable pager label", "label", label.Text())
		return 0
	}
	return total
}

// NextPage returns the raw href of the next page link, unresolved.
func NextPage(doc *goquery.Document) (string, bool) {
	href, ok := doc.Find(".next_page").First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return "", false
	}
	return href, true
}
