package view

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"itchscratch/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
)

// GameDetails holds the info panel of a game page. A field that the panel
// did not list is the empty string, use Has to tell it apart from a listed
// but empty value.
type GameDetails struct {
	Stars          string
	RatingCount    string
	Author         string
	Genre          string
	AverageSession string
	Languages      string
	Updated        string
	Published      string
	Status         string
	Inputs         string
	Accessibility  string
	Tags           string
	ReleaseDate    string
	Links          []string
	// unrecognized rows as `key=value` joined with "; ", mentions last
	Other string

	present map[string]bool
}

// Has reports whether the field with the given name (ex. "Stars") was
// found on the page.
func (d GameDetails) Has(field string) bool {
	return d.present[field]
}

func (d GameDetails) Empty() bool {
	return len(d.present) == 0
}

func (d *GameDetails) mark(field string) {
	if d.present == nil {
		d.present = map[string]bool{}
	}
	d.present[field] = true
}

func (d *GameDetails) set(field string, target *string, value string) {
	d.mark(field)
	*target = value
}

var ratingRegex = regexp.MustCompile(`Rated ([\d\.]+) out of 5 stars`)

func parseStars(cell *goquery.Selection, value string) string {
	groups := ratingRegex.FindStringSubmatch(value)
	if len(groups) >= 2 {
		return groups[1]
	}
	// the rating widget sometimes only carries it as a tooltip
	stars := ""
	cell.Find("[title]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		groups := ratingRegex.FindStringSubmatch(s.AttrOr("title", ""))
		if len(groups) >= 2 {
			stars = groups[1]
			return false
		}
		return true
	})
	return stars
}

func ExtractGameDetails(ctx context.Context, doc *goquery.Document) GameDetails {
	ctx, span := tracer.Start(ctx, "ExtractGameDetails")
	defer span.End()

	var details GameDetails

	panel := doc.Find(".info_panel_wrapper").First()
	if panel.Length() == 0 {
		slog.DebugContext(ctx, "no info panel found")
		span.SetAttributes(attribute.Bool("info_panel", false))
		return details
	}

	var other []string
	var mentions []string

	panel.Find("table tbody tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			slog.DebugContext(ctx, "skipping info panel row with less than 2 cells", "row", i)
			return
		}
		keyCell := cells.Eq(0)
		valueCell := cells.Eq(1)
		key := htmlutil.StrippedText(keyCell)
		value := htmlutil.StrippedText(valueCell)

		switch key {
		case "Rating":
			details.set("Stars", &details.Stars, parseStars(valueCell, value))
			details.set(
				"RatingCount", &details.RatingCount,
				valueCell.Find(`span[itemprop="ratingCount"]`).First().AttrOr("content", ""),
			)
		case "Genre":
			details.set("Genre", &details.Genre, value)
		case "Average session":
			details.set("AverageSession", &details.AverageSession, value)
		case "Languages":
			details.set("Languages", &details.Languages, value)
		case "Updated":
			details.set("Updated", &details.Updated, value)
		case "Published":
			details.set("Published", &details.Published, value)
		case "Status":
			details.set("Status", &details.Status, value)
		case "Inputs":
			details.set("Inputs", &details.Inputs, value)
		case "Accessibility":
			details.set("Accessibility", &details.Accessibility, value)
		case "Author":
			details.set("Author", &details.Author, value)
		case "Tags":
			details.set("Tags", &details.Tags, value)
		case "Release date":
			details.set("ReleaseDate", &details.ReleaseDate, value)
		case "Links":
			details.Links = htmlutil.Hrefs(ctx, valueCell.Find("a"))
			details.mark("Links")
			slog.DebugContext(ctx, "links", "links", details.Links)
		case "Mentions":
			mentions = htmlutil.Hrefs(ctx, valueCell.Find("a"))
		default:
			other = append(other, fmt.Sprintf("%s=%s", key, value))
		}
	})

	if len(mentions) > 0 {
		other = append(other, "Mentions="+strings.Join(mentions, ", "))
	}
	details.set("Other", &details.Other, strings.Join(other, "; "))
	slog.DebugContext(ctx, "concatenated other field", "other", details.Other)

	return details
}
