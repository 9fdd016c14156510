package importer

import (
	"context"
	"log/slog"
	"net/url"

	"itchscratch/lib/scrapers/itch/view"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// walkBundle follows a bundle's listing pages until there is no next page
// or a page fails to load, returning the number of games seen.
func (i Importer) walkBundle(ctx context.Context, bundle view.Bundle, summary *Summary) int {
	ctx, span := tracer.Start(ctx, "walkBundle")
	defer span.End()
	span.SetAttributes(
		attribute.String("bundle", bundle.Name),
		attribute.String("url", bundle.Url),
	)

	slog.InfoContext(ctx, "fetching games from bundle", "bundle", bundle.Name)

	base, err := url.Parse(bundle.Url)
	if err != nil {
		slog.ErrorContext(ctx, "invalid bundle url", "url", bundle.Url, "err", err)
		return 0
	}

	games := 0
	visited := map[string]bool{}
	current := bundle.Url
	for page := 1; current != ""; page++ {
		if ctx.Err() != nil {
			return games
		}
		if visited[current] {
			slog.WarnContext(ctx, "next page loops back to a visited page", "url", current)
			return games
		}
		visited[current] = true

		slog.InfoContext(ctx, "fetching data", "url", current)
		listing, err := i.scraper.ListingPage(ctx, current)
		if err != nil {
			slog.ErrorContext(ctx, "failed to fetch the page", "url", current, "err", err)
			return games
		}
		summary.Pages++
		pagesFetchedCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("bundle", bundle.Name)))
		if listing.TotalPages > 0 {
			slog.InfoContext(ctx, "listing page", "page", page, "total", listing.TotalPages)
		}

		for _, game := range listing.Games.Games() {
			games++
			summary.Games++
			i.importGame(ctx, game, summary)
		}

		if listing.NextPage == "" {
			return games
		}
		next, err := base.Parse(listing.NextPage)
		if err != nil {
			slog.ErrorContext(ctx, "invalid next page link", "href", listing.NextPage, "err", err)
			return games
		}
		current = next.String()
	}
	return games
}

func (i Importer) importGame(ctx context.Context, game view.ListingGame, summary *Summary) {
	ctx, span := tracer.Start(ctx, "importGame")
	defer span.End()
	span.SetAttributes(attribute.String("title", game.Title))

	var details view.GameDetails
	if detailUrl := game.DetailUrl(); detailUrl != "" {
		fetched, err := i.scraper.GameDetails(ctx, detailUrl)
		if err != nil {
			slog.WarnContext(ctx, "failed to fetch game page", "title", game.Title, "url", detailUrl, "err", err)
			summary.DetailsFailed++
			detailFailedCounter.Add(ctx, 1)
		} else {
			details = fetched
		}
	}

	record := MergeGame(game, details)
	slog.InfoContext(ctx, "inserting", "index", summary.Games, "title", record.Title)
	_, err := i.store.Insert(ctx, record)
	if err != nil {
		slog.ErrorContext(ctx, "failed to insert game", "title", record.Title, "err", err)
		summary.InsertFailed++
		insertFailedCounter.Add(ctx, 1)
		return
	}
	summary.Inserted++
	gamesInsertedCounter.Add(ctx, 1)
}
