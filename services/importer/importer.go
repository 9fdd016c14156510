package importer

import (
	"context"
	"fmt"
	"log/slog"

	"itchscratch/lib/gamestore"
	"itchscratch/lib/scrapers/itch/view"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Scraper is the part of view.Client the importer walks with.
type Scraper interface {
	PurchasedBundles(ctx context.Context) ([]view.Bundle, error)
	ListingPage(ctx context.Context, pageUrl string) (view.ListingPage, error)
	GameDetails(ctx context.Context, gameUrl string) (view.GameDetails, error)
}

// GameStore is the part of gamestore.Store the importer writes to.
type GameStore interface {
	CountRows(ctx context.Context) (int64, error)
	Insert(ctx context.Context, game gamestore.Game) (int64, error)
}

type Options struct {
	// skip the whole import when the store already has rows, the store
	// must be reset to import again
	SkipIfPopulated bool
}

func DefaultOptions() Options {
	return Options{SkipIfPopulated: true}
}

type Importer struct {
	scraper Scraper
	store   GameStore
	opts    Options
}

func New(scraper Scraper, store GameStore, opts Options) Importer {
	return Importer{
		scraper: scraper,
		store:   store,
		opts:    opts,
	}
}

type Summary struct {
	// set when the import did not run because the store had rows
	Skipped      bool
	ExistingRows int64

	Bundles       int
	Pages         int
	Games         int
	Inserted      int
	InsertFailed  int
	DetailsFailed int
}

// Run imports every game of every purchased bundle, strictly one request
// at a time. Only a failure to check the store or to list the bundles is
// returned as an error, anything that goes wrong while walking a bundle is
// logged and skipped.
func (i Importer) Run(ctx context.Context) (Summary, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	var summary Summary

	count, err := i.store.CountRows(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to count rows")
		return summary, err
	}
	slog.InfoContext(ctx, "rows in the game table", "count", count)
	if count > 0 && i.opts.SkipIfPopulated {
		slog.InfoContext(ctx, "database already populated, skipping import", "rows", count)
		summary.Skipped = true
		summary.ExistingRows = count
		return summary, nil
	}

	bundles, err := i.scraper.PurchasedBundles(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch purchased bundles")
		return summary, fmt.Errorf("fetch purchased bundles: %w", err)
	}
	slog.InfoContext(ctx, "found bundles", "count", len(bundles))
	for _, b := range bundles {
		slog.InfoContext(ctx, "bundle", "name", b.Name, "url", b.Url, "time", b.Time)
	}

	for _, b := range bundles {
		if ctx.Err() != nil {
			break
		}
		summary.Bundles++
		games := i.walkBundle(ctx, b, &summary)
		slog.InfoContext(ctx, "total games in bundle", "bundle", b.Name, "games", games)
	}

	span.SetAttributes(
		attribute.Int("bundles", summary.Bundles),
		attribute.Int("games", summary.Games),
		attribute.Int("inserted", summary.Inserted),
	)
	slog.InfoContext(
		ctx, "import finished",
		"bundles", summary.Bundles,
		"pages", summary.Pages,
		"games", summary.Games,
		"inserted", summary.Inserted,
		"insert_failed", summary.InsertFailed,
	)

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}
