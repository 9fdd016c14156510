package view

import (
	"context"
	"log/slog"

	"itchscratch/lib/scrapers/itch/core"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const PurchasedBundlesPath = "/my-purchases/bundles"

type Client struct {
	Core *core.Client
}

func NewClient(coreClient *core.Client) Client {
	return Client{Core: coreClient}
}

func (c Client) PurchasedBundles(ctx context.Context) ([]Bundle, error) {
	ctx, span := tracer.Start(ctx, "client:PurchasedBundles")
	defer span.End()

	doc, err := c.Core.FetchDocument(ctx, PurchasedBundlesPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch purchased bundles")
		return nil, err
	}
	return ExtractBundles(ctx, doc, c.Core.BaseUrl), nil
}

// ListingPage is a single page of a bundle listing.
type ListingPage struct {
	Games      *GameListing
	TotalPages int
	// raw href of the next page, empty on the last page
	NextPage string
}

func (c Client) ListingPage(ctx context.Context, pageUrl string) (ListingPage, error) {
	ctx, span := tracer.Start(ctx, "client:ListingPage")
	defer span.End()
	span.SetAttributes(attribute.String("url", pageUrl))

	doc, err := c.Core.FetchDocument(ctx, pageUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch listing page")
		return ListingPage{}, err
	}

	page := ListingPage{
		Games:      ExtractGames(ctx, doc),
		TotalPages: TotalPages(ctx, doc),
	}
	next, ok := NextPage(doc)
	if ok {
		page.NextPage = next
	}
	return page, nil
}

// GameDetails fetches a game page, a page that could not be fetched
// yields empty details along with the error.
func (c Client) GameDetails(ctx context.Context, gameUrl string) (GameDetails, error) {
	ctx, span := tracer.Start(ctx, "client:GameDetails")
	defer span.End()
	span.SetAttributes(attribute.String("url", gameUrl))

	doc, err := c.Core.FetchDocument(ctx, gameUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch game page")
		return GameDetails{}, err
	}

	details := ExtractGameDetails(ctx, doc)
	if details.Empty() {
		slog.InfoContext(ctx, "no game information found", "url", gameUrl)
	}
	return details, nil
}
