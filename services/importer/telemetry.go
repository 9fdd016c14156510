package importer

import (
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("itchscratch.services.importer")
var meter = otel.Meter("itchscratch.services.importer")

var pagesFetchedCounter, _ = meter.Int64Counter("importer.pages_fetched")
var gamesInsertedCounter, _ = meter.Int64Counter("importer.games_inserted")
var insertFailedCounter, _ = meter.Int64Counter("importer.insert_failed")
var detailFailedCounter, _ = meter.Int64Counter("importer.detail_failed")
