package view

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("itchscratch.lib.scrapers.itch.view")
