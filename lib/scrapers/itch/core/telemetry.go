package core

import (
	"itchscratch/lib/restyutil"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("itchscratch.lib.scrapers.itch.core")
var restyInstrumentOutput restyutil.InstrumentOutput

// SetRestyInstrumentOutput makes every client created afterwards dump its
// http messages into `out`.
func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyInstrumentOutput = out
}
