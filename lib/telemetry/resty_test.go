package telemetry

import (
	"net/http"
	"testing"

	"go.opentelemetry.io/otel/attribute"

	"github.com/stretchr/testify/require"
)

func TestInstrumentHeadersRedactsCookies(t *testing.T) {
	headers := http.Header{}
	headers.Set("Cookie", "itchio_token=secret; itchio=secret")
	headers.Set("User-Agent", "itchscratch")

	var attrs []attribute.KeyValue
	instrumentHeaders(&attrs, "request", headers)

	values := map[string]string{}
	for _, a := range attrs {
		values[string(a.Key)] = a.Value.AsString()
	}
	require.Equal(t, "<redacted>", values["request/header: Cookie"])
	require.Equal(t, "itchscratch", values["request/header: User-Agent"])
}
