package htmlutil

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
)

var tracer = otel.Tracer("itchscratch.lib.htmlutil")

// StrippedText concatenates the text of a selection with every text node
// trimmed before joining, which is how the storefront's table cells read
// once the markup between fragments is dropped.
func StrippedText(sel *goquery.Selection) string {
	var out strings.Builder
	for _, n := range sel.Nodes {
		strippedTextRecursive(n, &out)
	}
	return out.String()
}

func strippedTextRecursive(node *html.Node, out *strings.Builder) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		out.WriteString(strings.TrimSpace(node.Data))
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		strippedTextRecursive(child, out)
	}
}

// Hrefs returns the raw href of every anchor in the selection that has
// one, in document order.
func Hrefs(ctx context.Context, sel *goquery.Selection) []string {
	_, span := tracer.Start(ctx, "Hrefs")
	defer span.End()

	hrefs := []string{}
	sel.Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		hrefs = append(hrefs, href)
		span.AddEvent("anchor", trace.WithAttributes(
			attribute.String("url", href),
		))
	})
	return hrefs
}
