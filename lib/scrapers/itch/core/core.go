package core

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"itchscratch/lib/credstore"
	"itchscratch/lib/restyutil"
	"itchscratch/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/dgraph-io/badger/v4"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/net/html/charset"
)

const defaultUserAgent = "Mozilla/5.0 (Linux; Android 6.0; Nexus 5 Build/MRA58N) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Mobile Safari/537.36"

// FetchError is returned when a page could not be retrieved, `Status` is 0
// if the request never got a response.
type FetchError struct {
	Url    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s", e.Url, e.Err.Error())
	}
	return fmt.Sprintf("fetch %s: unexpected status %d", e.Url, e.Status)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
	cache   pageCache
}

type ClientOptions struct {
	BaseUrl string
	// attached to every request, usually the output of credstore
	Headers credstore.Headers
	// zero means no timeout
	Timeout          time.Duration
	CloudflareBypass bool
	// if nil, pages are never cached
	Cache         *badger.DB
	CacheLifetime time.Duration
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimSuffix(opts.BaseUrl, "/"))
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	client.SetHeader("user-agent", defaultUserAgent)
	for name, value := range opts.Headers {
		// net/http only decompresses responses when it set this header
		// itself
		if strings.EqualFold(name, "accept-encoding") {
			continue
		}
		client.SetHeader(name, value)
	}
	client.SetRedirectPolicy(siteRedirectPolicy(baseUrl.Hostname()))
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	telemetry.InstrumentResty(client, "itchscratch.lib.scrapers.itch.http")
	restyutil.InstrumentClient(client, restyInstrumentOutput)

	lifetime := opts.CacheLifetime
	if lifetime == 0 {
		lifetime = defaultCacheLifetime
	}
	c := &Client{
		BaseUrl: baseUrl,
		Http:    client,
		cache: pageCache{
			db:       opts.Cache,
			baseUrl:  baseUrl,
			lifetime: lifetime,
		},
	}
	return c, nil
}

// siteRedirectPolicy allows redirects within the site and its subdomains,
// creator pages live on `<creator>.itch.io`.
func siteRedirectPolicy(hostname string) resty.RedirectPolicy {
	return resty.RedirectPolicyFunc(func(req *http.Request, via []*http.Request) error {
		if len(via) >= 10 {
			return fmt.Errorf("stopped after 10 redirects")
		}
		host := req.URL.Hostname()
		if host == hostname || strings.HasSuffix(host, "."+hostname) {
			return nil
		}
		return fmt.Errorf("redirect to foreign host %s is not allowed", host)
	})
}

// Resolve turns a path or url found on a page into an absolute url on the
// site.
func (c *Client) Resolve(ref string) (string, error) {
	parsed, err := c.BaseUrl.Parse(ref)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// FetchDocument retrieves a page and parses it, the body is always decoded
// as UTF-8 whatever the response claims. Any status but 200 is a
// *FetchError.
func (c *Client) FetchDocument(ctx context.Context, endpoint string) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "client:FetchDocument")
	defer span.End()
	span.SetAttributes(attribute.String("url", endpoint))

	body, err := c.cache.get(ctx, endpoint)
	if err == nil {
		span.SetStatus(codes.Ok, "CACHE HIT")
		return parseDocument(body)
	}
	if err != errPageNotFound {
		slog.WarnContext(ctx, "page cache read failed", "url", endpoint, "err", err)
	}

	res, err := c.Http.R().
		SetContext(ctx).
		Get(endpoint)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return nil, &FetchError{Url: endpoint, Err: err}
	}
	if res.StatusCode() != http.StatusOK {
		span.SetStatus(codes.Error, "unexpected status")
		return nil, &FetchError{Url: endpoint, Status: res.StatusCode()}
	}

	doc, err := parseDocument(res.Body())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, &FetchError{Url: endpoint, Status: res.StatusCode(), Err: err}
	}

	err = c.cache.set(ctx, endpoint, res.Body())
	if err != nil {
		slog.WarnContext(ctx, "page cache write failed", "url", endpoint, "err", err)
	}

	return doc, nil
}

func parseDocument(body []byte) (*goquery.Document, error) {
	reader, err := charset.NewReaderLabel("utf-8", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(reader)
}
