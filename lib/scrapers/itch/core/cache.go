package core

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/PuerkitoBio/purell"
	"github.com/dgraph-io/badger/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const defaultCacheLifetime = time.Hour * 24

var errPageNotFound = errors.New("page not cached")

// pageCache stores raw page bodies keyed by normalized url, entries expire
// through badger's ttl. A nil db disables it.
type pageCache struct {
	db       *badger.DB
	baseUrl  *url.URL
	lifetime time.Duration
}

func (c pageCache) key(endpoint string) (string, error) {
	full, err := c.baseUrl.Parse(endpoint)
	if err != nil {
		return "", err
	}
	normalized := purell.NormalizeURL(
		full,
		purell.FlagsSafe|
			purell.FlagsUsuallySafeNonGreedy|
			purell.FlagRemoveDirectoryIndex|
			purell.FlagRemoveFragment|
			purell.FlagSortQuery,
	)
	return "page:" + normalized, nil
}

func (c pageCache) get(ctx context.Context, endpoint string) ([]byte, error) {
	if c.db == nil {
		return nil, errPageNotFound
	}

	ctx, span := tracer.Start(ctx, "cache:get")
	defer span.End()

	key, err := c.key(endpoint)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create cache key")
		return nil, err
	}
	span.SetAttributes(attribute.String("cache_key", key))

	var body []byte
	err = c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		body, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, errPageNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read cached page")
		return nil, err
	}

	span.SetAttributes(attribute.Int("contentlength", len(body)))
	return body, nil
}

func (c pageCache) set(ctx context.Context, endpoint string, body []byte) error {
	if c.db == nil {
		return nil
	}

	ctx, span := tracer.Start(ctx, "cache:set")
	defer span.End()

	key, err := c.key(endpoint)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create cache key")
		return err
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), body).WithTTL(c.lifetime)
		return txn.SetEntry(entry)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write cached page")
		return err
	}
	return nil
}

// OpenCache opens (or creates) a badger page cache in `dir`, an empty dir
// keeps it in memory.
func OpenCache(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	return badger.Open(opts)
}
