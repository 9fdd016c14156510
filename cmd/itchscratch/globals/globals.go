package globals

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"itchscratch/lib/credstore"
	"itchscratch/lib/gamestore"
	"itchscratch/lib/gamestore/db"
	"itchscratch/lib/restyutil"
	"itchscratch/lib/scrapers/itch/core"
	"itchscratch/lib/telemetry"

	"github.com/dgraph-io/badger/v4"
)

type ctxKey struct{}

type Value struct {
	Config    Config
	Telemetry telemetry.Telemetry
}

func Set(ctx context.Context, value *Value) context.Context {
	return context.WithValue(ctx, ctxKey{}, value)
}

func Get(ctx context.Context) *Value {
	return ctx.Value(ctxKey{}).(*Value)
}

// OpenStore opens the configured database, creating the game table if it
// is missing.
func (v *Value) OpenStore() (gamestore.Store, *sql.DB, error) {
	database, err := v.Config.Database.OpenDB(db.Schema)
	if err != nil {
		return gamestore.Store{}, nil, err
	}
	return gamestore.NewStore(database), database, nil
}

func (v *Value) CredentialStore() (credstore.Store, error) {
	return credstore.New(v.Config.CredentialsFile, v.Config.CredentialsKey)
}

// Credentials returns the stored request headers, nil if there are none
// yet. Requests made without them are likely unauthenticated.
func (v *Value) Credentials(ctx context.Context) credstore.Headers {
	store, err := v.CredentialStore()
	if err != nil {
		slog.WarnContext(ctx, "invalid credentials key", "err", err)
		return nil
	}
	headers, err := store.Fetch()
	if errors.Is(err, credstore.ErrNotFound) {
		slog.WarnContext(ctx, "no stored credentials, requests will likely be unauthenticated", "path", store.Path)
		return nil
	}
	if err != nil {
		slog.WarnContext(ctx, "failed to read stored credentials", "path", store.Path, "err", err)
		return nil
	}
	return headers
}

// NewClient creates a site client carrying `headers`, the page cache is
// only opened when `cached` is set and a cache dir is configured. The
// returned function releases the cache.
func (v *Value) NewClient(ctx context.Context, headers credstore.Headers, cached bool) (*core.Client, func(), error) {
	if v.Config.HttpDumpDir != "" {
		out, err := restyutil.NewFilesystemOutput(v.Config.HttpDumpDir)
		if err != nil {
			slog.WarnContext(ctx, "failed to create http dump dir", "dir", v.Config.HttpDumpDir, "err", err)
		} else {
			core.SetRestyInstrumentOutput(out)
		}
	}

	var cache *badger.DB
	release := func() {}
	if cached && v.Config.PageCacheDir != "" {
		var err error
		cache, err = core.OpenCache(v.Config.PageCacheDir)
		if err != nil {
			slog.WarnContext(ctx, "failed to open page cache, continuing without it", "dir", v.Config.PageCacheDir, "err", err)
			cache = nil
		} else {
			release = func() { cache.Close() }
		}
	}

	client, err := core.NewClient(ctx, core.ClientOptions{
		BaseUrl:          v.Config.BaseUrl,
		Headers:          headers,
		Timeout:          v.Config.RequestTimeout(),
		CloudflareBypass: v.Config.CloudflareBypass,
		Cache:            cache,
	})
	if err != nil {
		release()
		return nil, nil, err
	}
	return client, release, nil
}
