package core

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	devenv "itchscratch/dev/env"
	"itchscratch/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func fakeLoginServer(t *testing.T, password string) *httptest.Server {
	payload := base64.StdEncoding.EncodeToString([]byte(`["nonce", 1722470400, "hash"]`))
	token := payload + ".signature"

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			fmt.Fprintf(w, `<html><head><meta name="csrf_token" value="%s"></head></html>`, token)
			return
		}

		require.NoError(t, r.ParseForm())
		require.Equal(t, token, r.PostForm.Get("csrf_token"))
		require.NotEmpty(t, r.PostForm.Get("tz"))
		require.Equal(t, "user", r.PostForm.Get("username"))

		if r.PostForm.Get("password") != password {
			fmt.Fprint(w, `<html><body>Incorrect username or password</body></html>`)
			return
		}
		expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
		http.SetCookie(w, &http.Cookie{Name: "itchio_token", Value: "tok", Path: "/", Expires: expires})
		http.SetCookie(w, &http.Cookie{Name: "itchio", Value: "sess", Path: "/", Expires: expires})
		fmt.Fprint(w, `<html><body><a href="/dashboard">dashboard</a></body></html>`)
	})
	return httptest.NewServer(mux)
}

func TestLoginUsernamePassword(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/itch/core")
	defer cleanup()

	server := fakeLoginServer(t, "hunter2")
	defer server.Close()

	ctx := context.Background()
	client, err := NewClient(ctx, ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)

	res, err := client.LoginUsernamePassword(ctx, "user", "hunter2")
	require.NoError(t, err)
	require.Equal(t, "tok", res.Cookies["itchio_token"])
	require.Equal(t, "sess", res.Cookies["itchio"])
	require.Equal(t, 2030, res.ExpiresAt.Year())

	failing, err := NewClient(ctx, ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)
	_, err = failing.LoginUsernamePassword(ctx, "user", "wrong")
	require.True(t, errors.Is(err, ErrLoginFailed))
}

func TestLoginMissingCsrfToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head></head></html>`)
	}))
	defer server.Close()

	ctx := context.Background()
	client, err := NewClient(ctx, ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)

	_, err = client.LoginUsernamePassword(ctx, "user", "pass")
	require.True(t, errors.Is(err, ErrNoCsrfToken))
}

func TestDecodeCsrfToken(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte(`[12, 1722470400, "abc"]`))
	token, err := decodeCsrfToken(payload + ".pad")
	require.NoError(t, err)
	require.Equal(t, int64(1722470400), token.Timestamp)
	require.Equal(t, "abc", token.Hash)

	_, err = decodeCsrfToken("not base64!")
	require.Error(t, err)
}

func TestLiveLogin(t *testing.T) {
	config, err := devenv.GetStateConfig[devenv.ItchTestConfig]("itch_config.json5")
	if err != nil {
		t.Skip("no itch test config:", err)
	}

	cleanup := telemetry.SetupForTesting(t, "test:scrapers/itch/core")
	defer cleanup()

	ctx := context.Background()
	client, err := NewClient(ctx, ClientOptions{
		BaseUrl:          config.BaseUrl,
		CloudflareBypass: true,
	})
	require.NoError(t, err)

	_, err = client.LoginUsernamePassword(ctx, config.Username, config.Password)
	require.NoError(t, err)
}
