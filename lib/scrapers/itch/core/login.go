package core

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/codes"
)

var (
	ErrLoginFailed  = errors.New("failed to login to your account")
	ErrNoCsrfToken  = errors.New("could not find csrf token on login page")
	sessionCookies  = []string{"itchio_token", "itchio"}
	loginFormAccept = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8"
)

type LoginResult struct {
	// itchio_token and itchio, as set by the site
	Cookies map[string]string
	// zero if the site did not send an expiry
	ExpiresAt time.Time
}

// csrfToken is the decoded payload part of the login page csrf token, it is
// only used for diagnostics.
type csrfToken struct {
	Nonce     any
	Timestamp int64
	Hash      any
}

func decodeCsrfToken(token string) (csrfToken, error) {
	payload, _, _ := strings.Cut(token, ".")
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			return csrfToken{}, err
		}
	}
	var parts []any
	err = json.Unmarshal(raw, &parts)
	if err != nil {
		return csrfToken{}, err
	}
	if len(parts) < 3 {
		return csrfToken{}, errors.New("csrf token payload has less than 3 parts")
	}

	out := csrfToken{Nonce: parts[0], Hash: parts[2]}
	if ts, ok := parts[1].(float64); ok {
		out.Timestamp = int64(ts)
	}
	return out, nil
}

// timezoneOffset is the local offset from UTC in minutes, the login form
// submits it as `tz`.
func timezoneOffset() int {
	_, offset := time.Now().Zone()
	return offset / 60
}

func (c *Client) LoginUsernamePassword(ctx context.Context, username, password string) (LoginResult, error) {
	ctx, span := tracer.Start(ctx, "client:LoginUsernamePassword")
	defer span.End()

	doc, err := c.FetchDocument(ctx, "/login")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch login page")
		return LoginResult{}, err
	}

	token := doc.Find("meta[name=csrf_token]").AttrOr("value", "")
	if token == "" {
		span.SetStatus(codes.Error, ErrNoCsrfToken.Error())
		return LoginResult{}, ErrNoCsrfToken
	}
	decoded, err := decodeCsrfToken(token)
	if err != nil {
		slog.DebugContext(ctx, "could not decode csrf token", "err", err)
	} else {
		slog.DebugContext(
			ctx, "csrf token",
			"nonce", decoded.Nonce,
			"issued", time.Unix(decoded.Timestamp, 0).UTC().Format(time.DateTime),
		)
	}

	loginUrl := c.BaseUrl.JoinPath("login").String()
	res, err := c.Http.R().
		SetContext(ctx).
		SetHeaders(map[string]string{
			"Accept":  loginFormAccept,
			"Origin":  c.BaseUrl.Scheme + "://" + c.BaseUrl.Host,
			"Referer": loginUrl,
		}).
		SetFormData(map[string]string{
			"csrf_token": token,
			"tz":         strconv.Itoa(timezoneOffset()),
			"username":   username,
			"password":   password,
		}).
		Post("/login")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to make login request")
		return LoginResult{}, err
	}
	if res.IsError() || !strings.Contains(string(res.Body()), "dashboard") {
		slog.ErrorContext(ctx, "login failed", "status", res.StatusCode())
		span.SetStatus(codes.Error, ErrLoginFailed.Error())
		return LoginResult{}, ErrLoginFailed
	}

	result := LoginResult{Cookies: map[string]string{}}
	for _, cookie := range c.Http.GetClient().Jar.Cookies(c.BaseUrl) {
		result.Cookies[cookie.Name] = cookie.Value
	}
	for _, cookie := range res.Cookies() {
		result.Cookies[cookie.Name] = cookie.Value
		if result.ExpiresAt.IsZero() && !cookie.Expires.IsZero() {
			result.ExpiresAt = cookie.Expires
		}
	}
	for _, name := range sessionCookies {
		if _, ok := result.Cookies[name]; !ok {
			slog.WarnContext(ctx, "login response did not set session cookie", "cookie", name)
		}
	}

	slog.InfoContext(ctx, "login successful", "expires", expiryString(result.ExpiresAt))
	return result, nil
}

func expiryString(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Local().Format("2006-01-02 15:04:05 MST")
}
