// Package credstore keeps the request headers of an authenticated itch.io
// session sealed on disk.
package credstore

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"
)

// DefaultKey is used when no `credentials_key` is configured.
const DefaultKey = "c2NyYXRjaC1zdG9yZS1jcmVkZW50aWFscy1rZXktMDE="

const userAgent = "Mozilla/5.0 (Linux; Android 6.0; Nexus 5 Build/MRA58N) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Mobile Safari/537.36"

var (
	ErrNotFound = errors.New("credential file not found")
	ErrDecrypt  = errors.New("could not decrypt credential file")
)

// Headers are attached verbatim to every authenticated request.
type Headers map[string]string

// NewHeaders builds the header set of a logged in session from its two
// cookies, missing cookies are left empty.
func NewHeaders(cookies map[string]string) Headers {
	return Headers{
		"Accept":          "*/*",
		"Accept-Encoding": "gzip, deflate, br",
		"Accept-Language": "en-GB,en-US;q=0.9,en;q=0.8",
		"Cache-Control":   "no-cache",
		"Cookie": fmt.Sprintf(
			"itchio_token=%s; itchio=%s",
			cookies["itchio_token"], cookies["itchio"],
		),
		"User-Agent": userAgent,
	}
}

var sessionCookies = []string{"itchio_token", "itchio"}

// Validate reports whether the Cookie header carries both session cookies
// with non-empty values.
func (h Headers) Validate() bool {
	req := &http.Request{Header: http.Header{"Cookie": {h["Cookie"]}}}
	for _, name := range sessionCookies {
		cookie, err := req.Cookie(name)
		if err != nil || cookie.Value == "" {
			return false
		}
	}
	return true
}

type Store struct {
	Path string
	key  [32]byte
}

// New creates a store for the file at `path`, `key` is the base64 encoding
// of a 32 byte secret. An empty key selects DefaultKey.
func New(path string, key string) (Store, error) {
	if key == "" {
		key = DefaultKey
	}
	raw, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		return Store{}, fmt.Errorf("decode credentials key: %w", err)
	}
	if len(raw) != 32 {
		return Store{}, fmt.Errorf("credentials key must be 32 bytes, got %d", len(raw))
	}

	s := Store{Path: path}
	copy(s.key[:], raw)
	return s, nil
}

func (s Store) Save(headers Headers) error {
	slog.Info("storing credentials", "path", s.Path)

	plaintext, err := json.Marshal(headers)
	if err != nil {
		return err
	}

	var nonce [24]byte
	_, err = io.ReadFull(rand.Reader, nonce[:])
	if err != nil {
		return err
	}
	sealed := secretbox.Seal(nonce[:], plaintext, &nonce, &s.key)

	encoded := base64.URLEncoding.EncodeToString(sealed)
	err = os.WriteFile(s.Path, []byte(encoded), 0600)
	if err != nil {
		return err
	}

	slog.Info("credentials stored", "path", s.Path)
	return nil
}

// Fetch returns ErrNotFound when no credentials were saved yet.
func (s Store) Fetch() (Headers, error) {
	encoded, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	sealed, err := base64.URLEncoding.DecodeString(strings.TrimSpace(string(encoded)))
	if err != nil || len(sealed) < 24 {
		return nil, ErrDecrypt
	}
	var nonce [24]byte
	copy(nonce[:], sealed[:24])

	plaintext, ok := secretbox.Open(nil, sealed[24:], &nonce, &s.key)
	if !ok {
		return nil, ErrDecrypt
	}

	var headers Headers
	err = json.Unmarshal(plaintext, &headers)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDecrypt, err.Error())
	}
	slog.Debug("credentials fetched", "path", s.Path)
	return headers, nil
}

func (s Store) Clear() error {
	err := os.Remove(s.Path)
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	slog.Info("credentials cleared", "path", s.Path)
	return nil
}
