package credstore

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "itch.cred"), "")
	require.NoError(t, err)

	headers := NewHeaders(map[string]string{
		"itchio_token": "tok",
		"itchio":       "sess",
	})
	require.Equal(t, "itchio_token=tok; itchio=sess", headers["Cookie"])
	require.True(t, headers.Validate())

	err = store.Save(headers)
	require.NoError(t, err)

	raw, err := os.ReadFile(store.Path)
	require.NoError(t, err)
	require.False(t, strings.Contains(string(raw), "itchio_token"))

	fetched, err := store.Fetch()
	require.NoError(t, err)
	require.Equal(t, headers, fetched)
}

func TestMissingFile(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "itch.cred"), "")
	require.NoError(t, err)

	headers, err := store.Fetch()
	require.Nil(t, headers)
	require.True(t, errors.Is(err, ErrNotFound))

	err = store.Clear()
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestWrongKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "itch.cred")
	store, err := New(path, "")
	require.NoError(t, err)
	err = store.Save(NewHeaders(nil))
	require.NoError(t, err)

	other, err := New(path, base64.StdEncoding.EncodeToString(make([]byte, 32)))
	require.NoError(t, err)
	_, err = other.Fetch()
	require.True(t, errors.Is(err, ErrDecrypt))

	err = store.Clear()
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestInvalidKey(t *testing.T) {
	_, err := New("itch.cred", "c2hvcnQ=")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	require.False(t, Headers{}.Validate())
	require.False(t, Headers{"Cookie": "other=1"}.Validate())
	require.False(t, NewHeaders(nil).Validate())
	require.False(t, NewHeaders(map[string]string{}).Validate())
	require.False(t, NewHeaders(map[string]string{"itchio": "sess"}).Validate())
	require.False(t, NewHeaders(map[string]string{"itchio_token": "tok"}).Validate())
	require.True(t, NewHeaders(map[string]string{"itchio_token": "tok", "itchio": "sess"}).Validate())
	require.True(t, Headers{"Cookie": "itchio=sess; other=1; itchio_token=tok"}.Validate())
}
