package utils

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChoose(t *testing.T) {
	options := []string{"login", "store cookies", "quit"}

	testCases := []struct {
		name     string
		input    string
		expected int
		err      error
	}{
		{name: "by number", input: "2\n", expected: 1},
		{name: "by text", input: "QUIT\n", expected: 2},
		{name: "retry after invalid", input: "7\nnope\n1\n", expected: 0},
		{name: "blank lines are retries", input: "\n\n3\n", expected: 2},
		{name: "gives up", input: "a\nb\nc\n1\n", expected: -1, err: ErrTooManyAttempts},
		{name: "input runs out", input: "a\n", expected: -1, err: ErrTooManyAttempts},
		{name: "last line without newline", input: "x\n2", expected: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			idx, err := Choose(strings.NewReader(tc.input), out, "what now?", options, 3)
			require.Equal(t, tc.expected, idx)
			if tc.err != nil {
				require.True(t, errors.Is(err, tc.err))
				return
			}
			require.NoError(t, err)
			require.Contains(t, out.String(), "2) store cookies")
		})
	}
}

func TestConfirm(t *testing.T) {
	require.True(t, Confirm(strings.NewReader("y\n"), &bytes.Buffer{}, "sure?"))
	require.True(t, Confirm(strings.NewReader(" Yes \n"), &bytes.Buffer{}, "sure?"))
	require.False(t, Confirm(strings.NewReader("\n"), &bytes.Buffer{}, "sure?"))
	require.False(t, Confirm(strings.NewReader(""), &bytes.Buffer{}, "sure?"))
}

func TestSuggest(t *testing.T) {
	titles := []string{"A Short Hike", "Celeste Classic", "Celeste", "Hollow Knight"}

	require.Equal(t, []string{"Celeste"}, Suggest("Celest", titles, 1))
	require.Contains(t, Suggest("celeste classic", titles, 3), "Celeste Classic")
	require.Equal(t, []string{"A Short Hike"}, Suggest("hike", titles, 3))
	require.Empty(t, Suggest("Minecraft", titles, 3))
}
