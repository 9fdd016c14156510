package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContainsAll(t *testing.T) {
	require.True(t, ContainsAll("Play in browser", "play", "browser"))
	require.True(t, ContainsAll("RUN IN BROWSER AND PLAY", "play", "browser"))
	require.False(t, ContainsAll("Download", "play", "browser"))
	require.False(t, ContainsAll("Play", "play", "browser"))
}

func TestFirstField(t *testing.T) {
	require.Equal(t, "3", FirstField("  3 files"))
	require.Equal(t, "", FirstField("   "))
}

func TestMatchName(t *testing.T) {
	require.True(t, MatchName("A Short Hike", []string{"shorthike"}))
	require.False(t, MatchName("Celeste", []string{"shorthike"}))
}
