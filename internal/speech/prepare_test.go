package speech

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestPrepareLeavesShortTextAlone(t *testing.T) {
	require.Equal(t, "Olá, tudo bem?", Prepare("  Olá, tudo bem? ", 250))
}

func TestPrepareTruncatesWithEllipsis(t *testing.T) {
	long := strings.Repeat("á", 300)

	got := Prepare(long, 250)
	require.True(t, strings.HasSuffix(got, "..."))
	require.Equal(t, 250, utf8.RuneCountInString(strings.TrimSuffix(got, "...")))
}

func TestPrepareDefaultsCap(t *testing.T) {
	got := Prepare(strings.Repeat("a", DefaultMaxChars+10), 0)
	require.Equal(t, strings.Repeat("a", DefaultMaxChars)+"...", got)
}

func TestPrepareReplacesURLs(t *testing.T) {
	got := Prepare("Veja https://www.youtube.com/results?search_query=jazz e www.google.com/search?q=x agora", 250)
	require.Equal(t, "Veja link e link agora", got)
	require.NotContains(t, got, "http")
	require.NotContains(t, got, "www.")
}

func TestPrepareScrubsBeforeTruncating(t *testing.T) {
	text := strings.Repeat("b", 20) + " https://example.com/" + strings.Repeat("x", 200)
	got := Prepare(text, 25)
	require.NotContains(t, got, "example")
	require.Equal(t, strings.Repeat("b", 20)+" link", got)
}
