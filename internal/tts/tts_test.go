package tts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/rbright/monkeyai/internal/config"
)

func TestChunk(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  []string
	}{
		{name: "blank", input: "  \n ", limit: 10, want: nil},
		{name: "fits", input: "olá mundo", limit: 10, want: []string{"olá mundo"}},
		{name: "word boundary", input: "um dois três quatro", limit: 8, want: []string{"um dois", "três", "quatro"}},
		{name: "collapses whitespace", input: "a   b\n\nc", limit: 100, want: []string{"a b c"}},
		{name: "long word cut", input: "abcdefghij k", limit: 4, want: []string{"abcd", "efgh", "ij k"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Chunk(tc.input, tc.limit))
		})
	}
}

func TestChunkRespectsLimitForLongReply(t *testing.T) {
	text := strings.Repeat("não há problema algum ", 20)
	for _, chunk := range Chunk(text, MaxChunkChars) {
		require.LessOrEqual(t, utf8.RuneCountInString(chunk), MaxChunkChars)
	}
}

type ttsRecorder struct {
	mu      sync.Mutex
	queries map[string]string
	paths   []string
}

func newTTSServer(t *testing.T, rec *ttsRecorder) *httptest.Server {
	t.Helper()
	rec.queries = make(map[string]string)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.mu.Lock()
		rec.paths = append(rec.paths, r.URL.Path)
		rec.queries[r.URL.Query().Get("idx")] = r.URL.Query().Get("q")
		rec.mu.Unlock()

		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("[" + r.URL.Query().Get("idx") + "]"))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestSynthesizeConcatenatesChunksInOrder(t *testing.T) {
	rec := &ttsRecorder{}
	server := newTTSServer(t, rec)

	g := NewGoogleTranslate(config.Default().TTS, server.Client(), WithEndpoint(func(tld string) string {
		return server.URL + "/" + tld + "/translate_tts"
	}))

	text := strings.Repeat("palavra ", 40)
	chunks := Chunk(text, MaxChunkChars)
	require.Greater(t, len(chunks), 2)

	audio, err := g.Synthesize(context.Background(), text, config.VoiceBrasil)
	require.NoError(t, err)

	var want strings.Builder
	for i := range chunks {
		want.WriteString("[" + string(rune('0'+i)) + "]")
	}
	require.Equal(t, want.String(), string(audio))

	for _, p := range rec.paths {
		require.Equal(t, "/com.br/translate_tts", p)
	}
	require.Equal(t, chunks[0], rec.queries["0"])
}

func TestSynthesizePortugalUsesPTDomain(t *testing.T) {
	rec := &ttsRecorder{}
	server := newTTSServer(t, rec)

	g := NewGoogleTranslate(config.Default().TTS, server.Client(), WithEndpoint(func(tld string) string {
		return server.URL + "/" + tld + "/translate_tts"
	}))

	_, err := g.Synthesize(context.Background(), "bom dia", config.VoicePortugal)
	require.NoError(t, err)
	require.Equal(t, []string{"/pt/translate_tts"}, rec.paths)
	require.Equal(t, "bom dia", rec.queries["0"])
}

func TestSynthesizeRejectsBlankText(t *testing.T) {
	g := NewGoogleTranslate(config.Default().TTS, nil)
	_, err := g.Synthesize(context.Background(), "   ", config.VoiceBrasil)
	require.ErrorIs(t, err, ErrEmptyText)
}

func TestSynthesizeFailsOnBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusTooManyRequests)
	}))
	defer server.Close()

	g := NewGoogleTranslate(config.Default().TTS, server.Client(), WithEndpoint(func(string) string {
		return server.URL
	}))
	_, err := g.Synthesize(context.Background(), "olá", config.VoiceBrasil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected status 429")
	require.Contains(t, err.Error(), "tts chunk 1/1")
}

func TestSynthesizeFailsOnEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	g := NewGoogleTranslate(config.Default().TTS, server.Client(), WithEndpoint(func(string) string {
		return server.URL
	}))
	_, err := g.Synthesize(context.Background(), "olá", config.VoiceBrasil)
	require.ErrorContains(t, err, "empty audio body")
}

func TestDefaultEndpoint(t *testing.T) {
	require.Equal(t, "https://translate.google.com.br/translate_tts", defaultEndpoint(config.VoiceBrasil.TLD()))
	require.Equal(t, "https://translate.google.pt/translate_tts", defaultEndpoint(config.VoicePortugal.TLD()))
}
