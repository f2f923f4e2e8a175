// Package tts synthesizes Portuguese speech through the Google Translate TTS endpoint.
package tts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rbright/monkeyai/internal/config"
	"github.com/rbright/monkeyai/internal/version"
)

const (
	// MaxChunkChars is the longest text accepted by one endpoint request.
	MaxChunkChars = 100

	defaultLang       = "pt"
	maxParallelChunks = 4
	maxChunkBytes     = 4 << 20
)

// ErrEmptyText rejects synthesis of blank input.
var ErrEmptyText = errors.New("nothing to synthesize")

// Option customizes a GoogleTranslate synthesizer.
type Option func(*GoogleTranslate)

// WithEndpoint overrides how the request URL base is derived from the accent TLD.
func WithEndpoint(endpoint func(tld string) string) Option {
	return func(g *GoogleTranslate) {
		g.endpoint = endpoint
	}
}

// WithLanguage overrides the spoken language code (default "pt").
func WithLanguage(lang string) Option {
	return func(g *GoogleTranslate) {
		g.lang = lang
	}
}

// GoogleTranslate renders MP3 speech one short chunk per request and
// concatenates the MP3 frames in order.
type GoogleTranslate struct {
	client   *http.Client
	endpoint func(tld string) string
	lang     string
}

// NewGoogleTranslate builds a synthesizer. A nil client gets a timeout from cfg.
func NewGoogleTranslate(cfg config.TTSConfig, client *http.Client, opts ...Option) *GoogleTranslate {
	if client == nil {
		client = &http.Client{Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond}
	}
	g := &GoogleTranslate{
		client:   client,
		endpoint: defaultEndpoint,
		lang:     defaultLang,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func defaultEndpoint(tld string) string {
	return "https://translate.google." + tld + "/translate_tts"
}

// Synthesize returns MP3 audio for text spoken with the variant's accent.
func (g *GoogleTranslate) Synthesize(ctx context.Context, text string, variant config.VoiceVariant) ([]byte, error) {
	chunks := Chunk(text, MaxChunkChars)
	if len(chunks) == 0 {
		return nil, ErrEmptyText
	}

	base := g.endpoint(variant.TLD())
	parts := make([][]byte, len(chunks))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxParallelChunks)
	for i, chunk := range chunks {
		group.Go(func() error {
			audio, err := g.fetch(groupCtx, base, chunk, i, len(chunks))
			if err != nil {
				return fmt.Errorf("tts chunk %d/%d: %w", i+1, len(chunks), err)
			}
			parts[i] = audio
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return bytes.Join(parts, nil), nil
}

func (g *GoogleTranslate) fetch(ctx context.Context, base, chunk string, idx, total int) ([]byte, error) {
	query := url.Values{}
	query.Set("ie", "UTF-8")
	query.Set("client", "tw-ob")
	query.Set("tl", g.lang)
	query.Set("q", chunk)
	query.Set("total", strconv.Itoa(total))
	query.Set("idx", strconv.Itoa(idx))
	query.Set("textlen", strconv.Itoa(len([]rune(chunk))))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("Referer", "https://translate.google.com/")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(io.LimitReader(resp.Body, maxChunkBytes))
	if err != nil {
		return nil, err
	}
	if len(audio) == 0 {
		return nil, errors.New("empty audio body")
	}
	return audio, nil
}

// Chunk splits text on word boundaries into pieces of at most limit runes.
// Words longer than limit are cut hard.
func Chunk(text string, limit int) []string {
	if limit <= 0 {
		limit = MaxChunkChars
	}

	var (
		chunks  []string
		current []rune
	)
	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, string(current))
			current = current[:0]
		}
	}

	for _, word := range strings.Fields(text) {
		runes := []rune(word)
		for len(runes) > limit {
			flush()
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
		}
		if len(current) > 0 && len(current)+1+len(runes) > limit {
			flush()
		}
		if len(current) > 0 {
			current = append(current, ' ')
		}
		current = append(current, runes...)
	}
	flush()
	return chunks
}
