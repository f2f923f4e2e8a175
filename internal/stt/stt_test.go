package stt

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rbright/monkeyai/internal/config"
)

func TestGroqTranscribeSendsMultipartRequest(t *testing.T) {
	var (
		model    string
		lang     string
		filename string
		payload  []byte
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		model = r.FormValue("model")
		lang = r.FormValue("language")

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		filename = header.Filename
		payload, err = io.ReadAll(file)
		require.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"text":"  quero ouvir jazz  "}`)
	}))
	defer server.Close()

	cfg := config.Default().STT
	cfg.BaseURL = server.URL
	tr := NewGroq(cfg, "gsk-test", server.Client())

	text, err := tr.Transcribe(context.Background(), []byte("RIFFfake"), "pt-BR")
	require.NoError(t, err)
	require.Equal(t, "quero ouvir jazz", text)
	require.Equal(t, "whisper-large-v3", model)
	require.Equal(t, "pt", lang)
	require.Equal(t, "utterance.wav", filename)
	require.Equal(t, []byte("RIFFfake"), payload)
}

func TestGroqTranscribeRejectsEmptyAudio(t *testing.T) {
	tr := NewGroq(config.Default().STT, "k", nil)
	_, err := tr.Transcribe(context.Background(), nil, "pt-BR")
	require.ErrorIs(t, err, ErrNoAudio)
}

func TestGroqTranscribeSurfacesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"message":"could not process file"}}`)
	}))
	defer server.Close()

	cfg := config.Default().STT
	cfg.BaseURL = server.URL
	tr := NewGroq(cfg, "k", server.Client())

	_, err := tr.Transcribe(context.Background(), []byte("garbage"), "pt-BR")
	require.Error(t, err)
	require.Contains(t, err.Error(), "groq transcription")
}

func TestBaseLanguage(t *testing.T) {
	require.Equal(t, "pt", BaseLanguage("pt-BR"))
	require.Equal(t, "pt", BaseLanguage("pt-PT"))
	require.Equal(t, "en", BaseLanguage(" en-US "))
	require.Equal(t, "", BaseLanguage("%%%"))
}
