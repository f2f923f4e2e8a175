package indicator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessagesDefaultToPortuguese(t *testing.T) {
	for _, locale := range []string{"", "pt_BR.UTF-8", "pt_PT.UTF-8", "fr_FR.UTF-8"} {
		require.Equal(t, "Ouvindo…", MessagesFor(locale).Listening, locale)
	}
}

func TestMessagesEnglish(t *testing.T) {
	msg := MessagesFor("en_US.UTF-8")
	require.Equal(t, "Listening…", msg.Listening)
	require.Equal(t, "Could not understand the audio", msg.NotUnderstood)
}

func TestMessagesFromEnv(t *testing.T) {
	t.Setenv("LANG", "en_GB.UTF-8")
	require.Equal(t, "Thinking…", MessagesFromEnv().Thinking)
}
