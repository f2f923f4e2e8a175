package conversation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppendExchangeKeepsOrder(t *testing.T) {
	log := NewLog()
	log.AppendExchange("oi", "olá")
	log.AppendExchange("tudo bem?", "tudo")

	require.Equal(t, 4, log.Len())
	require.Equal(t, []Entry{
		{Role: RoleUser, Content: "oi"},
		{Role: RoleAssistant, Content: "olá"},
		{Role: RoleUser, Content: "tudo bem?"},
		{Role: RoleAssistant, Content: "tudo"},
	}, log.Entries())
}

func TestEntriesReturnsCopy(t *testing.T) {
	log := NewLog()
	log.AppendExchange("a", "b")

	entries := log.Entries()
	entries[0].Content = "mutated"

	require.Equal(t, "a", log.Entries()[0].Content)
}

func TestWindowReturnsMostRecentLast(t *testing.T) {
	log := NewLog()
	log.AppendExchange("u1", "a1")
	log.AppendExchange("u2", "a2")
	log.AppendExchange("u3", "a3")

	window := log.Window(3)
	require.Len(t, window, 3)
	require.Equal(t, "a2", window[0].Content)
	require.Equal(t, "u3", window[1].Content)
	require.Equal(t, "a3", window[2].Content)

	require.Len(t, log.Window(100), 6)
	require.Nil(t, log.Window(0))
}

func TestClearKeepsPreviousSnapshots(t *testing.T) {
	log := NewLog()
	log.AppendExchange("u", "a")
	snapshot := log.Entries()

	log.Clear()
	require.Equal(t, 0, log.Len())
	require.Len(t, snapshot, 2)
}

func TestFormatPrompt(t *testing.T) {
	history := []Entry{
		{Role: RoleUser, Content: "oi"},
		{Role: RoleAssistant, Content: " olá! "},
	}

	require.Equal(t, "Human: oi\nMonkeyAI: olá!\n", FormatHistory(history))
	require.Equal(t, "Human: oi\nMonkeyAI: olá!\nHuman: como vai?\nMonkeyAI:", FormatPrompt(history, "como vai?"))
	require.Equal(t, "Human: oi\nMonkeyAI:", FormatPrompt(nil, "oi"))
}
