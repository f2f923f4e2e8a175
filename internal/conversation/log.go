// Package conversation holds the append-only exchange history shown to the user.
package conversation

import (
	"strings"
	"sync"
)

// Role identifies the author of one entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Entry is one visible message. Entries are never mutated after append.
type Entry struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Log is the ordered conversation history. Insertion order is display order.
//
// Writes come only from the turn controller; readers (IPC, terminal) get copies.
type Log struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{}
}

// AppendExchange appends one user/assistant pair atomically.
func (l *Log) AppendExchange(user, assistant string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries,
		Entry{Role: RoleUser, Content: user},
		Entry{Role: RoleAssistant, Content: assistant},
	)
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Entries returns a copy of every entry in display order.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Window returns a copy of the last n entries, most recent last.
func (l *Log) Window(n int) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n <= 0 {
		return nil
	}
	start := len(l.entries) - n
	if start < 0 {
		start = 0
	}
	out := make([]Entry, len(l.entries)-start)
	copy(out, l.entries[start:])
	return out
}

// Clear drops every entry. Previously returned copies stay valid.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// FormatHistory renders entries as role-prefixed lines, oldest first.
func FormatHistory(entries []Entry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(rolePrefix(e.Role))
		b.WriteString(": ")
		b.WriteString(strings.TrimSpace(e.Content))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatPrompt renders history followed by the new user input and an open assistant line.
func FormatPrompt(history []Entry, input string) string {
	var b strings.Builder
	b.WriteString(FormatHistory(history))
	b.WriteString(rolePrefix(RoleUser))
	b.WriteString(": ")
	b.WriteString(strings.TrimSpace(input))
	b.WriteString("\n")
	b.WriteString(rolePrefix(RoleAssistant))
	b.WriteString(":")
	return b.String()
}

func rolePrefix(role Role) string {
	switch role {
	case RoleUser:
		return "Human"
	case RoleAssistant:
		return "MonkeyAI"
	default:
		return string(role)
	}
}
