// Package intent classifies resolved utterance text into chat or redirect commands.
package intent

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Kind tags the classification result.
type Kind int

const (
	KindChat Kind = iota
	KindRedirect
)

func (k Kind) String() string {
	switch k {
	case KindChat:
		return "chat"
	case KindRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Target names the external destination of a redirect.
type Target string

const (
	TargetYouTube Target = "youtube"
	TargetSearch  Target = "search"
)

// Intent is the tagged classification of one utterance.
//
// Text always carries the original input. Target and Query are set only
// for KindRedirect.
type Intent struct {
	Kind   Kind
	Target Target
	Query  string
	Text   string
}

// IsRedirect reports whether the intent maps to an external URL.
func (i Intent) IsRedirect() bool {
	return i.Kind == KindRedirect
}

// URL returns the external search URL for a redirect, or "" for chat.
func (i Intent) URL() string {
	if i.Kind != KindRedirect {
		return ""
	}
	switch i.Target {
	case TargetYouTube:
		return "https://www.youtube.com/results?search_query=" + url.QueryEscape(i.Query)
	case TargetSearch:
		return "https://www.google.com/search?q=" + url.QueryEscape(i.Query)
	default:
		return ""
	}
}

// Confirmation returns the deterministic assistant reply for a redirect.
func (i Intent) Confirmation() string {
	if i.Kind != KindRedirect {
		return ""
	}
	switch i.Target {
	case TargetYouTube:
		return "Abrindo YouTube: " + i.Query
	case TargetSearch:
		return "Pesquisando: " + i.Query
	default:
		return ""
	}
}

// Rule is one redirect vocabulary evaluated in priority order.
type Rule struct {
	Target Target
	// Triggers are detected and stripped from the query.
	Triggers []string
	// Cues are detected but kept in the query as content words.
	Cues []string
	// StopWords are stripped from the query but never detect on their own.
	StopWords []string
}

// DefaultRules checks YouTube before Search; the first non-empty query wins.
var DefaultRules = []Rule{
	{
		Target:    TargetYouTube,
		Triggers:  []string{"tocar", "ouvir", "ver", "assistir", "youtube"},
		Cues:      []string{"vídeo", "música", "clipe"},
		StopWords: []string{"video", "musica", "no", "na", "quero", "queria"},
	},
	{
		Target:    TargetSearch,
		Triggers:  []string{"pesquisar", "buscar", "google", "procurar"},
		StopWords: []string{"sobre", "no", "na", "quero", "queria"},
	},
}

// Classify maps text to an Intent using DefaultRules.
func Classify(text string) Intent {
	return ClassifyWith(DefaultRules, text)
}

// ClassifyWith maps text to an Intent using the given ordered rules.
// It never fails: input without a usable redirect query is chat.
func ClassifyWith(rules []Rule, text string) Intent {
	// Recognizers and some keyboards emit decomposed accents; rules are NFC.
	tokens := strings.Fields(cases.Lower(language.BrazilianPortuguese).String(norm.NFC.String(text)))
	if len(tokens) == 0 {
		return Intent{Kind: KindChat, Text: text}
	}

	for _, rule := range rules {
		if !rule.detects(tokens) {
			continue
		}
		query := rule.residual(tokens)
		if query == "" {
			continue
		}
		return Intent{Kind: KindRedirect, Target: rule.Target, Query: query, Text: text}
	}

	return Intent{Kind: KindChat, Text: text}
}

func (r Rule) detects(tokens []string) bool {
	for _, token := range tokens {
		word := bareWord(token)
		if contains(r.Triggers, word) || contains(r.Cues, word) {
			return true
		}
	}
	return false
}

func (r Rule) residual(tokens []string) string {
	kept := make([]string, 0, len(tokens))
	for _, token := range tokens {
		word := bareWord(token)
		if word == "" || contains(r.Triggers, word) || contains(r.StopWords, word) {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}

// bareWord trims punctuation that speech recognizers and typists attach to words.
func bareWord(token string) string {
	return strings.Trim(token, ".,;:!?¿¡\"'()[]")
}

func contains(words []string, word string) bool {
	for _, w := range words {
		if w == word {
			return true
		}
	}
	return false
}
