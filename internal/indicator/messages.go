package indicator

import (
	"os"
	"strings"
)

// Messages holds user-facing status strings.
type Messages struct {
	Listening     string
	Thinking      string
	TooShort      string
	NotUnderstood string
	ReplyFailed   string
	SpeechFailed  string
	Cleared       string
	GenericError  string
	ChatHint      string
	You           string
	PushToTalk    string
}

// MessagesFromEnv picks messages for $LANG, defaulting to Brazilian Portuguese.
func MessagesFromEnv() Messages {
	return MessagesFor(os.Getenv("LANG"))
}

// MessagesFor picks messages for a POSIX locale string such as "en_US.UTF-8".
func MessagesFor(locale string) Messages {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if strings.HasPrefix(locale, "en") {
		return Messages{
			Listening:     "Listening…",
			Thinking:      "Thinking…",
			TooShort:      "Recording too short",
			NotUnderstood: "Could not understand the audio",
			ReplyFailed:   "Could not get a reply",
			SpeechFailed:  "Voice reply unavailable",
			Cleared:       "History cleared",
			GenericError:  "Something went wrong",
			You:           "You",
			ChatHint:      "Type a message (/clear clears history, /quit exits)",
			PushToTalk:    "Press Enter to talk, Enter again to send (Ctrl+D quits)",
		}
	}
	return Messages{
		Listening:     "Ouvindo…",
		Thinking:      "Pensando…",
		TooShort:      "Gravação muito curta",
		NotUnderstood: "Não entendi o áudio",
		ReplyFailed:   "Não consegui responder agora",
		SpeechFailed:  "Resposta em voz indisponível",
		Cleared:       "Histórico limpo",
		GenericError:  "Algo deu errado",
		You:           "Você",
		ChatHint:      "Digite uma mensagem (/limpar limpa o histórico, /sair encerra)",
		PushToTalk:    "Pressione Enter para falar e Enter de novo para enviar (Ctrl+D encerra)",
	}
}
