package ipc

// Commands understood by a running session.
const (
	CommandStatus  = "status"
	CommandHistory = "history"
	CommandClear   = "clear"
)

type Request struct {
	Command string `json:"command"`
}

type Response struct {
	OK      bool           `json:"ok"`
	State   string         `json:"state,omitempty"`
	Mode    string         `json:"mode,omitempty"`
	Entries []HistoryEntry `json:"entries,omitempty"`
	Message string         `json:"message,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// HistoryEntry is one conversation log line as sent over the socket.
type HistoryEntry struct {
	Role string `json:"role"`
	Text string `json:"text"`
}
