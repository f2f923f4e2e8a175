package version

import "runtime"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return "monkeyai " + Version + " (commit=" + Commit + ", date=" + Date + ", go=" + runtime.Version() + ")"
}

// UserAgent identifies monkeyai on outbound HTTP requests.
func UserAgent() string {
	return "monkeyai/" + Version
}
