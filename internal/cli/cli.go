// Package cli parses the monkeyai command line.
package cli

import (
	"errors"
	"fmt"
	"strings"
)

type Command string

const (
	CommandChat    Command = "chat"
	CommandListen  Command = "listen"
	CommandStatus  Command = "status"
	CommandHistory Command = "history"
	CommandClear   Command = "clear"
	CommandDevices Command = "devices"
	CommandDoctor  Command = "doctor"
	CommandVersion Command = "version"
	CommandHelp    Command = "help"
)

var validCommands = map[Command]struct{}{
	CommandChat:    {},
	CommandListen:  {},
	CommandStatus:  {},
	CommandHistory: {},
	CommandClear:   {},
	CommandDevices: {},
	CommandDoctor:  {},
	CommandVersion: {},
	CommandHelp:    {},
}

// Owner reports whether the command runs a conversation session.
func (c Command) Owner() bool {
	return c == CommandChat || c == CommandListen
}

type Parsed struct {
	Command    Command
	ConfigPath string
	Verbose    bool
	ShowHelp   bool
}

func Parse(args []string) (Parsed, error) {
	parsed := Parsed{Command: CommandHelp, ShowHelp: true}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == "-h" || arg == "--help":
			parsed.ShowHelp = true
			parsed.Command = CommandHelp
		case arg == "--version":
			parsed.ShowHelp = false
			parsed.Command = CommandVersion
		case arg == "-v" || arg == "--verbose":
			parsed.Verbose = true
		case arg == "--config":
			i++
			if i >= len(args) || strings.TrimSpace(args[i]) == "" {
				return Parsed{}, errors.New("--config requires a path")
			}
			parsed.ConfigPath = args[i]
		case strings.HasPrefix(arg, "--config="):
			path := strings.TrimPrefix(arg, "--config=")
			if strings.TrimSpace(path) == "" {
				return Parsed{}, errors.New("--config requires a path")
			}
			parsed.ConfigPath = path
		case strings.HasPrefix(arg, "-"):
			return Parsed{}, fmt.Errorf("unknown flag: %s", arg)
		default:
			cmd := Command(arg)
			if _, ok := validCommands[cmd]; !ok {
				return Parsed{}, fmt.Errorf("unknown command: %s", arg)
			}

			parsed.Command = cmd
			parsed.ShowHelp = cmd == CommandHelp
			if i != len(args)-1 {
				return Parsed{}, fmt.Errorf("unexpected arguments after command %q", arg)
			}
		}
	}

	return parsed, nil
}

func HelpText(binaryName string) string {
	return fmt.Sprintf(`Usage:
  %[1]s [--config PATH] [--verbose] <command>

Commands:
  chat      Interactive text conversation (one line per turn)
  listen    Voice conversation: press Enter to start and stop recording
  status    Print the phase of the running session
  history   Print the running session's conversation log
  clear     Clear the running session's conversation log
  devices   List available input devices
  doctor    Run configuration and environment checks
  version   Print version information
  help      Show this help

In chat, type /limpar (or /clear) to clear the history and /sair to quit.

Flags:
  --config PATH   Config file path (default: $XDG_CONFIG_HOME/monkeyai/config.jsonc)
  -v, --verbose   Log per-stage turn timings
  -h, --help      Show help
  --version       Show version
`, binaryName)
}
