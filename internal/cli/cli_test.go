package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDefaultsToHelp(t *testing.T) {
	parsed, err := Parse(nil)
	require.NoError(t, err)
	require.True(t, parsed.ShowHelp)
	require.Equal(t, CommandHelp, parsed.Command)
}

func TestParseCommandWithConfig(t *testing.T) {
	parsed, err := Parse([]string{"--config", "/tmp/monkeyai.jsonc", "doctor"})
	require.NoError(t, err)
	require.Equal(t, CommandDoctor, parsed.Command)
	require.Equal(t, "/tmp/monkeyai.jsonc", parsed.ConfigPath)
	require.False(t, parsed.ShowHelp)
	require.False(t, parsed.Verbose)
}

func TestParseArgMatrix(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantErr     string
		wantCmd     Command
		wantHelp    bool
		wantPath    string
		wantVerbose bool
	}{
		{
			name:     "help short flag",
			args:     []string{"-h"},
			wantCmd:  CommandHelp,
			wantHelp: true,
		},
		{
			name:     "help long flag",
			args:     []string{"--help"},
			wantCmd:  CommandHelp,
			wantHelp: true,
		},
		{
			name:    "version flag",
			args:    []string{"--version"},
			wantCmd: CommandVersion,
		},
		{
			name:    "config after command",
			args:    []string{"status", "--config", "/tmp/cfg"},
			wantErr: "unexpected arguments after command",
		},
		{
			name:    "missing config path",
			args:    []string{"--config"},
			wantErr: "requires a path",
		},
		{
			name:    "empty config equals form",
			args:    []string{"--config=", "chat"},
			wantErr: "requires a path",
		},
		{
			name:    "unknown flag",
			args:    []string{"--bogus"},
			wantErr: "unknown flag",
		},
		{
			name:    "unknown command",
			args:    []string{"toggle"},
			wantErr: "unknown command",
		},
		{
			name:    "extra args after command",
			args:    []string{"doctor", "extra"},
			wantErr: "unexpected arguments",
		},
		{
			name:        "verbose listen",
			args:        []string{"-v", "listen"},
			wantCmd:     CommandListen,
			wantVerbose: true,
		},
		{
			name:        "chat with config equals form",
			args:        []string{"--config=/tmp/cfg", "--verbose", "chat"},
			wantCmd:     CommandChat,
			wantPath:    "/tmp/cfg",
			wantVerbose: true,
		},
		{
			name:     "clear with config",
			args:     []string{"--config", "/tmp/cfg", "clear"},
			wantCmd:  CommandClear,
			wantPath: "/tmp/cfg",
		},
		{
			name:    "history",
			args:    []string{"history"},
			wantCmd: CommandHistory,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := Parse(tc.args)
			if tc.wantErr != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.wantCmd, parsed.Command)
			require.Equal(t, tc.wantHelp, parsed.ShowHelp)
			require.Equal(t, tc.wantPath, parsed.ConfigPath)
			require.Equal(t, tc.wantVerbose, parsed.Verbose)
		})
	}
}

func TestCommandOwner(t *testing.T) {
	require.True(t, CommandChat.Owner())
	require.True(t, CommandListen.Owner())
	require.False(t, CommandStatus.Owner())
	require.False(t, CommandClear.Owner())
}

func TestHelpTextIncludesCoreCommands(t *testing.T) {
	text := HelpText("monkeyai")
	for _, want := range []string{"chat", "listen", "history", "clear", "doctor", "/limpar", "--config PATH", "config.jsonc"} {
		require.Contains(t, text, want)
	}
}
