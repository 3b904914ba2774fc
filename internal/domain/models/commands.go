package models

import "strings"

// CommandType enumerates the top-level chat commands the bot understands.
type CommandType string

const (
	CommandStart   CommandType = "start"
	CommandMutasi  CommandType = "mutasi"
	CommandCari    CommandType = "cari"
	CommandCancel  CommandType = "batal"
	CommandUnknown CommandType = "unknown"
	// CommandNone marks plain text that belongs to an active conversation.
	CommandNone CommandType = ""
)

// Command represents a parsed Telegram message.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command from a message text. Anything not starting
// with a slash is plain conversation input (CommandNone). The "@botname"
// suffix Telegram appends in group chats is stripped before matching.
func ParseCommand(message string) Command {
	trimmed := strings.TrimSpace(message)
	cmd := Command{Raw: message}

	if !strings.HasPrefix(trimmed, "/") {
		cmd.Type = CommandNone
		return cmd
	}

	tokens := strings.Fields(trimmed)
	head := strings.ToLower(strings.TrimPrefix(tokens[0], "/"))
	if at := strings.Index(head, "@"); at >= 0 {
		head = head[:at]
	}

	switch head {
	case string(CommandStart), "help":
		cmd.Type = CommandStart
	case string(CommandMutasi):
		cmd.Type = CommandMutasi
	case string(CommandCari):
		cmd.Type = CommandCari
	case string(CommandCancel), "cancel":
		cmd.Type = CommandCancel
	default:
		cmd.Type = CommandUnknown
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	return cmd
}
