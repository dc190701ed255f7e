package editor

import "fmt"

// InvalidArgumentError rejects a command or selection. The session is left
// exactly as it was.
type InvalidArgumentError struct {
	Command  string
	Argument string
	Reason   string
}

func (e *InvalidArgumentError) Error() string {
	if e.Command == "" {
		return fmt.Sprintf("invalid %s: %s", e.Argument, e.Reason)
	}
	return fmt.Sprintf("%s: invalid %s: %s", e.Command, e.Argument, e.Reason)
}

func invalid(command, argument, reason string) *InvalidArgumentError {
	return &InvalidArgumentError{Command: command, Argument: argument, Reason: reason}
}

// withCommand stamps the command name on selection errors raised by helpers.
func withCommand(command string, err error) error {
	if ia, ok := err.(*InvalidArgumentError); ok && ia.Command == "" {
		out := *ia
		out.Command = command
		return &out
	}
	return err
}
