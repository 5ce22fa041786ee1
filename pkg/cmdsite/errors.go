package cmdsite

import (
	"fmt"
	"strings"
)

// CommandError is returned for every command that could not be started or exited non-zero
type CommandError struct {
	Name       string
	Args       []string
	ExitStatus int
	Err        error
}

func (e *CommandError) Error() string {
	cmd := strings.Join(append([]string{e.Name}, e.Args...), " ")
	if e.Err != nil {
		return fmt.Sprintf("command %q exited with status %d: %v", cmd, e.ExitStatus, e.Err)
	}
	return fmt.Sprintf("command %q exited with status %d", cmd, e.ExitStatus)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
