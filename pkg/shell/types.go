package shell

import (
	"io"
	"strings"
)

type Command struct {
	Name           string
	Args           []string
	Stdout, Stderr io.Writer
	Stdin          io.Reader

	// Env is merged over the environment of the current process
	Env map[string]string

	// Dir is the working directory of this command. Empty means the current directory
	Dir string
}

func (c *Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

type Exec func(*Command) Result

type Result struct {
	ExitStatus int
	Error      error
}
