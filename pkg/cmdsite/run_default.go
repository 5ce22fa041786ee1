package cmdsite

import (
	"io"

	"github.com/variantdev/heroku-deploy/pkg/shell"
)

// DefaultRunCommand runs commands on the host, streaming output line by line as it arrives
var DefaultRunCommand = NewRunCommand(shell.New())

func NewRunCommand(sh *shell.Shell) RunCommand {
	return func(name string, args []string, dir string, stdout, stderr io.Writer, env map[string]string) error {
		cmd := &shell.Command{
			Name: name,
			Args: args,
			Env:  env,
			Dir:  dir,
		}

		res, err := sh.Capture(cmd, shell.CaptureOpts{
			LogStdout: lineWriter(stdout),
			LogStderr: lineWriter(stderr),
		})
		if err != nil || res.ExitStatus != 0 {
			status := 1
			if res != nil && res.ExitStatus != 0 {
				status = res.ExitStatus
			}
			return &CommandError{Name: name, Args: args, ExitStatus: status, Err: err}
		}

		return nil
	}
}

func lineWriter(w io.Writer) func(string) {
	if w == nil {
		return nil
	}
	return func(line string) {
		io.WriteString(w, line+"\n")
	}
}
