package shell

import (
	"errors"
	"io"
)

// Pipe starts the command and returns readers connected to its stdout and stderr.
// Both readers reach EOF once the command exits, after which the result is sent.
func (s *Shell) Pipe(cmd *Command) (<-chan Result, io.Reader, io.Reader) {
	res := make(chan Result, 1)

	if cmd.Stdout != nil || cmd.Stderr != nil {
		res <- Result{ExitStatus: 1, Error: errors.New("exec: Stdout or Stderr already set")}
		return res, eofReader{}, eofReader{}
	}

	stdoutR, stdoutW := io.Pipe()
	stderrR, stderrW := io.Pipe()
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW

	go func() {
		r := s.Wait(cmd)
		stdoutW.Close()
		stderrW.Close()
		res <- r
	}()

	return res, stdoutR, stderrR
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) {
	return 0, io.EOF
}
