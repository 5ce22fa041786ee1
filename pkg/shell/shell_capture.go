package shell

import (
	"bufio"
	"io"
	"io/ioutil"
	"strings"
)

type CaptureResult struct {
	ExitStatus int
	Stdout     string
	Stderr     string
}

// CaptureOpts is the line sink of a captured command.
// Each callback receives one line at a time, without the trailing newline.
type CaptureOpts struct {
	LogStdout func(string)
	LogStderr func(string)
}

const maxLineBytes = 1024 * 1024

func (s *Shell) Capture(cmd *Command, opts ...CaptureOpts) (*CaptureResult, error) {
	logStdout := func(_ string) {}
	logStderr := func(_ string) {}

	for _, o := range opts {
		if o.LogStdout != nil {
			logStdout = o.LogStdout
		}
		if o.LogStderr != nil {
			logStderr = o.LogStderr
		}
	}

	res, cmdReader, errReader := s.Pipe(cmd)

	stdout := make(chan string)
	stderr := make(chan string)

	go scanLines(cmdReader, stdout)
	go scanLines(errReader, stderr)

	var stdoutLines, stderrLines []string

	// Coordinating stdout/stderr in this single place to not screw up message ordering
	for stdout != nil || stderr != nil {
		select {
		case text, ok := <-stdout:
			if !ok {
				stdout = nil
				continue
			}
			logStdout(text)
			stdoutLines = append(stdoutLines, text)
		case text, ok := <-stderr:
			if !ok {
				stderr = nil
				continue
			}
			logStderr(text)
			stderrLines = append(stderrLines, text)
		}
	}

	r := <-res

	return &CaptureResult{
		ExitStatus: r.ExitStatus,
		Stdout:     strings.Join(stdoutLines, "\n"),
		Stderr:     strings.Join(stderrLines, "\n"),
	}, r.Error
}

func scanLines(r io.Reader, lines chan<- string) {
	defer close(lines)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		lines <- scanner.Text()
	}
	if scanner.Err() != nil {
		// Keep draining so that the command never blocks on a full pipe
		io.Copy(ioutil.Discard, r)
	}
}
