package cmdsite

import (
	"bytes"
	"io"
	"os"
	"strings"

	"k8s.io/klog"
)

// RunCommand runs a single external command to completion.
// A non-zero exit is reported as a *CommandError.
type RunCommand func(name string, args []string, dir string, stdout, stderr io.Writer, env map[string]string) error

type CommandSite struct {
	RunCmd RunCommand

	Env map[string]string

	// Dir is the working directory every command of this site runs in
	Dir string

	Stdout, Stderr io.Writer
}

func New(opts ...Option) *CommandSite {
	s := &CommandSite{
		RunCmd: nil,
		Env:    map[string]string{},
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}

	for _, o := range opts {
		o(s)
	}

	if s.RunCmd == nil {
		s.RunCmd = DefaultRunCommand
	}

	return s
}

type Option func(*CommandSite)

func RunCmd(cmdr RunCommand) Option {
	return func(s *CommandSite) {
		if cmdr != nil {
			s.RunCmd = cmdr
		}
	}
}

func Dir(dir string) Option {
	return func(s *CommandSite) {
		s.Dir = dir
	}
}

// InDir returns a copy of the site whose commands run in dir
func (s *CommandSite) InDir(dir string) *CommandSite {
	site := *s
	site.Dir = dir
	return &site
}

func (s *CommandSite) RunCommand(cmd string, args []string, stdout, stderr io.Writer) error {
	return s.RunCmd(cmd, args, s.Dir, stdout, stderr, s.Env)
}

// Run runs the command streaming its output to the site's stdout and stderr
func (s *CommandSite) Run(binary string, args ...string) error {
	klog.V(1).Infof("running %s %s", binary, strings.Join(args, " "))
	return s.RunCommand(binary, args, s.Stdout, s.Stderr)
}

func (s *CommandSite) CaptureStrings(binary string, args []string) (string, string, error) {
	stdout, stderr, err := s.CaptureBytes(binary, args)

	var so, se string

	if stdout != nil {
		so = string(stdout)
	}

	if stderr != nil {
		se = string(stderr)
	}

	return so, se, err
}

func (s *CommandSite) CaptureBytes(binary string, args []string) ([]byte, []byte, error) {
	klog.V(1).Infof("running %s %s", binary, strings.Join(args, " "))

	var stdout, stderr bytes.Buffer
	err := s.RunCommand(binary, args, &stdout, &stderr)
	if err != nil {
		klog.V(1).Info(stderr.String())
	}
	return stdout.Bytes(), stderr.Bytes(), err
}
