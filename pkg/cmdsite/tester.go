package cmdsite

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

type CommandInput struct {
	Name string
	Args string
	Env  string
	Dir  string
}

type CommandOutput struct {
	Stdout     string
	Stderr     string
	ExitStatus int
}

func NewInput(name string, args []string, env map[string]string) CommandInput {
	envs := []string{}
	for k, v := range env {
		envs = append(envs, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(envs)
	input := CommandInput{
		Name: name,
		Args: strings.Join(args, ","),
		Env:  strings.Join(envs, ","),
	}
	return input
}

// In returns a copy of the input that is expected to run in dir
func (i CommandInput) In(dir string) CommandInput {
	i.Dir = dir
	return i
}

func (i CommandInput) String() string {
	s := i.Name + " " + strings.Replace(i.Args, ",", " ", -1)
	if i.Dir != "" {
		s += " (in " + i.Dir + ")"
	}
	return s
}

// Recorder answers commands from Expectations and records every command it sees, in order.
type Recorder struct {
	Expectations map[CommandInput]CommandOutput

	// AllowUnexpected makes commands missing from Expectations succeed with no output
	AllowUnexpected bool

	Calls []Call
}

// Call is a single command seen by a Recorder
type Call struct {
	Name string
	Args []string
	Dir  string
}

func (c Call) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

func NewRecorder(expectations map[CommandInput]CommandOutput) *Recorder {
	return &Recorder{Expectations: expectations}
}

func (r *Recorder) RunCommand(name string, args []string, dir string, stdout, stderr io.Writer, env map[string]string) error {
	input := NewInput(name, args, env).In(dir)
	r.Calls = append(r.Calls, Call{Name: name, Args: append([]string{}, args...), Dir: dir})

	output, ok := r.Expectations[input]
	if !ok {
		if r.AllowUnexpected {
			return nil
		}
		return fmt.Errorf("unexpected input: %v", input)
	}

	if err := write(stdout, output.Stdout); err != nil {
		return err
	}

	if err := write(stderr, output.Stderr); err != nil {
		return err
	}

	if output.ExitStatus != 0 {
		return &CommandError{Name: name, Args: args, ExitStatus: output.ExitStatus}
	}

	return nil
}

// Commands returns the recorded calls rendered as "name arg1 arg2"
func (r *Recorder) Commands() []string {
	cmds := make([]string, 0, len(r.Calls))
	for _, c := range r.Calls {
		cmds = append(cmds, c.String())
	}
	return cmds
}

func write(w io.Writer, s string) error {
	if w == nil || s == "" {
		return nil
	}

	n, err := io.WriteString(w, s)
	if err != nil {
		return err
	}

	if n != len(s) {
		return fmt.Errorf("insufficient write: wrote only %d of %d", n, len(s))
	}

	return nil
}
