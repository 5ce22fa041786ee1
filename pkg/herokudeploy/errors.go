package herokudeploy

import (
	"errors"
	"fmt"
)

var (
	ErrCredentialWrite = errors.New("writing credentials failed")
	ErrGitSetup        = errors.New("configuring git failed")
	ErrRemoteBinding   = errors.New("binding remote failed")
	ErrConfigSync      = errors.New("setting config vars failed")
	ErrReleaseArtifact = errors.New("preparing Procfile failed")
	ErrDeploy          = errors.New("deploying failed")
	ErrHealthCheck     = errors.New("health check failed")
)

// StepError is returned by Run for the step that stopped the run
type StepError struct {
	Step string
	Kind error
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Step, e.Kind, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Is matches the kind of the step as well as anything in the wrapped chain
func (e *StepError) Is(target error) bool {
	return target == e.Kind
}
