// Package confapi holds the settings of a single deployment run.
// A Deployment is built once at startup and never modified afterwards.
package confapi

import "time"

type Deployment struct {
	Credentials Credentials
	App         App
	Source      Source
	Docker      Docker
	ConfigVars  ConfigVars
	HealthCheck HealthCheck

	// NetrcPath is where credentials are written for the heroku CLI and git
	NetrcPath string

	// JustLogin stops the run after the credentials are written
	JustLogin bool

	// PushGateway is the Prometheus push gateway that receives step metrics. Empty disables pushing
	PushGateway string
}

type Credentials struct {
	Email  string
	APIKey string
}

type App struct {
	Name   string
	Remote string

	Buildpack string
	Region    string
	Stack     string
	Team      string

	DontAutoCreate bool
}

type Source struct {
	// RepoDir is the absolute path of the working copy
	RepoDir string

	// AppDir is relative to RepoDir
	AppDir string

	Branch       string
	DontUseForce bool

	// Procfile is committed to AppDir before pushing when not empty
	Procfile string
}

type Docker struct {
	Enabled     bool
	ProcessType string

	// BuildArgs are KEY=VALUE pairs
	BuildArgs []string
}

type ConfigVars struct {
	Prefix string

	// EnvFile is relative to the app directory
	EnvFile string

	// Environ is the process environment captured at startup
	Environ []string
}

type HealthCheck struct {
	URL         string
	CheckString string
	Delay       time.Duration
	Rollback    bool
}
