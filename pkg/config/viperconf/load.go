// Package viperconf builds a confapi.Deployment from flags, HEROKU_DEPLOY_* environment variables and an
// optional config file, all merged by viper.
package viperconf

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/variantdev/heroku-deploy/pkg/config/confapi"
	"github.com/variantdev/heroku-deploy/pkg/configsync"
	"github.com/variantdev/heroku-deploy/pkg/netrc"
)

const EnvPrefix = "HEROKU_DEPLOY"

// Keys shared by flags, environment variables and config files
const (
	KeyEmail             = "email"
	KeyAPIKey            = "api_key"
	KeyAppName           = "app_name"
	KeyBranch            = "branch"
	KeyRemote            = "remote"
	KeyUseDocker         = "usedocker"
	KeyDockerProcessType = "docker_process_type"
	KeyDockerBuildArgs   = "docker_build_args"
	KeyAppDir            = "appdir"
	KeyHealthCheck       = "healthcheck"
	KeyCheckString       = "checkstring"
	KeyDelay             = "delay"
	KeyRollback          = "rollbackonhealthcheckfailed"
	KeyProcfile          = "procfile"
	KeyBuildpack         = "buildpack"
	KeyRegion            = "region"
	KeyStack             = "stack"
	KeyTeam              = "team"
	KeyDontUseForce      = "dontuseforce"
	KeyDontAutoCreate    = "dontautocreate"
	KeyEnvFile           = "env_file"
	KeyEnvPrefix         = "env_prefix"
	KeyJustLogin         = "justlogin"
	KeyPushGateway       = "metrics_pushgateway"
)

const (
	DefaultBranch      = "main"
	DefaultRemote      = "heroku"
	DefaultProcessType = "web"
)

// New returns a viper instance that reads HEROKU_DEPLOY_<KEY> environment variables
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyBranch, DefaultBranch)
	v.SetDefault(KeyRemote, DefaultRemote)
	v.SetDefault(KeyDockerProcessType, DefaultProcessType)
	v.SetDefault(KeyEnvPrefix, configsync.DefaultPrefix)
	v.SetDefault(KeyDelay, "0")
}

// ReadConfigFile merges a YAML, JSON or TOML file into v
func ReadConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return nil
}

// Load builds the deployment settings.
// environ is the process environment, wd the working copy and home the user's home directory.
func Load(v *viper.Viper, environ []string, wd, home string) (*confapi.Deployment, error) {
	repoDir, err := filepath.Abs(wd)
	if err != nil {
		return nil, err
	}

	delay, err := ParseDelay(v.GetString(KeyDelay))
	if err != nil {
		return nil, err
	}

	buildArgs, err := ResolveBuildArgs(v.GetStringSlice(KeyDockerBuildArgs), environ)
	if err != nil {
		return nil, err
	}

	flags := map[string]bool{}
	for _, key := range []string{KeyDontAutoCreate, KeyDontUseForce, KeyUseDocker, KeyRollback, KeyJustLogin} {
		b, err := ParseBool(v.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		flags[key] = b
	}

	conf := &confapi.Deployment{
		Credentials: confapi.Credentials{
			Email:  v.GetString(KeyEmail),
			APIKey: v.GetString(KeyAPIKey),
		},
		App: confapi.App{
			Name:           v.GetString(KeyAppName),
			Remote:         v.GetString(KeyRemote),
			Buildpack:      v.GetString(KeyBuildpack),
			Region:         v.GetString(KeyRegion),
			Stack:          v.GetString(KeyStack),
			Team:           v.GetString(KeyTeam),
			DontAutoCreate: flags[KeyDontAutoCreate],
		},
		Source: confapi.Source{
			RepoDir:      repoDir,
			AppDir:       v.GetString(KeyAppDir),
			Branch:       v.GetString(KeyBranch),
			DontUseForce: flags[KeyDontUseForce],
			Procfile:     v.GetString(KeyProcfile),
		},
		Docker: confapi.Docker{
			Enabled:     flags[KeyUseDocker],
			ProcessType: v.GetString(KeyDockerProcessType),
			BuildArgs:   buildArgs,
		},
		ConfigVars: confapi.ConfigVars{
			Prefix:  v.GetString(KeyEnvPrefix),
			EnvFile: v.GetString(KeyEnvFile),
			Environ: append([]string{}, environ...),
		},
		HealthCheck: confapi.HealthCheck{
			URL:         v.GetString(KeyHealthCheck),
			CheckString: v.GetString(KeyCheckString),
			Delay:       delay,
			Rollback:    flags[KeyRollback],
		},
		NetrcPath:   netrc.DefaultPath(home),
		JustLogin:   flags[KeyJustLogin],
		PushGateway: v.GetString(KeyPushGateway),
	}

	if err := Validate(conf); err != nil {
		return nil, err
	}

	return conf, nil
}

func Validate(conf *confapi.Deployment) error {
	var missing []string
	if conf.Credentials.Email == "" {
		missing = append(missing, KeyEmail)
	}
	if conf.Credentials.APIKey == "" {
		missing = append(missing, KeyAPIKey)
	}
	if conf.App.Name == "" && !conf.JustLogin {
		missing = append(missing, KeyAppName)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}

	if filepath.IsAbs(conf.Source.AppDir) {
		return fmt.Errorf("%s must be relative to the repository: %s", KeyAppDir, conf.Source.AppDir)
	}
	if clean := filepath.Clean(conf.Source.AppDir); clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%s must be inside the repository: %s", KeyAppDir, conf.Source.AppDir)
	}

	if conf.Docker.Enabled && conf.Docker.ProcessType == "" {
		return errors.New("docker_process_type must not be empty when usedocker is set")
	}

	return nil
}

// ParseBool accepts yes/true/t/y/1 and no/false/f/n/0 in any case. Empty is false.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "t", "y", "1":
		return true, nil
	case "no", "false", "f", "n", "0", "":
		return false, nil
	}
	return false, fmt.Errorf("boolean value expected: %q", s)
}

// ParseDelay accepts a Go duration ("1m30s") or a bare number of seconds
func ParseDelay(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if secs, err := strconv.Atoi(s); err == nil {
		if secs < 0 {
			return 0, fmt.Errorf("delay must not be negative: %s", s)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid delay %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("delay must not be negative: %s", s)
	}
	return d, nil
}

// ResolveBuildArgs splits comma separated entries and turns bare NAME entries into NAME=value using environ
func ResolveBuildArgs(args []string, environ []string) ([]string, error) {
	env := map[string]string{}
	for _, kv := range environ {
		if i := strings.Index(kv, "="); i > 0 {
			env[kv[:i]] = kv[i+1:]
		}
	}

	var entries []string
	for _, a := range args {
		entries = append(entries, strings.Split(a, ",")...)
	}

	var resolved []string
	for _, a := range entries {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if strings.Contains(a, "=") {
			resolved = append(resolved, a)
			continue
		}
		v, ok := env[a]
		if !ok {
			return nil, fmt.Errorf("docker build arg %s is not set in the environment", a)
		}
		resolved = append(resolved, a+"="+v)
	}
	return resolved, nil
}
