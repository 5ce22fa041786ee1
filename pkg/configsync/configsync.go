// Package configsync pushes config vars collected from the environment and an env file to the app.
//
// Variables from the environment come first, env file variables second, each group sorted by key.
// Both are submitted in a single config:set call, so on a key collision the env file value wins.
package configsync

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-logr/logr"
	"github.com/subosito/gotenv"
	"github.com/twpayne/go-vfs"
	"github.com/variantdev/heroku-deploy/pkg/heroku"
	"k8s.io/klog/klogr"
)

// DefaultPrefix marks environment variables that become config vars
const DefaultPrefix = "HD_"

type Syncer struct {
	fs     vfs.FS
	heroku *heroku.Client

	Logger logr.Logger
}

func New(fs vfs.FS, h *heroku.Client, logger logr.Logger) *Syncer {
	if fs == nil {
		fs = vfs.HostOSFS
	}
	if logger == nil {
		logger = klogr.New()
	}
	return &Syncer{fs: fs, heroku: h, Logger: logger}
}

type Config struct {
	App string

	// Environ is a snapshot of the process environment in KEY=value form
	Environ []string
	Prefix  string

	// EnvFile is resolved against Dir unless absolute
	EnvFile string
	Dir     string
}

// Sync submits every collected variable in one config:set call. It does nothing when none are found.
func (s *Syncer) Sync(conf Config) error {
	vars := FromEnviron(conf.Environ, conf.Prefix)

	if conf.EnvFile != "" {
		path := conf.EnvFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(conf.Dir, path)
		}
		fileVars, err := s.ReadEnvFile(path)
		if err != nil {
			return err
		}
		vars = append(vars, fileVars...)
	}

	if len(vars) == 0 {
		s.Logger.V(1).Info("no config vars to set", "app", conf.App)
		return nil
	}

	s.Logger.Info("setting config vars", "app", conf.App, "count", len(vars))

	return s.heroku.ConfigSet(conf.App, vars)
}

// FromEnviron returns KEY=value for every entry whose key carries prefix, with the prefix removed
func FromEnviron(environ []string, prefix string) []string {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	env := map[string]string{}
	for _, kv := range environ {
		pair := strings.SplitN(kv, "=", 2)
		if len(pair) != 2 || !strings.HasPrefix(pair[0], prefix) {
			continue
		}
		key := strings.TrimPrefix(pair[0], prefix)
		if key == "" {
			continue
		}
		env[key] = pair[1]
	}

	return assignments(env)
}

func (s *Syncer) ReadEnvFile(path string) ([]string, error) {
	bs, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading env file: %w", err)
	}

	env, err := gotenv.StrictParse(bytes.NewReader(bs))
	if err != nil {
		return nil, fmt.Errorf("parsing env file %s: %w", path, err)
	}

	return assignments(env), nil
}

func assignments(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	vars := make([]string, 0, len(keys))
	for _, k := range keys {
		vars = append(vars, k+"="+env[k])
	}
	return vars
}
