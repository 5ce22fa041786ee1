package viperconf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/variantdev/heroku-deploy/pkg/config/confapi"
)

func TestLoad_Defaults(t *testing.T) {
	v := New()
	v.Set(KeyEmail, "me@example.com")
	v.Set(KeyAPIKey, "secret")
	v.Set(KeyAppName, "myapp")

	environ := []string{"HD_FOO=bar"}

	conf, err := Load(v, environ, "/repo", "/home/user")
	if err != nil {
		t.Fatal(err)
	}

	expected := &confapi.Deployment{
		Credentials: confapi.Credentials{Email: "me@example.com", APIKey: "secret"},
		App:         confapi.App{Name: "myapp", Remote: "heroku"},
		Source:      confapi.Source{RepoDir: "/repo", Branch: "main"},
		Docker:      confapi.Docker{ProcessType: "web"},
		ConfigVars:  confapi.ConfigVars{Prefix: "HD_", Environ: []string{"HD_FOO=bar"}},
		NetrcPath:   "/home/user/.netrc",
	}

	if diff := cmp.Diff(expected, conf); diff != "" {
		t.Errorf("unexpected config (-expected +got):\n%s", diff)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("HEROKU_DEPLOY_EMAIL", "ci@example.com")
	t.Setenv("HEROKU_DEPLOY_API_KEY", "from-env")
	t.Setenv("HEROKU_DEPLOY_APP_NAME", "envapp")
	t.Setenv("HEROKU_DEPLOY_USEDOCKER", "true")
	t.Setenv("HEROKU_DEPLOY_DELAY", "10")

	conf, err := Load(New(), nil, "/repo", "/home/user")
	if err != nil {
		t.Fatal(err)
	}

	if conf.App.Name != "envapp" || conf.Credentials.APIKey != "from-env" {
		t.Errorf("unexpected settings: %+v", conf)
	}
	if !conf.Docker.Enabled {
		t.Error("expected docker to be enabled")
	}
	if conf.HealthCheck.Delay != 10*time.Second {
		t.Errorf("unexpected delay: expected=%v, got=%v", 10*time.Second, conf.HealthCheck.Delay)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heroku-deploy.yaml")
	content := `email: me@example.com
api_key: secret
app_name: fileapp
appdir: services/api
healthcheck: https://fileapp.herokuapp.com
checkstring: ok
delay: 1m
rollbackonhealthcheckfailed: true
docker_build_args:
- NODE_ENV
- DEBUG=false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	v := New()
	if err := ReadConfigFile(v, path); err != nil {
		t.Fatal(err)
	}

	conf, err := Load(v, []string{"NODE_ENV=production"}, "/repo", "/home/user")
	if err != nil {
		t.Fatal(err)
	}

	expectedHealthCheck := confapi.HealthCheck{
		URL:         "https://fileapp.herokuapp.com",
		CheckString: "ok",
		Delay:       time.Minute,
		Rollback:    true,
	}
	if diff := cmp.Diff(expectedHealthCheck, conf.HealthCheck); diff != "" {
		t.Errorf("unexpected health check (-expected +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"NODE_ENV=production", "DEBUG=false"}, conf.Docker.BuildArgs); diff != "" {
		t.Errorf("unexpected build args (-expected +got):\n%s", diff)
	}

	if conf.Source.AppDir != "services/api" {
		t.Errorf("unexpected appdir: expected=%s, got=%s", "services/api", conf.Source.AppDir)
	}
}

func TestLoad_Validation(t *testing.T) {
	testcases := []struct {
		name string
		set  map[string]interface{}
	}{
		{
			name: "missing credentials",
			set:  map[string]interface{}{KeyAppName: "myapp"},
		},
		{
			name: "missing app",
			set:  map[string]interface{}{KeyEmail: "me@example.com", KeyAPIKey: "secret"},
		},
		{
			name: "appdir outside repository",
			set:  map[string]interface{}{KeyEmail: "me@example.com", KeyAPIKey: "secret", KeyAppName: "myapp", KeyAppDir: "../other"},
		},
		{
			name: "negative delay",
			set:  map[string]interface{}{KeyEmail: "me@example.com", KeyAPIKey: "secret", KeyAppName: "myapp", KeyDelay: "-5"},
		},
		{
			name: "unresolved build arg",
			set:  map[string]interface{}{KeyEmail: "me@example.com", KeyAPIKey: "secret", KeyAppName: "myapp", KeyDockerBuildArgs: []string{"MISSING"}},
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			v := New()
			for k, val := range tc.set {
				v.Set(k, val)
			}
			if _, err := Load(v, nil, "/repo", "/home/user"); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoad_JustLoginWithoutApp(t *testing.T) {
	v := New()
	v.Set(KeyEmail, "me@example.com")
	v.Set(KeyAPIKey, "secret")
	v.Set(KeyJustLogin, true)

	conf, err := Load(v, nil, "/repo", "/home/user")
	if err != nil {
		t.Fatal(err)
	}
	if !conf.JustLogin {
		t.Error("expected JustLogin to be set")
	}
}

func TestLoad_AppDir(t *testing.T) {
	testcases := []struct {
		appDir string
		valid  bool
	}{
		{appDir: "services/api", valid: true},
		{appDir: "..config/app", valid: true},
		{appDir: "services/../api", valid: true},
		{appDir: "..", valid: false},
		{appDir: "../other", valid: false},
		{appDir: "services/../../other", valid: false},
		{appDir: "/abs/app", valid: false},
	}

	for _, tc := range testcases {
		t.Run(tc.appDir, func(t *testing.T) {
			v := New()
			v.Set(KeyEmail, "me@example.com")
			v.Set(KeyAPIKey, "secret")
			v.Set(KeyAppName, "myapp")
			v.Set(KeyAppDir, tc.appDir)

			_, err := Load(v, nil, "/repo", "/home/user")
			if tc.valid && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tc.valid && err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	testcases := []struct {
		input    string
		expected bool
		err      bool
	}{
		{input: "yes", expected: true},
		{input: "True", expected: true},
		{input: "t", expected: true},
		{input: "Y", expected: true},
		{input: "1", expected: true},
		{input: "no"},
		{input: "FALSE"},
		{input: "f"},
		{input: "n"},
		{input: "0"},
		{input: ""},
		{input: "maybe", err: true},
	}

	for _, tc := range testcases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseBool(tc.input)
			if tc.err {
				if err == nil {
					t.Fatalf("expected an error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("unexpected value: expected=%v, got=%v", tc.expected, got)
			}
		})
	}
}

func TestLoad_BooleanWords(t *testing.T) {
	t.Setenv("HEROKU_DEPLOY_EMAIL", "ci@example.com")
	t.Setenv("HEROKU_DEPLOY_API_KEY", "from-env")
	t.Setenv("HEROKU_DEPLOY_APP_NAME", "envapp")
	t.Setenv("HEROKU_DEPLOY_USEDOCKER", "yes")
	t.Setenv("HEROKU_DEPLOY_DONTUSEFORCE", "y")
	t.Setenv("HEROKU_DEPLOY_ROLLBACKONHEALTHCHECKFAILED", "no")

	conf, err := Load(New(), nil, "/repo", "/home/user")
	if err != nil {
		t.Fatal(err)
	}

	if !conf.Docker.Enabled {
		t.Error("expected docker to be enabled")
	}
	if !conf.Source.DontUseForce {
		t.Error("expected force pushes to be disabled")
	}
	if conf.HealthCheck.Rollback {
		t.Error("expected rollback to be disabled")
	}

	t.Setenv("HEROKU_DEPLOY_USEDOCKER", "sometimes")

	if _, err := Load(New(), nil, "/repo", "/home/user"); err == nil {
		t.Error("expected an error for an invalid boolean")
	}
}

func TestParseDelay(t *testing.T) {
	testcases := map[string]time.Duration{
		"":      0,
		"0":     0,
		"30":    30 * time.Second,
		"1m30s": 90 * time.Second,
	}
	for in, expected := range testcases {
		got, err := ParseDelay(in)
		if err != nil {
			t.Errorf("unexpected error for %q: %v", in, err)
			continue
		}
		if got != expected {
			t.Errorf("unexpected delay for %q: expected=%v, got=%v", in, expected, got)
		}
	}

	if _, err := ParseDelay("soon"); err == nil {
		t.Error("expected an error for an invalid delay")
	}
}
