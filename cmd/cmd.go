package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/variantdev/heroku-deploy/pkg/config/confapi"
	"github.com/variantdev/heroku-deploy/pkg/config/viperconf"
	"github.com/variantdev/heroku-deploy/pkg/configsync"
	"github.com/variantdev/heroku-deploy/pkg/herokudeploy"
	"github.com/variantdev/heroku-deploy/pkg/loginfra"
	"github.com/variantdev/heroku-deploy/pkg/telemetry"
	"k8s.io/klog/klogr"
)

const KeyConfig = "config"

// RunFunc performs the deployment described by conf
type RunFunc func(ctx context.Context, conf *confapi.Deployment) error

// Env is the part of the process state read once at startup
type Env struct {
	Environ []string
	WD      string
	Home    string
}

func Execute() {
	log := klogr.New()

	fs := loginfra.Init()

	// Hand parsing of remaining flags to pflags and cobra
	pflag.CommandLine.AddGoFlagSet(fs)

	env, err := startupEnv()
	if err != nil {
		log.Error(err, err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := New(ctx, env, deploy(log))

	if err := executeArgs(cmd, os.Args[1:]); err != nil {
		log.Error(err, err.Error())
		stop()
		os.Exit(1)
	}
}

func executeArgs(cmd *cobra.Command, args []string) error {
	cmd.SetArgs(joinBoolArgs(cmd.Flags(), args))
	return cmd.Execute()
}

func startupEnv() (Env, error) {
	wd, err := os.Getwd()
	if err != nil {
		return Env{}, err
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return Env{}, err
	}
	return Env{Environ: os.Environ(), WD: wd, Home: home}, nil
}

func deploy(log logr.Logger) RunFunc {
	return func(ctx context.Context, conf *confapi.Deployment) error {
		r, err := herokudeploy.New(*conf,
			herokudeploy.Logger(log),
			herokudeploy.Metrics(telemetry.NewMetrics(herokudeploy.MetricsJob)),
		)
		if err != nil {
			return err
		}
		return r.Run(ctx)
	}
}

// New returns the heroku-deploy command. Settings come from flags, HEROKU_DEPLOY_* variables in env and
// the file given by --config, in that order of precedence.
func New(ctx context.Context, env Env, run RunFunc) *cobra.Command {
	v := viperconf.New()

	cmd := &cobra.Command{
		Use:   "heroku-deploy",
		Short: "Deploy the working copy to a Heroku app",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := viperconf.ReadConfigFile(v, v.GetString(KeyConfig)); err != nil {
				return err
			}

			conf, err := viperconf.Load(v, env.Environ, env.WD, env.Home)
			if err != nil {
				return err
			}

			return run(ctx, conf)
		},
	}

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	f := cmd.Flags()

	f.String(KeyConfig, "", "YAML, JSON or TOML file holding any of the settings below")

	f.String(viperconf.KeyEmail, "", "Email of the Heroku account")
	f.String(viperconf.KeyAPIKey, "", "API key of the Heroku account")
	f.String(viperconf.KeyAppName, "", "Name of the app to deploy to")
	f.String(viperconf.KeyBranch, viperconf.DefaultBranch, "Local branch to deploy")
	f.String(viperconf.KeyRemote, viperconf.DefaultRemote, "Name of the git remote bound to the app")
	boolFlag(f, viperconf.KeyJustLogin, "Only write credentials, without deploying")

	boolFlag(f, viperconf.KeyUseDocker, "Build and release a container image instead of pushing with git")
	f.String(viperconf.KeyDockerProcessType, viperconf.DefaultProcessType, "Process type of the container image")
	f.StringSlice(viperconf.KeyDockerBuildArgs, nil, "Build args as NAME=value, or NAME to take the value from the environment")

	f.String(viperconf.KeyAppDir, "", "Subdirectory of the repository that holds the app")
	f.String(viperconf.KeyProcfile, "", "Procfile content committed before deploying")

	f.String(viperconf.KeyHealthCheck, "", "URL probed after the release")
	f.String(viperconf.KeyCheckString, "", "Text the health check response body must contain")
	f.String(viperconf.KeyDelay, "0", "Wait before the health check, in seconds or as a duration like 1m30s")
	boolFlag(f, viperconf.KeyRollback, "Roll back the release when the health check fails")

	f.String(viperconf.KeyBuildpack, "", "Buildpack of a newly created app")
	f.String(viperconf.KeyRegion, "", "Region of a newly created app")
	f.String(viperconf.KeyStack, "", "Stack of a newly created app")
	f.String(viperconf.KeyTeam, "", "Team owning a newly created app")
	boolFlag(f, viperconf.KeyDontAutoCreate, "Fail instead of creating the app when it does not exist")
	boolFlag(f, viperconf.KeyDontUseForce, "Never force push, even when retrying a failed deployment")

	f.String(viperconf.KeyEnvFile, "", "Env file, relative to the app directory, whose variables become config vars")
	f.String(viperconf.KeyEnvPrefix, configsync.DefaultPrefix, "Environment variables with this prefix become config vars")

	f.String(viperconf.KeyPushGateway, "", "Prometheus push gateway receiving step metrics")

	if err := v.BindPFlags(f); err != nil {
		panic(err)
	}

	return cmd
}
