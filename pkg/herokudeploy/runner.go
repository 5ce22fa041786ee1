// Package herokudeploy runs a complete deployment: login, remote setup, config vars, Procfile, release and
// health check, strictly one after another.
package herokudeploy

import (
	"context"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/twpayne/go-vfs"
	"github.com/variantdev/heroku-deploy/pkg/cmdsite"
	"github.com/variantdev/heroku-deploy/pkg/config/confapi"
	"github.com/variantdev/heroku-deploy/pkg/configsync"
	"github.com/variantdev/heroku-deploy/pkg/deployer"
	"github.com/variantdev/heroku-deploy/pkg/gitops"
	"github.com/variantdev/heroku-deploy/pkg/healthcheck"
	"github.com/variantdev/heroku-deploy/pkg/heroku"
	"github.com/variantdev/heroku-deploy/pkg/netrc"
	"github.com/variantdev/heroku-deploy/pkg/procfile"
	"github.com/variantdev/heroku-deploy/pkg/telemetry"
	"github.com/variantdev/heroku-deploy/pkg/vhttpget"
	"k8s.io/klog/klogr"
)

const (
	StepLogin       = "login"
	StepGitSetup    = "git-setup"
	StepBindRemote  = "bind-remote"
	StepConfigVars  = "config-vars"
	StepProcfile    = "procfile"
	StepDeploy      = "deploy"
	StepHealthCheck = "health-check"
)

// GitUserName is the committer of the generated Procfile commit
const GitUserName = "heroku-deploy"

// MetricsJob is the push gateway job step metrics are grouped under
const MetricsJob = "heroku_deploy"

type Runner struct {
	Config confapi.Deployment

	fs         vfs.FS
	cmdr       cmdsite.RunCommand
	httpGetter vhttpget.Getter
	sleep      healthcheck.SleepFunc
	metrics    *telemetry.Metrics

	Logger logr.Logger

	git      *gitops.Client
	heroku   *heroku.Client
	deployer *deployer.Deployer
	syncer   *configsync.Syncer
	checker  *healthcheck.Checker
}

func New(conf confapi.Deployment, opts ...Option) (*Runner, error) {
	r := &Runner{Config: conf}

	for _, o := range opts {
		if err := o.SetOption(r); err != nil {
			return nil, err
		}
	}

	if r.Logger == nil {
		r.Logger = klogr.New()
	}

	if r.fs == nil {
		r.fs = vfs.HostOSFS
	}

	if r.httpGetter == nil {
		r.httpGetter = vhttpget.New()
	}

	if r.metrics == nil {
		r.metrics = telemetry.NewMetrics(MetricsJob)
	}

	wd := conf.Source.RepoDir

	r.git = gitops.New(gitops.WD(wd), gitops.Commander(r.cmdr))
	r.heroku = heroku.New(heroku.WD(wd), heroku.Commander(r.cmdr), heroku.Logger(r.Logger.WithName("heroku")))
	r.deployer = deployer.New(r.git, r.heroku, r.Logger.WithName("deploy"))
	r.syncer = configsync.New(r.fs, r.heroku, r.Logger.WithName("config"))
	r.checker = healthcheck.New(r.httpGetter, r.heroku, r.sleep, r.Logger.WithName("healthcheck"))

	r.Logger.V(1).Info("init", "app", conf.App.Name, "workdir", wd, "docker", conf.Docker.Enabled)

	return r, nil
}

func (r *Runner) appDir() string {
	return filepath.Join(r.Config.Source.RepoDir, r.Config.Source.AppDir)
}

// Run performs the deployment. It returns a *StepError naming the step that failed.
func (r *Runner) Run(ctx context.Context) error {
	err := r.run(ctx)
	r.pushMetrics()
	return err
}

func (r *Runner) run(ctx context.Context) error {
	conf := r.Config

	if err := r.step(StepLogin, ErrCredentialWrite, r.login); err != nil {
		return err
	}

	if conf.JustLogin {
		r.Logger.Info("logged in without deploying")
		return nil
	}

	if err := r.step(StepGitSetup, ErrGitSetup, r.setupGit); err != nil {
		return err
	}

	if err := r.step(StepBindRemote, ErrRemoteBinding, r.bindRemote); err != nil {
		return err
	}

	if err := r.step(StepConfigVars, ErrConfigSync, r.syncConfig); err != nil {
		return err
	}

	if err := r.step(StepProcfile, ErrReleaseArtifact, r.prepareProcfile); err != nil {
		return err
	}

	if err := r.step(StepDeploy, ErrDeploy, r.deploy); err != nil {
		return err
	}

	if err := r.step(StepHealthCheck, ErrHealthCheck, func() error { return r.checkHealth(ctx) }); err != nil {
		return err
	}

	r.Logger.Info("deployed", "app", conf.App.Name)

	return nil
}

func (r *Runner) step(name string, kind error, f func() error) error {
	err := r.metrics.Track(r.Config.App.Name, name, f)
	if err != nil {
		return &StepError{Step: name, Kind: kind, Err: err}
	}
	return nil
}

func (r *Runner) login() error {
	c := r.Config.Credentials
	if err := netrc.Write(r.fs, r.Config.NetrcPath, c.Email, c.APIKey); err != nil {
		return err
	}
	r.Logger.Info("wrote credentials", "path", r.Config.NetrcPath)
	return nil
}

func (r *Runner) setupGit() error {
	if err := r.git.SetConfig("user.name", GitUserName); err != nil {
		return err
	}
	return r.git.SetConfig("user.email", r.Config.Credentials.Email)
}

func (r *Runner) bindRemote() error {
	app := r.Config.App
	return r.heroku.BindRemote(app.Name, heroku.BindOptions{
		Remote:         app.Remote,
		DontAutoCreate: app.DontAutoCreate,
		Create: heroku.CreateOptions{
			Buildpack: app.Buildpack,
			Region:    app.Region,
			Stack:     app.Stack,
			Team:      app.Team,
		},
	})
}

func (r *Runner) syncConfig() error {
	cv := r.Config.ConfigVars
	return r.syncer.Sync(configsync.Config{
		App:     r.Config.App.Name,
		Environ: cv.Environ,
		Prefix:  cv.Prefix,
		EnvFile: cv.EnvFile,
		Dir:     r.appDir(),
	})
}

func (r *Runner) prepareProcfile() error {
	return procfile.Prepare(r.fs, r.git, r.Logger.WithName("procfile"), r.appDir(), r.Config.Source.Procfile)
}

// deploy never forces the first attempt. A failed attempt is retried once, forced unless DontUseForce is set.
func (r *Runner) deploy() error {
	conf := r.Config
	spec := deployer.Spec{
		App:         conf.App.Name,
		Remote:      conf.App.Remote,
		Branch:      conf.Source.Branch,
		RepoDir:     conf.Source.RepoDir,
		AppDir:      conf.Source.AppDir,
		UseDocker:   conf.Docker.Enabled,
		ProcessType: conf.Docker.ProcessType,
		BuildArgs:   conf.Docker.BuildArgs,
	}

	err := r.deployer.Deploy(spec, false)
	if err == nil {
		return nil
	}

	force := !conf.Source.DontUseForce
	r.Logger.Error(err, "first deploy attempt failed, retrying", "force", force)

	return r.deployer.Deploy(spec, force)
}

func (r *Runner) checkHealth(ctx context.Context) error {
	hc := r.Config.HealthCheck
	return r.checker.Verify(ctx, healthcheck.Config{
		App:         r.Config.App.Name,
		URL:         hc.URL,
		CheckString: hc.CheckString,
		Delay:       hc.Delay,
		Rollback:    hc.Rollback,
	})
}

func (r *Runner) pushMetrics() {
	if r.Config.PushGateway == "" {
		return
	}
	if err := r.metrics.Push(r.Config.PushGateway, MetricsJob); err != nil {
		r.Logger.Error(err, "pushing metrics failed", "gateway", r.Config.PushGateway)
	}
}
