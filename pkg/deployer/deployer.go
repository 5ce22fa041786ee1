// Package deployer releases a new version of an app, either by pushing to its git remote or by
// pushing and releasing a container image.
package deployer

import (
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/variantdev/heroku-deploy/pkg/gitops"
	"github.com/variantdev/heroku-deploy/pkg/heroku"
	"k8s.io/klog/klogr"
)

// LegacyBranch is the default branch of apps created before main became the default.
// Their platform repository is reset before every push.
const LegacyBranch = "master"

type Spec struct {
	App    string
	Remote string

	// Branch is the local branch that gets deployed
	Branch string

	// RepoDir is the root of the working copy
	RepoDir string

	// AppDir is the app's subdirectory relative to RepoDir. Empty deploys the whole repository
	AppDir string

	UseDocker   bool
	ProcessType string
	BuildArgs   []string
}

func (s Spec) appPath() string {
	return filepath.Join(s.RepoDir, s.AppDir)
}

type Deployer struct {
	git    *gitops.Client
	heroku *heroku.Client

	Logger logr.Logger
}

func New(git *gitops.Client, h *heroku.Client, logger logr.Logger) *Deployer {
	if logger == nil {
		logger = klogr.New()
	}
	return &Deployer{git: git, heroku: h, Logger: logger}
}

// Deploy makes a single deployment attempt. force only applies to git pushes.
func (d *Deployer) Deploy(spec Spec, force bool) error {
	if spec.UseDocker {
		return d.deployContainer(spec)
	}
	return d.deployGit(spec, force)
}

func (d *Deployer) deployContainer(spec Spec) error {
	d.Logger.Info("deploying container", "app", spec.App, "process", spec.ProcessType)

	if err := d.heroku.StackSet(spec.App, heroku.ContainerStack); err != nil {
		return err
	}

	h := d.heroku.In(spec.appPath())

	if err := h.ContainerPush(spec.App, spec.ProcessType, spec.BuildArgs); err != nil {
		return err
	}

	return h.ContainerRelease(spec.App, spec.ProcessType)
}

func (d *Deployer) deployGit(spec Spec, force bool) error {
	shallow, err := d.git.IsShallow()
	if err != nil {
		return err
	}
	if shallow {
		d.Logger.Info("fetching full history of shallow clone")
		if err := d.git.Unshallow(); err != nil {
			return err
		}
	}

	remoteBranch, err := d.git.RemoteHeadBranch(spec.Remote)
	if err != nil {
		return err
	}

	if remoteBranch == LegacyBranch {
		d.Logger.Info("resetting platform repository", "app", spec.App, "branch", remoteBranch)
		if err := d.heroku.PluginsInstall(heroku.RepoPlugin); err != nil {
			return err
		}
		if err := d.heroku.RepoReset(spec.App); err != nil {
			return err
		}
	}

	src := spec.Branch
	if spec.AppDir != "" && filepath.Clean(spec.AppDir) != "." {
		src, err = d.git.SubtreeSplit(filepath.ToSlash(filepath.Clean(spec.AppDir)), spec.Branch)
		if err != nil {
			return err
		}
	}

	d.Logger.Info("pushing", "remote", spec.Remote, "src", src, "branch", remoteBranch, "force", force)

	return d.git.Push(spec.Remote, src+":refs/heads/"+remoteBranch, force)
}
