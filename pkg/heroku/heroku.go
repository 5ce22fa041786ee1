// Package heroku drives the heroku CLI.
package heroku

import (
	"strings"

	"github.com/go-logr/logr"
	"github.com/variantdev/heroku-deploy/pkg/cmdsite"
	"k8s.io/klog/klogr"
)

const (
	// ContainerStack is the stack an app must be on to release images
	ContainerStack = "container"

	// RepoPlugin provides repo:reset
	RepoPlugin = "heroku-repo"
)

type Client struct {
	cmdr       cmdsite.RunCommand
	sh         *cmdsite.CommandSite
	wd         string
	herokuPath string

	Logger logr.Logger
}

type Option func(*Client)

func WD(wd string) Option {
	return func(c *Client) {
		c.wd = wd
	}
}

func Commander(cmdr cmdsite.RunCommand) Option {
	return func(c *Client) {
		c.cmdr = cmdr
	}
}

func Logger(l logr.Logger) Option {
	return func(c *Client) {
		c.Logger = l
	}
}

func New(opt ...Option) *Client {
	c := &Client{}

	for _, o := range opt {
		o(c)
	}

	if c.Logger == nil {
		c.Logger = klogr.New()
	}

	c.sh = cmdsite.New(cmdsite.RunCmd(c.cmdr), cmdsite.Dir(c.wd))
	c.herokuPath = "heroku"

	return c
}

// In returns a copy of the client that runs commands in dir
func (c *Client) In(dir string) *Client {
	client := *c
	client.wd = dir
	client.sh = c.sh.InDir(dir)
	return &client
}

// GitRemote links the local working copy to the app under the given remote name
func (c *Client) GitRemote(app, remote string) error {
	return c.heroku("git:remote", "--app", app, "--remote", remote)
}

type CreateOptions struct {
	Buildpack string
	Region    string
	Stack     string
	Team      string
}

func (o CreateOptions) args() []string {
	var args []string
	if o.Buildpack != "" {
		args = append(args, "--buildpack", o.Buildpack)
	}
	if o.Region != "" {
		args = append(args, "--region", o.Region)
	}
	if o.Stack != "" {
		args = append(args, "--stack", o.Stack)
	}
	if o.Team != "" {
		args = append(args, "--team", o.Team)
	}
	return args
}

func (c *Client) Create(app string, opts CreateOptions) error {
	return c.heroku("create", append([]string{app}, opts.args()...)...)
}

func (c *Client) ConfigSet(app string, vars []string) error {
	return c.heroku("config:set", append([]string{"--app=" + app}, vars...)...)
}

func (c *Client) StackSet(app, stack string) error {
	return c.heroku("stack:set", stack, "--app", app)
}

// ContainerPush builds the image of the process type and pushes it to the app's registry
func (c *Client) ContainerPush(app, processType string, buildArgs []string) error {
	args := []string{processType, "--app", app}
	if len(buildArgs) > 0 {
		args = append(args, "--arg", strings.Join(buildArgs, ","))
	}
	return c.heroku("container:push", args...)
}

func (c *Client) ContainerRelease(app, processType string) error {
	return c.heroku("container:release", processType, "--app", app)
}

func (c *Client) Rollback(app string) error {
	return c.heroku("rollback", "--app", app)
}

func (c *Client) PluginsInstall(plugin string) error {
	return c.heroku("plugins:install", plugin)
}

// RepoReset empties the app's git repository on the platform
func (c *Client) RepoReset(app string) error {
	return c.heroku("repo:reset", "--app", app)
}

func (c *Client) heroku(cmd string, args ...string) error {
	return c.sh.Run(c.herokuPath, append([]string{cmd}, args...)...)
}
