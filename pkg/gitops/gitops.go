package gitops

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/variantdev/heroku-deploy/pkg/cmdsite"
)

// DefaultBranch is assumed when the remote has no HEAD yet, e.g. a freshly created app
const DefaultBranch = "main"

type Client struct {
	cmdr    cmdsite.RunCommand
	sh      *cmdsite.CommandSite
	wd      string
	gitPath string
}

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

type Option func(*Client)

func New(opt ...Option) *Client {
	c := &Client{}

	for _, o := range opt {
		o(c)
	}

	c.sh = cmdsite.New(cmdsite.RunCmd(c.cmdr), cmdsite.Dir(c.wd))
	c.gitPath = "git"

	return c
}

func (c *Client) SetConfig(key, value string) error {
	return c.git("config", []string{key, value})
}

func (c *Client) Add(files ...string) error {
	return c.git("add", files)
}

func (c *Client) Commit(msg string) error {
	return c.git("commit", []string{"-m", msg})
}

// DiffExists reports whether the index differs from HEAD
func (c *Client) DiffExists() bool {
	_, _, err := c.sh.CaptureStrings(c.gitPath, []string{"diff", "--cached", "--exit-code"})
	return err != nil
}

func (c *Client) IsShallow() (bool, error) {
	stdout, _, err := c.sh.CaptureStrings(c.gitPath, []string{"rev-parse", "--is-shallow-repository"})
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(stdout) == "true", nil
}

func (c *Client) Unshallow() error {
	return c.git("fetch", []string{"--prune", "--unshallow"})
}

// RemoteHeadBranch returns the branch the remote's HEAD points at
func (c *Client) RemoteHeadBranch(remote string) (string, error) {
	stdout, _, err := c.sh.CaptureStrings(c.gitPath, []string{"remote", "show", remote})
	if err != nil {
		return "", err
	}
	return ParseHeadBranch(stdout)
}

var errNoHeadBranch = errors.New("no HEAD branch in remote description")

// ParseHeadBranch extracts the branch from the "HEAD branch: NAME" line of `git remote show`.
// A remote without any refs reports "(unknown)", for which DefaultBranch is returned.
// When the remote HEAD is ambiguous the first candidate git lists is returned.
func ParseHeadBranch(remoteShow string) (string, error) {
	s := bufio.NewScanner(strings.NewReader(remoteShow))
	ambiguous := -1
	for s.Scan() {
		raw := s.Text()
		line := strings.TrimSpace(raw)
		indent := len(raw) - len(strings.TrimLeft(raw, " \t"))
		if ambiguous >= 0 {
			// Candidates are listed one per line, indented below the HEAD line
			if line == "" {
				continue
			}
			if indent <= ambiguous {
				break
			}
			return line, nil
		}
		if strings.HasPrefix(line, "HEAD branch (remote HEAD is ambiguous") {
			ambiguous = indent
			continue
		}
		if !strings.HasPrefix(line, "HEAD branch:") {
			continue
		}
		branch := strings.TrimSpace(strings.TrimPrefix(line, "HEAD branch:"))
		if branch == "" || branch == "(unknown)" {
			return DefaultBranch, nil
		}
		return branch, nil
	}
	if err := s.Err(); err != nil {
		return "", err
	}
	if ambiguous >= 0 {
		return "", errors.New("remote HEAD is ambiguous and no candidate branch is listed")
	}
	return "", errNoHeadBranch
}

// SubtreeSplit returns the commit that holds the history of prefix as if it were the repository root
func (c *Client) SubtreeSplit(prefix, rev string) (string, error) {
	stdout, _, err := c.sh.CaptureStrings(c.gitPath, []string{"subtree", "split", "--prefix=" + prefix, rev})
	if err != nil {
		return "", err
	}
	lines := strings.Fields(stdout)
	if len(lines) == 0 {
		return "", fmt.Errorf("git subtree split --prefix=%s %s: no commit printed", prefix, rev)
	}
	return lines[len(lines)-1], nil
}

func (c *Client) Push(remote, refspec string, force bool) error {
	args := []string{remote, refspec}
	if force {
		args = append(args, "--force")
	}
	return c.git("push", args)
}

func (c *Client) git(cmd string, args []string) error {
	return c.sh.Run(c.gitPath, append([]string{cmd}, args...)...)
}
