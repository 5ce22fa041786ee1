// Package netrc writes the credentials the heroku CLI and git pick up without an interactive login.
package netrc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/twpayne/go-vfs"
)

// FileName is read by both the heroku CLI and git's credential lookup
const FileName = ".netrc"

// Perm keeps the file private to its owner
const Perm os.FileMode = 0600

// Machines are the hosts the heroku CLI and git authenticate against
var Machines = []string{"api.heroku.com", "git.heroku.com"}

// DefaultPath returns $HOME/.netrc for the given home directory
func DefaultPath(home string) string {
	return filepath.Join(home, FileName)
}

func Render(email, apiKey string) string {
	var b strings.Builder
	for _, m := range Machines {
		fmt.Fprintf(&b, "machine %s\n  login %s\n  password %s\n", m, email, apiKey)
	}
	return b.String()
}

// Write replaces the file at path with the credentials and restricts it to Perm.
func Write(fs vfs.FS, path, email, apiKey string) error {
	if err := fs.WriteFile(path, []byte(Render(email, apiKey)), Perm); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	// WriteFile keeps the mode of an existing file
	if err := fs.Chmod(path, Perm); err != nil {
		return fmt.Errorf("restricting permissions of %s: %w", path, err)
	}

	return nil
}
