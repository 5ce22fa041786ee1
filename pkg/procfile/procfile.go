package procfile

import (
	"fmt"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/twpayne/go-vfs"
	"github.com/variantdev/heroku-deploy/pkg/gitops"
)

const (
	FileName      = "Procfile"
	CommitMessage = "Added Procfile"
)

// Prepare writes content to dir/Procfile and commits it, so that the next push includes it.
// It does nothing when content is empty.
func Prepare(fs vfs.FS, git *gitops.Client, logger logr.Logger, dir, content string) error {
	if content == "" {
		return nil
	}

	path := filepath.Join(dir, FileName)
	if err := fs.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	if err := git.Add("-A"); err != nil {
		return err
	}

	// Re-running with the same content leaves nothing to commit
	if !git.DiffExists() {
		logger.Info("Procfile unchanged", "path", path)
		return nil
	}

	if err := git.Commit(CommitMessage); err != nil {
		return err
	}

	logger.Info("written Procfile with custom configuration", "path", path)

	return nil
}
