package emit

import (
	"fmt"
	"os"
	"path/filepath"
)

// outputFS is the part of the filesystem File publishes through. Tests swap it
// per emitter to fail individual steps.
type outputFS interface {
	CreateTemp(dir, pattern string) (stagedFile, error)
	Chmod(name string, mode os.FileMode) error
	Rename(from, to string) error
	Remove(name string) error
}

// stagedFile is the temporary file a source is written to before publishing.
type stagedFile interface {
	Name() string
	Write([]byte) (int, error)
	Close() error
}

type osFS struct{}

func (osFS) CreateTemp(dir, pattern string) (stagedFile, error) { return os.CreateTemp(dir, pattern) }
func (osFS) Chmod(name string, mode os.FileMode) error          { return os.Chmod(name, mode) }
func (osFS) Rename(from, to string) error                       { return os.Rename(from, to) }
func (osFS) Remove(name string) error                           { return os.Remove(name) }

// stagePattern names staged files: hidden, next to the target, and marked as
// ours so a crashed run's leftovers are recognizable.
func stagePattern(target string) string { return "." + filepath.Base(target) + ".afgen-*" }

// publish stages data next to target and renames it over target, so a build
// reading the output directory never compiles a half-written source. The
// staged file is removed on any failure.
func publish(fsys outputFS, target string, data []byte, perm os.FileMode) (err error) {
	staged, err := fsys.CreateTemp(filepath.Dir(target), stagePattern(target))
	if err != nil {
		return fmt.Errorf("stage: %w", err)
	}
	name := staged.Name()
	defer func() {
		if err != nil {
			_ = fsys.Remove(name)
		}
	}()

	if _, err = staged.Write(data); err != nil {
		_ = staged.Close()
		return fmt.Errorf("stage: %w", err)
	}
	if err = staged.Close(); err != nil {
		return fmt.Errorf("stage: %w", err)
	}
	if err = fsys.Chmod(name, perm); err != nil {
		return fmt.Errorf("chmod staged file: %w", err)
	}
	if err = fsys.Rename(name, target); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}
