package emit

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sghaida/assistfactory/artifact"
)

// IndexFile is the dependency index File keeps in its output directory.
const IndexFile = ".afgen-deps.yaml"

// Index maps generated files to the sources they were derived from.
type Index struct {
	Outputs []IndexEntry `yaml:"outputs"`
}

// IndexEntry is one generated file. Output is relative to the output directory.
type IndexEntry struct {
	Output      string   `yaml:"output"`
	Type        string   `yaml:"type"`
	Sources     []string `yaml:"sources,omitempty"`
	Aggregating bool     `yaml:"aggregating,omitempty"`
}

// FileOption configures a File emitter.
type FileOption func(*File)

// WithFileLogger logs every write at debug level.
func WithFileLogger(l *zap.Logger) FileOption {
	return func(f *File) {
		if l != nil {
			f.logger = l
		}
	}
}

// File writes each artifact to <dir>/<package path>/<Name>.kt. Content that is
// already on disk byte for byte is not rewritten, so file timestamps only move
// when output changes.
type File struct {
	dir    string
	logger *zap.Logger
	fs     outputFS

	mu        sync.Mutex
	entries   map[string]IndexEntry
	written   int
	unchanged int
}

// NewFile returns an emitter rooted at dir. The directory is created on first write.
func NewFile(dir string, opts ...FileOption) *File {
	f := &File{dir: dir, logger: zap.NewNop(), fs: osFS{}, entries: map[string]IndexEntry{}}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Emit implements Emitter.
func (f *File) Emit(a artifact.Artifact) error {
	src, err := Kotlin(a)
	if err != nil {
		return err
	}

	rel := a.Path(".kt")
	path := filepath.Join(f.dir, filepath.FromSlash(rel))

	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries[rel] = IndexEntry{
		Output:      rel,
		Type:        a.QualifiedName(),
		Sources:     append([]string(nil), a.Sources...),
		Aggregating: a.Aggregating,
	}

	existing, err := os.ReadFile(path)
	switch {
	case err == nil && bytes.Equal(existing, src):
		f.unchanged++
		f.logger.Debug("generated file unchanged", zap.String("path", path))
		return nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: read %s: %w", ErrEmit, path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: mkdir for %s: %w", ErrEmit, path, err)
	}
	if err := publish(f.fs, path, src, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrEmit, path, err)
	}
	f.written++
	f.logger.Debug("generated file written", zap.String("path", path), zap.String("type", a.QualifiedName()))
	return nil
}

// Written returns how many files were created or changed.
func (f *File) Written() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.written
}

// Unchanged returns how many emits found identical content on disk.
func (f *File) Unchanged() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unchanged
}

// Index returns the entries recorded so far, sorted by output path.
func (f *File) Index() Index {
	f.mu.Lock()
	defer f.mu.Unlock()

	idx := Index{Outputs: make([]IndexEntry, 0, len(f.entries))}
	for _, e := range f.entries {
		idx.Outputs = append(idx.Outputs, e)
	}
	sort.Slice(idx.Outputs, func(i, j int) bool { return idx.Outputs[i].Output < idx.Outputs[j].Output })
	return idx
}

// WriteIndex writes the dependency index to <dir>/.afgen-deps.yaml.
func (f *File) WriteIndex() error {
	raw, err := yaml.Marshal(f.Index())
	if err != nil {
		return fmt.Errorf("%w: encode index: %w", ErrEmit, err)
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("%w: mkdir %s: %w", ErrEmit, f.dir, err)
	}
	path := filepath.Join(f.dir, IndexFile)
	if err := publish(f.fs, path, raw, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrEmit, path, err)
	}
	return nil
}

// ReadIndex loads the dependency index from dir. A missing index is empty.
func ReadIndex(dir string) (Index, error) {
	var idx Index
	raw, err := os.ReadFile(filepath.Join(dir, IndexFile))
	if errors.Is(err, fs.ErrNotExist) {
		return idx, nil
	}
	if err != nil {
		return idx, fmt.Errorf("%w: read index: %w", ErrEmit, err)
	}
	if err := yaml.Unmarshal(raw, &idx); err != nil {
		return idx, fmt.Errorf("%w: decode index: %w", ErrEmit, err)
	}
	return idx, nil
}
