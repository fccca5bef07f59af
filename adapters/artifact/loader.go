package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"heartrisk/domain/core"
	"heartrisk/ports"
)

// FileLoader reads an artifact document from disk.
type FileLoader struct {
	path string
}

// NewFileLoader creates a loader for the artifact at path.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

func (l *FileLoader) Source() string { return l.path }

// Load reads and decodes the artifact. A missing file is reported as
// core.ErrArtifactUnavailable.
func (l *FileLoader) Load(_ context.Context) (ports.Classifier, error) {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: model file %q not found", core.ErrArtifactUnavailable, l.path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %q: %v", core.ErrArtifactUnavailable, l.path, err)
	}
	return Decode(data, l.path)
}
