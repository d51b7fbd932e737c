// Package picker provides the desktop/CLI implementations of the platform
// media ports. A mobile shell replaces these with the real permission prompt
// and gallery selector; here the "gallery" is the local filesystem.
package picker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rafisgodoy/unibus-core-go/internal/port"

	"go.uber.org/zap"
)

// Gate is a permission gate driven by configuration. Headless environments
// have no prompt to show, so the grant is decided up front.
type Gate struct {
	granted bool
}

// NewGate creates a gate with a fixed answer.
func NewGate(granted bool) *Gate {
	return &Gate{granted: granted}
}

// RequestMediaLibrary reports the configured grant. It is called before
// every pick attempt; the decision is not cached by callers.
func (g *Gate) RequestMediaLibrary(_ context.Context) (bool, error) {
	return g.granted, nil
}

// AlertFunc adapts a plain function to the Alerter port.
type AlertFunc func(message string)

func (f AlertFunc) Alert(message string) { f(message) }

// FileSystem selects images from the local disk. Source supplies the path
// the user chose; returning ok=false means the user cancelled.
type FileSystem struct {
	Source func(ctx context.Context) (path string, ok bool)
	Logger *zap.Logger
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Pick resolves the next path from Source and validates it points at an
// existing image file. Editing, aspect and quality options are accepted for
// port compatibility; a filesystem picker has nothing to crop.
func (p *FileSystem) Pick(ctx context.Context, opts port.PickOptions) (*port.PickResult, error) {
	path, ok := p.Source(ctx)
	if !ok {
		return &port.PickResult{Cancelled: true}, nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !imageExtensions[ext] {
		return nil, fmt.Errorf("not an image file: %s", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat image: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("not a file: %s", path)
	}

	p.Logger.Debug("picker: selected image",
		zap.String("path", path),
		zap.Bool("allows_editing", opts.AllowsEditing),
		zap.Float64("quality", opts.Quality),
	)
	return &port.PickResult{URI: path}, nil
}
