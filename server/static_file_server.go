package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/jrsteele09/go-mock-auth-server/internal/errors"
)

// ResolveContentRoot turns the configured static root into an absolute path
// with symlinks resolved. A missing or non-directory root is a startup error.
func ResolveContentRoot(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", errors.ErrContentRoot, path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", errors.ErrContentRoot, path, err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", errors.ErrContentRoot, path, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", errors.ErrContentRoot, resolved)
	}
	return resolved, nil
}

// FileServerHandler serves files below root; a directory request is answered
// with its index.html when present.
func FileServerHandler(root string) http.Handler {
	return http.FileServer(http.Dir(root))
}
