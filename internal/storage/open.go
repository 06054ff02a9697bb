package storage

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

type Options struct {
	Backend    string
	Path       string
	SQLitePath string
}

// Open returns the repository selected by opts.Backend; the flat file is
// the default.
func Open(opts Options, log zerolog.Logger) (Repository, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendFile:
		return NewFileRepository(opts.Path, log)
	case BackendSQLite:
		return OpenSQLite(opts.SQLitePath)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
