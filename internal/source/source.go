// Package source provides the places user records are loaded from.
//
// A Source yields the ordered record sequence the aggregation engine works
// on. The sequence is loaded once per run and treated as read-only afterwards.
package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonMunkholm/userreport/internal/config"
	"github.com/JonMunkholm/userreport/internal/core"
)

// Source loads the full record sequence.
type Source interface {
	// Load returns the records in source order. An unavailable backend is
	// reported as an error wrapping core.ErrSourceUnavailable; an empty
	// sequence is not an error.
	Load(ctx context.Context) ([]core.UserRecord, error)

	// Name identifies the source in logs.
	Name() string
}

// File reads records from a comma-delimited file.
type File struct {
	Path string
}

// NewFile returns a Source for the file at path.
func NewFile(path string) *File {
	return &File{Path: path}
}

// Load parses the file. A missing or unreadable file is logged by the loader
// and yields an empty sequence.
func (f *File) Load(ctx context.Context) ([]core.UserRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return core.LoadFile(f.Path), nil
}

// Name returns "csv:" followed by the configured path.
func (f *File) Name() string {
	return "csv:" + f.Path
}

// New builds the Source selected by cfg.Input.Source. The returned close
// function releases any connections and is safe to call once.
func New(ctx context.Context, cfg *config.Config) (Source, func(), error) {
	switch strings.ToLower(cfg.Input.Source) {
	case config.SourceCSV:
		return NewFile(cfg.Input.CSVPath), func() {}, nil

	case config.SourcePostgres:
		pool, err := Connect(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return NewPostgres(pool, cfg.Database.UsersTable, cfg.Database.QueryTimeout), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown source %q", cfg.Input.Source)
	}
}

// Load reads all records from src and reports an empty sequence as
// core.ErrNoRecords.
func Load(ctx context.Context, src Source) ([]core.UserRecord, error) {
	records, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src.Name(), err)
	}
	if len(records) == 0 {
		return records, fmt.Errorf("load %s: %w", src.Name(), core.ErrNoRecords)
	}
	return records, nil
}
