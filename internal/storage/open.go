package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/jobswipe/internal/db"
)

// Supported adapter kinds
const (
	KindMemory   = "memory"
	KindFile     = "file"
	KindSQLite   = "sqlite"
	KindRedis    = "redis"
	KindPostgres = "postgres"
)

// Opened is an adapter plus the function that releases its resources
type Opened struct {
	Adapter
	close func() error
}

// Close releases the adapter's underlying connection, if any
func (o *Opened) Close() error {
	if o.close == nil {
		return nil
	}
	return o.close()
}

// Open builds an adapter of the given kind.
// dsn is a directory for "file", a database path for "sqlite",
// and a connection URL for "redis" and "postgres".
func Open(ctx context.Context, kind, dsn string) (*Opened, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindMemory:
		return &Opened{Adapter: NewMemoryAdapter()}, nil

	case KindFile:
		a, err := NewFileAdapter(dsn)
		if err != nil {
			return nil, err
		}
		return &Opened{Adapter: a}, nil

	case "", KindSQLite:
		a, err := OpenSQLite(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return &Opened{Adapter: a, close: a.Close}, nil

	case KindRedis:
		rdb, err := NewRedisClient(ctx, dsn)
		if err != nil {
			return nil, &Error{Op: "open", Cause: err}
		}
		a := NewRedisAdapter(rdb, "")
		return &Opened{Adapter: a, close: a.Close}, nil

	case KindPostgres:
		database, err := db.Connect(ctx, dsn)
		if err != nil {
			return nil, &Error{Op: "open", Cause: err}
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, &Error{Op: "open", Cause: err}
		}
		return &Opened{
			Adapter: NewPostgresAdapter(database),
			close: func() error {
				database.Close()
				return nil
			},
		}, nil

	default:
		return nil, fmt.Errorf("unknown store kind %q (want memory, file, sqlite, redis or postgres)", kind)
	}
}
