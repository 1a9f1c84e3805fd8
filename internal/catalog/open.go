package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/jobswipe/internal/db"
)

// Supported catalog sources
const (
	SourceStatic   = "static"
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

// Open builds a loader for the named source. The returned func releases any connection and is never nil.
// location is the server base URL for "http" and the database URL for "postgres".
func Open(ctx context.Context, source, location string) (Loader, func(), error) {
	noop := func() {}

	switch strings.ToLower(strings.TrimSpace(source)) {
	case "", SourceStatic:
		return Default(), noop, nil

	case SourceHTTP:
		h, err := NewHTTPLoader(location, nil)
		if err != nil {
			return nil, noop, err
		}
		return h, noop, nil

	case SourcePostgres:
		database, err := db.Connect(ctx, location)
		if err != nil {
			return nil, noop, &Error{Source: "postgres", Message: "connect failed", Cause: err}
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, noop, &Error{Source: "postgres", Message: "schema failed", Cause: err}
		}
		return NewPostgresLoader(database), database.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown catalog source %q (want static, http or postgres)", source)
	}
}
