package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"slices"

	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Func reports whether a dependency is usable. A nil error means healthy.
type Func func(ctx context.Context) error

// DBPinger is the part of *sql.DB used by NewDBPingProbe.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// MongoPinger is the part of *mongo.Client used by NewMongoPingProbe.
type MongoPinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// HTTPDoer is the part of *http.Client used by NewHTTPProbe.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewPingProbe names fn's failures.
func NewPingProbe(name string, fn func(ctx context.Context) error) Func {
	return func(ctx context.Context) error {
		if fn == nil {
			return fmt.Errorf("%s probe: ping function is nil", name)
		}
		if err := fn(ctx); err != nil {
			return fmt.Errorf("%s probe failed: %w", name, err)
		}
		return nil
	}
}

// NewDBPingProbe pings a database/sql handle.
func NewDBPingProbe(name string, db DBPinger) Func {
	if db == nil {
		return NewPingProbe(name, nil)
	}
	return NewPingProbe(name, db.PingContext)
}

// NewMongoPingProbe pings MongoDB with readPref, or the primary when nil.
func NewMongoPingProbe(client MongoPinger, readPref *readpref.ReadPref) Func {
	if readPref == nil {
		readPref = readpref.Primary()
	}
	return func(ctx context.Context) error {
		if client == nil {
			return fmt.Errorf("mongo probe: client is nil")
		}
		if err := client.Ping(ctx, readPref); err != nil {
			return fmt.Errorf("mongo probe failed: %w", err)
		}
		return nil
	}
}

// NewHTTPProbe issues a GET against target. Any 2xx status passes unless
// allowed lists the accepted statuses. A nil client uses http.DefaultClient.
func NewHTTPProbe(name, target string, client HTTPDoer, allowed ...int) Func {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return fmt.Errorf("%s probe: build request: %w", name, err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("%s probe request failed: %w", name, err)
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)

		if !statusAccepted(resp.StatusCode, allowed) {
			return fmt.Errorf("%s probe: unexpected status %d %s", name, resp.StatusCode, http.StatusText(resp.StatusCode))
		}
		return nil
	}
}

func statusAccepted(status int, allowed []int) bool {
	if len(allowed) > 0 {
		return slices.Contains(allowed, status)
	}
	return status >= 200 && status < 300
}
