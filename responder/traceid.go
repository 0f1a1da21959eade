package responder

import (
	mathrand "math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// RequestIDHeader is reused as the trace id when the caller supplies one.
const RequestIDHeader = "X-Request-Id"

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

func traceIDFor(req *http.Request) string {
	if req != nil {
		if id := strings.TrimSpace(req.Header.Get(RequestIDHeader)); id != "" {
			return id
		}
	}

	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
