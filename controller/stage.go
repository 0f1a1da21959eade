package controller

import (
	"context"
	"net/http"
	"sync"
)

type sinkKey struct{}

type errorSink struct {
	mu  sync.Mutex
	err error
}

func (s *errorSink) record(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

func (s *errorSink) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func sinkFrom(ctx context.Context) *errorSink {
	sink, _ := ctx.Value(sinkKey{}).(*errorSink)
	return sink
}

// ErrorStage returns middleware that collects errors forwarded by controllers
// further down the chain and renders the first one with handler once the
// chain returns. It is the single place where handler failures are turned
// into responses.
func ErrorStage(handler ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if handler == nil {
				next.ServeHTTP(w, r)
				return
			}

			sink := &errorSink{}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sinkKey{}, sink)))

			if err := sink.load(); err != nil {
				handler(w, r, err)
			}
		})
	}
}
