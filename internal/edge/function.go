// Package edge adapts the API to a per-instance function runtime: nothing is
// opened at start-up, the first request initialises the instance and every
// later request reuses it.
package edge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"sync"

	"feedback-api/internal/config"
	"feedback-api/internal/logger"
	"feedback-api/internal/server"
)

// InitFunc builds the handler for an instance. The returned close func may be
// nil.
type InitFunc func(ctx context.Context) (http.Handler, func() error, error)

var (
	errClosed    = errors.New("edge function closed")
	errNoHandler = errors.New("edge initialisation returned no handler")
)

type Function struct {
	init InitFunc

	once    sync.Once
	handler http.Handler
	close   func() error
	err     error
}

func New(init InitFunc) *Function {
	return &Function{init: init}
}

// FromConfig returns a function that opens the configured database and
// builds the router on first use.
func FromConfig(cfg *config.Config) *Function {
	return New(func(ctx context.Context) (http.Handler, func() error, error) {
		app, err := server.NewApp(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return app.Handler, app.Close, nil
	})
}

func (f *Function) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.once.Do(func() {
		defer func() {
			if rec := recover(); rec != nil {
				f.handler, f.close = nil, nil
				f.err = fmt.Errorf("edge initialisation panicked: %v", rec)
				logger.Get().Error().Err(f.err).Str("stack", string(debug.Stack())).Msg("edge instance initialisation failed")
			}
		}()

		// The instance outlives the request that happened to initialise it.
		ctx := context.WithoutCancel(r.Context())
		f.handler, f.close, f.err = f.init(ctx)
		if f.err == nil && f.handler == nil {
			f.err = errNoHandler
		}
		if f.err != nil {
			logger.Get().Error().Err(f.err).Msg("edge instance initialisation failed")
			return
		}
		logger.Get().Info().Msg("edge instance initialised")
	})

	if f.err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   f.err.Error(),
		})
		return
	}
	f.handler.ServeHTTP(w, r)
}

// Close releases what initialisation opened. On an instance that never
// served a request it only prevents later initialisation.
func (f *Function) Close() error {
	f.once.Do(func() {
		f.err = errClosed
	})
	if f.close == nil {
		return nil
	}
	return f.close()
}
