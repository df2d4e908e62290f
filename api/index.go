// Package handler is the serverless entrypoint. The platform invokes Handler for every
// request under /api and reuses the process between invocations.
package handler

import (
	"context"
	"net/http"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/atlasforge/greeter/internal/config"
	applog "github.com/atlasforge/greeter/internal/platform/logging"
	"github.com/atlasforge/greeter/internal/server"
)

var (
	router http.Handler
	once   sync.Once
)

func setup() {
	cfg, err := config.FromEnv(os.Getenv)
	if err != nil {
		// PORT is meaningless here; keep serving with defaults.
		applog.LogWarn(context.Background(), "ignoring invalid environment", zap.Error(err))
		cfg = config.Config{}
	}
	router = server.NewRouter(server.Options{Config: cfg, Version: os.Getenv("VERCEL_GIT_COMMIT_SHA")})
}

// Handler builds the router on the first invocation and delegates every request to it.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(setup)
	router.ServeHTTP(w, r)
}
