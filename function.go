// Package nwsdwml is the Cloud Functions entry point. The function
// ScrapeDWML performs one scrape run per invocation and responds with the
// URIs of the uploaded artifacts.
package nwsdwml

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	httpadapter "github.com/couchcryptid/nws-dwml-etl/internal/adapter/http"
	"github.com/couchcryptid/nws-dwml-etl/internal/app"
	"github.com/couchcryptid/nws-dwml-etl/internal/config"
	"github.com/couchcryptid/nws-dwml-etl/internal/observability"
)

var (
	setupOnce  sync.Once
	runHandler http.Handler
	setupErr   error
)

func init() {
	functions.HTTP("ScrapeDWML", scrapeDWML)
}

// setup runs once per instance; configuration is read at cold start.
func setup() {
	cfg, err := config.Load()
	if err != nil {
		setupErr = err
		slog.Error("failed to load config", "error", err)
		return
	}

	logger := observability.NewLogger(cfg)
	a, err := app.New(context.Background(), cfg, logger, observability.NewMetrics())
	if err != nil {
		setupErr = err
		logger.Error("failed to build pipeline", "error", err)
		return
	}
	runHandler = httpadapter.RunHandler(a.Pipeline)
}

func scrapeDWML(w http.ResponseWriter, r *http.Request) {
	setupOnce.Do(setup)
	if setupErr != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{ //nolint:errcheck // best-effort response
			"error": setupErr.Error(),
			"kind":  "internal",
		})
		return
	}
	runHandler.ServeHTTP(w, r)
}
