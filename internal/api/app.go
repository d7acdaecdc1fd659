// Package api wires the component façades (Store, Importer, Search,
// Scheduler, Reviewer, Stats) into the HTTP surface §6 describes: one
// handler file per resource, a shared response/error envelope, and a
// chi router assembled in router.go.
package api

import (
	"log/slog"

	"github.com/YiniRuohong/wordflow/internal/importer"
	"github.com/YiniRuohong/wordflow/internal/review"
	"github.com/YiniRuohong/wordflow/internal/scheduler"
	"github.com/YiniRuohong/wordflow/internal/search"
	"github.com/YiniRuohong/wordflow/internal/stats"
	"github.com/YiniRuohong/wordflow/internal/store"
)

// App bundles every component the HTTP handlers call into. It holds no
// behavior of its own; NewRouter assembles handlers from it.
type App struct {
	Store     store.Store
	Importer  *importer.Importer
	Search    *search.Search
	Scheduler *scheduler.Scheduler
	Reviewer  *review.Reviewer
	Stats     *stats.Stats
	Logger    *slog.Logger

	// AllowedOrigins configures CORS (§6's "Environment: APP_ORIGINS").
	AllowedOrigins []string
}
