// Package ops exposes operational endpoints: triggering a corpus
// re-import and a link sweep on demand. Both are admin only.
package ops

import (
	"net/http"

	"records-atlas/internal/handler/http/respond"
	ingestUC "records-atlas/internal/usecase/ingest"
)

// IngestHandler re-imports the corpus synchronously and reports the
// import statistics.
type IngestHandler struct{ Svc *ingestUC.Service }

func (h IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.ImportAll(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"pages":     stats.Pages,
		"imported":  stats.Imported,
		"resources": stats.Resources,
		"errors":    stats.Errors,
		"duration":  stats.Duration.String(),
	})
}
