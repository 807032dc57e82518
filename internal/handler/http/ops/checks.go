package ops

import (
	"errors"
	"net/http"

	"records-atlas/internal/domain/entity"
	"records-atlas/internal/handler/http/pathutil"
	"records-atlas/internal/handler/http/respond"
	checkUC "records-atlas/internal/usecase/linkcheck"
)

// ChecksHandler triggers a link sweep synchronously and reports the
// sweep statistics. Long sweeps should run in the worker; this endpoint
// exists for small corpora and operational spot checks.
type ChecksHandler struct{ Svc *checkUC.Service }

func (h ChecksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.SweepAll(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"due":      stats.Due,
		"checked":  stats.Checked,
		"alive":    stats.Alive,
		"dead":     stats.Dead,
		"errors":   stats.Errors,
		"duration": stats.Duration.String(),
	})
}

// CheckResourceHandler probes a single resource immediately, records the
// outcome and reports it. Used for spot-checking one link without waiting
// for the next sweep.
type CheckResourceHandler struct{ Svc *checkUC.Service }

func (h CheckResourceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/checks/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.Svc.CheckOne(r.Context(), id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			respond.SafeError(w, http.StatusNotFound, err)
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"resource_id": id,
		"status_code": result.StatusCode,
		"alive":       result.Alive,
		"duration":    result.Duration.String(),
		"page_title":  result.Title,
	})
}
