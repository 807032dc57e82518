package resource

import (
	"errors"
	"net/http"
	"strconv"

	"records-atlas/internal/handler/http/respond"
	resUC "records-atlas/internal/usecase/resource"
)

// NoticesHandler serves gazette notices recorded for a resource.
type NoticesHandler struct{ Svc resUC.Service }

func (h NoticesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	resourceID, err := strconv.ParseInt(q.Get("resource_id"), 10, 64)
	if err != nil || resourceID <= 0 {
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("resource_id query param required"))
		return
	}

	limit := 0
	if limitStr := q.Get("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			respond.SafeError(w, http.StatusBadRequest,
				errors.New("limit must be a non-negative integer"))
			return
		}
	}

	notices, err := h.Svc.Notices(r.Context(), resourceID, limit)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]NoticeDTO, 0, len(notices))
	for _, n := range notices {
		out = append(out, NoticeDTO{
			ID:          n.ID,
			ResourceID:  n.ResourceID,
			Title:       n.Title,
			URL:         n.URL,
			PublishedAt: n.PublishedAt,
		})
	}
	respond.JSON(w, http.StatusOK, out)
}
