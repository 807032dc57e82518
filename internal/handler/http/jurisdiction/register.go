package jurisdiction

import (
	"net/http"

	httph "records-atlas/internal/handler/http"
	jurUC "records-atlas/internal/usecase/jurisdiction"
	resUC "records-atlas/internal/usecase/resource"
)

// Register registers all jurisdiction-related HTTP handlers with the given mux.
// All jurisdiction reads are public; search is rate limited.
func Register(mux *http.ServeMux, svc jurUC.Service, resSvc resUC.Service, searchRateLimiter *httph.RateLimiter) {
	mux.Handle("GET /jurisdictions", ListHandler{svc})
	mux.Handle("GET /jurisdictions/search", searchRateLimiter.Limit(SearchHandler{svc}))
	mux.Handle("GET /jurisdictions/{code}", GetHandler{Svc: svc, ResourceSvc: resSvc})
}
