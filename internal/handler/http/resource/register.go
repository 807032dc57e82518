package resource

import (
	"net/http"

	"records-atlas/internal/common/pagination"

	httph "records-atlas/internal/handler/http"
	"records-atlas/internal/handler/http/auth"
	jurUC "records-atlas/internal/usecase/jurisdiction"
	resUC "records-atlas/internal/usecase/resource"
)

// Register registers all resource-related HTTP handlers with the given mux.
// Reads are public and search is rate limited; mutations require
// authentication via the auth middleware.
func Register(mux *http.ServeMux, svc resUC.Service, jurSvc jurUC.Service, searchRateLimiter *httph.RateLimiter, pageCfg pagination.Config) {
	mux.Handle("GET /resources", ListHandler{Svc: svc, JurSvc: jurSvc})
	mux.Handle("GET /resources/search", searchRateLimiter.Limit(SearchHandler{Svc: svc, PageCfg: pageCfg}))
	mux.Handle("GET /resources/", GetHandler{svc})
	mux.Handle("GET /notices", NoticesHandler{svc})

	mux.Handle("POST /resources", auth.Authz(CreateHandler{svc}))
	mux.Handle("PUT /resources/", auth.Authz(UpdateHandler{svc}))
	mux.Handle("DELETE /resources/", auth.Authz(DeleteHandler{svc}))
}
