package ops

import (
	"net/http"

	"records-atlas/internal/handler/http/auth"
	ingestUC "records-atlas/internal/usecase/ingest"
	checkUC "records-atlas/internal/usecase/linkcheck"
)

// Register registers the operational endpoints. Both require
// authentication via the auth middleware.
func Register(mux *http.ServeMux, ingestSvc *ingestUC.Service, checkSvc *checkUC.Service) {
	mux.Handle("POST /ingest", auth.Authz(IngestHandler{ingestSvc}))
	mux.Handle("POST /checks", auth.Authz(ChecksHandler{checkSvc}))
	mux.Handle("POST /checks/{id}", auth.Authz(CheckResourceHandler{checkSvc}))
}
