package jurisdiction

import (
	"net/http"

	"records-atlas/internal/domain/entity"
	"records-atlas/internal/handler/http/respond"
	jurUC "records-atlas/internal/usecase/jurisdiction"
)

type ListHandler struct{ Svc jurUC.Service }

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	list, err := h.Svc.List(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]DTO, 0, len(list))
	for _, j := range list {
		out = append(out, toDTO(j))
	}
	respond.JSON(w, http.StatusOK, out)
}

func toDTO(j *entity.Jurisdiction) DTO {
	return DTO{
		ID:         j.ID,
		Code:       j.Code,
		Name:       j.Name,
		Region:     j.Region,
		Overview:   j.Overview,
		ImportedAt: j.ImportedAt,
		Active:     j.Active,
	}
}
