package handlers

import (
	"errors"
	"net/http"

	"itsm-desk/core/assets"
	"itsm-desk/core/catalog"
	"itsm-desk/core/reports"
	"itsm-desk/core/sla"
	"itsm-desk/core/store"
	"itsm-desk/core/utils"
)

type ServicesHandler struct {
	*RecordsHandler[store.Service, catalog.Payload]
	catalog *catalog.Catalog
}

func NewServicesHandler(c *catalog.Catalog, logger *utils.Logger) *ServicesHandler {
	return &ServicesHandler{
		RecordsHandler: NewRecordsHandler[store.Service, catalog.Payload](c, reports.ServicesTable, logger),
		catalog:        c,
	}
}

// Delete needs ?confirm=true. References held by assets and SLAs are left as they are.
func (h *ServicesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	err := h.catalog.Delete(r.Context(), actorName(r), id, confirmed(r))
	if errors.Is(err, catalog.ErrConfirmRequired) {
		writeErrorCode(w, http.StatusConflict, "services.confirmRequired", "deleting a service requires confirm=true")
		return
	}
	if err != nil {
		respondError(w, h.logger, h.module(), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

type SLAsHandler struct {
	*RecordsHandler[store.SLA, sla.Payload]
	slas *sla.Manager
}

func NewSLAsHandler(m *sla.Manager, logger *utils.Logger) *SLAsHandler {
	return &SLAsHandler{
		RecordsHandler: NewRecordsHandler[store.SLA, sla.Payload](m, reports.SLAsTable, logger),
		slas:           m,
	}
}

func (h *SLAsHandler) Critical(w http.ResponseWriter, r *http.Request) {
	items, err := h.slas.Critical(r.Context())
	if err != nil {
		respondError(w, h.logger, h.module(), err)
		return
	}
	if items == nil {
		items = []sla.CriticalItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

type AssetsHandler struct {
	*RecordsHandler[store.Asset, assets.Payload]
	inventory *assets.Inventory
}

func NewAssetsHandler(inv *assets.Inventory, logger *utils.Logger) *AssetsHandler {
	return &AssetsHandler{
		RecordsHandler: NewRecordsHandler[store.Asset, assets.Payload](inv, reports.AssetsTable, logger),
		inventory:      inv,
	}
}

func (h *AssetsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.inventory.Stats(r.Context())
	if err != nil {
		respondError(w, h.logger, h.module(), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": stats})
}
