package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"smartrouting/internal/api/dto"
	"smartrouting/internal/services"
)

type RouteHandler struct {
	Engine *services.Engine
}

// Calc runs the full order-assignment pipeline for one request: demand
// preparation, model solving across trips, and shipment assembly.
func (h *RouteHandler) Calc(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.CalcRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if len(req.Vehicles) == 0 {
		writeError(w, r, http.StatusBadRequest, "vehicles are required")
		return
	}
	if req.Orders == nil {
		writeError(w, r, http.StatusBadRequest, "orders are required")
		return
	}

	vehicles, orders, opt, err := req.ToDomain()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.Engine.CalculateRoutes(r.Context(), services.CalcRequest{
		Vehicles:       vehicles,
		Orders:         orders,
		DepotAddressID: req.DepotAddressID,
		Option:         opt,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRequest), errors.Is(err, services.ErrDepotNotFound):
			writeError(w, r, http.StatusBadRequest, err.Error())
		default:
			log.Error().Err(err).Msg("calculate routes failed")
			writeError(w, r, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromDomain(resp.Shipments, resp.Unassigned))
}
