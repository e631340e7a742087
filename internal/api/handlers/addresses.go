package handlers

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"smartrouting/internal/api/dto"
	"smartrouting/internal/ports"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// AddressHandler exposes read-only address retrieval endpoints.
type AddressHandler struct {
	Store ports.AddressStore
}

func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	page, ok := queryInt(r, "page", 1)
	if !ok || page < 1 {
		writeError(w, r, http.StatusBadRequest, "page must be a positive integer")
		return
	}
	size, ok := queryInt(r, "page_size", defaultPageSize)
	if !ok || size < 1 || size > maxPageSize {
		writeError(w, r, http.StatusBadRequest, "page_size must be between 1 and 500")
		return
	}

	search := r.URL.Query().Get("search")

	items, total, err := h.Store.List(r.Context(), (page-1)*size, size, search)
	if err != nil {
		log.Error().Err(err).Msg("list addresses failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListAddressesResponse{
		TotalItems: total,
		Page:       page,
		PageSize:   size,
		Items:      make([]dto.AddressResponse, 0, len(items)),
	}
	for _, a := range items {
		item := dto.AddressResponse{ID: a.ID, Name: a.Name}
		if a.Location != nil {
			lat, lon := a.Location.Lat, a.Location.Lon
			item.Latitude, item.Longitude = &lat, &lon
		}
		res.Items = append(res.Items, item)
	}

	writeJSON(w, r, http.StatusOK, res)
}

func queryInt(r *http.Request, key string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
