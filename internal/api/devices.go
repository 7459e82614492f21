package api

import (
	"errors"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-alexa/internal/device"
)

// handleListDevices returns device summaries in catalogue order.
//
// Query parameters:
//   - type: only devices carrying this display category
//   - action: only devices supporting this action
//   - aliases: "false" hides alias devices
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	registry, _ := s.snapshot()
	q := r.URL.Query()

	typ := q.Get("type")
	action := q.Get("action")
	hideAliases := q.Get("aliases") == "false"

	devices := make([]device.Summary, 0, registry.Count())
	for _, d := range registry.All() {
		if hideAliases && d.AliasOf != "" {
			continue
		}
		sum := d.Summary()
		if typ != "" && !slices.Contains(sum.Types, typ) {
			continue
		}
		if action != "" && !slices.Contains(sum.Actions, action) {
			continue
		}
		devices = append(devices, sum)
	}

	writeJSON(w, http.StatusOK, map[string]any{"devices": devices, "count": len(devices)})
}

// handleGetDevice returns the full record of one device.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	registry, _ := s.snapshot()

	dev, err := registry.Get(id)
	if err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			writeNotFound(w, "device not found")
			return
		}
		writeInternalError(w, "failed to get device")
		return
	}

	writeJSON(w, http.StatusOK, dev.Detail())
}

// handleStats returns registry statistics.
func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	registry, proxies := s.snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"registry": registry.GetStats(),
		"proxies":  len(proxies),
	})
}
