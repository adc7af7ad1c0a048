package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"gstledger/internal/engine"
	"gstledger/internal/export"
	"gstledger/internal/logger"
	"gstledger/internal/store"
	"gstledger/pkg/models"
	"gstledger/pkg/services"
)

// Handler recomputes everything from a freshly loaded snapshot on each request.
type Handler struct {
	store   services.SnapshotStore
	sources []services.LegacySource
}

func NewHandler(snapshots services.SnapshotStore, sources ...services.LegacySource) *Handler {
	return &Handler{store: snapshots, sources: sources}
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (h *Handler) GSTR1(w http.ResponseWriter, r *http.Request) {
	if res, ok := h.compute(w, r); ok {
		writeJSON(w, http.StatusOK, res.GST.GSTR1)
	}
}

func (h *Handler) GSTR3B(w http.ResponseWriter, r *http.Request) {
	if res, ok := h.compute(w, r); ok {
		writeJSON(w, http.StatusOK, res.GST.GSTR3B)
	}
}

func (h *Handler) HSN(w http.ResponseWriter, r *http.Request) {
	if res, ok := h.compute(w, r); ok {
		writeJSON(w, http.StatusOK, map[string]any{"items": res.GST.HSN, "count": len(res.GST.HSN)})
	}
}

func (h *Handler) Ledger(w http.ResponseWriter, r *http.Request) {
	if res, ok := h.compute(w, r); ok {
		writeJSON(w, http.StatusOK, res.Ledger)
	}
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	if res, ok := h.compute(w, r); ok {
		writeJSON(w, http.StatusOK, map[string]any{"summary": res.Summary, "warnings": res.GST.Warnings})
	}
}

func (h *Handler) Parties(w http.ResponseWriter, r *http.Request) {
	if res, ok := h.compute(w, r); ok {
		writeJSON(w, http.StatusOK, map[string]any{"items": res.Parties, "count": len(res.Parties)})
	}
}

func (h *Handler) Buyers(w http.ResponseWriter, r *http.Request) {
	if res, ok := h.compute(w, r); ok {
		writeJSON(w, http.StatusOK, map[string]any{"items": res.Buyers, "count": len(res.Buyers)})
	}
}

func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(chi.URLParam(r, "name"))
	res, ok := h.compute(w, r)
	if !ok {
		return
	}

	table, err := export.Build(name, res)
	if err != nil {
		if errors.Is(err, export.ErrUnknownTable) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("unknown export %q", name))
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".csv"))
	w.WriteHeader(http.StatusOK)
	if err := export.WriteCSV(w, table); err != nil {
		logger.FromContext(r.Context()).Error().Err(err).Str("export", name).Msg("Failed to write CSV export")
	}
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	snap, err := h.store.Load(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap.EffectiveSettings())
}

func (h *Handler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.CompanySettings
	if err := decodeJSON(r, &settings); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(settings.HomeState) == "" {
		writeError(w, http.StatusBadRequest, "homeState is required")
		return
	}

	if err := h.store.SaveSettings(r.Context(), settings); err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// compute loads the snapshot and runs the engine. It writes the error response itself
// and reports false on failure.
func (h *Handler) compute(w http.ResponseWriter, r *http.Request) (*engine.Result, bool) {
	asOf, err := parseAsOf(r.URL.Query().Get("asOf"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	snap, err := engine.Gather(r.Context(), h.store, h.sources...)
	if err != nil {
		writeStoreError(w, r, err)
		return nil, false
	}
	return engine.Compute(snap, engine.Options{AsOf: asOf}), true
}

func parseAsOf(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := models.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("asOf must be a date")
	}
	return t, nil
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context()).Error().Err(err).Msg("Snapshot store failed")
	if errors.Is(err, store.ErrSnapshotUnavailable) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
