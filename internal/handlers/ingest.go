package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"coldwatch/internal/logger"
	"coldwatch/internal/metrics"
	"coldwatch/internal/models"
	"coldwatch/internal/storage"
)

// ReadingHandler handles fridge reading ingestion via HTTP
type ReadingHandler struct {
	store storage.Store

	// Max body size (default 1MB)
	maxBodySize int64

	// Clock override for tests
	now func() time.Time
}

// ReadingConfig holds configuration for the reading handler
type ReadingConfig struct {
	Store       storage.Store
	MaxBodySize int64
}

// NewReadingHandler creates a new ingestion handler
func NewReadingHandler(cfg ReadingConfig) *ReadingHandler {
	maxBodySize := cfg.MaxBodySize
	if maxBodySize == 0 {
		maxBodySize = 1 << 20 // 1MB default
	}

	return &ReadingHandler{
		store:       cfg.Store,
		maxBodySize: maxBodySize,
		now:         time.Now,
	}
}

// ReadingResponse is the response returned to clients
type ReadingResponse struct {
	Success bool   `json:"success"`
	ID      int64  `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ServeHTTP handles the ingest HTTP request
func (h *ReadingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logger.WithComponent("ingest")

	// Only accept POST
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// Check content type
	contentType := r.Header.Get("Content-Type")
	if contentType != "" && contentType != "application/json" {
		h.writeError(w, http.StatusUnsupportedMediaType, "content-type must be application/json")
		return
	}

	// Limit body size
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	var input models.ReadingInput
	if err := json.Unmarshal(body, &input); err != nil {
		metrics.ReadingsRejected.WithLabelValues("invalid").Inc()
		h.writeError(w, http.StatusBadRequest, "invalid reading payload")
		return
	}

	if err := input.Validate(); err != nil {
		metrics.ReadingsRejected.WithLabelValues("invalid").Inc()
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	reading := input.ToReading(h.now())

	if err := h.store.InsertReading(r.Context(), reading); err != nil {
		if errors.Is(err, storage.ErrDuplicateID) {
			metrics.ReadingsRejected.WithLabelValues("duplicate").Inc()
			h.writeError(w, http.StatusConflict,
				fmt.Sprintf("reading with id %d already exists", reading.ID))
			return
		}

		log.Error().Err(err).Int64("id", reading.ID).Msg("failed to store reading")
		metrics.ReadingsRejected.WithLabelValues("storage").Inc()
		h.writeError(w, http.StatusInternalServerError, "failed to store reading")
		return
	}

	metrics.ReadingsAccepted.WithLabelValues(strconv.Itoa(reading.FridgeNo)).Inc()

	log.Debug().
		Int64("id", reading.ID).
		Int("fridge_no", reading.FridgeNo).
		Float64("temperature", reading.Temperature).
		Float64("humidity", reading.Humidity).
		Msg("reading stored")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ReadingResponse{Success: true, ID: reading.ID})
}

// writeError writes an error response
func (h *ReadingHandler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ReadingResponse{Success: false, Error: message})
}
