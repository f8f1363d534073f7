package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/starford/contractviewer/internal/apperr"
	"github.com/starford/contractviewer/internal/checksum"
	"github.com/starford/contractviewer/internal/models"
	"github.com/starford/contractviewer/internal/storage"
)

// Fetch defaults.
const (
	DefaultFetchPath    = "/data.json"
	DefaultFetchTimeout = 10 * time.Second
)

// fetchHint is returned as details when the upstream gave no summary.
const fetchHint = "Check server logs for details"

// FetchConfig names the stored document and bounds the time spent fetching it.
type FetchConfig struct {
	Path    string
	Timeout time.Duration
}

func (c FetchConfig) withDefaults() FetchConfig {
	if c.Path == "" {
		c.Path = DefaultFetchPath
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultFetchTimeout
	}
	return c
}

// FetchHandler proxies one JSON document from a storage provider.
type FetchHandler struct {
	store storage.Provider
	cfg   FetchConfig
}

// NewFetchHandler creates a fetch proxy for cfg.Path on store.
func NewFetchHandler(store storage.Provider, cfg FetchConfig) *FetchHandler {
	return &FetchHandler{store: store, cfg: cfg.withDefaults()}
}

// Fetch downloads the configured document within the configured timeout and
// checks that it is JSON.
func (h *FetchHandler) Fetch(ctx context.Context) (*models.Object, error) {
	ctx, cancel := context.WithTimeout(ctx, h.cfg.Timeout)
	defer cancel()

	obj, err := h.store.Download(ctx, h.cfg.Path)
	if err != nil {
		return nil, err
	}
	if !json.Valid(obj.Data) {
		return nil, fmt.Errorf("%s: %w", obj.Path, apperr.ErrInvalidJSON)
	}
	return obj, nil
}

// ServeHTTP handles GET|OPTIONS /api/data.
//
//	@Summary		Fetch the stored contract document
//	@Tags			data
//	@Produce		json
//	@Success		200	{object}	FetchResponse
//	@Success		304	"Not modified"
//	@Failure		405	{object}	errResponse
//	@Failure		500	{object}	FetchErrorResponse
//	@Router			/data [get]
func (h *FetchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodGet:
	default:
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("Method not allowed"))
		return
	}

	slog.Info("fetching stored document", slog.String("path", h.cfg.Path))
	obj, err := h.Fetch(r.Context())
	if err != nil {
		slog.Error("fetch failed", slog.String("path", h.cfg.Path), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, FetchErrorResponse{
			Success: false,
			Error:   err.Error(),
			Details: fetchDetails(err),
		})
		return
	}

	w.Header().Set("ETag", checksum.ETag(obj.Data))
	if checksum.MatchesETag(r.Header.Get("If-None-Match"), obj.Data) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, FetchResponse{
		Success:  true,
		Data:     json.RawMessage(obj.Data),
		Metadata: obj.Metadata(),
	})
}

func fetchDetails(err error) string {
	var apiErr *storage.APIError
	if errors.As(err, &apiErr) && apiErr.Summary != "" {
		return apiErr.Summary
	}
	return fetchHint
}
