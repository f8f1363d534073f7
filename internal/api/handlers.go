package api

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/contractviewer/internal/apperr"
	"github.com/starford/contractviewer/internal/checksum"
	"github.com/starford/contractviewer/internal/contract"
	"github.com/starford/contractviewer/internal/formservice"
	"github.com/starford/contractviewer/internal/models"
	"github.com/starford/contractviewer/internal/render"
	"github.com/starford/contractviewer/internal/sse"
)

// Handler holds API route handlers.
type Handler struct {
	form   *formservice.Service
	fetch  *FetchHandler
	events *sse.Broker
}

// NewHandler creates a new Handler. events may be nil.
func NewHandler(form *formservice.Service, fetch *FetchHandler, events *sse.Broker) *Handler {
	return &Handler{form: form, fetch: fetch, events: events}
}

func (h *Handler) publishForm(action string, field contract.Field) {
	if h.events == nil {
		return
	}
	data := map[string]string{"action": action}
	if field != "" {
		data["field"] = string(field)
	}
	h.events.Publish(sse.Event{Type: sse.TypeFormUpdated, Data: data})
}

func writeDownload(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+contract.ExportFilename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// fetchStored downloads the stored document and writes the error response
// itself when that fails.
func (h *Handler) fetchStored(w http.ResponseWriter, r *http.Request) (*models.Object, bool) {
	obj, err := h.fetch.Fetch(r.Context())
	if err == nil {
		return obj, true
	}
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("document not found"))
	case errors.Is(err, apperr.ErrInvalidJSON):
		writeJSON(w, http.StatusBadGateway, errorBody("stored document is not valid JSON"))
	default:
		slog.Error("fetch contract failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("upstream fetch failed"))
	}
	return nil, false
}

// GetContract handles GET /api/contract.
//
//	@Summary		Fetch the stored document and map it to the flat record
//	@Tags			contract
//	@Produce		json
//	@Success		200	{object}	ImportResponse
//	@Failure		404	{object}	errResponse
//	@Failure		502	{object}	errResponse
//	@Router			/contract [get]
func (h *Handler) GetContract(w http.ResponseWriter, r *http.Request) {
	obj, ok := h.fetchStored(w, r)
	if !ok {
		return
	}
	record, meta := contract.Import(obj.Data)
	w.Header().Set("ETag", checksum.ETag(obj.Data))
	writeJSON(w, http.StatusOK, ImportResponse{Record: record, Metadata: meta, Source: obj.Path})
}

// FetchForm handles POST /api/form/fetch.
//
//	@Summary		Replace the form with the stored document
//	@Tags			form
//	@Produce		json
//	@Success		200	{object}	FormState
//	@Failure		404	{object}	errResponse
//	@Failure		502	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/form/fetch [post]
func (h *Handler) FetchForm(w http.ResponseWriter, r *http.Request) {
	obj, ok := h.fetchStored(w, r)
	if !ok {
		return
	}
	state, err := h.form.Load(r.Context(), obj.Path, obj.Data)
	if err != nil {
		slog.Error("load contract failed", slog.String("path", obj.Path), slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("stored document is not valid JSON"))
		return
	}
	h.publishForm("fetch", "")
	w.Header().Set("ETag", checksum.ETag(obj.Data))
	writeJSON(w, http.StatusOK, state)
}

// ImportContract handles POST /api/contract/import.
//
//	@Summary		Map any contract document to the flat record
//	@Tags			contract
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	ImportResponse
//	@Failure		400	{object}	errResponse
//	@Router			/contract/import [post]
func (h *Handler) ImportContract(w http.ResponseWriter, r *http.Request) {
	data, _, err := readDocument(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	record, meta, err := contract.Parse(data)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	writeJSON(w, http.StatusOK, ImportResponse{Record: record, Metadata: meta})
}

// ExportContract handles POST /api/contract/export.
//
//	@Summary		Build the canonical document from a flat record
//	@Tags			contract
//	@Accept			json
//	@Produce		json
//	@Param			body	body		RecordRequest	true	"Flat record"
//	@Success		200		{object}	contract.Document
//	@Failure		400		{object}	errResponse
//	@Router			/contract/export [post]
func (h *Handler) ExportContract(w http.ResponseWriter, r *http.Request) {
	record, _, err := decodeRecord(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(recordError(err)))
		return
	}
	out, err := contract.Export(record).MarshalIndent()
	if err != nil {
		slog.Error("export failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeDownload(w, out)
}

// PrintContract handles POST /api/contract/print.
//
//	@Summary		Render a flat record as a printable HTML page
//	@Tags			contract
//	@Accept			json
//	@Produce		html
//	@Param			body	body	RecordRequest	true	"Flat record"
//	@Success		200
//	@Failure		400	{object}	errResponse
//	@Router			/contract/print [post]
func (h *Handler) PrintContract(w http.ResponseWriter, r *http.Request) {
	record, meta, err := decodeRecord(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(recordError(err)))
		return
	}
	writeHTML(w, record, meta)
}

func writeHTML(w http.ResponseWriter, record contract.Record, meta *contract.Metadata) {
	var buf bytes.Buffer
	if err := render.HTML(&buf, record, meta); err != nil {
		slog.Error("render failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// Fields handles GET /api/contract/fields.
//
//	@Summary		Get the form layout
//	@Tags			contract
//	@Produce		json
//	@Success		200	{object}	FieldsResponse
//	@Router			/contract/fields [get]
func (h *Handler) Fields(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, FieldsResponse{Sections: contract.Sections})
}

// GetForm handles GET /api/form.
//
//	@Summary		Get the current form
//	@Tags			form
//	@Produce		json
//	@Success		200	{object}	FormState
//	@Security		BearerAuth
//	@Router			/form [get]
func (h *Handler) GetForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.form.Snapshot())
}

// LoadForm handles POST /api/form/load.
//
//	@Summary		Replace the form with an uploaded document
//	@Tags			form
//	@Accept			json,mpfd
//	@Produce		json
//	@Success		200	{object}	FormState
//	@Failure		400	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/form/load [post]
func (h *Handler) LoadForm(w http.ResponseWriter, r *http.Request) {
	data, source, err := readDocument(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	state, err := h.form.Load(r.Context(), source, data)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidJSON) {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON document"))
		} else {
			slog.Error("load form failed", slog.String("source", source), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	h.publishForm("load", "")
	writeJSON(w, http.StatusOK, state)
}

// SetField handles PUT /api/form/fields/{field}.
//
//	@Summary		Change one form field
//	@Tags			form
//	@Accept			json
//	@Produce		json
//	@Param			field	path		string			true	"Field name"
//	@Param			body	body		SetFieldRequest	true	"New value"
//	@Success		200		{object}	FormState
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/form/fields/{field} [put]
func (h *Handler) SetField(w http.ResponseWriter, r *http.Request) {
	field := contract.Field(chi.URLParam(r, "field"))

	spec, ok := contract.Spec(field)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("unknown field"))
		return
	}
	if spec.ReadOnly {
		writeJSON(w, http.StatusBadRequest, errorBody("field is read-only"))
		return
	}

	var req SetFieldRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("value is required"))
		return
	}

	if err := h.form.Set(r.Context(), field, *req.Value); err != nil {
		if errors.Is(err, apperr.ErrUnknownField) {
			writeJSON(w, http.StatusNotFound, errorBody("unknown field"))
		} else {
			slog.Error("set field failed", slog.String("field", string(field)), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	h.publishForm("set", field)
	writeJSON(w, http.StatusOK, h.form.Snapshot())
}

// ResetForm handles POST /api/form/reset.
//
//	@Summary		Clear every form field
//	@Tags			form
//	@Produce		json
//	@Param			confirm	query		bool	true	"Must be true to clear the form"
//	@Success		200		{object}	FormState
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/form/reset [post]
func (h *Handler) ResetForm(w http.ResponseWriter, r *http.Request) {
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	err := h.form.Reset(r.Context(), formservice.ConfirmFunc(func(_ context.Context, _ string) (bool, error) {
		return confirmed, nil
	}))
	if err != nil {
		if errors.Is(err, apperr.ErrNotConfirmed) {
			writeJSON(w, http.StatusConflict, errorBody(formservice.ResetPrompt))
		} else {
			slog.Error("reset failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	h.publishForm("reset", "")
	writeJSON(w, http.StatusOK, h.form.Snapshot())
}

// ExportForm handles GET /api/form/export.
//
//	@Summary		Download the current form as the canonical document
//	@Tags			form
//	@Produce		json
//	@Success		200	{object}	contract.Document
//	@Security		BearerAuth
//	@Router			/form/export [get]
func (h *Handler) ExportForm(w http.ResponseWriter, r *http.Request) {
	out, err := h.form.Export()
	if err != nil {
		slog.Error("export form failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeDownload(w, out)
}

// PrintForm handles GET /api/form/print.
//
//	@Summary		Render the current form as a printable HTML page
//	@Tags			form
//	@Produce		html
//	@Success		200
//	@Security		BearerAuth
//	@Router			/form/print [get]
func (h *Handler) PrintForm(w http.ResponseWriter, r *http.Request) {
	st := h.form.Snapshot()
	writeHTML(w, st.Record, st.Metadata)
}
