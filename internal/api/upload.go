package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/starford/contractviewer/internal/apperr"
	"github.com/starford/contractviewer/internal/contract"
)

// defaultSource names documents posted as a raw body.
const defaultSource = "upload"

// readDocument returns the posted JSON document and a name for it. Both a
// raw JSON body and a multipart form with a "file" field are accepted.
func readDocument(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read body")
		}
		source := r.URL.Query().Get("source")
		if source == "" {
			source = defaultSource
		}
		return data, source, nil
	}

	if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
		return nil, "", fmt.Errorf("file too large or invalid multipart")
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("missing 'file' field in multipart form")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file")
	}
	return data, filepath.Base(header.Filename), nil
}

// decodeRecord reads a RecordRequest or a bare flat map.
func decodeRecord(w http.ResponseWriter, r *http.Request) (contract.Record, *contract.Metadata, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read body")
	}

	var req RecordRequest
	if err := json.Unmarshal(body, &req); err == nil && req.Record != nil {
		rec, err := contract.FromMap(req.Record)
		return rec, req.Metadata, err
	}

	var flat map[string]string
	if err := json.Unmarshal(body, &flat); err != nil {
		return nil, nil, fmt.Errorf("%w: expected an object of string values", apperr.ErrInvalidJSON)
	}
	rec, err := contract.FromMap(flat)
	return rec, nil, err
}

// recordError maps a decodeRecord failure to a client message.
func recordError(err error) string {
	if errors.Is(err, apperr.ErrUnknownField) || errors.Is(err, apperr.ErrInvalidJSON) {
		return err.Error()
	}
	return "invalid request body"
}
