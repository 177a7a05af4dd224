package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"loom-backend/internal/models"
	"loom-backend/internal/services"
)

// Uploads above this size are rejected before extraction.
const maxUploadBytes = 25 * 1024 * 1024

type ingester interface {
	IngestURL(ctx context.Context, videoURL string) (*models.StudyKit, error)
	IngestFile(ctx context.Context, filename string, data []byte) (*models.StudyKit, error)
}

// IngestHandler accepts either a JSON body with a YouTube URL or a multipart
// document upload and returns a study kit.
type IngestHandler struct {
	ingest ingester
}

func NewIngestHandler(ingest ingester) *IngestHandler {
	return &IngestHandler{ingest: ingest}
}

type ingestURLRequest struct {
	URL string `json:"url"`
}

func (h *IngestHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		h.ingestUpload(w, r)
		return
	}

	var req ingestURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"url": "a source url is required"}, r))
		return
	}

	kit, err := h.ingest.IngestURL(r.Context(), req.URL)
	if err != nil {
		h.writeIngestError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, kit)
}

func (h *IngestHandler) ingestUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid multipart body", r))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"file": "a file upload is required"}, r))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Failed to read upload", r))
		return
	}
	if len(data) > maxUploadBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("PAYLOAD_TOO_LARGE", "Upload exceeds the size limit", r))
		return
	}

	kit, err := h.ingest.IngestFile(r.Context(), header.Filename, data)
	if err != nil {
		h.writeIngestError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, kit)
}

func (h *IngestHandler) writeIngestError(w http.ResponseWriter, r *http.Request, err error) {
	var unsupportedFile *services.ErrUnsupportedFileType
	switch {
	case errors.Is(err, services.ErrUnsupportedSource):
		writeJSON(w, http.StatusUnsupportedMediaType, errorResp("UNSUPPORTED_SOURCE", "Only YouTube links are supported", r))
	case errors.As(err, &unsupportedFile):
		writeJSON(w, http.StatusUnsupportedMediaType, errorResp("UNSUPPORTED_SOURCE", "Only PDF, TXT and DOCX uploads are supported", r))
	case errors.Is(err, services.ErrTextTooShort), errors.Is(err, services.ErrNoExtractableText):
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("UNPROCESSABLE_CONTENT", "Not enough text could be extracted to build study material", r))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to ingest content", r))
	}
}
