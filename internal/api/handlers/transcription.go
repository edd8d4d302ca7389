package handlers

import (
	"database/sql"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/echoscript/backend/internal/api/middleware"
	"github.com/echoscript/backend/internal/db"
	"github.com/echoscript/backend/internal/storage"
	"github.com/echoscript/backend/internal/transcription"
)

// uploadFormOverhead is slack on top of the payload limit for multipart
// boundaries and form fields.
const uploadFormOverhead = 10 * 1024 * 1024

type TranscriptionHandler struct {
	db      *db.Database
	service *transcription.Service
	audio   *storage.AudioStore
}

func NewTranscriptionHandler(db *db.Database, service *transcription.Service, audio *storage.AudioStore) *TranscriptionHandler {
	return &TranscriptionHandler{db: db, service: service, audio: audio}
}

// Upload accepts a multipart audio file, runs the submission pipeline, and
// returns the result. A partial success returns both the record and the
// per-segment failure messages.
func (h *TranscriptionHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		jsonError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, transcription.MaxPayloadSize+uploadFormOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "missing audio file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		jsonError(w, "failed to read upload", http.StatusBadRequest)
		return
	}

	payload := &transcription.AudioPayload{
		Data:     data,
		FileName: header.Filename,
		MIMEType: header.Header.Get("Content-Type"),
	}

	result := h.service.Submit(r.Context(), payload, claims.TeamID, claims.UserID)
	if result.Record == nil {
		jsonResponse(w, result, http.StatusUnprocessableEntity)
		return
	}

	// Keep the original audio for playback. A failure here loses replay, not
	// the transcript.
	if _, err := h.audio.Save(result.Record.ID, payload.MIMEType, data); err != nil {
		log.Printf("[upload] failed to store audio for %s: %v", result.Record.ID, err)
	}

	jsonResponse(w, result, http.StatusCreated)
}

// List returns the team's transcription history, newest first.
func (h *TranscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		jsonError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	recs, err := h.db.ListTranscriptions(claims.TeamID)
	if err != nil {
		jsonError(w, "failed to list transcriptions", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, recs, http.StatusOK)
}

// Search filters the team's history by file name or transcript text.
func (h *TranscriptionHandler) Search(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		jsonError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		jsonError(w, "missing query", http.StatusBadRequest)
		return
	}

	recs, err := h.db.SearchTranscriptions(claims.TeamID, query)
	if err != nil {
		jsonError(w, "search failed", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, recs, http.StatusOK)
}

// Get returns one record with full text and segments for synced playback.
func (h *TranscriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		jsonError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	rec, err := h.db.GetTranscription(id, claims.TeamID)
	if err == sql.ErrNoRows {
		jsonError(w, "transcription not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to load transcription", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, rec, http.StatusOK)
}

// Delete removes a record and its stored audio.
func (h *TranscriptionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		jsonError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	rec, err := h.db.GetTranscription(id, claims.TeamID)
	if err == sql.ErrNoRows {
		jsonError(w, "transcription not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to load transcription", http.StatusInternalServerError)
		return
	}

	if err := h.db.DeleteTranscription(id, claims.TeamID); err != nil {
		jsonError(w, "failed to delete transcription", http.StatusInternalServerError)
		return
	}
	if err := h.audio.Remove(id, rec.FileType); err != nil {
		log.Printf("[transcriptions] failed to remove audio for %s: %v", id, err)
	}

	w.WriteHeader(http.StatusNoContent)
}

// ServeAudio streams the stored audio file. http.ServeFile handles range
// requests, which the audio element needs for seeking.
func (h *TranscriptionHandler) ServeAudio(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		jsonError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	rec, err := h.db.GetTranscription(id, claims.TeamID)
	if err == sql.ErrNoRows {
		jsonError(w, "transcription not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to load transcription", http.StatusInternalServerError)
		return
	}

	path, err := h.audio.Path(id, rec.FileType)
	if err != nil {
		jsonError(w, "audio not available", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", rec.FileType)
	http.ServeFile(w, r, path)
}
