package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/readmark/readmark/internal/chapter"
	"github.com/readmark/readmark/internal/observe"
)

// chapterSummary is the list-view representation of a chapter.
type chapterSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	WordCount int    `json:"word_count"`
}

// chapterPayload is the JSON body accepted by create and update.
type chapterPayload struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// handleListChapters handles GET /chapters.
func (s *Server) handleListChapters(w http.ResponseWriter, r *http.Request) {
	chapters, err := s.chapters.List(r.Context())
	if err != nil {
		observe.Logger(r.Context()).Error("chapter list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "chapter list failed", "")
		return
	}

	items := make([]chapterSummary, 0, len(chapters))
	for _, ch := range chapters {
		items = append(items, chapterSummary{
			ID:        ch.ID,
			Title:     ch.Title,
			WordCount: ch.WordCount(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"chapters": items})
}

// handleGetChapter handles GET /chapters/{id}.
func (s *Server) handleGetChapter(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	ch, err := s.chapters.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, chapter.ErrNotFound) {
			writeError(w, http.StatusNotFound, "chapter not found", "no chapter with id "+id)
			return
		}
		observe.Logger(r.Context()).Error("chapter lookup failed", "chapter_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "chapter lookup failed", "")
		return
	}
	writeJSON(w, http.StatusOK, ch)
}

// handleCreateChapter handles POST /chapters.
func (s *Server) handleCreateChapter(w http.ResponseWriter, r *http.Request) {
	var payload chapterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	ch := chapter.Chapter{ID: payload.ID, Title: payload.Title, Text: payload.Text}
	if err := s.chapters.Create(r.Context(), ch); err != nil {
		switch {
		case errors.Is(err, chapter.ErrDuplicateID):
			writeError(w, http.StatusConflict, "duplicate chapter", "a chapter with id "+ch.ID+" already exists")
		case errors.Is(err, chapter.ErrNotFound):
			writeError(w, http.StatusNotFound, "chapter not found", "")
		default:
			// Validation failures surface as joined errors.
			writeError(w, http.StatusBadRequest, "invalid chapter", err.Error())
		}
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": ch.ID})
}

// handleUpdateChapter handles PUT /chapters/{id}.
func (s *Server) handleUpdateChapter(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var payload chapterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	ch := chapter.Chapter{ID: id, Title: payload.Title, Text: payload.Text}
	if err := s.chapters.Update(r.Context(), ch); err != nil {
		switch {
		case errors.Is(err, chapter.ErrNotFound):
			writeError(w, http.StatusNotFound, "chapter not found", "no chapter with id "+id)
		default:
			writeError(w, http.StatusBadRequest, "invalid chapter", err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

// handleDeleteChapter handles DELETE /chapters/{id}.
func (s *Server) handleDeleteChapter(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.chapters.Delete(r.Context(), id); err != nil {
		if errors.Is(err, chapter.ErrNotFound) {
			writeError(w, http.StatusNotFound, "chapter not found", "no chapter with id "+id)
			return
		}
		observe.Logger(r.Context()).Error("chapter delete failed", "chapter_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "chapter delete failed", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
