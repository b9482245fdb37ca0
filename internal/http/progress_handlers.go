package httpapi

import (
	"encoding/json"
	"net/http"

	"run2rejuvenate-backend-go/internal/models"
	"run2rejuvenate-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type ProgressCreateRequest struct {
	EventID  string   `json:"eventId"`
	Distance *float64 `json:"distance"`
	Time     *int     `json:"time"`
	Notes    *string  `json:"notes"`
	Date     string   `json:"date"`
}

type ProgressUpdateRequest struct {
	Distance *float64 `json:"distance"`
	Time     *int     `json:"time"`
	Notes    *string  `json:"notes"`
	Date     *string  `json:"date"`
}

// CreateProgress records an entry for the caller. The user id always comes
// from the authenticated identity, never from the payload.
func (s *Server) CreateProgress(w http.ResponseWriter, r *http.Request) {
	var req ProgressCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if req.EventID == "" {
		WriteError(w, http.StatusBadRequest, "eventId is required")
		return
	}
	user, err := s.Users.GetBySubject(r.Context(), CurrentIdentity(r).SubjectID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	entry, err := s.Progress.Create(r.Context(), services.ProgressCreate{
		EventID:  req.EventID,
		UserID:   user.ID.Hex(),
		Distance: req.Distance,
		Time:     req.Time,
		Notes:    req.Notes,
		Date:     req.Date,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, entry)
}

// MyProgress lists the caller's entries, optionally scoped to one event.
func (s *Server) MyProgress(w http.ResponseWriter, r *http.Request) {
	user, err := s.Users.GetBySubject(r.Context(), CurrentIdentity(r).SubjectID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	entries, err := s.Progress.ListForUser(r.Context(), user.ID.Hex(), r.URL.Query().Get("event_id"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, entries)
}

func (s *Server) GetProgress(w http.ResponseWriter, r *http.Request) {
	entry, err := s.ownedProgress(r)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, entry)
}

func (s *Server) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	var req ProgressUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	entry, err := s.ownedProgress(r)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	updated, err := s.Progress.Update(r.Context(), entry.ID.Hex(), services.ProgressUpdate{
		Distance: req.Distance,
		Time:     req.Time,
		Notes:    req.Notes,
		Date:     req.Date,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

func (s *Server) DeleteProgress(w http.ResponseWriter, r *http.Request) {
	entry, err := s.ownedProgress(r)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if err := s.Progress.Delete(r.Context(), entry.ID.Hex()); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) EventProgress(w http.ResponseWriter, r *http.Request) {
	entries, err := s.Progress.ListForEvent(r.Context(), chi.URLParam(r, "eventId"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, entries)
}

func (s *Server) EventLeaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := s.Leaderboard.ForEvent(r.Context(), chi.URLParam(r, "eventId"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, board)
}

// ownedProgress loads the addressed entry and checks that the caller owns it
// or is an admin.
func (s *Server) ownedProgress(r *http.Request) (models.Progress, error) {
	entry, err := s.Progress.Get(r.Context(), chi.URLParam(r, "progressId"))
	if err != nil {
		return models.Progress{}, err
	}
	ident := CurrentIdentity(r)
	user, err := s.Users.GetBySubject(r.Context(), ident.SubjectID)
	if err != nil {
		return models.Progress{}, err
	}
	if entry.UserID != user.ID.Hex() && !ident.IsAdmin {
		return models.Progress{}, services.ErrForbidden("Not authorized to access this progress entry")
	}
	return entry, nil
}
