package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"run2rejuvenate-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type EventCreateRequest struct {
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	EventType      string    `json:"eventType"`
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	TargetDistance *float64  `json:"targetDistance"`
	TargetTime     *int      `json:"targetTime"`
}

type EventUpdateRequest struct {
	Name           *string    `json:"name"`
	Description    *string    `json:"description"`
	EventType      *string    `json:"eventType"`
	StartDate      *time.Time `json:"startDate"`
	EndDate        *time.Time `json:"endDate"`
	TargetDistance *float64   `json:"targetDistance"`
	TargetTime     *int       `json:"targetTime"`
}

func (s *Server) ListEvents(w http.ResponseWriter, r *http.Request) {
	skip, limit := pageParams(r.URL.Query().Get("skip"), r.URL.Query().Get("limit"))
	events, err := s.Events.List(r.Context(), skip, limit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, events)
}

func (s *Server) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := s.Events.Get(r.Context(), chi.URLParam(r, "eventId"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, event)
}

func (s *Server) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if req.Name == "" || req.EventType == "" {
		WriteError(w, http.StatusBadRequest, "name and eventType are required")
		return
	}
	event, err := s.Events.Create(r.Context(), services.EventCreate{
		Name:           req.Name,
		Description:    req.Description,
		EventType:      req.EventType,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		TargetDistance: req.TargetDistance,
		TargetTime:     req.TargetTime,
		CreatedBy:      CurrentIdentity(r).SubjectID,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, event)
}

func (s *Server) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	event, err := s.Events.Update(r.Context(), chi.URLParam(r, "eventId"), services.EventUpdate{
		Name:           req.Name,
		Description:    req.Description,
		EventType:      req.EventType,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		TargetDistance: req.TargetDistance,
		TargetTime:     req.TargetTime,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, event)
}

func (s *Server) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := s.Events.Delete(r.Context(), chi.URLParam(r, "eventId")); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegisterForEvent adds the caller to the event's participant set.
func (s *Server) RegisterForEvent(w http.ResponseWriter, r *http.Request) {
	user, err := s.Users.EnsureUser(r.Context(), CurrentIdentity(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if _, err := s.Events.Register(r.Context(), chi.URLParam(r, "eventId"), user.ID.Hex()); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Successfully registered for event"})
}

func (s *Server) UnregisterFromEvent(w http.ResponseWriter, r *http.Request) {
	user, err := s.Users.GetBySubject(r.Context(), CurrentIdentity(r).SubjectID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if _, err := s.Events.Unregister(r.Context(), chi.URLParam(r, "eventId"), user.ID.Hex()); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Successfully unregistered from event"})
}

// RegisteredEvents lists the events whose participant set contains the caller.
func (s *Server) RegisteredEvents(w http.ResponseWriter, r *http.Request) {
	user, err := s.Users.GetBySubject(r.Context(), CurrentIdentity(r).SubjectID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	events, err := s.Events.ListForUser(r.Context(), user.ID.Hex())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, events)
}
