package httpapi

import (
	"encoding/json"
	"net/http"

	"run2rejuvenate-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type UserRegisterRequest struct {
	FirebaseUID   string `json:"firebaseUid"`
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	FullName      string `json:"fullName"`
	ContactNumber string `json:"contactNumber"`
	AgeCategory   string `json:"ageCategory"`
	City          string `json:"city"`
	State         string `json:"state"`
	Country       string `json:"country"`
}

type UserUpdateRequest struct {
	FirstName     *string `json:"firstName"`
	LastName      *string `json:"lastName"`
	FullName      *string `json:"fullName"`
	IsAdmin       *bool   `json:"isAdmin"`
	ContactNumber *string `json:"contactNumber"`
	AgeCategory   *string `json:"ageCategory"`
	City          *string `json:"city"`
	State         *string `json:"state"`
	Country       *string `json:"country"`
}

func (r UserUpdateRequest) patch() services.UserUpdate {
	return services.UserUpdate{
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		FullName:      r.FullName,
		IsAdmin:       r.IsAdmin,
		ContactNumber: r.ContactNumber,
		AgeCategory:   r.AgeCategory,
		City:          r.City,
		State:         r.State,
		Country:       r.Country,
	}
}

// CheckEmail is a public probe used by the registration flow.
func (s *Server) CheckEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		WriteError(w, http.StatusBadRequest, "Missing email parameter")
		return
	}
	_, err := s.Users.GetByEmail(r.Context(), email)
	if err != nil {
		if serr, ok := err.(services.ServiceError); ok && serr.Status == http.StatusNotFound {
			WriteJSON(w, http.StatusOK, map[string]bool{"exists": false})
			return
		}
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"exists": true})
}

// RegisterUser creates a profile with the full registration details.
func (s *Server) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req UserRegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if req.FirebaseUID == "" || req.Email == "" {
		WriteError(w, http.StatusBadRequest, "firebaseUid and email are required")
		return
	}
	user, err := s.Users.Create(r.Context(), services.UserCreate{
		FirebaseUID:   req.FirebaseUID,
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		FullName:      req.FullName,
		ContactNumber: req.ContactNumber,
		AgeCategory:   req.AgeCategory,
		City:          req.City,
		State:         req.State,
		Country:       req.Country,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, user)
}

// Me resolves the caller to a local profile, provisioning a minimal one on
// first contact. A profile still missing its registration details gets 428
// so the client can prompt for them.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	ident := CurrentIdentity(r)
	user, err := s.Users.EnsureUser(r.Context(), ident)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if !user.ProfileComplete() {
		WriteError(w, http.StatusPreconditionRequired, "Please complete your profile with additional details")
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

func (s *Server) UpdateMe(w http.ResponseWriter, r *http.Request) {
	ident := CurrentIdentity(r)
	var req UserUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if req.IsAdmin != nil && !ident.IsAdmin {
		WriteError(w, http.StatusForbidden, "Not authorized to update admin status")
		return
	}
	user, err := s.Users.GetBySubject(r.Context(), ident.SubjectID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	updated, err := s.Users.Update(r.Context(), user.ID.Hex(), req.patch())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.Users.Get(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

func (s *Server) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UserUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	updated, err := s.Users.Update(r.Context(), chi.URLParam(r, "userId"), req.patch())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

func (s *Server) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.Users.Delete(r.Context(), chi.URLParam(r, "userId")); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	skip, limit := pageParams(r.URL.Query().Get("skip"), r.URL.Query().Get("limit"))
	users, err := s.Users.List(r.Context(), skip, limit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, users)
}
