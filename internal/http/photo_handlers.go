package httpapi

import (
	"encoding/json"
	"net/http"

	"run2rejuvenate-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type PhotoUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	PhotoDate   *string `json:"photoDate"`
}

// CreatePhoto accepts a multipart form with the image under "photo".
func (s *Server) CreatePhoto(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(20 << 20); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid multipart payload")
		return
	}
	title := r.FormValue("title")
	if title == "" {
		WriteError(w, http.StatusBadRequest, "title is required")
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "photo file is required")
		return
	}
	defer file.Close()
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	imageURL, err := s.Photos.SaveImage(contentType, header.Filename, file)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	photo, err := s.Photos.Create(r.Context(), services.PhotoCreate{
		Title:       title,
		Description: r.FormValue("description"),
		PhotoDate:   r.FormValue("photoDate"),
		CreatedBy:   CurrentIdentity(r).SubjectID,
	}, imageURL)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, photo)
}

func (s *Server) ListPhotos(w http.ResponseWriter, r *http.Request) {
	skip, limit := pageParams(r.URL.Query().Get("skip"), r.URL.Query().Get("limit"))
	photos, err := s.Photos.List(r.Context(), skip, limit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, photos)
}

func (s *Server) PhotoCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.Photos.Count(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]int64{"count": count})
}

func (s *Server) GetPhoto(w http.ResponseWriter, r *http.Request) {
	photo, err := s.Photos.Get(r.Context(), chi.URLParam(r, "photoId"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, photo)
}

func (s *Server) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	var req PhotoUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	photo, err := s.Photos.Update(r.Context(), chi.URLParam(r, "photoId"), services.PhotoUpdate{
		Title:       req.Title,
		Description: req.Description,
		PhotoDate:   req.PhotoDate,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, photo)
}

func (s *Server) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	if err := s.Photos.Delete(r.Context(), chi.URLParam(r, "photoId")); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
