package httpapi

import (
	"encoding/json"
	"net/http"

	"run2rejuvenate-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type ArticleCreateRequest struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Category string `json:"category"`
	Content  string `json:"content"`
}

type ArticleUpdateRequest struct {
	Title    *string `json:"title"`
	Subtitle *string `json:"subtitle"`
	Category *string `json:"category"`
	Content  *string `json:"content"`
}

func (s *Server) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var req ArticleCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if req.Title == "" || req.Category == "" || req.Content == "" {
		WriteError(w, http.StatusBadRequest, "title, category and content are required")
		return
	}
	ident := CurrentIdentity(r)
	article, err := s.Articles.Create(r.Context(), services.ArticleCreate{
		Title:    req.Title,
		Subtitle: req.Subtitle,
		Category: req.Category,
		Content:  req.Content,
		Author:   ident.SubjectID,
	}, services.DisplayName(ident))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, article)
}

func (s *Server) ListArticles(w http.ResponseWriter, r *http.Request) {
	skip, limit := pageParams(r.URL.Query().Get("skip"), r.URL.Query().Get("limit"))
	articles, err := s.Articles.List(r.Context(), r.URL.Query().Get("category"), skip, limit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, articles)
}

func (s *Server) GetArticle(w http.ResponseWriter, r *http.Request) {
	article, err := s.Articles.Get(r.Context(), chi.URLParam(r, "articleId"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, article)
}

func (s *Server) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	var req ArticleUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	article, err := s.Articles.Update(r.Context(), chi.URLParam(r, "articleId"), services.ArticleUpdate{
		Title:    req.Title,
		Subtitle: req.Subtitle,
		Category: req.Category,
		Content:  req.Content,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, article)
}

func (s *Server) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	if err := s.Articles.Delete(r.Context(), chi.URLParam(r, "articleId")); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
