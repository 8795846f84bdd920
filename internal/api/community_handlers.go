package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/quitbet/quitbet/internal/services"
)

func (h *Handler) createPost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AuthorID    string                `json:"author_id"`
		Content     string                `json:"content"`
		Category    services.PostCategory `json:"category"`
		IsAnonymous bool                  `json:"is_anonymous"`
		Tags        []string              `json:"tags"`
		Mood        services.PostMood     `json:"mood"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	post, err := h.community.CreatePost(req.AuthorID, req.Content, req.Category, req.IsAnonymous, req.Tags, req.Mood)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if cat := q.Get("category"); cat != "" {
		posts, err := h.community.PostsByCategory(services.PostCategory(cat))
		if err != nil {
			writeError(w, h.log, err)
			return
		}
		writeJSON(w, http.StatusOK, posts)
		return
	}
	if userID := q.Get("author"); userID != "" {
		posts, err := h.community.PostsByUser(userID)
		if err != nil {
			writeError(w, h.log, err)
			return
		}
		writeJSON(w, http.StatusOK, posts)
		return
	}
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	posts, err := h.community.Posts(page, limit)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *Handler) trendingPosts(w http.ResponseWriter, _ *http.Request) {
	posts, err := h.community.TrendingPosts()
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *Handler) searchPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.community.SearchPosts(r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *Handler) toggleLike(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	liked, err := h.community.ToggleLike(chi.URLParam(r, "id"), req.UserID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}

func (h *Handler) addComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AuthorID    string `json:"author_id"`
		Content     string `json:"content"`
		IsAnonymous bool   `json:"is_anonymous"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	comment, err := h.community.AddComment(chi.URLParam(r, "id"), req.AuthorID, req.Content, req.IsAnonymous)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.community.DeletePost(chi.URLParam(r, "id"), req.UserID); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) communityStats(w http.ResponseWriter, _ *http.Request) {
	stats, err := h.community.Stats()
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	p, err := h.community.Profile(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if p == nil {
		writeError(w, h.log, services.NewNotFoundError("profile not found"))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var patch services.ProfilePatch
	if !decodeBody(w, r, &patch) {
		return
	}
	p, err := h.community.UpdateProfile(chi.URLParam(r, "userID"), patch)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
