package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) userStats(w http.ResponseWriter, _ *http.Request) {
	stats, err := h.gamification.Stats()
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) addPoints(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int    `json:"amount"`
		Reason string `json:"reason"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	stats, err := h.gamification.AddPoints(req.Amount, req.Reason)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) updateStreak(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DaysFree int `json:"days_free"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	stats, err := h.gamification.UpdateStreak(req.DaysFree)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) updateMoneySaved(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount float64 `json:"amount"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	stats, err := h.gamification.UpdateMoneySaved(req.Amount)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) unlockAchievement(w http.ResponseWriter, r *http.Request) {
	stats, err := h.gamification.UnlockAchievement(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) checkDailyAchievements(w http.ResponseWriter, _ *http.Request) {
	stats, err := h.gamification.CheckDailyAchievements()
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) recentAchievements(w http.ResponseWriter, _ *http.Request) {
	achievements, err := h.gamification.RecentAchievements()
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, achievements)
}

func (h *Handler) nextAchievements(w http.ResponseWriter, _ *http.Request) {
	achievements, err := h.gamification.NextAchievements()
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, achievements)
}

func (h *Handler) leaderboard(w http.ResponseWriter, _ *http.Request) {
	board, err := h.gamification.Leaderboard()
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (h *Handler) updateLeaderboard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID   string `json:"user_id"`
		Username string `json:"username"`
		Points   int    `json:"points"`
		DaysFree int    `json:"days_free"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.gamification.UpdateLeaderboard(req.UserID, req.Username, req.Points, req.DaysFree); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
