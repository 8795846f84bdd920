package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quitbet/quitbet/internal/services"
)

func (h *Handler) availableSupporters(w http.ResponseWriter, _ *http.Request) {
	supporters, err := h.sessions.AvailableSupporters()
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, supporters)
}

func (h *Handler) supporterSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := h.sessions.SupporterSlots(chi.URLParam(r, "id"), dateParam(r))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, slots)
}

func (h *Handler) bookSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      string               `json:"user_id"`
		SupporterID string               `json:"supporter_id"`
		StartTime   time.Time            `json:"start_time"`
		SessionType services.SessionType `json:"session_type"`
		Priority    services.Priority    `json:"priority"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	session, err := h.sessions.BookSession(req.UserID, req.SupporterID, req.StartTime, req.SessionType, req.Priority)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (h *Handler) userSessions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if supporterID := q.Get("supporter_id"); supporterID != "" {
		sessions, err := h.sessions.SupporterSessions(supporterID)
		if err != nil {
			writeError(w, h.log, err)
			return
		}
		writeJSON(w, http.StatusOK, sessions)
		return
	}
	sessions, err := h.sessions.UserSessions(q.Get("user_id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (h *Handler) requestEmergencySupport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	session, err := h.sessions.RequestEmergencySupport(req.UserID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (h *Handler) sessionStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.sessions.SessionStats(r.URL.Query().Get("user_id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) startVideoCall(w http.ResponseWriter, r *http.Request) {
	room, err := h.sessions.StartVideoCall(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (h *Handler) endVideoCall(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Duration int `json:"duration"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.sessions.EndVideoCall(chi.URLParam(r, "id"), req.Duration); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) rateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rating   int    `json:"rating"`
		Feedback string `json:"feedback"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.sessions.RateSession(chi.URLParam(r, "id"), req.Rating, req.Feedback); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) chatMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.sessions.ChatMessages(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

func (h *Handler) addChatMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SenderID    string               `json:"sender_id"`
		SenderName  string               `json:"sender_name"`
		Content     string               `json:"content"`
		MessageType services.MessageType `json:"message_type"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	message, err := h.sessions.AddChatMessage(chi.URLParam(r, "id"), req.SenderID, req.SenderName, req.Content, req.MessageType)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, message)
}
