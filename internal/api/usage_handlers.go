package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quitbet/quitbet/internal/services"
)

func (h *Handler) addUsageEntry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AppID    string        `json:"app_id"`
		AppName  string        `json:"app_name"`
		Duration int           `json:"duration"`
		Notes    string        `json:"notes"`
		Mood     services.Mood `json:"mood"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	entry, err := h.usage.AddEntry(req.AppID, req.AppName, req.Duration, req.Notes, req.Mood)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *Handler) listUsageEntries(w http.ResponseWriter, r *http.Request) {
	if from, to, ok := rangeParams(r); ok {
		entries, err := h.usage.EntriesBetween(from, to)
		if err != nil {
			writeError(w, h.log, err)
			return
		}
		writeJSON(w, http.StatusOK, entries)
		return
	}
	entries, err := h.usage.Entries()
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func rangeParams(r *http.Request) (time.Time, time.Time, bool) {
	fromRaw := r.URL.Query().Get("from")
	toRaw := r.URL.Query().Get("to")
	if fromRaw == "" || toRaw == "" {
		return time.Time{}, time.Time{}, false
	}
	from, err1 := time.Parse(time.RFC3339, fromRaw)
	to, err2 := time.Parse(time.RFC3339, toRaw)
	if err1 != nil || err2 != nil {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func (h *Handler) usageInsights(w http.ResponseWriter, r *http.Request) {
	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			days = n
		}
	}
	insights, err := h.usage.Insights(days)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

func dateParam(r *http.Request) time.Time {
	if raw := r.URL.Query().Get("date"); raw != "" {
		if d, err := time.Parse("2006-01-02", raw); err == nil {
			return d
		}
	}
	return time.Now().UTC()
}

func (h *Handler) dailyUsage(w http.ResponseWriter, r *http.Request) {
	daily, err := h.usage.DailyUsage(dateParam(r))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if daily == nil {
		writeError(w, h.log, services.NewNotFoundError("no usage recorded for that day"))
		return
	}
	writeJSON(w, http.StatusOK, daily)
}

func (h *Handler) weeklyUsage(w http.ResponseWriter, r *http.Request) {
	week, err := h.usage.WeeklyUsage(dateParam(r))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, week)
}

func (h *Handler) installedApps(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.usage.InstalledApps())
}

func (h *Handler) addAvoidance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AppID           string `json:"app_id"`
		AppName         string `json:"app_name"`
		Reason          string `json:"reason"`
		ReminderMessage string `json:"reminder_message"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	item, err := h.usage.AddAvoidance(req.AppID, req.AppName, req.Reason, req.ReminderMessage)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) listAvoidance(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("active") == "true" {
		items, err := h.usage.ActiveReminders()
		if err != nil {
			writeError(w, h.log, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
		return
	}
	items, err := h.usage.AvoidanceList()
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) removeAvoidance(w http.ResponseWriter, r *http.Request) {
	if err := h.usage.RemoveAvoidance(chi.URLParam(r, "appID")); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) clearUsage(w http.ResponseWriter, _ *http.Request) {
	if err := h.usage.ClearAll(); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
