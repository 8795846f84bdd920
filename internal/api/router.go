// Package api exposes the recovery store facades over JSON/HTTP. Each handler
// decodes a request, calls exactly one facade method, and encodes the result
// or the mapped error.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/quitbet/quitbet/internal/middleware"
	"github.com/quitbet/quitbet/internal/services"
)

type Handler struct {
	usage        *services.UsageService
	gamification *services.GamificationService
	community    *services.CommunityService
	sessions     *services.SessionService
	log          *zap.Logger
}

func NewHandler(
	usage *services.UsageService,
	gamification *services.GamificationService,
	community *services.CommunityService,
	sessions *services.SessionService,
	log *zap.Logger,
) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		usage:        usage,
		gamification: gamification,
		community:    community,
		sessions:     sessions,
		log:          log,
	}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(h.log))
	r.Use(middleware.CORS)
	r.Use(middleware.SecureHeaders)

	r.Route("/api", func(r chi.Router) {
		r.Route("/usage", func(r chi.Router) {
			r.Get("/entries", h.listUsageEntries)
			r.Post("/entries", h.addUsageEntry)
			r.Get("/insights", h.usageInsights)
			r.Get("/daily", h.dailyUsage)
			r.Get("/weekly", h.weeklyUsage)
			r.Get("/apps", h.installedApps)
			r.Get("/avoidance", h.listAvoidance)
			r.Post("/avoidance", h.addAvoidance)
			r.Delete("/avoidance/{appID}", h.removeAvoidance)
			r.Delete("/", h.clearUsage)
		})
		r.Route("/gamification", func(r chi.Router) {
			r.Get("/stats", h.userStats)
			r.Post("/points", h.addPoints)
			r.Post("/streak", h.updateStreak)
			r.Post("/money-saved", h.updateMoneySaved)
			r.Post("/achievements/check", h.checkDailyAchievements)
			r.Post("/achievements/{id}/unlock", h.unlockAchievement)
			r.Get("/achievements/recent", h.recentAchievements)
			r.Get("/achievements/next", h.nextAchievements)
			r.Get("/leaderboard", h.leaderboard)
			r.Post("/leaderboard", h.updateLeaderboard)
		})
		r.Route("/community", func(r chi.Router) {
			r.Get("/posts", h.listPosts)
			r.Post("/posts", h.createPost)
			r.Get("/posts/trending", h.trendingPosts)
			r.Get("/posts/search", h.searchPosts)
			r.Post("/posts/{id}/like", h.toggleLike)
			r.Post("/posts/{id}/comments", h.addComment)
			r.Delete("/posts/{id}", h.deletePost)
			r.Get("/stats", h.communityStats)
			r.Get("/profiles/{userID}", h.profile)
			r.Put("/profiles/{userID}", h.updateProfile)
		})
		r.Route("/sessions", func(r chi.Router) {
			r.Get("/supporters", h.availableSupporters)
			r.Get("/supporters/{id}/slots", h.supporterSlots)
			r.Get("/", h.userSessions)
			r.Post("/", h.bookSession)
			r.Post("/emergency", h.requestEmergencySupport)
			r.Get("/stats", h.sessionStats)
			r.Post("/{id}/start", h.startVideoCall)
			r.Post("/{id}/end", h.endVideoCall)
			r.Post("/{id}/rate", h.rateSession)
		})
		r.Route("/rooms", func(r chi.Router) {
			r.Get("/{id}/messages", h.chatMessages)
			r.Post("/{id}/messages", h.addChatMessage)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "name": "QuitBet API"})
	})
	return r
}
