package services

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/quitbet/quitbet/internal/records"
)

const (
	userStatsKey   = "user_gamification_data"
	leaderboardKey = "leaderboard_data"

	leaderboardSize   = 100
	pointsPerLevel    = 100
	streakBonusPoints = 25
	savingsHeroTarget = 10000
)

// achievementCatalog is the fixed set of unlockable milestones, seeded into a
// user's stats on first read.
func achievementCatalog() []Achievement {
	return []Achievement{
		{ID: "first_day", Title: "First Step", Description: "Complete your first day bet-free", Icon: "🎯", Points: 10, Category: CategoryDaily},
		{ID: "week_strong", Title: "Week Warrior", Description: "Stay bet-free for 7 days", Icon: "💪", Points: 50, Category: CategoryStreak},
		{ID: "month_master", Title: "Month Master", Description: "Complete 30 days of recovery", Icon: "🏆", Points: 200, Category: CategoryMilestone},
		{ID: "quarter_champion", Title: "Quarter Champion", Description: "90 days of freedom", Icon: "👑", Points: 500, Category: CategoryMilestone},
		{ID: "year_legend", Title: "Year Legend", Description: "365 days of recovery", Icon: "🌟", Points: 1000, Category: CategoryMilestone},
		{ID: "savings_hero", Title: "Savings Hero", Description: "Save ₹10,000", Icon: "💰", Points: 100, Category: CategorySpecial},
		{ID: "community_helper", Title: "Community Helper", Description: "Help 5 other members", Icon: "🤝", Points: 75, Category: CategorySocial},
		{ID: "focus_master", Title: "Focus Master", Description: "Complete 10 Pomodoro sessions", Icon: "⏰", Points: 25, Category: CategoryDaily},
		{ID: "journal_keeper", Title: "Journal Keeper", Description: "Write 7 journal entries", Icon: "📝", Points: 30, Category: CategoryDaily},
		{ID: "motivation_guru", Title: "Motivation Guru", Description: "Read 20 motivational articles", Icon: "📚", Points: 40, Category: CategoryDaily},
	}
}

// dailyThresholds maps days-free milestones to the achievement they unlock.
var dailyThresholds = []struct {
	days int
	id   string
}{
	{1, "first_day"},
	{7, "week_strong"},
	{30, "month_master"},
	{90, "quarter_champion"},
	{365, "year_legend"},
}

// GamificationService accumulates points and experience, derives level, and
// unlocks achievements when thresholds are crossed.
type GamificationService struct {
	store *records.Store
	log   *zap.Logger
	now   func() time.Time
}

func NewGamificationService(store *records.Store, log *zap.Logger) *GamificationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &GamificationService{
		store: store,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func defaultStats() *UserStats {
	return &UserStats{
		Achievements: achievementCatalog(),
		Level:        1,
	}
}

// Stats returns the stored stats, or the default zero state with a fully
// locked catalog when nothing has been stored yet.
func (s *GamificationService) Stats() (*UserStats, error) {
	stats, err := records.ReadOne[UserStats](s.store, userStatsKey)
	if err != nil {
		return nil, storageErr("read user stats", err)
	}
	if stats == nil {
		return defaultStats(), nil
	}
	return stats, nil
}

func (s *GamificationService) updateStats(fn func(*UserStats) error) (*UserStats, error) {
	stats, err := records.UpdateOne(s.store, userStatsKey, func(stats *UserStats) (*UserStats, error) {
		if stats == nil {
			stats = defaultStats()
		}
		if err := fn(stats); err != nil {
			return nil, err
		}
		return stats, nil
	})
	if err != nil {
		return nil, storageErr("update user stats", err)
	}
	return stats, nil
}

func addPointsLocked(stats *UserStats, amount int) {
	stats.TotalPoints += amount
	stats.Experience += amount
	stats.Level = stats.Experience/pointsPerLevel + 1
}

// AddPoints credits amount to both total points and experience and recomputes
// the level. Negative amounts are accepted and reduce the totals.
func (s *GamificationService) AddPoints(amount int, reason string) (*UserStats, error) {
	stats, err := s.updateStats(func(stats *UserStats) error {
		addPointsLocked(stats, amount)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("points added", zap.Int("amount", amount), zap.String("reason", reason), zap.Int("level", stats.Level))
	return stats, nil
}

// UpdateStreak sets the current streak and awards a fixed bonus when the
// longest streak is beaten.
func (s *GamificationService) UpdateStreak(daysFree int) (*UserStats, error) {
	if daysFree < 0 {
		return nil, NewInvalidError("days free cannot be negative")
	}
	return s.updateStats(func(stats *UserStats) error {
		stats.CurrentStreak = daysFree
		if daysFree > stats.TotalDaysFree {
			stats.TotalDaysFree = daysFree
		}
		if daysFree > stats.LongestStreak {
			stats.LongestStreak = daysFree
			addPointsLocked(stats, streakBonusPoints)
		}
		return nil
	})
}

// UpdateMoneySaved sets the running savings total and unlocks the savings
// achievement once the target is reached.
func (s *GamificationService) UpdateMoneySaved(amount float64) (*UserStats, error) {
	return s.updateStats(func(stats *UserStats) error {
		stats.MoneySaved = amount
		if amount >= savingsHeroTarget {
			s.unlockLocked(stats, "savings_hero")
		}
		return nil
	})
}

// unlockLocked flips the achievement once and credits its reward. Returns
// false when the id is unknown.
func (s *GamificationService) unlockLocked(stats *UserStats, id string) bool {
	for i := range stats.Achievements {
		if stats.Achievements[i].ID != id {
			continue
		}
		if !stats.Achievements[i].Unlocked {
			at := s.now()
			stats.Achievements[i].Unlocked = true
			stats.Achievements[i].UnlockedAt = &at
			addPointsLocked(stats, stats.Achievements[i].Points)
			s.log.Info("achievement unlocked", zap.String("id", id), zap.Int("points", stats.Achievements[i].Points))
		}
		return true
	}
	return false
}

// UnlockAchievement transitions the achievement to unlocked exactly once,
// awarding its points with the same write. Re-unlocking is a no-op.
func (s *GamificationService) UnlockAchievement(id string) (*UserStats, error) {
	return s.updateStats(func(stats *UserStats) error {
		if !s.unlockLocked(stats, id) {
			return NewNotFoundError("achievement not found")
		}
		return nil
	})
}

// CheckDailyAchievements unlocks every days-free milestone the user has
// crossed.
func (s *GamificationService) CheckDailyAchievements() (*UserStats, error) {
	return s.updateStats(func(stats *UserStats) error {
		for _, th := range dailyThresholds {
			if stats.TotalDaysFree >= th.days {
				s.unlockLocked(stats, th.id)
			}
		}
		return nil
	})
}

// RecentAchievements returns up to 5 unlocks, most recent first.
func (s *GamificationService) RecentAchievements() ([]Achievement, error) {
	stats, err := s.Stats()
	if err != nil {
		return nil, err
	}
	unlocked := []Achievement{}
	for _, a := range stats.Achievements {
		if a.Unlocked && a.UnlockedAt != nil {
			unlocked = append(unlocked, a)
		}
	}
	sort.SliceStable(unlocked, func(i, j int) bool {
		return unlocked[i].UnlockedAt.After(*unlocked[j].UnlockedAt)
	})
	if len(unlocked) > 5 {
		unlocked = unlocked[:5]
	}
	return unlocked, nil
}

// NextAchievements returns the 3 cheapest still-locked achievements.
func (s *GamificationService) NextAchievements() ([]Achievement, error) {
	stats, err := s.Stats()
	if err != nil {
		return nil, err
	}
	locked := []Achievement{}
	for _, a := range stats.Achievements {
		if !a.Unlocked {
			locked = append(locked, a)
		}
	}
	sort.SliceStable(locked, func(i, j int) bool { return locked[i].Points < locked[j].Points })
	if len(locked) > 3 {
		locked = locked[:3]
	}
	return locked, nil
}

func (s *GamificationService) Leaderboard() ([]LeaderboardEntry, error) {
	entries, err := records.Read[LeaderboardEntry](s.store, leaderboardKey)
	if err != nil {
		return nil, storageErr("read leaderboard", err)
	}
	return entries, nil
}

// UpdateLeaderboard upserts by user id, re-sorts by points descending, and
// keeps the top 100.
func (s *GamificationService) UpdateLeaderboard(userID, username string, points, daysFree int) error {
	if strings.TrimSpace(userID) == "" {
		return NewInvalidError("user id required")
	}
	entry := LeaderboardEntry{
		UserID:    userID,
		Username:  username,
		Points:    points,
		DaysFree:  daysFree,
		UpdatedAt: s.now(),
	}
	_, err := records.Update(s.store, leaderboardKey, func(entries []LeaderboardEntry) ([]LeaderboardEntry, error) {
		replaced := false
		for i := range entries {
			if entries[i].UserID == userID {
				entries[i] = entry
				replaced = true
				break
			}
		}
		if !replaced {
			entries = append(entries, entry)
		}
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Points > entries[j].Points })
		if len(entries) > leaderboardSize {
			entries = entries[:leaderboardSize]
		}
		return entries, nil
	})
	if err != nil {
		return storageErr("update leaderboard", err)
	}
	return nil
}
