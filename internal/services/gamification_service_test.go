package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGamificationService() *GamificationService {
	s := NewGamificationService(newTestStore(), zap.NewNop())
	s.now = fixedTime
	return s
}

func TestStatsDefaultState(t *testing.T) {
	s := newTestGamificationService()

	stats, err := s.Stats()
	require.NoError(t, err)
	require.Equal(t, 0, stats.TotalPoints)
	require.Equal(t, 1, stats.Level)
	require.Len(t, stats.Achievements, 10)
	for _, a := range stats.Achievements {
		require.False(t, a.Unlocked)
	}
}

func TestAddPointsLevelsUp(t *testing.T) {
	s := newTestGamificationService()

	_, err := s.AddPoints(50, "daily check-in")
	require.NoError(t, err)
	stats, err := s.AddPoints(60, "journal entry")
	require.NoError(t, err)

	require.Equal(t, 110, stats.TotalPoints)
	require.Equal(t, 110, stats.Experience)
	require.Equal(t, 2, stats.Level)
}

func TestUnlockAchievementAwardsOnce(t *testing.T) {
	s := newTestGamificationService()

	stats, err := s.UnlockAchievement("first_day")
	require.NoError(t, err)
	require.Equal(t, 10, stats.TotalPoints)

	var unlocked *Achievement
	for i := range stats.Achievements {
		if stats.Achievements[i].ID == "first_day" {
			unlocked = &stats.Achievements[i]
		}
	}
	require.NotNil(t, unlocked)
	require.True(t, unlocked.Unlocked)
	require.NotNil(t, unlocked.UnlockedAt)

	// re-unlocking keeps unlocked=true and does not double-award
	stats, err = s.UnlockAchievement("first_day")
	require.NoError(t, err)
	require.Equal(t, 10, stats.TotalPoints)
}

func TestUnlockUnknownAchievement(t *testing.T) {
	s := newTestGamificationService()

	_, err := s.UnlockAchievement("no_such_badge")
	se, ok := AsServiceError(err)
	require.True(t, ok)
	require.Equal(t, ErrorNotFound, se.Code)
}

func TestUpdateStreakAwardsBonusOnRecord(t *testing.T) {
	s := newTestGamificationService()

	stats, err := s.UpdateStreak(3)
	require.NoError(t, err)
	require.Equal(t, 3, stats.CurrentStreak)
	require.Equal(t, 3, stats.LongestStreak)
	require.Equal(t, 3, stats.TotalDaysFree)
	require.Equal(t, 25, stats.TotalPoints)

	// falling back below the record pays no bonus and keeps the high-water marks
	stats, err = s.UpdateStreak(1)
	require.NoError(t, err)
	require.Equal(t, 1, stats.CurrentStreak)
	require.Equal(t, 3, stats.LongestStreak)
	require.Equal(t, 3, stats.TotalDaysFree)
	require.Equal(t, 25, stats.TotalPoints)
}

func TestCheckDailyAchievements(t *testing.T) {
	s := newTestGamificationService()

	_, err := s.UpdateStreak(30)
	require.NoError(t, err)
	stats, err := s.CheckDailyAchievements()
	require.NoError(t, err)

	unlocked := map[string]bool{}
	for _, a := range stats.Achievements {
		if a.Unlocked {
			unlocked[a.ID] = true
		}
	}
	require.True(t, unlocked["first_day"])
	require.True(t, unlocked["week_strong"])
	require.True(t, unlocked["month_master"])
	require.False(t, unlocked["quarter_champion"])
	require.False(t, unlocked["year_legend"])

	// streak bonus 25 + 10 + 50 + 200
	require.Equal(t, 285, stats.TotalPoints)

	// a second pass unlocks nothing new
	again, err := s.CheckDailyAchievements()
	require.NoError(t, err)
	require.Equal(t, 285, again.TotalPoints)
}

func TestUpdateMoneySavedUnlocksSavingsHero(t *testing.T) {
	s := newTestGamificationService()

	stats, err := s.UpdateMoneySaved(9999)
	require.NoError(t, err)
	require.Equal(t, 0, stats.TotalPoints)

	stats, err = s.UpdateMoneySaved(10000)
	require.NoError(t, err)
	require.Equal(t, float64(10000), stats.MoneySaved)
	require.Equal(t, 100, stats.TotalPoints)
}

func TestRecentAndNextAchievements(t *testing.T) {
	s := newTestGamificationService()

	_, err := s.UnlockAchievement("focus_master")
	require.NoError(t, err)
	_, err = s.UnlockAchievement("first_day")
	require.NoError(t, err)

	recent, err := s.RecentAchievements()
	require.NoError(t, err)
	require.Len(t, recent, 2)

	next, err := s.NextAchievements()
	require.NoError(t, err)
	require.Len(t, next, 3)
	// cheapest locked achievements first
	require.Equal(t, "journal_keeper", next[0].ID)
	require.Equal(t, "motivation_guru", next[1].ID)
	require.Equal(t, "week_strong", next[2].ID)
}

func TestLeaderboardUpsertSortTruncate(t *testing.T) {
	s := newTestGamificationService()

	for i := 0; i < 105; i++ {
		require.NoError(t, s.UpdateLeaderboard(fmt.Sprintf("u%d", i), fmt.Sprintf("user %d", i), i, i))
	}
	board, err := s.Leaderboard()
	require.NoError(t, err)
	require.Len(t, board, 100)
	require.Equal(t, "u104", board[0].UserID)

	// upsert moves an existing user instead of duplicating
	require.NoError(t, s.UpdateLeaderboard("u104", "user 104", 1, 1))
	board, err = s.Leaderboard()
	require.NoError(t, err)
	require.Len(t, board, 100)
	require.NotEqual(t, "u104", board[0].UserID)
	seen := 0
	for _, e := range board {
		if e.UserID == "u104" {
			seen++
		}
	}
	require.Equal(t, 1, seen)
}
