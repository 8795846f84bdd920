package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestUsageService() *UsageService {
	s := NewUsageService(newTestStore(), zap.NewNop())
	s.now = fixedTime
	s.newID = seqIDs()
	return s
}

func TestAddEntryGrowsCollectionAndDailyRollup(t *testing.T) {
	s := newTestUsageService()

	_, err := s.AddEntry("com.whatsapp", "WhatsApp", 30, "", MoodNeutral)
	require.NoError(t, err)
	_, err = s.AddEntry("com.instagram.android", "Instagram", 45, "scrolling", MoodNegative)
	require.NoError(t, err)
	_, err = s.AddEntry("com.whatsapp", "WhatsApp", 15, "", "")
	require.NoError(t, err)

	entries, err := s.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 3)

	daily, err := s.DailyUsage(fixedTime())
	require.NoError(t, err)
	require.NotNil(t, daily)
	require.Equal(t, 90, daily.TotalTime)
	require.Len(t, daily.Apps, 2)
	require.NotNil(t, daily.MostUsedApp)
	require.Equal(t, "com.instagram.android", daily.MostUsedApp.AppID)
	require.Equal(t, 45, daily.MostUsedApp.Duration)
}

func TestAddEntryValidation(t *testing.T) {
	s := newTestUsageService()

	_, err := s.AddEntry("", "WhatsApp", 30, "", "")
	se, ok := AsServiceError(err)
	require.True(t, ok)
	require.Equal(t, ErrorInvalid, se.Code)

	_, err = s.AddEntry("com.whatsapp", "WhatsApp", 0, "", "")
	se, ok = AsServiceError(err)
	require.True(t, ok)
	require.Equal(t, ErrorInvalid, se.Code)
}

func TestInsightsEmptyStore(t *testing.T) {
	s := newTestUsageService()

	insights, err := s.Insights(7)
	require.NoError(t, err)
	require.Equal(t, 0, insights.TotalTime)
	require.Equal(t, float64(0), insights.AverageTimePerDay)
	require.Nil(t, insights.MostUsedApp)
	require.Equal(t, 0, insights.AppsUsed)
	require.Equal(t, 0, insights.PositiveMoodDays)
	require.Equal(t, 0, insights.NegativeMoodDays)
}

func TestInsightsWindow(t *testing.T) {
	s := newTestUsageService()

	_, err := s.AddEntry("com.whatsapp", "WhatsApp", 30, "", MoodPositive)
	require.NoError(t, err)
	_, err = s.AddEntry("com.whatsapp", "WhatsApp", 40, "", MoodNegative)
	require.NoError(t, err)
	_, err = s.AddEntry("com.discord", "Discord", 20, "", MoodPositive)
	require.NoError(t, err)

	// an old entry outside the 7-day window
	s.now = func() time.Time { return fixedTime().AddDate(0, 0, -10) }
	_, err = s.AddEntry("com.reddit.frontpage", "Reddit", 500, "", "")
	require.NoError(t, err)
	s.now = fixedTime

	insights, err := s.Insights(7)
	require.NoError(t, err)
	require.Equal(t, 90, insights.TotalTime)
	require.InDelta(t, 90.0/7.0, insights.AverageTimePerDay, 1e-9)
	require.NotNil(t, insights.MostUsedApp)
	require.Equal(t, "com.whatsapp", insights.MostUsedApp.AppID)
	require.Equal(t, 70, insights.MostUsedApp.Duration)
	require.Equal(t, 2, insights.AppsUsed)
	// both moods were logged on the same calendar day
	require.Equal(t, 1, insights.PositiveMoodDays)
	require.Equal(t, 1, insights.NegativeMoodDays)
}

func TestMostUsedTieKeepsFirstEncountered(t *testing.T) {
	s := newTestUsageService()

	_, err := s.AddEntry("app_a", "A", 30, "", "")
	require.NoError(t, err)
	_, err = s.AddEntry("app_b", "B", 30, "", "")
	require.NoError(t, err)

	most, err := s.MostUsed(fixedTime().AddDate(0, 0, -1), fixedTime(), 1)
	require.NoError(t, err)
	require.Len(t, most, 1)
	require.Equal(t, "app_a", most[0].AppID)
}

func TestAvoidanceAddRemove(t *testing.T) {
	s := newTestUsageService()

	_, err := s.AddAvoidance("com.bet365", "Bet365", "gambling trigger", "Remember why you quit")
	require.NoError(t, err)
	_, err = s.AddAvoidance("com.bet365", "Bet365", "added twice", "")
	require.NoError(t, err)
	_, err = s.AddAvoidance("com.dream11", "Dream11", "fantasy betting", "")
	require.NoError(t, err)

	avoided, err := s.IsAvoided("com.bet365")
	require.NoError(t, err)
	require.True(t, avoided)

	// removal drops every item with that app id
	require.NoError(t, s.RemoveAvoidance("com.bet365"))
	list, err := s.AvoidanceList()
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "com.dream11", list[0].AppID)

	avoided, err = s.IsAvoided("com.bet365")
	require.NoError(t, err)
	require.False(t, avoided)
}

func TestWeeklyUsageSkipsEmptyDays(t *testing.T) {
	s := newTestUsageService()

	_, err := s.AddEntry("com.whatsapp", "WhatsApp", 10, "", "")
	require.NoError(t, err)
	s.now = func() time.Time { return fixedTime().AddDate(0, 0, 2) }
	_, err = s.AddEntry("com.whatsapp", "WhatsApp", 20, "", "")
	require.NoError(t, err)

	week, err := s.WeeklyUsage(fixedTime())
	require.NoError(t, err)
	require.Len(t, week, 2)
	require.Equal(t, 10, week[0].TotalTime)
	require.Equal(t, 20, week[1].TotalTime)
}

func TestClearAll(t *testing.T) {
	s := newTestUsageService()

	_, err := s.AddEntry("com.whatsapp", "WhatsApp", 10, "", "")
	require.NoError(t, err)
	_, err = s.AddAvoidance("com.bet365", "Bet365", "trigger", "")
	require.NoError(t, err)

	require.NoError(t, s.ClearAll())

	entries, err := s.Entries()
	require.NoError(t, err)
	require.Empty(t, entries)
	list, err := s.AvoidanceList()
	require.NoError(t, err)
	require.Empty(t, list)
	daily, err := s.DailyUsage(fixedTime())
	require.NoError(t, err)
	require.Nil(t, daily)
}
