package services

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/quitbet/quitbet/internal/records"
)

const (
	usageEntriesKey  = "app_usage_entries"
	avoidanceListKey = "app_avoidance_list"
	dailyUsagePrefix = "daily_app_usage_"
)

// UsageService tracks per-app usage minutes and the avoidance list, and
// derives rollup statistics over a trailing window.
type UsageService struct {
	store *records.Store
	log   *zap.Logger
	now   func() time.Time
	newID func() string
}

func NewUsageService(store *records.Store, log *zap.Logger) *UsageService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UsageService{
		store: store,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
		newID: newID,
	}
}

func dailyUsageKey(t time.Time) string {
	return dailyUsagePrefix + dayKey(t)
}

// AddEntry records one manual usage entry and folds it into today's rollup.
func (s *UsageService) AddEntry(appID, appName string, duration int, notes string, mood Mood) (*UsageEntry, error) {
	if strings.TrimSpace(appID) == "" || strings.TrimSpace(appName) == "" {
		return nil, NewInvalidError("app id and name required")
	}
	if duration <= 0 {
		return nil, NewInvalidError("duration must be positive")
	}
	entry := UsageEntry{
		ID:       s.newID(),
		AppID:    appID,
		AppName:  appName,
		Date:     s.now(),
		Duration: duration,
		Notes:    notes,
		Mood:     mood,
	}
	_, err := records.Update(s.store, usageEntriesKey, func(entries []UsageEntry) ([]UsageEntry, error) {
		return append(entries, entry), nil
	})
	if err != nil {
		return nil, storageErr("add usage entry", err)
	}
	if err := s.foldDailyUsage(entry); err != nil {
		return nil, err
	}
	s.log.Debug("usage entry added", zap.String("app_id", appID), zap.Int("duration", duration))
	return &entry, nil
}

func (s *UsageService) foldDailyUsage(entry UsageEntry) error {
	key := dailyUsageKey(entry.Date)
	_, err := records.UpdateOne(s.store, key, func(daily *DailyUsage) (*DailyUsage, error) {
		if daily == nil {
			daily = &DailyUsage{Date: entry.Date, Apps: []AppDuration{}}
		}
		daily.TotalTime += entry.Duration
		found := false
		for i := range daily.Apps {
			if daily.Apps[i].AppID == entry.AppID {
				daily.Apps[i].Duration += entry.Duration
				found = true
				break
			}
		}
		if !found {
			daily.Apps = append(daily.Apps, AppDuration{AppID: entry.AppID, AppName: entry.AppName, Duration: entry.Duration})
		}
		most := daily.Apps[0]
		for _, app := range daily.Apps[1:] {
			if app.Duration > most.Duration {
				most = app
			}
		}
		daily.MostUsedApp = &most
		return daily, nil
	})
	if err != nil {
		return storageErr("update daily usage", err)
	}
	return nil
}

func (s *UsageService) Entries() ([]UsageEntry, error) {
	entries, err := records.Read[UsageEntry](s.store, usageEntriesKey)
	if err != nil {
		return nil, storageErr("read usage entries", err)
	}
	return entries, nil
}

func (s *UsageService) EntriesBetween(start, end time.Time) ([]UsageEntry, error) {
	entries, err := s.Entries()
	if err != nil {
		return nil, err
	}
	out := []UsageEntry{}
	for _, e := range entries {
		if !e.Date.Before(start) && !e.Date.After(end) {
			out = append(out, e)
		}
	}
	return out, nil
}

// MostUsed aggregates per-app durations over [start, end], sorted descending.
// Ties keep first-encountered order.
func (s *UsageService) MostUsed(start, end time.Time, limit int) ([]AppDuration, error) {
	entries, err := s.EntriesBetween(start, end)
	if err != nil {
		return nil, err
	}
	totals := []AppDuration{}
	index := map[string]int{}
	for _, e := range entries {
		if i, ok := index[e.AppID]; ok {
			totals[i].Duration += e.Duration
			continue
		}
		index[e.AppID] = len(totals)
		totals = append(totals, AppDuration{AppID: e.AppID, AppName: e.AppName, Duration: e.Duration})
	}
	// insertion sort keeps equal-duration apps in first-encountered order
	for i := 1; i < len(totals); i++ {
		for j := i; j > 0 && totals[j].Duration > totals[j-1].Duration; j-- {
			totals[j], totals[j-1] = totals[j-1], totals[j]
		}
	}
	if limit > 0 && len(totals) > limit {
		totals = totals[:limit]
	}
	return totals, nil
}

// Insights summarizes the trailing windowDays of usage. An empty window
// yields all-zero fields and a nil most-used app.
func (s *UsageService) Insights(windowDays int) (*UsageInsights, error) {
	if windowDays <= 0 {
		return nil, NewInvalidError("window must be positive")
	}
	end := s.now()
	start := end.AddDate(0, 0, -windowDays)
	entries, err := s.EntriesBetween(start, end)
	if err != nil {
		return nil, err
	}

	insights := &UsageInsights{}
	positiveDays := map[string]struct{}{}
	negativeDays := map[string]struct{}{}
	apps := map[string]struct{}{}
	for _, e := range entries {
		insights.TotalTime += e.Duration
		apps[e.AppID] = struct{}{}
		switch e.Mood {
		case MoodPositive:
			positiveDays[dayKey(e.Date)] = struct{}{}
		case MoodNegative:
			negativeDays[dayKey(e.Date)] = struct{}{}
		}
	}
	insights.AverageTimePerDay = float64(insights.TotalTime) / float64(windowDays)
	insights.AppsUsed = len(apps)
	insights.PositiveMoodDays = len(positiveDays)
	insights.NegativeMoodDays = len(negativeDays)

	most, err := s.MostUsed(start, end, 1)
	if err != nil {
		return nil, err
	}
	if len(most) > 0 {
		insights.MostUsedApp = &most[0]
	}
	return insights, nil
}

func (s *UsageService) AddAvoidance(appID, appName, reason, reminderMessage string) (*AvoidanceItem, error) {
	if strings.TrimSpace(appID) == "" || strings.TrimSpace(appName) == "" {
		return nil, NewInvalidError("app id and name required")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, NewInvalidError("reason required")
	}
	item := AvoidanceItem{
		ID:              s.newID(),
		AppID:           appID,
		AppName:         appName,
		Reason:          reason,
		AddedDate:       s.now(),
		IsActive:        true,
		ReminderMessage: reminderMessage,
	}
	_, err := records.Update(s.store, avoidanceListKey, func(items []AvoidanceItem) ([]AvoidanceItem, error) {
		return append(items, item), nil
	})
	if err != nil {
		return nil, storageErr("add avoidance item", err)
	}
	return &item, nil
}

// RemoveAvoidance drops every item for appID, not just one.
func (s *UsageService) RemoveAvoidance(appID string) error {
	_, err := records.Update(s.store, avoidanceListKey, func(items []AvoidanceItem) ([]AvoidanceItem, error) {
		kept := items[:0]
		for _, item := range items {
			if item.AppID != appID {
				kept = append(kept, item)
			}
		}
		return kept, nil
	})
	if err != nil {
		return storageErr("remove avoidance item", err)
	}
	return nil
}

func (s *UsageService) AvoidanceList() ([]AvoidanceItem, error) {
	items, err := records.Read[AvoidanceItem](s.store, avoidanceListKey)
	if err != nil {
		return nil, storageErr("read avoidance list", err)
	}
	return items, nil
}

func (s *UsageService) IsAvoided(appID string) (bool, error) {
	items, err := s.AvoidanceList()
	if err != nil {
		return false, err
	}
	for _, item := range items {
		if item.AppID == appID && item.IsActive {
			return true, nil
		}
	}
	return false, nil
}

func (s *UsageService) ActiveReminders() ([]AvoidanceItem, error) {
	items, err := s.AvoidanceList()
	if err != nil {
		return nil, err
	}
	active := []AvoidanceItem{}
	for _, item := range items {
		if item.IsActive {
			active = append(active, item)
		}
	}
	return active, nil
}

func (s *UsageService) DailyUsage(date time.Time) (*DailyUsage, error) {
	daily, err := records.ReadOne[DailyUsage](s.store, dailyUsageKey(date))
	if err != nil {
		return nil, storageErr("read daily usage", err)
	}
	return daily, nil
}

// WeeklyUsage returns the rollups for the 7 days starting at start; days
// without a rollup are skipped.
func (s *UsageService) WeeklyUsage(start time.Time) ([]DailyUsage, error) {
	out := []DailyUsage{}
	for i := 0; i < 7; i++ {
		daily, err := s.DailyUsage(start.AddDate(0, 0, i))
		if err != nil {
			return nil, err
		}
		if daily != nil {
			out = append(out, *daily)
		}
	}
	return out, nil
}

// InstalledApps returns the fixed demo catalog; a mobile sandbox cannot
// enumerate real installs.
func (s *UsageService) InstalledApps() []InstalledApp {
	return []InstalledApp{
		{ID: "com.quitbet.app", Name: "QuitBet", PackageName: "com.quitbet.app"},
		{ID: "com.whatsapp", Name: "WhatsApp", PackageName: "com.whatsapp"},
		{ID: "com.facebook.katana", Name: "Facebook", PackageName: "com.facebook.katana"},
		{ID: "com.instagram.android", Name: "Instagram", PackageName: "com.instagram.android"},
		{ID: "com.google.android.youtube", Name: "YouTube", PackageName: "com.google.android.youtube"},
		{ID: "com.spotify.music", Name: "Spotify", PackageName: "com.spotify.music"},
		{ID: "com.netflix.mediaclient", Name: "Netflix", PackageName: "com.netflix.mediaclient"},
		{ID: "com.discord", Name: "Discord", PackageName: "com.discord"},
		{ID: "com.reddit.frontpage", Name: "Reddit", PackageName: "com.reddit.frontpage"},
	}
}

// ClearAll wipes usage entries, the avoidance list, and all daily rollups.
func (s *UsageService) ClearAll() error {
	dailyKeys, err := s.store.Keys(dailyUsagePrefix)
	if err != nil {
		return storageErr("list daily usage keys", err)
	}
	keys := append([]string{usageEntriesKey, avoidanceListKey}, dailyKeys...)
	if err := s.store.Delete(keys...); err != nil {
		return storageErr("clear usage data", err)
	}
	return nil
}
