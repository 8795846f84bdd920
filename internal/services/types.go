package services

import "time"

// Mood recorded alongside a usage entry.
type Mood string

const (
	MoodPositive Mood = "positive"
	MoodNeutral  Mood = "neutral"
	MoodNegative Mood = "negative"
)

type UsageEntry struct {
	ID       string    `json:"id"`
	AppID    string    `json:"app_id"`
	AppName  string    `json:"app_name"`
	Date     time.Time `json:"date"`
	Duration int       `json:"duration"` // minutes
	Notes    string    `json:"notes,omitempty"`
	Mood     Mood      `json:"mood,omitempty"`
}

type AvoidanceItem struct {
	ID              string    `json:"id"`
	AppID           string    `json:"app_id"`
	AppName         string    `json:"app_name"`
	Reason          string    `json:"reason"`
	AddedDate       time.Time `json:"added_date"`
	IsActive        bool      `json:"is_active"`
	ReminderMessage string    `json:"reminder_message,omitempty"`
}

type AppDuration struct {
	AppID    string `json:"app_id"`
	AppName  string `json:"app_name"`
	Duration int    `json:"duration"`
}

type DailyUsage struct {
	Date        time.Time     `json:"date"`
	TotalTime   int           `json:"total_time"`
	Apps        []AppDuration `json:"apps"`
	MostUsedApp *AppDuration  `json:"most_used_app,omitempty"`
}

type UsageInsights struct {
	TotalTime         int          `json:"total_time"`
	AverageTimePerDay float64      `json:"average_time_per_day"`
	MostUsedApp       *AppDuration `json:"most_used_app,omitempty"`
	AppsUsed          int          `json:"apps_used"`
	PositiveMoodDays  int          `json:"positive_mood_days"`
	NegativeMoodDays  int          `json:"negative_mood_days"`
}

type InstalledApp struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PackageName string `json:"package_name"`
	IsSystemApp bool   `json:"is_system_app"`
}

type AchievementCategory string

const (
	CategoryDaily     AchievementCategory = "daily"
	CategoryMilestone AchievementCategory = "milestone"
	CategoryStreak    AchievementCategory = "streak"
	CategorySocial    AchievementCategory = "social"
	CategorySpecial   AchievementCategory = "special"
)

type Achievement struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Icon        string              `json:"icon"`
	Points      int                 `json:"points"`
	Unlocked    bool                `json:"unlocked"`
	UnlockedAt  *time.Time          `json:"unlocked_at,omitempty"`
	Category    AchievementCategory `json:"category"`
}

type UserStats struct {
	TotalPoints   int           `json:"total_points"`
	CurrentStreak int           `json:"current_streak"`
	LongestStreak int           `json:"longest_streak"`
	TotalDaysFree int           `json:"total_days_free"`
	MoneySaved    float64       `json:"money_saved"`
	Achievements  []Achievement `json:"achievements"`
	Level         int           `json:"level"`
	Experience    int           `json:"experience"`
}

type LeaderboardEntry struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Points    int       `json:"points"`
	DaysFree  int       `json:"days_free"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PostCategory string

const (
	PostMotivation PostCategory = "motivation"
	PostStruggle   PostCategory = "struggle"
	PostSuccess    PostCategory = "success"
	PostQuestion   PostCategory = "question"
	PostSupport    PostCategory = "support"
)

type PostMood string

const (
	PostMoodPositive    PostMood = "positive"
	PostMoodNeutral     PostMood = "neutral"
	PostMoodChallenging PostMood = "challenging"
)

type Comment struct {
	ID          string    `json:"id"`
	PostID      string    `json:"post_id"`
	AuthorID    string    `json:"author_id"`
	AuthorName  string    `json:"author_name"`
	Content     string    `json:"content"`
	IsAnonymous bool      `json:"is_anonymous"`
	CreatedAt   time.Time `json:"created_at"`
	Likes       int       `json:"likes"`
}

type CommunityPost struct {
	ID          string       `json:"id"`
	AuthorID    string       `json:"author_id"`
	AuthorName  string       `json:"author_name"`
	Content     string       `json:"content"`
	Category    PostCategory `json:"category"`
	Likes       int          `json:"likes"`
	Comments    []Comment    `json:"comments"`
	IsAnonymous bool         `json:"is_anonymous"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Tags        []string     `json:"tags"`
	Mood        PostMood     `json:"mood"`
}

type UserProfile struct {
	ID           string    `json:"id"`
	DisplayName  string    `json:"display_name"`
	Avatar       string    `json:"avatar"`
	JoinDate     time.Time `json:"join_date"`
	PostsCount   int       `json:"posts_count"`
	HelpfulCount int       `json:"helpful_count"`
	IsAnonymous  bool      `json:"is_anonymous"`
}

type CategoryCount struct {
	Category PostCategory `json:"category"`
	Count    int          `json:"count"`
}

type CommunityStats struct {
	TotalPosts    int             `json:"total_posts"`
	TotalComments int             `json:"total_comments"`
	TotalLikes    int             `json:"total_likes"`
	ActiveUsers   int             `json:"active_users"`
	TopCategories []CategoryCount `json:"top_categories"`
}

type SessionStatus string

const (
	SessionPending   SessionStatus = "pending"
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	// SessionCancelled is part of the status space but no operation currently
	// transitions into it.
	SessionCancelled SessionStatus = "cancelled"
)

type SessionType string

const (
	SessionCrisis   SessionType = "crisis"
	SessionRegular  SessionType = "regular"
	SessionFollowup SessionType = "followup"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

type SupportSession struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	SupporterID string        `json:"supporter_id"`
	Status      SessionStatus `json:"status"`
	StartTime   time.Time     `json:"start_time"`
	EndTime     *time.Time    `json:"end_time,omitempty"`
	Duration    int           `json:"duration,omitempty"` // minutes
	Rating      int           `json:"rating,omitempty"`
	Feedback    string        `json:"feedback,omitempty"`
	SessionType SessionType   `json:"session_type"`
	Priority    Priority      `json:"priority"`
}

type TimeSlot struct {
	ID          string    `json:"id"`
	SupporterID string    `json:"supporter_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	IsBooked    bool      `json:"is_booked"`
	SessionID   string    `json:"session_id,omitempty"`
}

type Supporter struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Avatar         string     `json:"avatar"`
	IsOnline       bool       `json:"is_online"`
	Specialties    []string   `json:"specialties"`
	Rating         float64    `json:"rating"`
	TotalSessions  int        `json:"total_sessions"`
	AvailableSlots []TimeSlot `json:"available_slots"`
	Bio            string     `json:"bio"`
	Languages      []string   `json:"languages"`
}

type MessageType string

const (
	MessageText  MessageType = "text"
	MessageImage MessageType = "image"
	MessageFile  MessageType = "file"
)

type ChatMessage struct {
	ID          string      `json:"id"`
	RoomID      string      `json:"room_id"`
	SenderID    string      `json:"sender_id"`
	SenderName  string      `json:"sender_name"`
	Content     string      `json:"content"`
	Timestamp   time.Time   `json:"timestamp"`
	MessageType MessageType `json:"message_type"`
}

type VideoRoom struct {
	ID           string        `json:"id"`
	SessionID    string        `json:"session_id"`
	Participants []string      `json:"participants"`
	StartTime    time.Time     `json:"start_time"`
	EndTime      *time.Time    `json:"end_time,omitempty"`
	RecordingURL string        `json:"recording_url,omitempty"`
	ChatMessages []ChatMessage `json:"chat_messages"`
}

type SessionStats struct {
	TotalSessions     int     `json:"total_sessions"`
	CompletedSessions int     `json:"completed_sessions"`
	AverageRating     float64 `json:"average_rating"`
	TotalDuration     int     `json:"total_duration"`
}
