package services

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/quitbet/quitbet/internal/records"
)

const (
	sessionsKey     = "support_sessions"
	supportersKey   = "supporters"
	timeSlotsPrefix = "time_slots_"
	videoRoomsKey   = "video_rooms"
)

// defaultSupporters is the seed catalog returned when nothing is stored.
func defaultSupporters() []Supporter {
	return []Supporter{
		{
			ID: "supporter_1", Name: "Dr. Priya Sharma", Avatar: "👩‍⚕️", IsOnline: true,
			Specialties: []string{"crisis", "addiction", "counseling"}, Rating: 4.8, TotalSessions: 1250,
			AvailableSlots: []TimeSlot{},
			Bio:            "Licensed clinical psychologist with 10+ years experience in addiction recovery",
			Languages:      []string{"English", "Hindi", "Marathi"},
		},
		{
			ID: "supporter_2", Name: "Rahul Verma", Avatar: "👨‍💼", IsOnline: true,
			Specialties: []string{"peer support", "motivation", "life coaching"}, Rating: 4.9, TotalSessions: 890,
			AvailableSlots: []TimeSlot{},
			Bio:            "Recovery coach and former addiction counselor, 5 years sober",
			Languages:      []string{"English", "Hindi"},
		},
		{
			ID: "supporter_3", Name: "Anjali Patel", Avatar: "👩‍🎓", IsOnline: false,
			Specialties: []string{"family support", "therapy", "meditation"}, Rating: 4.7, TotalSessions: 650,
			AvailableSlots: []TimeSlot{},
			Bio:            "Family therapist specializing in addiction recovery and mindfulness",
			Languages:      []string{"English", "Gujarati", "Hindi"},
		},
	}
}

// SessionService books mock support sessions and manages their video rooms
// and chat. Everything is local-only simulation; there is no real transport.
type SessionService struct {
	store *records.Store
	log   *zap.Logger
	now   func() time.Time
	newID func() string
}

func NewSessionService(store *records.Store, log *zap.Logger) *SessionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionService{
		store: store,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
		newID: newID,
	}
}

func timeSlotsKey(supporterID string) string { return timeSlotsPrefix + supporterID }

func (s *SessionService) supporters() ([]Supporter, error) {
	stored, err := records.Read[Supporter](s.store, supportersKey)
	if err != nil {
		return nil, storageErr("read supporters", err)
	}
	if len(stored) == 0 {
		return defaultSupporters(), nil
	}
	return stored, nil
}

// AvailableSupporters returns the online part of the catalog.
func (s *SessionService) AvailableSupporters() ([]Supporter, error) {
	all, err := s.supporters()
	if err != nil {
		return nil, err
	}
	online := []Supporter{}
	for _, sup := range all {
		if sup.IsOnline {
			online = append(online, sup)
		}
	}
	return online, nil
}

func (s *SessionService) onlineSupporterByID(id string) (*Supporter, error) {
	online, err := s.AvailableSupporters()
	if err != nil {
		return nil, err
	}
	for _, sup := range online {
		if sup.ID == id {
			return &sup, nil
		}
	}
	return nil, nil
}

// BookSession creates a pending session with the given supporter and marks
// the exactly-matching time slot as booked. A missing slot match is not an
// error; the session is still created.
func (s *SessionService) BookSession(userID, supporterID string, startTime time.Time, sessionType SessionType, priority Priority) (*SupportSession, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, NewInvalidError("user id required")
	}
	if sessionType == "" {
		sessionType = SessionRegular
	}
	if priority == "" {
		priority = PriorityMedium
	}
	supporter, err := s.onlineSupporterByID(supporterID)
	if err != nil {
		return nil, err
	}
	if supporter == nil {
		return nil, NewNotFoundError("supporter not found")
	}
	session := SupportSession{
		ID:          s.newID(),
		UserID:      userID,
		SupporterID: supporterID,
		Status:      SessionPending,
		StartTime:   startTime,
		SessionType: sessionType,
		Priority:    priority,
	}
	_, err = records.Update(s.store, sessionsKey, func(sessions []SupportSession) ([]SupportSession, error) {
		return append(sessions, session), nil
	})
	if err != nil {
		return nil, storageErr("book session", err)
	}
	if err := s.bookSlot(supporterID, startTime, session.ID); err != nil {
		return nil, err
	}
	s.log.Info("session booked",
		zap.String("session_id", session.ID),
		zap.String("supporter_id", supporterID),
		zap.String("type", string(sessionType)))
	return &session, nil
}

// bookSlot flips isBooked on the slot whose start time equals startTime
// exactly. Slots at a different clock precision silently stay open.
func (s *SessionService) bookSlot(supporterID string, startTime time.Time, sessionID string) error {
	_, err := records.Update(s.store, timeSlotsKey(supporterID), func(slots []TimeSlot) ([]TimeSlot, error) {
		for i := range slots {
			if slots[i].StartTime.Equal(startTime) {
				slots[i].IsBooked = true
				slots[i].SessionID = sessionID
				break
			}
		}
		return slots, nil
	})
	if err != nil {
		return storageErr("update time slots", err)
	}
	return nil
}

func (s *SessionService) allSessions() ([]SupportSession, error) {
	sessions, err := records.Read[SupportSession](s.store, sessionsKey)
	if err != nil {
		return nil, storageErr("read sessions", err)
	}
	return sessions, nil
}

func (s *SessionService) UserSessions(userID string) ([]SupportSession, error) {
	sessions, err := s.allSessions()
	if err != nil {
		return nil, err
	}
	out := []SupportSession{}
	for _, sess := range sessions {
		if sess.UserID == userID {
			out = append(out, sess)
		}
	}
	return out, nil
}

func (s *SessionService) SupporterSessions(supporterID string) ([]SupportSession, error) {
	sessions, err := s.allSessions()
	if err != nil {
		return nil, err
	}
	out := []SupportSession{}
	for _, sess := range sessions {
		if sess.SupporterID == supporterID {
			out = append(out, sess)
		}
	}
	return out, nil
}

// StartVideoCall moves the session to active and opens its room.
func (s *SessionService) StartVideoCall(sessionID string) (*VideoRoom, error) {
	var started SupportSession
	_, err := records.Update(s.store, sessionsKey, func(sessions []SupportSession) ([]SupportSession, error) {
		for i := range sessions {
			if sessions[i].ID == sessionID {
				sessions[i].Status = SessionActive
				started = sessions[i]
				return sessions, nil
			}
		}
		return nil, NewNotFoundError("session not found")
	})
	if err != nil {
		return nil, storageErr("start video call", err)
	}
	room := VideoRoom{
		ID:           "room_" + sessionID,
		SessionID:    sessionID,
		Participants: []string{started.UserID, started.SupporterID},
		StartTime:    s.now(),
		ChatMessages: []ChatMessage{},
	}
	_, err = records.Update(s.store, videoRoomsKey, func(rooms []VideoRoom) ([]VideoRoom, error) {
		return append(rooms, room), nil
	})
	if err != nil {
		return nil, storageErr("create video room", err)
	}
	return &room, nil
}

// EndVideoCall completes the session, stamping its end time and duration, and
// closes the companion room.
func (s *SessionService) EndVideoCall(sessionID string, duration int) error {
	ended := s.now()
	_, err := records.Update(s.store, sessionsKey, func(sessions []SupportSession) ([]SupportSession, error) {
		for i := range sessions {
			if sessions[i].ID == sessionID {
				sessions[i].Status = SessionCompleted
				sessions[i].EndTime = &ended
				sessions[i].Duration = duration
				return sessions, nil
			}
		}
		return nil, NewNotFoundError("session not found")
	})
	if err != nil {
		return storageErr("end video call", err)
	}
	_, err = records.Update(s.store, videoRoomsKey, func(rooms []VideoRoom) ([]VideoRoom, error) {
		for i := range rooms {
			if rooms[i].SessionID == sessionID {
				rooms[i].EndTime = &ended
				break
			}
		}
		return rooms, nil
	})
	if err != nil {
		return storageErr("close video room", err)
	}
	return nil
}

// AddChatMessage appends an embedded chat message to the room.
func (s *SessionService) AddChatMessage(roomID, senderID, senderName, content string, messageType MessageType) (*ChatMessage, error) {
	if strings.TrimSpace(content) == "" {
		return nil, NewInvalidError("content required")
	}
	if messageType == "" {
		messageType = MessageText
	}
	message := ChatMessage{
		ID:          s.newID(),
		RoomID:      roomID,
		SenderID:    senderID,
		SenderName:  senderName,
		Content:     content,
		Timestamp:   s.now(),
		MessageType: messageType,
	}
	_, err := records.Update(s.store, videoRoomsKey, func(rooms []VideoRoom) ([]VideoRoom, error) {
		for i := range rooms {
			if rooms[i].ID == roomID {
				rooms[i].ChatMessages = append(rooms[i].ChatMessages, message)
				return rooms, nil
			}
		}
		return nil, NewNotFoundError("room not found")
	})
	if err != nil {
		return nil, storageErr("add chat message", err)
	}
	return &message, nil
}

func (s *SessionService) ChatMessages(roomID string) ([]ChatMessage, error) {
	rooms, err := records.Read[VideoRoom](s.store, videoRoomsKey)
	if err != nil {
		return nil, storageErr("read video rooms", err)
	}
	for _, room := range rooms {
		if room.ID == roomID {
			return room.ChatMessages, nil
		}
	}
	return []ChatMessage{}, nil
}

// RateSession overwrites rating and feedback regardless of session status;
// rating a pending session is allowed.
func (s *SessionService) RateSession(sessionID string, rating int, feedback string) error {
	if rating < 1 || rating > 5 {
		return NewInvalidError("rating must be between 1 and 5")
	}
	_, err := records.Update(s.store, sessionsKey, func(sessions []SupportSession) ([]SupportSession, error) {
		for i := range sessions {
			if sessions[i].ID == sessionID {
				sessions[i].Rating = rating
				sessions[i].Feedback = feedback
				return sessions, nil
			}
		}
		return nil, NewNotFoundError("session not found")
	})
	if err != nil {
		return storageErr("rate session", err)
	}
	return nil
}

// SupporterSlots lists the unbooked slots on the given calendar day.
func (s *SessionService) SupporterSlots(supporterID string, date time.Time) ([]TimeSlot, error) {
	slots, err := records.Read[TimeSlot](s.store, timeSlotsKey(supporterID))
	if err != nil {
		return nil, storageErr("read time slots", err)
	}
	day := dayKey(date)
	out := []TimeSlot{}
	for _, slot := range slots {
		if !slot.IsBooked && dayKey(slot.StartTime) == day {
			out = append(out, slot)
		}
	}
	return out, nil
}

// SeedSlots stores a supporter's bookable slots, replacing any existing ones.
func (s *SessionService) SeedSlots(supporterID string, slots []TimeSlot) error {
	for i := range slots {
		if slots[i].ID == "" {
			slots[i].ID = s.newID()
		}
		slots[i].SupporterID = supporterID
	}
	if err := records.Write(s.store, timeSlotsKey(supporterID), slots); err != nil {
		return storageErr("seed time slots", err)
	}
	return nil
}

// SeedSupporters replaces the stored supporter catalog.
func (s *SessionService) SeedSupporters(supporters []Supporter) error {
	if err := records.Write(s.store, supportersKey, supporters); err != nil {
		return storageErr("seed supporters", err)
	}
	return nil
}

// RequestEmergencySupport books the first catalog-order online supporter with
// a crisis or emergency specialty, immediately and at urgent priority.
func (s *SessionService) RequestEmergencySupport(userID string) (*SupportSession, error) {
	online, err := s.AvailableSupporters()
	if err != nil {
		return nil, err
	}
	for _, sup := range online {
		for _, specialty := range sup.Specialties {
			if specialty == "crisis" || specialty == "emergency" {
				return s.BookSession(userID, sup.ID, s.now(), SessionCrisis, PriorityUrgent)
			}
		}
	}
	return nil, NewNotFoundError("no crisis supporters available")
}

// SessionStats aggregates a user's sessions; the average rating covers
// completed sessions only, counting unrated ones as zero.
func (s *SessionService) SessionStats(userID string) (*SessionStats, error) {
	sessions, err := s.UserSessions(userID)
	if err != nil {
		return nil, err
	}
	stats := &SessionStats{TotalSessions: len(sessions)}
	ratingSum := 0
	for _, sess := range sessions {
		if sess.Status != SessionCompleted {
			continue
		}
		stats.CompletedSessions++
		stats.TotalDuration += sess.Duration
		ratingSum += sess.Rating
	}
	if stats.CompletedSessions > 0 {
		stats.AverageRating = float64(ratingSum) / float64(stats.CompletedSessions)
	}
	return stats, nil
}
