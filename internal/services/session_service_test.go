package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSessionService() *SessionService {
	s := NewSessionService(newTestStore(), zap.NewNop())
	s.now = fixedTime
	s.newID = seqIDs()
	return s
}

func TestAvailableSupportersDefaults(t *testing.T) {
	s := newTestSessionService()

	online, err := s.AvailableSupporters()
	require.NoError(t, err)
	// the default catalog has one offline supporter
	require.Len(t, online, 2)
	for _, sup := range online {
		require.True(t, sup.IsOnline)
	}
}

func TestBookSessionUnknownSupporter(t *testing.T) {
	s := newTestSessionService()

	_, err := s.BookSession("u1", "ghost", fixedTime(), SessionRegular, PriorityMedium)
	se, ok := AsServiceError(err)
	require.True(t, ok)
	require.Equal(t, ErrorNotFound, se.Code)
	require.Equal(t, "supporter not found", se.Message)
}

func TestBookSessionMarksMatchingSlot(t *testing.T) {
	s := newTestSessionService()
	start := fixedTime().Add(24 * time.Hour)
	require.NoError(t, s.SeedSlots("supporter_1", []TimeSlot{
		{StartTime: start, EndTime: start.Add(30 * time.Minute)},
		{StartTime: start.Add(time.Hour), EndTime: start.Add(90 * time.Minute)},
	}))

	session, err := s.BookSession("u1", "supporter_1", start, SessionRegular, PriorityMedium)
	require.NoError(t, err)
	require.Equal(t, SessionPending, session.Status)

	slots, err := s.SupporterSlots("supporter_1", start)
	require.NoError(t, err)
	// the matching slot is booked; the other stays open
	require.Len(t, slots, 1)
	require.Equal(t, start.Add(time.Hour), slots[0].StartTime)
}

func TestBookSessionNoSlotMatchStillBooks(t *testing.T) {
	s := newTestSessionService()
	start := fixedTime().Add(24 * time.Hour)
	require.NoError(t, s.SeedSlots("supporter_1", []TimeSlot{
		{StartTime: start.Add(time.Millisecond), EndTime: start.Add(30 * time.Minute)},
	}))

	session, err := s.BookSession("u1", "supporter_1", start, SessionRegular, PriorityMedium)
	require.NoError(t, err)
	require.Equal(t, SessionPending, session.Status)

	// clock-precision mismatch: slot silently stays open
	slots, err := s.SupporterSlots("supporter_1", start)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	require.False(t, slots[0].IsBooked)
}

func TestVideoCallLifecycle(t *testing.T) {
	s := newTestSessionService()

	session, err := s.BookSession("u1", "supporter_2", fixedTime(), SessionRegular, PriorityMedium)
	require.NoError(t, err)

	room, err := s.StartVideoCall(session.ID)
	require.NoError(t, err)
	require.Equal(t, "room_"+session.ID, room.ID)
	require.ElementsMatch(t, []string{"u1", "supporter_2"}, room.Participants)

	sessions, err := s.UserSessions("u1")
	require.NoError(t, err)
	require.Equal(t, SessionActive, sessions[0].Status)

	msg, err := s.AddChatMessage(room.ID, "u1", "Me", "hello", "")
	require.NoError(t, err)
	require.Equal(t, MessageText, msg.MessageType)
	history, err := s.ChatMessages(room.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)

	require.NoError(t, s.EndVideoCall(session.ID, 42))
	sessions, err = s.UserSessions("u1")
	require.NoError(t, err)
	require.Equal(t, SessionCompleted, sessions[0].Status)
	require.Equal(t, 42, sessions[0].Duration)
	require.NotNil(t, sessions[0].EndTime)

	_, err = s.StartVideoCall("missing")
	se, ok := AsServiceError(err)
	require.True(t, ok)
	require.Equal(t, ErrorNotFound, se.Code)
}

func TestRateSessionAnyStatus(t *testing.T) {
	s := newTestSessionService()

	session, err := s.BookSession("u1", "supporter_2", fixedTime(), SessionRegular, PriorityMedium)
	require.NoError(t, err)

	// rating a pending session is not rejected
	require.NoError(t, s.RateSession(session.ID, 5, "very helpful"))
	sessions, err := s.UserSessions("u1")
	require.NoError(t, err)
	require.Equal(t, 5, sessions[0].Rating)
	require.Equal(t, SessionPending, sessions[0].Status)

	err = s.RateSession(session.ID, 9, "")
	se, ok := AsServiceError(err)
	require.True(t, ok)
	require.Equal(t, ErrorInvalid, se.Code)
}

func TestRequestEmergencySupport(t *testing.T) {
	s := newTestSessionService()

	session, err := s.RequestEmergencySupport("u1")
	require.NoError(t, err)
	require.Equal(t, SessionPending, session.Status)
	require.Equal(t, SessionCrisis, session.SessionType)
	require.Equal(t, PriorityUrgent, session.Priority)
	// first crisis-tagged supporter in catalog order
	require.Equal(t, "supporter_1", session.SupporterID)
	require.Equal(t, fixedTime(), session.StartTime)
}

func TestRequestEmergencySupportNoCrisisSupporters(t *testing.T) {
	s := newTestSessionService()
	require.NoError(t, s.SeedSupporters([]Supporter{
		{ID: "s1", Name: "Peer Coach", IsOnline: true, Specialties: []string{"peer support"}},
	}))

	_, err := s.RequestEmergencySupport("u1")
	se, ok := AsServiceError(err)
	require.True(t, ok)
	require.Equal(t, ErrorNotFound, se.Code)
	require.Equal(t, "no crisis supporters available", se.Message)
}

func TestSessionStats(t *testing.T) {
	s := newTestSessionService()

	first, err := s.BookSession("u1", "supporter_1", fixedTime(), SessionRegular, PriorityMedium)
	require.NoError(t, err)
	second, err := s.BookSession("u1", "supporter_2", fixedTime(), SessionRegular, PriorityMedium)
	require.NoError(t, err)
	_, err = s.BookSession("someone_else", "supporter_2", fixedTime(), SessionRegular, PriorityMedium)
	require.NoError(t, err)

	_, err = s.StartVideoCall(first.ID)
	require.NoError(t, err)
	require.NoError(t, s.EndVideoCall(first.ID, 30))
	require.NoError(t, s.RateSession(first.ID, 4, ""))

	_, err = s.StartVideoCall(second.ID)
	require.NoError(t, err)

	stats, err := s.SessionStats("u1")
	require.NoError(t, err)
	require.Equal(t, 2, stats.TotalSessions)
	require.Equal(t, 1, stats.CompletedSessions)
	require.Equal(t, float64(4), stats.AverageRating)
	require.Equal(t, 30, stats.TotalDuration)
}
