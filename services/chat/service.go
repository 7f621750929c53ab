package chat

import (
	models "Spotter/models/postgres"
	"Spotter/services/push"
	redissvc "Spotter/services/redis"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Errors the HTTP and socket layers translate into their own responses.
var (
	ErrMatchNotFound  = errors.New("match not found")
	ErrNotParticipant = errors.New("you are not part of this match")
	ErrEmptyText      = errors.New("message text cannot be empty")
	ErrTextTooLong    = errors.New("message text cannot exceed 1000 characters")
)

const maxMessageLen = 1000
const previewLen = 50

// Broadcaster is how the service reaches connected socket clients without
// importing the socket layer. The socket server implements it; a nil
// broadcaster means no live fan-out (e.g. in tests).
type Broadcaster interface {
	BroadcastToMatch(matchID string, event string, payload interface{})
	EmitToUser(username string, event string, payload interface{})
	UserInRoom(username string, matchID string) bool
}

/*
 * Service owns the match/message flow shared by the REST handlers and the
 * socket handlers: both paths validate, persist and notify through here so
 * they cannot drift apart.
 */
type Service struct {
	DB        *gorm.DB
	Redis     *redissvc.RedisClient
	Push      *push.Dispatcher
	Broadcast Broadcaster
}

func NewService(db *gorm.DB, rc *redissvc.RedisClient, dispatcher *push.Dispatcher, b Broadcaster) *Service {
	return &Service{DB: db, Redis: rc, Push: dispatcher, Broadcast: b}
}

// MatchSummary is one entry of the match list: the match, the other user,
// the most recent message (nil when the chat is empty) and how many
// messages the caller has not read yet.
type MatchSummary struct {
	ID           string               `json:"id"`
	CreatedAt    time.Time            `json:"createdAt"`
	Counterparty models.PublicProfile `json:"counterparty"`
	LastMessage  *models.Message      `json:"lastMessage"`
	UnreadCount  int64                `json:"unreadCount"`
}

// ValidateMessageText trims the raw text and enforces the 1..1000 char
// bounds. Lengths are counted in runes, not bytes.
func ValidateMessageText(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", ErrEmptyText
	}
	if len([]rune(text)) > maxMessageLen {
		return "", ErrTextTooLong
	}
	return text, nil
}

// Preview shortens a message for the notification body: at most 50 runes,
// with an ellipsis when something was cut.
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLen {
		return text
	}
	return string(runes[:previewLen]) + "…"
}

// loadMatch fetches a match and checks the caller is one of its two sides.
func (s *Service) loadMatch(matchID string, callerID uint) (*models.Match, error) {
	var match models.Match
	if err := s.DB.Where("id = ?", matchID).First(&match).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("fetching match: %w", err)
	}
	if !match.HasParticipant(callerID) {
		return nil, ErrNotParticipant
	}
	return &match, nil
}

// ListMatches returns every match containing the caller, newest first, each
// with the counterparty profile, last message and unread count.
func (s *Service) ListMatches(caller *models.User) ([]MatchSummary, error) {
	var matches []models.Match
	err := s.DB.
		Where("user_a_id = ? OR user_b_id = ?", caller.ID, caller.ID).
		Order("created_at DESC").
		Find(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("fetching matches: %w", err)
	}

	summaries := make([]MatchSummary, 0, len(matches))
	for _, match := range matches {
		var counterparty models.User
		if err := s.DB.Where("id = ?", match.CounterpartyID(caller.ID)).First(&counterparty).Error; err != nil {
			log.Printf("[MATCHES] skipping match %s, counterparty missing: %v", match.ID, err)
			continue
		}

		var lastMessage *models.Message
		var msg models.Message
		err := s.DB.
			Where("match_id = ?", match.ID).
			Order("created_at DESC").Order("seq DESC").
			First(&msg).Error
		if err == nil {
			lastMessage = &msg
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("fetching last message: %w", err)
		}

		var unread int64
		if s.Redis != nil {
			unread, _ = s.Redis.GetUnread(match.ID, caller.ID)
		}

		summaries = append(summaries, MatchSummary{
			ID:           match.ID,
			CreatedAt:    match.CreatedAt,
			Counterparty: counterparty.Public(),
			LastMessage:  lastMessage,
			UnreadCount:  unread,
		})
	}
	return summaries, nil
}

// ListMessages returns the full ascending history of a match plus the
// counterparty profile, and resets the caller's unread counter.
func (s *Service) ListMessages(matchID string, caller *models.User) (*models.Match, *models.User, []models.Message, error) {
	match, err := s.loadMatch(matchID, caller.ID)
	if err != nil {
		return nil, nil, nil, err
	}

	var counterparty models.User
	if err := s.DB.Where("id = ?", match.CounterpartyID(caller.ID)).First(&counterparty).Error; err != nil {
		return nil, nil, nil, fmt.Errorf("fetching counterparty: %w", err)
	}

	var messages []models.Message
	err = s.DB.
		Where("match_id = ?", matchID).
		Order("created_at ASC").Order("seq ASC").
		Find(&messages).Error
	if err != nil {
		return nil, nil, nil, fmt.Errorf("fetching messages: %w", err)
	}

	if s.Redis != nil {
		if err := s.Redis.ResetUnread(matchID, caller.ID); err != nil {
			log.Printf("[CHAT] resetting unread for match %s: %v", matchID, err)
		}
	}
	return match, &counterparty, messages, nil
}

// CreateMessage validates and persists a message, then fans out: live
// new_message broadcast to the match room, message_notification to the
// counterparty's socket, unread bump, and a queued push with a truncated
// preview. Everything after the insert is best-effort; the caller gets the
// created message as soon as the row is written.
func (s *Service) CreateMessage(matchID string, sender *models.User, rawText string) (*models.Message, error) {
	match, err := s.loadMatch(matchID, sender.ID)
	if err != nil {
		return nil, err
	}
	text, err := ValidateMessageText(rawText)
	if err != nil {
		return nil, err
	}

	message := models.Message{
		MatchID:  matchID,
		SenderID: sender.ID,
		Text:     text,
	}
	if err := s.DB.Create(&message).Error; err != nil {
		return nil, fmt.Errorf("persisting message: %w", err)
	}

	counterpartyID := match.CounterpartyID(sender.ID)

	if s.Redis != nil {
		if err := s.Redis.IncrementUnread(matchID, counterpartyID); err != nil {
			log.Printf("[CHAT] bumping unread for match %s: %v", matchID, err)
		}
	}

	if s.Broadcast != nil {
		s.Broadcast.BroadcastToMatch(matchID, "new_message", message)

		var counterparty models.User
		if err := s.DB.Where("id = ?", counterpartyID).First(&counterparty).Error; err == nil {
			// A counterparty with this chat open already got new_message
			// through the room
			if !s.Broadcast.UserInRoom(counterparty.Username, matchID) {
				s.Broadcast.EmitToUser(counterparty.Username, "message_notification", map[string]interface{}{
					"matchId": matchID,
					"sender":  sender.Username,
					"preview": Preview(text),
				})
			}
		}
	}

	if s.Push != nil {
		s.Push.Enqueue(counterpartyID, sender.DisplayName, Preview(text), map[string]string{
			"type":    "message",
			"matchId": matchID,
		})
	}

	return &message, nil
}
