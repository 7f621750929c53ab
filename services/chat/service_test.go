package chat

import (
	models "Spotter/models/postgres"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestValidateMessageText(t *testing.T) {
	t.Run("trims whitespace", func(t *testing.T) {
		text, err := ValidateMessageText("  hey  ")
		assert.NoError(t, err)
		assert.Equal(t, "hey", text)
	})

	t.Run("rejects empty text", func(t *testing.T) {
		_, err := ValidateMessageText("")
		assert.ErrorIs(t, err, ErrEmptyText)

		_, err = ValidateMessageText("   \n\t ")
		assert.ErrorIs(t, err, ErrEmptyText)
	})

	t.Run("accepts exactly 1000 characters", func(t *testing.T) {
		text, err := ValidateMessageText(strings.Repeat("a", 1000))
		assert.NoError(t, err)
		assert.Len(t, text, 1000)
	})

	t.Run("rejects 1001 characters", func(t *testing.T) {
		_, err := ValidateMessageText(strings.Repeat("a", 1001))
		assert.ErrorIs(t, err, ErrTextTooLong)
	})

	t.Run("counts runes, not bytes", func(t *testing.T) {
		// 1000 two-byte runes are fine even though that's 2000 bytes
		_, err := ValidateMessageText(strings.Repeat("é", 1000))
		assert.NoError(t, err)
	})
}

func TestPreview(t *testing.T) {
	t.Run("short text passes through", func(t *testing.T) {
		assert.Equal(t, "hey", Preview("hey"))
	})

	t.Run("exactly 50 runes pass through", func(t *testing.T) {
		text := strings.Repeat("a", 50)
		assert.Equal(t, text, Preview(text))
	})

	t.Run("longer text is cut at 50 runes with ellipsis", func(t *testing.T) {
		preview := Preview(strings.Repeat("a", 51))
		assert.Equal(t, strings.Repeat("a", 50)+"…", preview)
	})

	t.Run("multibyte text is cut on rune boundaries", func(t *testing.T) {
		preview := Preview(strings.Repeat("é", 60))
		assert.Equal(t, strings.Repeat("é", 50)+"…", preview)
	})
}

// newMockDB opens a GORM connection over sqlmock so query-path tests run
// without a live database.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(pgdriver.New(pgdriver.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	assert.NoError(t, err)
	return db, mock
}

func matchRows(id string, userA, userB uint) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_a_id", "user_b_id", "created_at"}).
		AddRow(id, userA, userB, time.Now())
}

func TestListMatchesEmptyChat(t *testing.T) {
	db, mock := newMockDB(t)
	service := NewService(db, nil, nil, nil)
	caller := &models.User{ID: 1, Username: "ana"}

	mock.ExpectQuery(`SELECT \* FROM "matches"`).
		WillReturnRows(matchRows("m1", 1, 2))
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "display_name"}).
			AddRow(2, "bob", "Bob"))
	mock.ExpectQuery(`SELECT \* FROM "messages"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "match_id", "sender_id", "text", "created_at"}))

	summaries, err := service.ListMatches(caller)
	assert.NoError(t, err)
	assert.Len(t, summaries, 1)
	assert.Equal(t, "m1", summaries[0].ID)
	assert.Equal(t, "bob", summaries[0].Counterparty.Username)
	assert.Nil(t, summaries[0].LastMessage, "a chat with no messages has no last message")
	assert.Equal(t, int64(0), summaries[0].UnreadCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListMatchesWithLastMessage(t *testing.T) {
	db, mock := newMockDB(t)
	service := NewService(db, nil, nil, nil)
	caller := &models.User{ID: 2, Username: "bob"}

	mock.ExpectQuery(`SELECT \* FROM "matches"`).
		WillReturnRows(matchRows("m1", 1, 2))
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "display_name"}).
			AddRow(1, "ana", "Ana"))
	mock.ExpectQuery(`SELECT \* FROM "messages"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "match_id", "sender_id", "text", "created_at"}).
			AddRow("msg1", "m1", 1, "hey", time.Now()))

	summaries, err := service.ListMatches(caller)
	assert.NoError(t, err)
	assert.Len(t, summaries, 1)
	assert.Equal(t, "ana", summaries[0].Counterparty.Username)
	if assert.NotNil(t, summaries[0].LastMessage) {
		assert.Equal(t, "hey", summaries[0].LastMessage.Text)
		assert.Equal(t, uint(1), summaries[0].LastMessage.SenderID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListMatchesNoMatches(t *testing.T) {
	db, mock := newMockDB(t)
	service := NewService(db, nil, nil, nil)
	caller := &models.User{ID: 7, Username: "carol"}

	mock.ExpectQuery(`SELECT \* FROM "matches"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_a_id", "user_b_id", "created_at"}))

	summaries, err := service.ListMatches(caller)
	assert.NoError(t, err)
	assert.Empty(t, summaries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListMessagesUnknownMatch(t *testing.T) {
	db, mock := newMockDB(t)
	service := NewService(db, nil, nil, nil)
	caller := &models.User{ID: 1, Username: "ana"}

	mock.ExpectQuery(`SELECT \* FROM "matches"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_a_id", "user_b_id", "created_at"}))

	_, _, _, err := service.ListMessages("nope", caller)
	assert.ErrorIs(t, err, ErrMatchNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListMessagesForbidden(t *testing.T) {
	db, mock := newMockDB(t)
	service := NewService(db, nil, nil, nil)
	outsider := &models.User{ID: 99, Username: "mallory"}

	mock.ExpectQuery(`SELECT \* FROM "matches"`).
		WillReturnRows(matchRows("m1", 1, 2))

	_, _, _, err := service.ListMessages("m1", outsider)
	assert.ErrorIs(t, err, ErrNotParticipant)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// recordingBroadcaster captures the fan-out calls the service makes so
// tests can assert which events went where.
type recordingBroadcaster struct {
	openRooms  map[string]string // username -> matchID currently open
	roomEvents []string
	userEvents []string
}

func (b *recordingBroadcaster) BroadcastToMatch(matchID string, event string, payload interface{}) {
	b.roomEvents = append(b.roomEvents, event)
}

func (b *recordingBroadcaster) EmitToUser(username string, event string, payload interface{}) {
	b.userEvents = append(b.userEvents, event)
}

func (b *recordingBroadcaster) UserInRoom(username string, matchID string) bool {
	return b.openRooms[username] == matchID
}

func expectMessageInsert(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "messages"`).
		WillReturnRows(sqlmock.NewRows([]string{"seq", "created_at"}).
			AddRow(int64(1), time.Now()))
	mock.ExpectCommit()
}

func TestCreateMessageNotificationFanout(t *testing.T) {
	t.Run("counterparty with the chat open gets no direct notification", func(t *testing.T) {
		db, mock := newMockDB(t)
		broadcaster := &recordingBroadcaster{openRooms: map[string]string{"bob": "m1"}}
		service := NewService(db, nil, nil, broadcaster)
		sender := &models.User{ID: 1, Username: "ana", DisplayName: "Ana"}

		mock.ExpectQuery(`SELECT \* FROM "matches"`).
			WillReturnRows(matchRows("m1", 1, 2))
		expectMessageInsert(mock)
		mock.ExpectQuery(`SELECT \* FROM "users"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "display_name"}).
				AddRow(2, "bob", "Bob"))

		_, err := service.CreateMessage("m1", sender, "hey")
		assert.NoError(t, err)
		assert.Equal(t, []string{"new_message"}, broadcaster.roomEvents)
		assert.Empty(t, broadcaster.userEvents,
			"the room broadcast already reached them, no direct notification")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("counterparty elsewhere gets message_notification", func(t *testing.T) {
		db, mock := newMockDB(t)
		broadcaster := &recordingBroadcaster{openRooms: map[string]string{}}
		service := NewService(db, nil, nil, broadcaster)
		sender := &models.User{ID: 1, Username: "ana", DisplayName: "Ana"}

		mock.ExpectQuery(`SELECT \* FROM "matches"`).
			WillReturnRows(matchRows("m1", 1, 2))
		expectMessageInsert(mock)
		mock.ExpectQuery(`SELECT \* FROM "users"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "display_name"}).
				AddRow(2, "bob", "Bob"))

		_, err := service.CreateMessage("m1", sender, "hey")
		assert.NoError(t, err)
		assert.Equal(t, []string{"new_message"}, broadcaster.roomEvents)
		assert.Equal(t, []string{"message_notification"}, broadcaster.userEvents)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("counterparty in a different chat still gets notified", func(t *testing.T) {
		db, mock := newMockDB(t)
		broadcaster := &recordingBroadcaster{openRooms: map[string]string{"bob": "other-match"}}
		service := NewService(db, nil, nil, broadcaster)
		sender := &models.User{ID: 1, Username: "ana", DisplayName: "Ana"}

		mock.ExpectQuery(`SELECT \* FROM "matches"`).
			WillReturnRows(matchRows("m1", 1, 2))
		expectMessageInsert(mock)
		mock.ExpectQuery(`SELECT \* FROM "users"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "display_name"}).
				AddRow(2, "bob", "Bob"))

		_, err := service.CreateMessage("m1", sender, "hey")
		assert.NoError(t, err)
		assert.Equal(t, []string{"message_notification"}, broadcaster.userEvents)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreateMessageValidation(t *testing.T) {
	t.Run("empty text persists nothing", func(t *testing.T) {
		db, mock := newMockDB(t)
		service := NewService(db, nil, nil, nil)
		caller := &models.User{ID: 1, Username: "ana"}

		mock.ExpectQuery(`SELECT \* FROM "matches"`).
			WillReturnRows(matchRows("m1", 1, 2))

		_, err := service.CreateMessage("m1", caller, "   ")
		assert.ErrorIs(t, err, ErrEmptyText)
		// no INSERT was expected, so any insert attempt would fail here
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("oversized text persists nothing", func(t *testing.T) {
		db, mock := newMockDB(t)
		service := NewService(db, nil, nil, nil)
		caller := &models.User{ID: 2, Username: "bob"}

		mock.ExpectQuery(`SELECT \* FROM "matches"`).
			WillReturnRows(matchRows("m1", 1, 2))

		_, err := service.CreateMessage("m1", caller, strings.Repeat("x", 1001))
		assert.ErrorIs(t, err, ErrTextTooLong)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("outsider cannot send", func(t *testing.T) {
		db, mock := newMockDB(t)
		service := NewService(db, nil, nil, nil)
		outsider := &models.User{ID: 99, Username: "mallory"}

		mock.ExpectQuery(`SELECT \* FROM "matches"`).
			WillReturnRows(matchRows("m1", 1, 2))

		_, err := service.CreateMessage("m1", outsider, "hello")
		assert.ErrorIs(t, err, ErrNotParticipant)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
