package controllers_test

import (
	"Spotter/controllers"
	"Spotter/services/chat"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Spotter/middleware"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

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

func newRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	chatService := chat.NewService(db, nil, nil, nil)
	router := gin.New()
	router.GET("/auth/matches/:id/messages", controllers.GetMatchMessages(db, chatService))
	router.POST("/auth/matches/:id/messages", controllers.SendMatchMessage(db, chatService))
	return router
}

func bearerToken(t *testing.T, email string) string {
	t.Helper()
	token, err := middleware.GenerateJWT(email)
	assert.NoError(t, err)
	return "Bearer " + token
}

func expectUserLookup(mock sqlmock.Sqlmock, id uint, email, username string) {
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "username", "display_name"}).
			AddRow(id, email, username, username))
}

func expectMatchLookup(mock sqlmock.Sqlmock, id string, userA, userB uint) {
	mock.ExpectQuery(`SELECT \* FROM "matches"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_a_id", "user_b_id", "created_at"}).
			AddRow(id, userA, userB, time.Now()))
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestGetMessagesWithoutToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db, _ := newMockDB(t)
	router := newRouter(db)

	req := httptest.NewRequest(http.MethodGet, "/auth/matches/m1/messages", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env := decode(t, w)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
}

func TestGetMessagesUnknownMatch(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db, mock := newMockDB(t)
	router := newRouter(db)

	expectUserLookup(mock, 1, "ana@example.com", "ana")
	mock.ExpectQuery(`SELECT \* FROM "matches"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_a_id", "user_b_id", "created_at"}))

	req := httptest.NewRequest(http.MethodGet, "/auth/matches/nope/messages", nil)
	req.Header.Set("Authorization", bearerToken(t, "ana@example.com"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decode(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "Match not found", env.Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMessagesForbiddenForOutsider(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db, mock := newMockDB(t)
	router := newRouter(db)

	// mallory (id 99) is not part of match m1 between users 1 and 2
	expectUserLookup(mock, 99, "mallory@example.com", "mallory")
	expectMatchLookup(mock, "m1", 1, 2)

	req := httptest.NewRequest(http.MethodGet, "/auth/matches/m1/messages", nil)
	req.Header.Set("Authorization", bearerToken(t, "mallory@example.com"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	env := decode(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "You are not part of this match", env.Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendMessageForbiddenForOutsider(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db, mock := newMockDB(t)
	router := newRouter(db)

	expectUserLookup(mock, 99, "mallory@example.com", "mallory")
	expectMatchLookup(mock, "m1", 1, 2)

	body := bytes.NewBufferString(`{"text":"hi"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/matches/m1/messages", body)
	req.Header.Set("Authorization", bearerToken(t, "mallory@example.com"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendMessageEmptyText(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db, mock := newMockDB(t)
	router := newRouter(db)

	expectUserLookup(mock, 1, "ana@example.com", "ana")
	expectMatchLookup(mock, "m1", 1, 2)

	body := bytes.NewBufferString(`{"text":"   "}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/matches/m1/messages", body)
	req.Header.Set("Authorization", bearerToken(t, "ana@example.com"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "message text cannot be empty", env.Error)
	// no INSERT was expected: an attempted write would have failed the mock
	assert.NoError(t, mock.ExpectationsWereMet())
}
