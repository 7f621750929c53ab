package push

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"
	"github.com/stretchr/testify/assert"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

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

// fakeGateway stands in for the Expo push endpoint and records the bodies
// it receives.
func fakeGateway(t *testing.T, calls *int32, bodies *[]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		body, _ := io.ReadAll(r.Body)
		*bodies = append(*bodies, string(body))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"status":"ok"},{"status":"ok"}]}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func gatewayClient(server *httptest.Server) *expo.PushClient {
	return expo.NewPushClient(&expo.ClientConfig{
		Host:   server.URL,
		APIURL: "/--/api/v2",
	})
}

func tokenRows(tokens ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"token", "user_id", "platform", "created_at", "updated_at"})
	for _, token := range tokens {
		rows.AddRow(token, 1, "ios", time.Now(), time.Now())
	}
	return rows
}

func TestDispatchBatchesAllTokens(t *testing.T) {
	var calls int32
	var bodies []string
	server := fakeGateway(t, &calls, &bodies)

	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "push_tokens"`).
		WillReturnRows(tokenRows("ExponentPushToken[aaa]", "ExponentPushToken[bbb]"))

	d := NewDispatcherWithClient(db, gatewayClient(server))
	d.dispatch(Task{UserID: 1, Title: "Ana", Body: "hey", Data: map[string]string{"type": "message"}})

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "all tokens go out in one gateway call")
	assert.Contains(t, bodies[0], "ExponentPushToken[aaa]")
	assert.Contains(t, bodies[0], "ExponentPushToken[bbb]")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDispatchNoTokensIsNoop(t *testing.T) {
	var calls int32
	var bodies []string
	server := fakeGateway(t, &calls, &bodies)

	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "push_tokens"`).
		WillReturnRows(tokenRows())

	d := NewDispatcherWithClient(db, gatewayClient(server))
	d.dispatch(Task{UserID: 1, Title: "Ana", Body: "hey"})

	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDispatchSkipsMalformedTokens(t *testing.T) {
	var calls int32
	var bodies []string
	server := fakeGateway(t, &calls, &bodies)

	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "push_tokens"`).
		WillReturnRows(tokenRows("not-an-expo-token"))

	d := NewDispatcherWithClient(db, gatewayClient(server))
	d.dispatch(Task{UserID: 1, Title: "Ana", Body: "hey"})

	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnqueueNeverBlocksWhenFull(t *testing.T) {
	db, _ := newMockDB(t)
	d := NewDispatcherWithClient(db, expo.NewPushClient(nil))

	// Worker not started: fill the queue to the brim
	for i := 0; i < queueSize; i++ {
		d.queue <- Task{UserID: uint(i)}
	}

	done := make(chan struct{})
	go func() {
		d.Enqueue(999, "t", "b", nil)
		close(done)
	}()

	select {
	case <-done:
		// dropped, as documented
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
	assert.Equal(t, queueSize, len(d.queue), "the overflow task was dropped, not queued")
}

func TestCloseDrainsQueue(t *testing.T) {
	var calls int32
	var bodies []string
	server := fakeGateway(t, &calls, &bodies)

	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "push_tokens"`).
		WillReturnRows(tokenRows("ExponentPushToken[aaa]"))

	d := NewDispatcherWithClient(db, gatewayClient(server))
	d.Start()
	d.Enqueue(1, "Ana", "hey", nil)
	d.Close()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.NoError(t, mock.ExpectationsWereMet())
}
