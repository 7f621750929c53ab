package push

import (
	models "Spotter/models/postgres"
	"log"
	"os"

	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"
	"gorm.io/gorm"
)

// Task is one queued notification: everything needed to push to every
// device of one user.
type Task struct {
	UserID uint
	Title  string
	Body   string
	Data   map[string]string
}

/*
 * Dispatcher forwards notifications to the Expo push gateway. Contract:
 * at-most-once, no delivery guarantee. Enqueue never blocks a request
 * handler; if the queue is full the task is dropped and logged. Failures
 * from the gateway are logged and swallowed, never retried, never surfaced
 * to the sender.
 */
type Dispatcher struct {
	db     *gorm.DB
	client *expo.PushClient
	queue  chan Task
	done   chan struct{}
}

const queueSize = 256

// NewDispatcher builds a dispatcher talking to the real Expo gateway.
func NewDispatcher(db *gorm.DB) *Dispatcher {
	return NewDispatcherWithClient(db, expo.NewPushClient(&expo.ClientConfig{
		AccessToken: os.Getenv("EXPO_ACCESS_TOKEN"),
	}))
}

// NewDispatcherWithClient is the seam used by tests to point the dispatcher
// at a fake gateway.
func NewDispatcherWithClient(db *gorm.DB, client *expo.PushClient) *Dispatcher {
	return &Dispatcher{
		db:     db,
		client: client,
		queue:  make(chan Task, queueSize),
		done:   make(chan struct{}),
	}
}

// Start launches the single worker goroutine.
func (d *Dispatcher) Start() {
	go func() {
		defer close(d.done)
		for task := range d.queue {
			d.dispatch(task)
		}
	}()
}

// Close stops accepting tasks and waits for the worker to drain the queue.
func (d *Dispatcher) Close() {
	close(d.queue)
	<-d.done
}

// Enqueue hands a notification to the worker without blocking.
func (d *Dispatcher) Enqueue(userID uint, title, body string, data map[string]string) {
	select {
	case d.queue <- Task{UserID: userID, Title: title, Body: body, Data: data}:
	default:
		log.Printf("[PUSH-DROP] queue full, dropping notification for user %d", userID)
	}
}

// dispatch sends one batched gateway call covering all of the user's
// registered tokens. A user with no tokens is a no-op.
func (d *Dispatcher) dispatch(task Task) {
	var tokens []models.PushToken
	if err := d.db.Where("user_id = ?", task.UserID).Find(&tokens).Error; err != nil {
		log.Printf("[PUSH-ERROR] loading tokens for user %d: %v", task.UserID, err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	messages := make([]expo.PushMessage, 0, len(tokens))
	for _, t := range tokens {
		pushToken, err := expo.NewExponentPushToken(t.Token)
		if err != nil {
			log.Printf("[PUSH-ERROR] invalid token for user %d: %v", task.UserID, err)
			continue
		}
		messages = append(messages, expo.PushMessage{
			To:       []expo.ExponentPushToken{pushToken},
			Title:    task.Title,
			Body:     task.Body,
			Data:     task.Data,
			Sound:    "default",
			Priority: expo.DefaultPriority,
		})
	}
	if len(messages) == 0 {
		return
	}

	responses, err := d.client.PublishMultiple(messages)
	if err != nil {
		log.Printf("[PUSH-ERROR] gateway call for user %d failed: %v", task.UserID, err)
		return
	}
	for _, response := range responses {
		if err := response.ValidateResponse(); err != nil {
			log.Printf("[PUSH-ERROR] ticket for user %d rejected: %v", task.UserID, err)
		}
	}
	log.Printf("[PUSH] sent %d notification(s) to user %d", len(messages), task.UserID)
}
