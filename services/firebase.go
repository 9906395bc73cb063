package services

import (
	"context"
	"log"
	"sync"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"masterboxer.com/habit-builder/models"
)

var (
	messagingClient *messaging.Client
	once            sync.Once
	initError       error
)

func InitFirebase(credentialsPath string) error {
	once.Do(func() {
		ctx := context.Background()

		log.Printf("[FCM] Initializing Firebase with credentials: %s", credentialsPath)

		opt := option.WithCredentialsFile(credentialsPath)
		app, err := firebase.NewApp(ctx, nil, opt)
		if err != nil {
			initError = err
			log.Printf("[FCM][ERROR] Failed to init Firebase app: %v", err)
			return
		}

		messagingClient, err = app.Messaging(ctx)
		if err != nil {
			initError = err
			log.Printf("[FCM][ERROR] Failed to get messaging client: %v", err)
			return
		}

		log.Println("[FCM] Firebase Messaging client initialized successfully")
	})

	return initError
}

func GetMessagingClient() (*messaging.Client, error) {
	if messagingClient == nil {
		log.Printf("[FCM][ERROR] Messaging client is nil (initError=%v)", initError)
		return nil, initError
	}
	return messagingClient, nil
}

// GroupSender delivers one group of staged notifications and reports
// per-token success/failure counts.
type GroupSender interface {
	SendGroup(ctx context.Context, msgs []models.NotificationMessage) (success, failure int, err error)
}

type fcmSender struct {
	client *messaging.Client
}

func NewFCMSender(client *messaging.Client) GroupSender {
	return &fcmSender{client: client}
}

func (s *fcmSender) SendGroup(ctx context.Context, msgs []models.NotificationMessage) (int, int, error) {
	if s.client == nil {
		log.Printf("[FCM][ERROR] Messaging client is nil (initError=%v)", initError)
		return 0, 0, initError
	}

	var expanded []*messaging.Message
	for _, m := range msgs {
		for _, token := range m.Tokens {
			if token == "" {
				continue
			}
			expanded = append(expanded, &messaging.Message{
				Notification: &messaging.Notification{
					Title: m.Title,
					Body:  m.Body,
				},
				Token: token,
			})
		}
	}

	log.Printf("[FCM] Sending group | messages=%d tokens=%d", len(msgs), len(expanded))

	success := 0
	failure := 0

	// SendEach accepts at most BatchLimit messages per call; token
	// fan-out can push one staged group past that.
	for start := 0; start < len(expanded); start += BatchLimit {
		end := start + BatchLimit
		if end > len(expanded) {
			end = len(expanded)
		}

		response, err := s.client.SendEach(ctx, expanded[start:end])
		if err != nil {
			log.Printf("[FCM][ERROR] Group send failed entirely: %v", err)
			return success, failure, err
		}

		success += response.SuccessCount
		failure += response.FailureCount

		for i, resp := range response.Responses {
			if resp.Success {
				continue
			}
			log.Printf("[FCM][TOKEN ERROR] token=%s error=%v", expanded[start+i].Token, resp.Error)
		}
	}

	log.Printf("[FCM] Group result | success=%d failure=%d", success, failure)
	return success, failure, nil
}

type inflightSend struct {
	size int
	done chan sendResult
}

type sendResult struct {
	success int
	failure int
	err     error
}

// MessageBatcher buffers notification payloads and sends them in
// groups of at most BatchLimit. Threshold sends start concurrently
// with further staging but are tracked, not forgotten: Finalize waits
// for every send and reports the aggregate outcome. Delivery failures
// never abort the run.
type MessageBatcher struct {
	sender   GroupSender
	pending  []models.NotificationMessage
	inflight []inflightSend
	staged   int
}

func NewMessageBatcher(sender GroupSender) *MessageBatcher {
	return &MessageBatcher{sender: sender}
}

func (m *MessageBatcher) Stage(ctx context.Context, msg models.NotificationMessage) {
	m.pending = append(m.pending, msg)
	m.staged++

	if len(m.pending) >= BatchLimit {
		m.startSend(ctx)
	}
}

// Staged returns the number of notifications staged so far in this run.
func (m *MessageBatcher) Staged() int {
	return m.staged
}

func (m *MessageBatcher) startSend(ctx context.Context) {
	group := m.pending
	m.pending = nil

	log.Printf("[MessageBatcher] Sending group of %d", len(group))

	send := inflightSend{size: len(group), done: make(chan sendResult, 1)}
	m.inflight = append(m.inflight, send)

	go func() {
		success, failure, err := m.sender.SendGroup(ctx, group)
		send.done <- sendResult{success: success, failure: failure, err: err}
	}()
}

// Finalize sends the remaining partial group and waits for every send
// started during the run. It returns aggregate success and failure
// counts; send errors are logged and reflected in the counts only.
func (m *MessageBatcher) Finalize(ctx context.Context) (int, int) {
	if len(m.pending) > 0 {
		m.startSend(ctx)
	}

	success := 0
	failure := 0
	for _, send := range m.inflight {
		result := <-send.done
		if result.err != nil {
			log.Printf("[MessageBatcher][ERROR] Send of %d messages failed: %v", send.size, result.err)
		}
		success += result.success
		failure += result.failure
	}
	m.inflight = nil

	return success, failure
}
