package handlers

import (
	"time"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"

	"masterboxer.com/habit-builder/services"
)

// JobRun carries everything one job invocation needs: the reference
// date, the store, and this run's batchers. It is created per request
// and threaded through every call; there is no process-wide run state,
// so concurrent invocations only race through the store itself.
type JobRun struct {
	RunID    string
	Today    time.Time
	Store    *firestore.Client
	Writes   *services.BatchWriter
	Messages *services.MessageBatcher
}

func NewJobRun(today time.Time, store *firestore.Client, fcm *messaging.Client) *JobRun {
	return &JobRun{
		RunID:    uuid.NewString(),
		Today:    today,
		Store:    store,
		Writes:   services.NewBatchWriter(services.NewFirestoreCommitter(store)),
		Messages: services.NewMessageBatcher(services.NewFCMSender(fcm)),
	}
}
