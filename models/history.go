package models

import "time"

// HistoryInstance is one concrete scheduled occurrence of a habit,
// written to the "history" collection by the generate-occurrences job.
type HistoryInstance struct {
	ID          string     `firestore:"-" json:"id"`
	HabitID     string     `firestore:"habitId" json:"habit_id"`
	Habit       string     `firestore:"habit" json:"habit"`
	StartOn     time.Time  `firestore:"startOn" json:"start_on"`
	Reminder    string     `firestore:"reminder" json:"reminder"`
	CompletedOn *time.Time `firestore:"completedOn,omitempty" json:"completed_on,omitempty"`
	CompletedBy string     `firestore:"completedBy,omitempty" json:"completed_by,omitempty"`
	User        UserRef    `firestore:"user" json:"user"`
}

// User is a document in the "user" collection, looked up when sending
// reminders so pushes go to the freshest device token.
type User struct {
	UID        string `firestore:"uid" json:"uid"`
	Token      string `firestore:"token" json:"token"`
	IsGuardian bool   `firestore:"isGuardian" json:"is_guardian"`
}

// NotificationMessage is one staged push: a title/body pair fanned out
// to every token in Tokens.
type NotificationMessage struct {
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Tokens []string `json:"tokens"`
}
