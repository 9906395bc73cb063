package models

import "time"

// UserRef is the owner block embedded on habit and history documents.
// Connections holds the linked guardians (e.g. a parent watching a
// child's habit) with their push tokens.
type UserRef struct {
	UID         string    `firestore:"uid" json:"uid"`
	Token       string    `firestore:"token" json:"token"`
	IsGuardian  bool      `firestore:"isGuardian" json:"is_guardian"`
	Connections []UserRef `firestore:"connections,omitempty" json:"connections,omitempty"`
}

// RepeatRule is the nested recurrence rule on a habit document.
// The numeric fields are stored as strings by the client app and are
// coerced with ParseNum wherever they are read.
type RepeatRule struct {
	Every     string `firestore:"every" json:"every"` // "day" or "week"
	EveryNum  string `firestore:"everyNum" json:"every_num"`
	Weekdays  []int  `firestore:"weekday,omitempty" json:"weekday,omitempty"` // 0=Sunday .. 6=Saturday
	TimesADay string `firestore:"timesADay" json:"times_a_day"`
	PerDay    string `firestore:"perDay" json:"per_day"` // "hour" or "minute"
	PerDayNum string `firestore:"perDayNum" json:"per_day_num"`
}

type Habit struct {
	ID         string     `firestore:"-" json:"id"`
	Name       string     `firestore:"habit" json:"habit"`
	Repeat     RepeatRule `firestore:"repeat" json:"repeat"`
	StartOn    time.Time  `firestore:"startOn" json:"start_on"`
	LatestDate *time.Time `firestore:"latestDate,omitempty" json:"latest_date,omitempty"`
	EndOn      string     `firestore:"endOn" json:"end_on"` // "never" or "date"
	EndDate    *time.Time `firestore:"endDate,omitempty" json:"end_date,omitempty"`
	Reminder   string     `firestore:"reminder" json:"reminder"` // "<n> minute|hour" before start
	User       UserRef    `firestore:"user" json:"user"`
}
