package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"masterboxer.com/habit-builder/models"
)

func historyWithGuardians() models.HistoryInstance {
	return models.HistoryInstance{
		ID:      "hist-1",
		HabitID: "h1",
		Habit:   "Brush teeth",
		StartOn: at(2026, time.August, 28, 7, 30),
		User: models.UserRef{
			UID:   "child-1",
			Token: "tok-child",
			Connections: []models.UserRef{
				{UID: "parent-1", Token: "tok-parent-1", IsGuardian: true},
				{UID: "parent-2", Token: "tok-parent-2", IsGuardian: true},
			},
		},
	}
}

func TestBuildReminderMessage(t *testing.T) {
	h := historyWithGuardians()

	msg, ok := BuildReminderMessage(h, "tok-fresh")
	require.True(t, ok)
	assert.Equal(t, "It's time for habit!", msg.Title)
	assert.Equal(t, "Brush teeth starting now...", msg.Body)
	assert.Equal(t, []string{"tok-fresh", "tok-parent-1", "tok-parent-2"}, msg.Tokens)
}

func TestBuildReminderMessage_FallsBackToEmbeddedToken(t *testing.T) {
	h := historyWithGuardians()

	msg, ok := BuildReminderMessage(h, "")
	require.True(t, ok)
	assert.Equal(t, []string{"tok-child", "tok-parent-1", "tok-parent-2"}, msg.Tokens)
}

func TestBuildReminderMessage_NobodyReachable(t *testing.T) {
	h := models.HistoryInstance{Habit: "Brush teeth", User: models.UserRef{UID: "child-1"}}

	_, ok := BuildReminderMessage(h, "")
	assert.False(t, ok)
}

func TestBuildCompletionMessages_GuardianCompleted(t *testing.T) {
	h := historyWithGuardians()
	h.CompletedBy = "parent-1"

	msgs := BuildCompletionMessages(h)
	require.Len(t, msgs, 2)

	// The completer is suppressed; the other guardian is notified.
	assert.Equal(t, "Hooray!", msgs[0].Title)
	assert.Equal(t, "Brush teeth habit has been completed.", msgs[0].Body)
	assert.Equal(t, []string{"tok-parent-2"}, msgs[0].Tokens)

	// The owner gets the keep-it-up notice because someone else
	// completed the instance.
	assert.Equal(t, "Brush teeth habit has been completed. Keep it up!", msgs[1].Body)
	assert.Equal(t, []string{"tok-child"}, msgs[1].Tokens)
}

func TestBuildCompletionMessages_OwnerCompleted(t *testing.T) {
	h := historyWithGuardians()
	h.CompletedBy = "child-1"

	msgs := BuildCompletionMessages(h)
	require.Len(t, msgs, 1)

	// Both guardians hear about it; the owner gets no notice for
	// their own completion.
	assert.Equal(t, []string{"tok-parent-1", "tok-parent-2"}, msgs[0].Tokens)
}

func TestBuildCompletionMessages_NoGuardians(t *testing.T) {
	h := models.HistoryInstance{
		Habit:       "Brush teeth",
		CompletedBy: "child-1",
		User:        models.UserRef{UID: "child-1", Token: "tok-child"},
	}

	assert.Empty(t, BuildCompletionMessages(h))
}

func TestBuildCompletionMessages_SkipsTokenlessGuardians(t *testing.T) {
	h := historyWithGuardians()
	h.CompletedBy = "parent-1"
	h.User.Connections[1].Token = ""

	msgs := BuildCompletionMessages(h)
	require.Len(t, msgs, 1)
	assert.Equal(t, []string{"tok-child"}, msgs[0].Tokens)
}
