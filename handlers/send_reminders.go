package handlers

import (
	"context"
	"fmt"
	"log"
	"time"

	"google.golang.org/api/iterator"

	"masterboxer.com/habit-builder/models"
)

// userInFilterLimit is Firestore's cap on values in one "in" filter.
const userInFilterLimit = 30

// BuildReminderMessage builds the "starting now" push for one due
// history row: the owner's token (preferring the fresh one from the
// user lookup) plus every linked guardian token. ok is false when
// nobody is reachable.
func BuildReminderMessage(h models.HistoryInstance, ownerToken string) (models.NotificationMessage, bool) {
	if ownerToken == "" {
		ownerToken = h.User.Token
	}

	var tokens []string
	if ownerToken != "" {
		tokens = append(tokens, ownerToken)
	}
	for _, g := range h.User.Connections {
		if g.Token != "" {
			tokens = append(tokens, g.Token)
		}
	}

	if len(tokens) == 0 {
		return models.NotificationMessage{}, false
	}

	return models.NotificationMessage{
		Title:  "It's time for habit!",
		Body:   h.Habit + " starting now...",
		Tokens: tokens,
	}, true
}

// BuildCompletionMessages builds the pushes for one completed history
// row. Guardians other than the completer get a completion notice; the
// completer is suppressed. The owner gets a "keep it up" notice only
// when someone else completed the instance, never for their own
// completion.
func BuildCompletionMessages(h models.HistoryInstance) []models.NotificationMessage {
	guardians := h.User.Connections
	if len(guardians) == 0 {
		return nil
	}

	completedByGuardian := false
	var guardianTokens []string
	for _, g := range guardians {
		if g.UID != "" && g.UID == h.CompletedBy {
			completedByGuardian = true
			continue
		}
		if g.Token != "" {
			guardianTokens = append(guardianTokens, g.Token)
		}
	}

	var msgs []models.NotificationMessage
	if len(guardianTokens) > 0 {
		msgs = append(msgs, models.NotificationMessage{
			Title:  "Hooray!",
			Body:   h.Habit + " habit has been completed.",
			Tokens: guardianTokens,
		})
	}

	if completedByGuardian && h.CompletedBy != h.User.UID && h.User.Token != "" {
		msgs = append(msgs, models.NotificationMessage{
			Title:  "Hooray!",
			Body:   h.Habit + " habit has been completed. Keep it up!",
			Tokens: []string{h.User.Token},
		})
	}

	return msgs
}

// SendReminders is the "send-reminders" action: push "starting now"
// reminders for history rows scheduled at this minute, then completion
// notices for rows completed in the trailing minute, and flush.
func SendReminders(ctx context.Context, run *JobRun) (string, error) {
	now := run.Today.Truncate(time.Minute)
	log.Printf("[HabitReminder] Job started | run=%s now=%s", run.RunID, now.Format(time.RFC3339))

	dueByUID := make(map[string]models.HistoryInstance)

	iter := run.Store.Collection("history").Where("startOn", "==", now).Documents(ctx)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			iter.Stop()
			return "", fmt.Errorf("history query failed: %w", err)
		}

		var h models.HistoryInstance
		if err := doc.DataTo(&h); err != nil {
			log.Printf("[HabitReminder] Skipping malformed history %s: %v", doc.Ref.ID, err)
			continue
		}
		h.ID = doc.Ref.ID

		if _, ok := ReminderOffset(h.Reminder); !ok {
			log.Printf("[HabitReminder] Skipping history %s with bad reminder %q", h.ID, h.Reminder)
			continue
		}
		if h.User.UID == "" {
			continue
		}
		dueByUID[h.User.UID] = h
	}
	iter.Stop()

	if len(dueByUID) == 0 {
		log.Printf("[HabitReminder] No matching history documents | run=%s", run.RunID)
	} else {
		uids := make([]string, 0, len(dueByUID))
		for uid := range dueByUID {
			uids = append(uids, uid)
		}
		tokens := lookupUserTokens(ctx, run, uids)

		for uid, h := range dueByUID {
			if msg, ok := BuildReminderMessage(h, tokens[uid]); ok {
				run.Messages.Stage(ctx, msg)
			}
		}
	}

	// Completion notices for the trailing minute. Rows whose owner is
	// themselves a guardian are excluded; guardians are notified about
	// their wards, not the other way around.
	lastMin := run.Today.Add(-time.Minute)
	completedIter := run.Store.Collection("history").
		Where("completedOn", ">", lastMin).
		Where("user.isGuardian", "==", false).
		Documents(ctx)
	defer completedIter.Stop()

	completed := 0
	for {
		doc, err := completedIter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return "", fmt.Errorf("completed history query failed: %w", err)
		}

		var h models.HistoryInstance
		if err := doc.DataTo(&h); err != nil {
			log.Printf("[HabitReminder] Skipping malformed history %s: %v", doc.Ref.ID, err)
			continue
		}
		h.ID = doc.Ref.ID
		completed++

		for _, msg := range BuildCompletionMessages(h) {
			run.Messages.Stage(ctx, msg)
		}
	}

	staged := run.Messages.Staged()
	success, failure := run.Messages.Finalize(ctx)

	result := fmt.Sprintf("%d messages were sent successfully", success)
	log.Printf("[HabitReminder] Job finished | run=%s due=%d completed=%d staged=%d success=%d failure=%d",
		run.RunID, len(dueByUID), completed, staged, success, failure)
	return result, nil
}

// lookupUserTokens fetches fresh device tokens for a set of owner ids,
// chunked to Firestore's "in" filter limit. Lookup failures fall back
// to the token embedded on the history row.
func lookupUserTokens(ctx context.Context, run *JobRun, uids []string) map[string]string {
	tokens := make(map[string]string)

	for start := 0; start < len(uids); start += userInFilterLimit {
		end := start + userInFilterLimit
		if end > len(uids) {
			end = len(uids)
		}

		iter := run.Store.Collection("user").Where("uid", "in", uids[start:end]).Documents(ctx)
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				log.Printf("[HabitReminder] User lookup failed: %v", err)
				break
			}

			var u models.User
			if err := doc.DataTo(&u); err != nil {
				log.Printf("[HabitReminder] Skipping malformed user %s: %v", doc.Ref.ID, err)
				continue
			}
			if u.UID != "" && u.Token != "" {
				tokens[u.UID] = u.Token
			}
		}
		iter.Stop()
	}

	return tokens
}
