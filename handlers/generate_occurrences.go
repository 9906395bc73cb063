package handlers

import (
	"context"
	"fmt"
	"log"
	"time"

	"google.golang.org/api/iterator"

	"masterboxer.com/habit-builder/models"
	"masterboxer.com/habit-builder/services"
)

// habitActive is the authoritative end-condition check; the store
// query is only a pre-filter.
func habitActive(h models.Habit, today time.Time) bool {
	if h.EndOn == "never" {
		return true
	}
	if h.EndDate == nil {
		return true
	}
	return !DateOnly(*h.EndDate).Before(DateOnly(today))
}

// CollectHistoryWrites expands every active habit scheduled today into
// history drafts and returns, per habit that generated, the instant of
// its last draft — the habit's next latestDate. Habits are processed
// in input order; drafts keep the generator's increasing slot order.
func CollectHistoryWrites(habits []models.Habit, today time.Time) ([]models.HistoryInstance, map[string]time.Time) {
	var drafts []models.HistoryInstance
	latest := make(map[string]time.Time)

	for _, h := range habits {
		if !habitActive(h, today) {
			continue
		}

		slots := ExpandOccurrences(h, today)
		if len(slots) == 0 {
			continue
		}

		for _, slot := range slots {
			drafts = append(drafts, models.HistoryInstance{
				HabitID:  h.ID,
				Habit:    h.Name,
				StartOn:  slot,
				Reminder: h.Reminder,
				User:     h.User,
			})
		}

		// One update per habit, carrying only the run's last slot.
		latest[h.ID] = slots[len(slots)-1]
	}

	return drafts, latest
}

// GenerateOccurrences is the "generate-occurrences" action: query
// habits still in range, expand today's occurrences, stage one history
// write per occurrence and one latestDate update per habit that
// generated, then commit everything.
func GenerateOccurrences(ctx context.Context, run *JobRun) (string, error) {
	log.Printf("[HabitRepeat] Job started | run=%s today=%s", run.RunID, run.Today.Format(time.RFC3339))

	iter := run.Store.Collection("habit").Where("endDate", ">=", run.Today).Documents(ctx)
	defer iter.Stop()

	var habits []models.Habit
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return "", fmt.Errorf("habit query failed: %w", err)
		}

		var h models.Habit
		if err := doc.DataTo(&h); err != nil {
			log.Printf("[HabitRepeat] Skipping malformed habit %s: %v", doc.Ref.ID, err)
			continue
		}
		h.ID = doc.Ref.ID
		habits = append(habits, h)
	}

	if len(habits) == 0 {
		log.Printf("[HabitRepeat] No matching habit documents | run=%s", run.RunID)
		return "no matching habit documents", nil
	}

	drafts, latest := CollectHistoryWrites(habits, run.Today)

	for _, draft := range drafts {
		run.Writes.Stage(ctx, services.StagedWrite{Collection: "history", Data: draft})
	}
	for habitID, latestDate := range latest {
		run.Writes.Stage(ctx, services.StagedWrite{
			Collection: "habit",
			DocID:      habitID,
			Data:       map[string]interface{}{"latestDate": latestDate},
			Merge:      true,
		})
	}

	staged := run.Writes.Staged()
	committed, err := run.Writes.Finalize(ctx)
	if err != nil {
		return "", fmt.Errorf("committed %d of %d writes: %w", committed, staged, err)
	}

	result := fmt.Sprintf("committed %d writes (%d history, %d habit updates)",
		committed, len(drafts), len(latest))
	log.Printf("[HabitRepeat] Job finished | run=%s habits=%d %s", run.RunID, len(habits), result)
	return result, nil
}
