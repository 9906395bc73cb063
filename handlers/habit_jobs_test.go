package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJobs(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/jobs/habit", strings.NewReader(body))
	rec := httptest.NewRecorder()
	HabitJobs(nil, nil)(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["error"]
}

func TestHabitJobs_MissingAction(t *testing.T) {
	rec := postJobs(t, `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No action", decodeError(t, rec))
}

func TestHabitJobs_EmptyBody(t *testing.T) {
	rec := postJobs(t, ``)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No action", decodeError(t, rec))
}

func TestHabitJobs_UnknownAction(t *testing.T) {
	rec := postJobs(t, `{"action":"habit-repeat-v2"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not valid", decodeError(t, rec))
}

func TestHabitJobs_InvalidToday(t *testing.T) {
	rec := postJobs(t, `{"action":"generate-occurrences","today":"not-a-date"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Invalid today", decodeError(t, rec))
}

func TestParseToday(t *testing.T) {
	d, err := parseToday("2026-08-28")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())

	d, err = parseToday("2026-08-28T07:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 7, d.Hour())

	_, err = parseToday("tomorrow")
	assert.Error(t, err)
}
