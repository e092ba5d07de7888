package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studysync/backend/internal/ai"
	"studysync/backend/internal/app"
	"studysync/backend/internal/config"
	"studysync/backend/internal/db"
	"studysync/backend/internal/feed"
	"studysync/backend/internal/mail"
	"studysync/backend/internal/service"
	"studysync/backend/internal/timer/timertest"
)

const testSecret = "test-secret"

type testEnv struct {
	engine  http.Handler
	clock   *timertest.ManualClock
	mailer  *mail.ConsoleMailer
	ai      *stubProvider
	feeds   *stubFeeds
	scanner *stubScanner
}

type stubProvider struct {
	text string
	err  error
}

func (p *stubProvider) Generate(context.Context, ai.Request) (*ai.Response, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &ai.Response{Text: p.text}, nil
}

func (p *stubProvider) Name() string {
	return "stub"
}

type stubFeeds struct {
	items []feed.Item
	url   string
	limit int
}

func (f *stubFeeds) Fetch(_ context.Context, url string, limit int) ([]feed.Item, error) {
	f.url, f.limit = url, limit
	if len(f.items) > limit {
		return f.items[:limit], nil
	}
	return f.items, nil
}

type stubScanner struct {
	text string
	err  error
}

func (s *stubScanner) Scan(context.Context, string) (string, error) {
	return s.text, s.err
}

type apiErrorEnvelope struct {
	Error struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

type timerView struct {
	TotalSeconds     int    `json:"totalSeconds"`
	RemainingSeconds int    `json:"remainingSeconds"`
	Running          bool   `json:"running"`
	State            string `json:"state"`
	Subject          string `json:"subject"`
	Mode             string `json:"mode"`
	Version          int    `json:"version"`
}

type timerEnvelope struct {
	Timer timerView `json:"timer"`
}

type record struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	Likes     int    `json:"likes"`
}

func TestNotesCRUD(t *testing.T) {
	env := setupTestEngine(t)

	status, body := requestJSON(t, env.engine, http.MethodPost, "/api/notes", "", map[string]interface{}{
		"title":   "Cells",
		"content": "Mitochondria",
		"tags":    []string{"biology"},
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	created := decode[record](t, body)
	assert.Equal(t, "Cells", created.Title)
	assert.EqualValues(t, 1, created.UserID)

	status, body = requestJSON(t, env.engine, http.MethodPut, path("/api/notes/%d", created.ID), "", map[string]string{
		"title": "Cell biology",
	})
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, "Cell biology", decode[record](t, body).Title)

	status, body = requestJSON(t, env.engine, http.MethodGet, "/api/notes", "", nil)
	require.Equal(t, http.StatusOK, status)
	notes := decode[[]record](t, body)
	require.Len(t, notes, 1)
	assert.Equal(t, "Cell biology", notes[0].Title)

	for i := 0; i < 2; i++ {
		status, body = requestJSON(t, env.engine, http.MethodDelete, path("/api/notes/%d", created.ID), "", nil)
		require.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `{"success":true}`, string(body))
	}

	status, body = requestJSON(t, env.engine, http.MethodPut, path("/api/notes/%d", created.ID), "", map[string]string{
		"title": "gone",
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "note_not_found", decode[apiErrorEnvelope](t, body).Error.Code)
}

func TestValidationErrors(t *testing.T) {
	env := setupTestEngine(t)

	status, body := requestJSON(t, env.engine, http.MethodPost, "/api/notes", "", map[string]string{})
	require.Equal(t, http.StatusBadRequest, status)
	envelope := decode[apiErrorEnvelope](t, body)
	assert.Equal(t, "validation_failed", envelope.Error.Code)
	details := decode[map[string]string](t, envelope.Error.Details)
	assert.Contains(t, details, "title")
	assert.Contains(t, details, "content")

	status, body = requestRaw(t, env.engine, http.MethodPost, "/api/notes", "application/json", strings.NewReader("{"))
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_json", decode[apiErrorEnvelope](t, body).Error.Code)

	status, body = requestJSON(t, env.engine, http.MethodPost, "/api/todos", "", map[string]string{
		"title":    "Essay",
		"priority": "urgent",
	})
	require.Equal(t, http.StatusBadRequest, status)
	details = decode[map[string]string](t, decode[apiErrorEnvelope](t, body).Error.Details)
	assert.Contains(t, details, "priority")

	status, body = requestJSON(t, env.engine, http.MethodPost, "/api/schedules", "", map[string]string{
		"title":     "Lecture",
		"type":      "class",
		"startTime": "2030-01-01T10:00:00Z",
		"endTime":   "2030-01-01T09:00:00Z",
	})
	require.Equal(t, http.StatusBadRequest, status)
	details = decode[map[string]string](t, decode[apiErrorEnvelope](t, body).Error.Details)
	assert.Contains(t, details, "endTime")

	status, body = requestJSON(t, env.engine, http.MethodPut, "/api/notes/abc", "", map[string]string{"title": "x"})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_id", decode[apiErrorEnvelope](t, body).Error.Code)
}

func TestOwnershipIsolation(t *testing.T) {
	env := setupTestEngine(t)
	other := createUser(t, env.engine, "second", "second@example.com")

	status, body := requestJSON(t, env.engine, http.MethodPost, "/api/todos", "", map[string]string{"title": "Read chapter 3"})
	require.Equal(t, http.StatusCreated, status, string(body))
	todo := decode[record](t, body)

	status, body = requestJSON(t, env.engine, http.MethodGet, "/api/todos", other, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]record](t, body))

	status, body = requestJSON(t, env.engine, http.MethodPut, path("/api/todos/%d", todo.ID), other, map[string]bool{"completed": true})
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "todo_not_found", decode[apiErrorEnvelope](t, body).Error.Code)

	status, _ = requestJSON(t, env.engine, http.MethodDelete, path("/api/todos/%d", todo.ID), other, nil)
	require.Equal(t, http.StatusOK, status)

	status, body = requestJSON(t, env.engine, http.MethodGet, "/api/todos", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]record](t, body), 1)

	status, body = requestJSON(t, env.engine, http.MethodGet, "/api/me", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unauthorized", decode[apiErrorEnvelope](t, body).Error.Code)
}

func TestTodoFilters(t *testing.T) {
	env := setupTestEngine(t)

	for _, title := range []string{"Open", "Done"} {
		status, body := requestJSON(t, env.engine, http.MethodPost, "/api/todos", "", map[string]interface{}{
			"title":     title,
			"completed": title == "Done",
			"priority":  "high",
		})
		require.Equal(t, http.StatusCreated, status, string(body))
	}

	status, body := requestJSON(t, env.engine, http.MethodGet, "/api/todos?completed=true", "", nil)
	require.Equal(t, http.StatusOK, status)
	todos := decode[[]record](t, body)
	require.Len(t, todos, 1)
	assert.Equal(t, "Done", todos[0].Title)

	status, body = requestJSON(t, env.engine, http.MethodGet, "/api/todos?priority=low", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]record](t, body))

	status, _ = requestJSON(t, env.engine, http.MethodGet, "/api/todos?completed=maybe", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestTimerSyncAndConflict(t *testing.T) {
	env := setupTestEngine(t)

	initial := getTimer(t, env.engine)
	require.Equal(t, 1, initial.Version)
	assert.Equal(t, "idle", initial.State)
	assert.Equal(t, 1500, initial.RemainingSeconds)

	status, body := requestJSON(t, env.engine, http.MethodPost, "/api/timer/start", "", map[string]int{"baseVersion": initial.Version})
	require.Equal(t, http.StatusOK, status, string(body))
	started := decode[timerEnvelope](t, body).Timer
	assert.True(t, started.Running)
	assert.Equal(t, 2, started.Version)

	status, body = requestJSON(t, env.engine, http.MethodPost, "/api/timer/pause", "", map[string]int{"baseVersion": initial.Version})
	require.Equal(t, http.StatusConflict, status)
	conflict := decode[apiErrorEnvelope](t, body)
	assert.Equal(t, "state_conflict", conflict.Error.Code)
	details := decode[timerEnvelope](t, conflict.Error.Details)
	assert.Equal(t, 2, details.Timer.Version)
	assert.True(t, details.Timer.Running)

	env.clock.Tick(3)
	status, body = requestJSON(t, env.engine, http.MethodPost, "/api/timer/pause", "", map[string]int{"baseVersion": details.Timer.Version})
	require.Equal(t, http.StatusOK, status)
	paused := decode[timerEnvelope](t, body).Timer
	assert.Equal(t, "paused", paused.State)
	assert.Equal(t, 1497, paused.RemainingSeconds)

	status, body = requestJSON(t, env.engine, http.MethodPost, "/api/timer/mode", "", map[string]string{"mode": "nap"})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_mode", decode[apiErrorEnvelope](t, body).Error.Code)

	status, body = requestJSON(t, env.engine, http.MethodPost, "/api/timer/mode", "", map[string]string{"mode": "short_break"})
	require.Equal(t, http.StatusOK, status)
	switched := decode[timerEnvelope](t, body).Timer
	assert.Equal(t, "short_break", switched.Mode)
	assert.Equal(t, "idle", switched.State)
	assert.Equal(t, 300, switched.RemainingSeconds)

	status, _ = requestJSON(t, env.engine, http.MethodPost, "/api/timer/reset", "", nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = requestJSON(t, env.engine, http.MethodPost, "/api/timer/start", "", nil)
	require.Equal(t, http.StatusOK, status)
	status, body = requestJSON(t, env.engine, http.MethodPost, "/api/timer/pause", "", nil)
	require.Equal(t, http.StatusOK, status)
	pausedEarly := decode[timerEnvelope](t, body).Timer
	assert.Equal(t, "paused", pausedEarly.State)
	assert.Equal(t, 300, pausedEarly.RemainingSeconds)
}

func TestTimerCompletionLogsSession(t *testing.T) {
	env := setupTestEngine(t)

	status, body := requestJSON(t, env.engine, http.MethodPut, "/api/timer/settings", "", map[string]int{
		"pomodoroSeconds":   60,
		"shortBreakSeconds": 30,
		"longBreakSeconds":  90,
	})
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, 60, decode[timerEnvelope](t, body).Timer.RemainingSeconds)

	status, _ = requestJSON(t, env.engine, http.MethodPut, "/api/timer/subject", "", map[string]string{"subject": "Math"})
	require.Equal(t, http.StatusOK, status)
	status, _ = requestJSON(t, env.engine, http.MethodPost, "/api/timer/start", "", nil)
	require.Equal(t, http.StatusOK, status)

	env.clock.Advance(2 * time.Minute)

	view := getTimer(t, env.engine)
	assert.Equal(t, "completed", view.State)
	assert.Equal(t, 0, view.RemainingSeconds)

	status, body = requestJSON(t, env.engine, http.MethodGet, "/api/study-sessions", "", nil)
	require.Equal(t, http.StatusOK, status)
	var sessions []struct {
		Duration int    `json:"duration"`
		Subject  string `json:"subject"`
		Type     string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(body, &sessions))
	require.Len(t, sessions, 1)
	assert.Equal(t, 1, sessions[0].Duration)
	assert.Equal(t, "Math", sessions[0].Subject)
	assert.Equal(t, "pomodoro", sessions[0].Type)
}

func TestStudySessionStats(t *testing.T) {
	env := setupTestEngine(t)

	for _, session := range []map[string]interface{}{
		{"duration": 25, "subject": "Physics"},
		{"duration": 50, "subject": "Physics"},
		{"duration": 10},
	} {
		status, body := requestJSON(t, env.engine, http.MethodPost, "/api/study-sessions", "", session)
		require.Equal(t, http.StatusCreated, status, string(body))
	}

	status, body := requestJSON(t, env.engine, http.MethodGet, "/api/study-sessions/stats", "", nil)
	require.Equal(t, http.StatusOK, status)
	var stats struct {
		TotalSessions int            `json:"totalSessions"`
		TotalMinutes  int            `json:"totalMinutes"`
		TodaySessions int            `json:"todaySessions"`
		BySubject     map[string]int `json:"bySubject"`
	}
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, 3, stats.TotalSessions)
	assert.Equal(t, 85, stats.TotalMinutes)
	assert.Equal(t, 3, stats.TodaySessions)
	assert.Equal(t, 75, stats.BySubject["Physics"])
	assert.Equal(t, 10, stats.BySubject["General Study"])

	status, _ = requestJSON(t, env.engine, http.MethodPost, "/api/study-sessions", "", map[string]int{"duration": 0})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestScheduleExportAndCalendar(t *testing.T) {
	env := setupTestEngine(t)

	status, body := requestJSON(t, env.engine, http.MethodPost, "/api/schedules", "", map[string]string{
		"title":     "Calculus",
		"type":      "class",
		"location":  "Room 101",
		"startTime": "2099-03-01T09:00:00Z",
		"endTime":   "2099-03-01T10:30:00Z",
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	created := decode[record](t, body)

	recorder := serve(env.engine, httptest.NewRequest(http.MethodGet, "/api/schedules/export.ics", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, strings.HasPrefix(recorder.Header().Get("Content-Type"), "text/calendar"))
	ics := recorder.Body.String()
	assert.Contains(t, ics, "BEGIN:VEVENT")
	assert.Contains(t, ics, "SUMMARY:Calculus")
	assert.Contains(t, ics, path("UID:schedule-%d@studysync", created.ID))

	status, body = requestJSON(t, env.engine, http.MethodGet, "/api/calendar-events", "", nil)
	require.Equal(t, http.StatusOK, status)
	events := decode[[]record](t, body)
	require.Len(t, events, 1)
	assert.Equal(t, "Calculus", events[0].Title)
}

func TestNewsFeedImportAndLike(t *testing.T) {
	env := setupTestEngine(t)
	env.feeds.items = []feed.Item{
		{Title: "Library hours", Content: "Open late during finals"},
		{Title: "Career fair", Content: "https://example.edu/fair", ImageURL: "https://example.edu/fair.png"},
	}
	other := createUser(t, env.engine, "reader", "reader@example.com")

	status, body := requestJSON(t, env.engine, http.MethodPost, "/api/news-feed/import", "", map[string]interface{}{
		"url": "https://example.edu/feed.xml",
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var imported struct {
		Imported int      `json:"imported"`
		Posts    []record `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(body, &imported))
	assert.Equal(t, 2, imported.Imported)
	assert.Equal(t, feed.DefaultLimit, env.feeds.limit)

	status, body = requestJSON(t, env.engine, http.MethodGet, "/api/news-feed", other, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]record](t, body), 2)

	postID := imported.Posts[0].ID
	status, body = requestJSON(t, env.engine, http.MethodPost, path("/api/news-feed/%d/like", postID), other, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, decode[record](t, body).Likes)

	status, body = requestJSON(t, env.engine, http.MethodPut, path("/api/news-feed/%d", postID), other, map[string]string{"title": "mine"})
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "news_feed_not_found", decode[apiErrorEnvelope](t, body).Error.Code)

	status, _ = requestJSON(t, env.engine, http.MethodPost, "/api/news-feed/999/like", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestGenerateQR(t *testing.T) {
	env := setupTestEngine(t)

	status, body := requestJSON(t, env.engine, http.MethodPost, "/api/generate-qr", "", map[string]interface{}{
		"type": "wifi",
		"wifi": map[string]string{"ssid": "campus", "password": "secret"},
	})
	require.Equal(t, http.StatusOK, status, string(body))
	var resp service.QRCode
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "WIFI:T:WPA;S:campus;P:secret;;", resp.Text)
	assert.True(t, strings.HasPrefix(resp.QRCode, "data:image/png;base64,"))

	status, body = requestJSON(t, env.engine, http.MethodPost, "/api/generate-qr", "", map[string]string{"text": ""})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_qr_payload", decode[apiErrorEnvelope](t, body).Error.Code)
}

func TestEmailTemplates(t *testing.T) {
	env := setupTestEngine(t)

	status, body := requestJSON(t, env.engine, http.MethodGet, "/api/email-templates", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, decode[[]mail.Template](t, body))

	status, body = requestJSON(t, env.engine, http.MethodPost, "/api/email-templates/2/render", "", map[string]interface{}{
		"fields": map[string]string{"ASSIGNMENT NAME": "Lab 4"},
	})
	require.Equal(t, http.StatusOK, status, string(body))
	rendered := decode[mail.Rendered](t, body)
	assert.Equal(t, "Request for Assignment Extension - Lab 4", rendered.Subject)
	assert.Contains(t, rendered.Body, "[YOUR NAME]")

	status, body = requestJSON(t, env.engine, http.MethodPost, "/api/email-templates/1/send", "", map[string]interface{}{
		"to":     "prof@example.edu",
		"fields": map[string]string{"NAME": "Smith"},
	})
	require.Equal(t, http.StatusAccepted, status, string(body))
	sent := env.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "prof@example.edu", sent[0].To.Email)
	assert.Contains(t, sent[0].Body, "Dear Professor Smith")

	status, body = requestJSON(t, env.engine, http.MethodPost, "/api/email-templates/nope/render", "", nil)
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "email_template_not_found", decode[apiErrorEnvelope](t, body).Error.Code)
}

func TestUploadListAndDownload(t *testing.T) {
	env := setupTestEngine(t)

	status, body := requestMultipart(t, env.engine, "/api/upload", "file", "notes.txt", []byte("hello world\n"), nil)
	require.Equal(t, http.StatusCreated, status, string(body))
	uploaded := decode[service.UploadedFile](t, body)
	assert.True(t, strings.HasSuffix(uploaded.Filename, ".txt"))
	assert.Equal(t, "notes.txt", uploaded.OriginalName)
	assert.EqualValues(t, 12, uploaded.Size)
	assert.True(t, strings.HasPrefix(uploaded.MIMEType, "text/plain"))

	status, body = requestJSON(t, env.engine, http.MethodGet, "/api/files", "", nil)
	require.Equal(t, http.StatusOK, status)
	files := decode[[]service.FileEntry](t, body)
	require.Len(t, files, 1)
	assert.Equal(t, uploaded.Filename, files[0].Name)

	recorder := serve(env.engine, httptest.NewRequest(http.MethodGet, "/api/download/"+uploaded.Filename, nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "hello world\n", recorder.Body.String())

	recorder = serve(env.engine, httptest.NewRequest(http.MethodGet, uploaded.URL, nil))
	assert.Equal(t, http.StatusOK, recorder.Code)

	status, _ = requestJSON(t, env.engine, http.MethodGet, "/api/download/missing.txt", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = requestMultipart(t, env.engine, "/api/convert-document", "file", "essay.md", []byte("# Essay"),
		map[string]string{"outputFormat": "exe"})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation_failed", decode[apiErrorEnvelope](t, body).Error.Code)

	status, body = requestMultipart(t, env.engine, "/api/convert-document", "file", "essay.md", []byte("# Essay"),
		map[string]string{"outputFormat": "html"})
	require.Equal(t, http.StatusOK, status, string(body))
	converted := decode[service.ConvertedFile](t, body)
	assert.True(t, strings.HasPrefix(converted.ConvertedFile, "converted_"))
	assert.True(t, strings.HasSuffix(converted.ConvertedFile, ".html"))
}

func TestScanDocument(t *testing.T) {
	env := setupTestEngine(t)
	env.scanner.text = "Chapter 1"

	status, body := requestMultipart(t, env.engine, "/api/scan-document", "image", "page.png", []byte("png"), nil)
	require.Equal(t, http.StatusOK, status, string(body))
	scanned := decode[service.ScannedDocument](t, body)
	assert.Equal(t, "scanned_page.png", scanned.Filename)
	assert.Equal(t, "Chapter 1", scanned.ExtractedText)

	env.scanner.err = errors.New("tesseract not installed")
	status, body = requestMultipart(t, env.engine, "/api/scan-document", "image", "page.png", []byte("png"), nil)
	require.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "ocr_failed", decode[apiErrorEnvelope](t, body).Error.Code)
}

func TestAssistantRoutes(t *testing.T) {
	env := setupTestEngine(t)
	env.ai.text = "Light becomes sugar."

	status, body := requestJSON(t, env.engine, http.MethodPost, "/api/chat", "", map[string]string{"message": "photosynthesis?"})
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"response":"Light becomes sugar."}`, string(body))

	status, body = requestJSON(t, env.engine, http.MethodPost, "/api/chat", "", map[string]string{})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation_failed", decode[apiErrorEnvelope](t, body).Error.Code)

	env.ai.err = ai.ErrNotConfigured
	status, body = requestJSON(t, env.engine, http.MethodPost, "/api/ai/explain", "", map[string]string{"concept": "entropy"})
	require.Equal(t, http.StatusOK, status)
	var explained struct {
		Explanation string `json:"explanation"`
	}
	require.NoError(t, json.Unmarshal(body, &explained))
	assert.NotEmpty(t, explained.Explanation)

	status, body = requestJSON(t, env.engine, http.MethodPost, "/api/ai/sentiment", "", map[string]string{"text": "great class"})
	require.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "ai_unavailable", decode[apiErrorEnvelope](t, body).Error.Code)
}

func TestMeReturnsDefaultUser(t *testing.T) {
	env := setupTestEngine(t)

	status, body := requestJSON(t, env.engine, http.MethodGet, "/api/me", "", nil)
	require.Equal(t, http.StatusOK, status)
	var user struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(body, &user))
	assert.EqualValues(t, 1, user.ID)
	assert.Equal(t, "student", user.Username)

	status, body = requestJSON(t, env.engine, http.MethodPost, "/api/users", "", map[string]string{
		"username": "student",
		"email":    "other@example.com",
	})
	require.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "user_exists", decode[apiErrorEnvelope](t, body).Error.Code)
}

func TestCORSPreflight(t *testing.T) {
	env := setupTestEngine(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/notes/1", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "DELETE")

	recorder := serve(env.engine, req)

	require.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "http://localhost:5173", recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, recorder.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	assert.Contains(t, recorder.Header().Get("Access-Control-Allow-Headers"), "Authorization")

	req = httptest.NewRequest(http.MethodOptions, "/api/notes/1", nil)
	req.Header.Set("Origin", "https://elsewhere.test")
	req.Header.Set("Access-Control-Request-Method", "DELETE")
	recorder = serve(env.engine, req)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/schedules/export.ics", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	recorder = serve(env.engine, req)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "http://localhost:5173", recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, recorder.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
	assert.Contains(t, recorder.Header().Get("Content-Disposition"), "studysync.ics")
}

func setupTestEngine(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Config{
		Env:           "test",
		DBDriver:      config.DriverSQLite3,
		DBPath:        filepath.Join(dir, "test.db"),
		CORSOrigins:   []string{"http://localhost:5173"},
		JWTSecret:     testSecret,
		TokenTTLHours: 24,
		DefaultUserID: 1,
		UploadsDir:    filepath.Join(dir, "uploads"),
		MaxUploadMB:   1,
		AITimeoutSecs: 5,
		MailFrom:      "noreply@studysync.test",
		MailFromName:  "StudySync",
	}

	database, err := db.Open(cfg.DBDriver, cfg.DSN())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = database.Close()
	})
	require.NoError(t, db.RunMigrations(context.Background(), database.DB, cfg.DBDriver))

	env := &testEnv{
		clock:   timertest.NewManualClock(),
		mailer:  mail.NewConsoleMailer(io.Discard, mail.Address{Email: cfg.MailFrom}),
		ai:      &stubProvider{},
		feeds:   &stubFeeds{},
		scanner: &stubScanner{},
	}

	application, err := app.New(cfg, database, app.Collaborators{
		AI:      env.ai,
		Mailer:  env.mailer,
		Feeds:   env.feeds,
		Scanner: env.scanner,
		Clock:   env.clock,
	})
	require.NoError(t, err)
	t.Cleanup(application.Close)

	env.engine = application.Engine
	return env
}

// createUser registers a user and returns a bearer token for it.
func createUser(t *testing.T, server http.Handler, username, email string) string {
	t.Helper()
	status, body := requestJSON(t, server, http.MethodPost, "/api/users", "", map[string]string{
		"username": username,
		"email":    email,
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	var user struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &user))

	token, apiErr := service.NewTokenService(testSecret, time.Hour).Issue(user.ID)
	require.Nil(t, apiErr)
	return token
}

func getTimer(t *testing.T, server http.Handler) timerView {
	t.Helper()
	status, body := requestJSON(t, server, http.MethodGet, "/api/timer", "", nil)
	require.Equal(t, http.StatusOK, status, string(body))
	return decode[timerEnvelope](t, body).Timer
}

func requestJSON(
	t *testing.T,
	server http.Handler,
	method, target, token string,
	body interface{},
) (int, []byte) {
	t.Helper()

	var payload []byte
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = raw
	}

	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := serve(server, req)
	return recorder.Code, recorder.Body.Bytes()
}

func requestRaw(t *testing.T, server http.Handler, method, target, contentType string, body io.Reader) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", contentType)
	recorder := serve(server, req)
	return recorder.Code, recorder.Body.Bytes()
}

func requestMultipart(
	t *testing.T,
	server http.Handler,
	target, field, filename string,
	content []byte,
	fields map[string]string,
) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	return requestRaw(t, server, http.MethodPost, target, writer.FormDataContentType(), &buf)
}

func serve(server http.Handler, req *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)
	return recorder
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var value T
	require.NoError(t, json.Unmarshal(raw, &value), string(raw))
	return value
}

func path(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}
