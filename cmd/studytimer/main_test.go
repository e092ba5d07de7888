package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionClientRecord(t *testing.T) {
	var got sessionRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/study-sessions", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := newSessionClient(srv.URL+"/", "abc")
	err := client.Record(context.Background(), sessionRequest{Duration: 25, Subject: "Math", Type: "pomodoro"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer abc", auth)
	assert.Equal(t, sessionRequest{Duration: 25, Subject: "Math", Type: "pomodoro"}, got)
}

func TestSessionClientReportsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	err := newSessionClient(srv.URL, "").Record(context.Background(), sessionRequest{Duration: 1, Type: "pomodoro"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestHandleCommands(t *testing.T) {
	var out bytes.Buffer
	s := newSession(&out, newSessionClient("http://127.0.0.1:0", ""))
	defer s.close()

	assert.True(t, s.handle("mode short_break"))
	assert.Equal(t, 300, s.timer.Snapshot().RemainingSeconds)

	assert.True(t, s.handle("subject Biology"))
	assert.Equal(t, "Biology", s.timer.Snapshot().Subject)

	assert.True(t, s.handle("mode nap"))
	assert.Contains(t, out.String(), "unknown mode nap")

	assert.False(t, s.handle("quit"))
}
