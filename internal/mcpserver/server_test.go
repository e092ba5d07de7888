package mcpserver

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studysync/backend/internal/config"
	"studysync/backend/internal/db"
	"studysync/backend/internal/logging"
	"studysync/backend/internal/repository"
	"studysync/backend/internal/service"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	database, err := db.Open(config.DriverSQLite3, filepath.Join(t.TempDir(), "mcp.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = database.Close()
	})
	require.NoError(t, db.RunMigrations(context.Background(), database.DB, config.DriverSQLite3))

	logger := logging.NewStdLogger(nil)
	return New(Services{
		Todos:    service.NewTodoService(repository.NewTodoRepository(database), logger),
		Notes:    service.NewNoteService(repository.NewNoteRepository(database), logger),
		Sessions: service.NewStudySessionService(repository.NewStudySessionRepository(database), logger),
	}, 1)
}

func call(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestTodoTools(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	result, err := s.handleAddTodo(ctx, call(map[string]interface{}{"title": "Revise notes", "priority": "high"}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), `"title": "Revise notes"`)

	result, err = s.handleCompleteTodo(ctx, call(map[string]interface{}{"id": float64(1)}))
	require.NoError(t, err)
	assert.Equal(t, "Todo 1 marked as completed.", resultText(t, result))

	result, err = s.handleListTodos(ctx, call(map[string]interface{}{"status": "open"}))
	require.NoError(t, err)
	assert.Equal(t, "No todos found.", resultText(t, result))

	result, err = s.handleListTodos(ctx, call(map[string]interface{}{"status": "completed"}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), `"completed": true`)

	result, err = s.handleCompleteTodo(ctx, call(map[string]interface{}{"id": float64(42)}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = s.handleDeleteTodo(ctx, call(map[string]interface{}{"id": float64(1)}))
	require.NoError(t, err)
	assert.Equal(t, "Todo 1 deleted.", resultText(t, result))
}

func TestNoteAndSessionTools(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	result, err := s.handleAddNote(ctx, call(map[string]interface{}{
		"title":   "Krebs cycle",
		"content": "Eight steps",
		"tags":    "biology, exam ,",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	result, err = s.handleListNotes(ctx, call(nil))
	require.NoError(t, err)
	text := resultText(t, result)
	assert.Contains(t, text, "Krebs cycle")
	assert.Contains(t, text, `"exam"`)

	result, err = s.handleLogStudySession(ctx, call(map[string]interface{}{"duration": float64(0)}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = s.handleLogStudySession(ctx, call(map[string]interface{}{"duration": float64(25), "subject": "Biology"}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	result, err = s.handleListStudySessions(ctx, call(nil))
	require.NoError(t, err)
	text = resultText(t, result)
	assert.Contains(t, text, `"totalMinutes": 25`)
	assert.Contains(t, text, `"Biology": 25`)
}
