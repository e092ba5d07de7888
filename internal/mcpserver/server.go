// Package mcpserver exposes todos, notes and study sessions of the default
// user as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	apperrors "studysync/backend/internal/errors"
	"studysync/backend/internal/model"
	"studysync/backend/internal/repository"
	"studysync/backend/internal/service"
)

const (
	serverName    = "studysync"
	serverVersion = "1.0.0"
)

type Services struct {
	Todos    *service.TodoService
	Notes    *service.NoteService
	Sessions *service.StudySessionService
}

type Server struct {
	mcpServer *server.MCPServer
	services  Services
	userID    int64
}

// New builds a server whose tools act on userID.
func New(services Services, userID int64) *Server {
	s := &Server{services: services, userID: userID}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)

	s.registerTools()
	return s
}

func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("list_todos",
			mcp.WithDescription("List todos, optionally only open or only completed ones"),
			mcp.WithString("status", mcp.Description("Filter: open, completed, or empty for all")),
		),
		s.handleListTodos,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("add_todo",
			mcp.WithDescription("Add a todo with a title, optional description and priority"),
			mcp.WithString("title", mcp.Required(), mcp.Description("Todo title")),
			mcp.WithString("description", mcp.Description("Optional description")),
			mcp.WithString("priority", mcp.Description("Priority: low, medium, high (default: medium)")),
		),
		s.handleAddTodo,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("complete_todo",
			mcp.WithDescription("Mark a todo as completed"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Todo ID")),
		),
		s.handleCompleteTodo,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("delete_todo",
			mcp.WithDescription("Delete a todo permanently"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Todo ID")),
		),
		s.handleDeleteTodo,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_notes",
			mcp.WithDescription("List notes, most recently updated first"),
		),
		s.handleListNotes,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("add_note",
			mcp.WithDescription("Add a note with a title, content and optional comma separated tags"),
			mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
			mcp.WithString("content", mcp.Required(), mcp.Description("Note content")),
			mcp.WithString("tags", mcp.Description("Comma separated tags")),
		),
		s.handleAddNote,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("log_study_session",
			mcp.WithDescription("Record a finished study session"),
			mcp.WithNumber("duration", mcp.Required(), mcp.Description("Duration in minutes")),
			mcp.WithString("subject", mcp.Description("Subject studied")),
			mcp.WithString("type", mcp.Description("Session type: pomodoro, short_break, long_break (default: pomodoro)")),
		),
		s.handleLogStudySession,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_study_sessions",
			mcp.WithDescription("List study sessions, newest first, with totals"),
		),
		s.handleListStudySessions,
	)
}

func (s *Server) handleListTodos(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var filter repository.TodoFilter
	switch status := req.GetString("status", ""); status {
	case "":
	case "open":
		completed := false
		filter.Completed = &completed
	case "completed":
		completed := true
		filter.Completed = &completed
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown status %q (use open or completed)", status)), nil
	}

	todos, apiErr := s.services.Todos.List(ctx, s.userID, filter)
	if apiErr != nil {
		return toolError("list todos", apiErr), nil
	}
	if len(todos) == 0 {
		return mcp.NewToolResultText("No todos found."), nil
	}
	return jsonResult(todos), nil
}

func (s *Server) handleAddTodo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := strings.TrimSpace(req.GetString("title", ""))
	if title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}
	priority := req.GetString("priority", model.PriorityMedium)
	if !model.IsValidPriority(priority) {
		return mcp.NewToolResultError("priority must be one of low, medium, high"), nil
	}

	input := service.CreateTodoInput{Title: title, Priority: priority}
	if description := req.GetString("description", ""); description != "" {
		input.Description = &description
	}

	todo, apiErr := s.services.Todos.Create(ctx, s.userID, input)
	if apiErr != nil {
		return toolError("add todo", apiErr), nil
	}
	return jsonResult(todo), nil
}

func (s *Server) handleCompleteTodo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := toolID(req)
	if !ok {
		return mcp.NewToolResultError("id is required and must be a positive number"), nil
	}

	completed := true
	if _, apiErr := s.services.Todos.Update(ctx, s.userID, id, service.UpdateTodoInput{Completed: &completed}); apiErr != nil {
		return toolError("complete todo", apiErr), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Todo %d marked as completed.", id)), nil
}

func (s *Server) handleDeleteTodo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := toolID(req)
	if !ok {
		return mcp.NewToolResultError("id is required and must be a positive number"), nil
	}

	if apiErr := s.services.Todos.Delete(ctx, s.userID, id); apiErr != nil {
		return toolError("delete todo", apiErr), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Todo %d deleted.", id)), nil
}

func (s *Server) handleListNotes(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notes, apiErr := s.services.Notes.List(ctx, s.userID)
	if apiErr != nil {
		return toolError("list notes", apiErr), nil
	}
	if len(notes) == 0 {
		return mcp.NewToolResultText("No notes found."), nil
	}
	return jsonResult(notes), nil
}

func (s *Server) handleAddNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := strings.TrimSpace(req.GetString("title", ""))
	content := req.GetString("content", "")
	if title == "" || content == "" {
		return mcp.NewToolResultError("title and content are required"), nil
	}

	var tags []string
	for _, tag := range strings.Split(req.GetString("tags", ""), ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	note, apiErr := s.services.Notes.Create(ctx, s.userID, service.CreateNoteInput{
		Title:   title,
		Content: content,
		Tags:    tags,
	})
	if apiErr != nil {
		return toolError("add note", apiErr), nil
	}
	return jsonResult(note), nil
}

func (s *Server) handleLogStudySession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	duration := int(req.GetFloat("duration", 0))
	if duration <= 0 {
		return mcp.NewToolResultError("duration must be a positive number of minutes"), nil
	}
	sessionType := req.GetString("type", model.ModePomodoro)
	if !model.IsValidMode(sessionType) {
		return mcp.NewToolResultError("type must be one of pomodoro, short_break, long_break"), nil
	}

	input := service.CreateStudySessionInput{Duration: duration, Type: sessionType}
	if subject := strings.TrimSpace(req.GetString("subject", "")); subject != "" {
		input.Subject = &subject
	}

	session, apiErr := s.services.Sessions.Create(ctx, s.userID, input)
	if apiErr != nil {
		return toolError("log study session", apiErr), nil
	}
	return jsonResult(session), nil
}

func (s *Server) handleListStudySessions(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, apiErr := s.services.Sessions.List(ctx, s.userID)
	if apiErr != nil {
		return toolError("list study sessions", apiErr), nil
	}
	stats, apiErr := s.services.Sessions.Stats(ctx, s.userID)
	if apiErr != nil {
		return toolError("list study sessions", apiErr), nil
	}
	return jsonResult(map[string]interface{}{
		"sessions": sessions,
		"stats":    stats,
	}), nil
}

func toolID(req mcp.CallToolRequest) (int64, bool) {
	id := req.GetFloat("id", -1)
	if id <= 0 {
		return 0, false
	}
	return int64(id), true
}

func toolError(action string, apiErr *apperrors.APIError) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("failed to %s: %s", action, apiErr.Message))
}

func jsonResult(value interface{}) *mcp.CallToolResult {
	output, _ := json.MarshalIndent(value, "", "  ")
	return mcp.NewToolResultText(string(output))
}
