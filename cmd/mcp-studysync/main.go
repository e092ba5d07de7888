// Command mcp-studysync serves the default user's todos, notes and study
// sessions as MCP tools over stdio.
//
// Usage:
//
//	./mcp-studysync          # Start MCP server (stdio)
//	./mcp-studysync --help   # Show help
//
// It reads the same configuration as the HTTP server (DB_DRIVER, DB_PATH,
// DATABASE_URL, DEFAULT_USER_ID).
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"studysync/backend/internal/config"
	"studysync/backend/internal/db"
	"studysync/backend/internal/logging"
	"studysync/backend/internal/mcpserver"
	"studysync/backend/internal/repository"
	"studysync/backend/internal/service"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--help", "-h":
			printHelp()
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	database, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.RunMigrations(context.Background(), database.DB, cfg.DBDriver); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to run migrations: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the protocol, so logs go to stderr.
	logger := logging.NewStdLogger(log.New(os.Stderr, "mcp-studysync ", log.LstdFlags))
	s := mcpserver.New(mcpserver.Services{
		Todos:    service.NewTodoService(repository.NewTodoRepository(database), logger),
		Notes:    service.NewNoteService(repository.NewNoteRepository(database), logger),
		Sessions: service.NewStudySessionService(repository.NewStudySessionRepository(database), logger),
	}, cfg.DefaultUserID)

	if err := server.ServeStdio(s.MCPServer()); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`MCP StudySync Server - todos, notes and study sessions via MCP

USAGE:
    mcp-studysync          Start MCP server (communicates via stdio)
    mcp-studysync --help   Show this help

ENVIRONMENT:
    DB_DRIVER        sqlite3 (default), sqlite or postgres
    DB_PATH          SQLite database file (default: ./data/studysync.db)
    DATABASE_URL     Postgres connection string
    DEFAULT_USER_ID  User the tools act on (default: 1)

TOOLS:
    list_todos           List todos (optional status: open, completed)
    add_todo             Add a todo (title, description, priority)
    complete_todo        Mark a todo as completed
    delete_todo          Delete a todo
    list_notes           List notes
    add_note             Add a note (title, content, tags)
    log_study_session    Record a study session (duration, subject, type)
    list_study_sessions  List study sessions with totals`)
}
