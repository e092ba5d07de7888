// Command studytimer is a terminal countdown that logs finished sessions to
// the StudySync API.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"

	"studysync/backend/internal/model"
	"studysync/backend/internal/timer"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

const helpText = `commands:
  start                                   start or resume
  pause                                   pause
  reset                                   back to the full duration
  mode <pomodoro|short_break|long_break>  switch mode
  subject <text>                          label the next session
  status                                  show the countdown
  quit                                    exit`

type session struct {
	mu      sync.Mutex
	out     io.Writer
	client  *sessionClient
	mode    string
	modes   map[string]int
	timer   *timer.Timer
	records sync.WaitGroup
}

func main() {
	apiURL := flag.String("api", "http://localhost:8080", "StudySync API base url")
	token := flag.String("token", os.Getenv("STUDYSYNC_TOKEN"), "bearer token (optional)")
	flag.Parse()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "studytimer> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start prompt: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	s := newSession(rl.Stdout(), newSessionClient(*apiURL, *token))
	defer s.close()

	fmt.Fprintln(rl.Stdout(), headerStyle.Render("StudySync timer"))
	fmt.Fprintln(rl.Stdout(), dimStyle.Render(helpText))

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			return
		}
		if err != nil {
			fmt.Fprintln(rl.Stdout(), errorStyle.Render(err.Error()))
			return
		}
		if !s.handle(strings.TrimSpace(line)) {
			return
		}
	}
}

func newSession(out io.Writer, client *sessionClient) *session {
	s := &session{
		out:    out,
		client: client,
		mode:   model.ModePomodoro,
		modes: map[string]int{
			model.ModePomodoro:   model.DefaultPomodoroSeconds,
			model.ModeShortBreak: model.DefaultShortBreakSeconds,
			model.ModeLongBreak:  model.DefaultLongBreakSeconds,
		},
	}
	s.timer = timer.New(s.modes[s.mode], timer.WithOnComplete(s.completed))
	return s
}

// handle runs one command and reports whether the prompt should continue.
func (s *session) handle(line string) bool {
	command, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(command) {
	case "":
	case "start":
		s.timer.Start()
		s.printStatus()
	case "pause":
		s.timer.Pause()
		s.printStatus()
	case "reset":
		s.timer.Reset()
		s.printStatus()
	case "mode":
		total, ok := s.modes[arg]
		if !ok {
			s.println(errorStyle.Render("unknown mode " + arg))
			return true
		}
		s.mu.Lock()
		s.mode = arg
		s.mu.Unlock()
		s.timer.SetTotal(total)
		s.printStatus()
	case "subject":
		s.timer.SetSubject(arg)
		s.printStatus()
	case "status":
		s.printStatus()
	case "help":
		s.println(dimStyle.Render(helpText))
	case "quit", "exit":
		return false
	default:
		s.println(errorStyle.Render("unknown command " + command))
	}
	return true
}

func (s *session) completed(done timer.Completion) {
	s.mu.Lock()
	mode := s.mode
	s.mu.Unlock()

	s.println(successStyle.Render(fmt.Sprintf("%s finished (%d min)", mode, done.DurationMinutes)))

	s.records.Add(1)
	go func() {
		defer s.records.Done()
		err := s.client.Record(context.Background(), sessionRequest{
			Duration: done.DurationMinutes,
			Subject:  done.Subject,
			Type:     mode,
		})
		if err != nil {
			s.println(errorStyle.Render("could not log session: " + err.Error()))
			return
		}
		s.println(dimStyle.Render("session logged"))
	}()
}

func (s *session) printStatus() {
	snap := s.timer.Snapshot()
	s.mu.Lock()
	mode := s.mode
	s.mu.Unlock()

	line := fmt.Sprintf("%-11s %02d:%02d  %s", mode, snap.RemainingSeconds/60, snap.RemainingSeconds%60, snap.State)
	if snap.Subject != "" {
		line += "  [" + snap.Subject + "]"
	}
	s.println(statusStyle.Render(line))
}

func (s *session) println(text string) {
	fmt.Fprintln(s.out, text)
}

func (s *session) close() {
	s.timer.Close()
	s.records.Wait()
}
