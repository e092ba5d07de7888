package model

import "time"

const (
	ModePomodoro   = "pomodoro"
	ModeShortBreak = "short_break"
	ModeLongBreak  = "long_break"
)

const (
	DefaultPomodoroSeconds   = 25 * 60
	DefaultShortBreakSeconds = 5 * 60
	DefaultLongBreakSeconds  = 15 * 60
)

// DefaultSubject labels study sessions logged without a subject.
const DefaultSubject = "General Study"

type TimerSettings struct {
	UserID            int64     `json:"userId"`
	Mode              string    `json:"mode"`
	Subject           string    `json:"subject"`
	PomodoroSeconds   int       `json:"pomodoroSeconds"`
	ShortBreakSeconds int       `json:"shortBreakSeconds"`
	LongBreakSeconds  int       `json:"longBreakSeconds"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func DefaultTimerSettings(userID int64) TimerSettings {
	return TimerSettings{
		UserID:            userID,
		Mode:              ModePomodoro,
		PomodoroSeconds:   DefaultPomodoroSeconds,
		ShortBreakSeconds: DefaultShortBreakSeconds,
		LongBreakSeconds:  DefaultLongBreakSeconds,
	}
}

// DurationFor returns the configured seconds for mode, falling back to the
// pomodoro duration for unknown modes.
func (s TimerSettings) DurationFor(mode string) int {
	switch mode {
	case ModeShortBreak:
		return s.ShortBreakSeconds
	case ModeLongBreak:
		return s.LongBreakSeconds
	default:
		return s.PomodoroSeconds
	}
}

func IsValidMode(mode string) bool {
	return mode == ModePomodoro || mode == ModeShortBreak || mode == ModeLongBreak
}
