package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"studysync/backend/internal/model"
)

func TestExportICS(t *testing.T) {
	room := "Room 101"
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	schedules := []model.Schedule{
		{ID: 7, Title: "Calculus lecture", StartTime: start, EndTime: start.Add(time.Hour), Location: &room, Type: model.ScheduleClass, CreatedAt: start},
		{ID: 8, Title: "Chemistry exam", StartTime: start.Add(48 * time.Hour), EndTime: start.Add(50 * time.Hour), Type: model.ScheduleExam, CreatedAt: start},
	}

	out := ExportICS(schedules, start)

	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"))
	assert.Contains(t, out, "METHOD:PUBLISH")
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "UID:schedule-7@studysync")
	assert.Contains(t, out, "SUMMARY:Calculus lecture")
	assert.Contains(t, out, "LOCATION:Room 101")
	assert.Contains(t, out, "DTSTART:20250310T090000Z")
	assert.Contains(t, out, "DTEND:20250310T100000Z")
	assert.Contains(t, out, "CATEGORIES:exam")
}

func TestEvents(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	events := Events([]model.Schedule{{ID: 1, Title: "Study group", StartTime: start, EndTime: start.Add(time.Hour), Type: model.ScheduleStudy}})

	assert.Equal(t, []Event{{ID: 1, Title: "Study group", Start: start, End: start.Add(time.Hour), Type: model.ScheduleStudy}}, events)
}
