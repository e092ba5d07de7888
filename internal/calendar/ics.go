// Package calendar exports schedules as iCalendar data.
package calendar

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"studysync/backend/internal/model"
)

const productID = "-//StudySync//Schedule Export//EN"

// Event is the calendar view of a schedule.
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Location    *string   `json:"location,omitempty"`
	Type        string    `json:"type"`
}

func Events(schedules []model.Schedule) []Event {
	events := make([]Event, 0, len(schedules))
	for _, s := range schedules {
		events = append(events, Event{
			ID:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			Start:       s.StartTime,
			End:         s.EndTime,
			Location:    s.Location,
			Type:        s.Type,
		})
	}
	return events
}

// ExportICS serializes schedules into a VCALENDAR with one VEVENT each.
// stamp is written as DTSTAMP on every event.
func ExportICS(schedules []model.Schedule, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	for _, s := range schedules {
		event := cal.AddEvent(fmt.Sprintf("schedule-%d@studysync", s.ID))
		event.SetDtStampTime(stamp.UTC())
		event.SetCreatedTime(s.CreatedAt.UTC())
		event.SetStartAt(s.StartTime.UTC())
		event.SetEndAt(s.EndTime.UTC())
		event.SetSummary(s.Title)
		if s.Description != nil {
			event.SetDescription(*s.Description)
		}
		if s.Location != nil {
			event.SetLocation(*s.Location)
		}
		event.AddProperty(ics.ComponentPropertyCategories, s.Type)
	}
	return cal.Serialize()
}
