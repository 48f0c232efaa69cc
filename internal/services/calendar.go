package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dotlib/dotlib-api/internal/models"
	"github.com/google/uuid"
)

// CalendarService renders a user's accessible list as an iCalendar feed so
// items show up in external calendar apps.
type CalendarService struct {
	items *ItemService
}

func NewCalendarService(items *ItemService) *CalendarService {
	return &CalendarService{items: items}
}

// RenderListCalendar returns the list's items as a text/calendar document.
// Authorization is the same as reading the items.
func (s *CalendarService) RenderListCalendar(ctx context.Context, actorID, listID uuid.UUID) (string, error) {
	items, err := s.items.GetByList(ctx, actorID, listID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//dotlib//dotlib-api//EN\r\n")
	for _, item := range items {
		writeEvent(&b, &item)
	}
	b.WriteString("END:VCALENDAR\r\n")
	return b.String(), nil
}

// writeEvent emits one VEVENT. Items without dates fall back to their
// creation day so every item appears on the calendar.
func writeEvent(b *strings.Builder, item *models.Item) {
	start := item.CreatedAt
	if item.StartDate != nil {
		start = *item.StartDate
	}
	end := start.Add(24 * time.Hour)
	if item.DueDate != nil {
		end = *item.DueDate
	}

	summary := item.Text
	description := ""
	if idx := strings.IndexByte(item.Text, '\n'); idx >= 0 {
		summary = item.Text[:idx]
		description = strings.TrimSpace(item.Text[idx+1:])
	}

	b.WriteString("BEGIN:VEVENT\r\n")
	fmt.Fprintf(b, "UID:%s@dotlib\r\n", item.ID)
	fmt.Fprintf(b, "DTSTAMP:%s\r\n", icsTime(item.UpdatedAt))
	fmt.Fprintf(b, "DTSTART:%s\r\n", icsTime(start))
	fmt.Fprintf(b, "DTEND:%s\r\n", icsTime(end))
	fmt.Fprintf(b, "SUMMARY:%s\r\n", icsEscape(summary))
	if description != "" {
		fmt.Fprintf(b, "DESCRIPTION:%s\r\n", icsEscape(description))
	}
	fmt.Fprintf(b, "STATUS:%s\r\n", icsStatus(item.State))
	b.WriteString("END:VEVENT\r\n")
}

func icsTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func icsStatus(state models.ItemState) string {
	if state == models.ItemStateGreen {
		return "COMPLETED"
	}
	return "NEEDS-ACTION"
}

func icsEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ";", `\;`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}
