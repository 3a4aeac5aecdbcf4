package service

import (
	"fmt"
	"strings"
	"time"

	"taskcal/modules/event/entity"
)

const (
	icsDateTimeLayout = "20060102T150405Z"
	icsDateLayout     = "20060102"
	icsLineLimit      = 75
)

// RenderICS renders events as a VCALENDAR document with CRLF line endings.
func RenderICS(events []entity.Event, stamp time.Time) []byte {
	var b strings.Builder
	writeLine(&b, "BEGIN:VCALENDAR")
	writeLine(&b, "VERSION:2.0")
	writeLine(&b, "PRODID:-//taskcal//calendar export//EN")
	writeLine(&b, "CALSCALE:GREGORIAN")

	for i := range events {
		writeEvent(&b, &events[i], stamp)
	}

	writeLine(&b, "END:VCALENDAR")
	return []byte(b.String())
}

func writeEvent(b *strings.Builder, event *entity.Event, stamp time.Time) {
	writeLine(b, "BEGIN:VEVENT")
	writeLine(b, "UID:"+event.ID.String()+"@taskcal")
	writeLine(b, "DTSTAMP:"+stamp.UTC().Format(icsDateTimeLayout))

	if event.AllDay {
		end := event.EndAt
		if !end.After(event.StartAt) {
			end = event.StartAt.AddDate(0, 0, 1)
		}
		writeLine(b, "DTSTART;VALUE=DATE:"+event.StartAt.Format(icsDateLayout))
		writeLine(b, "DTEND;VALUE=DATE:"+end.Format(icsDateLayout))
	} else {
		writeLine(b, "DTSTART:"+event.StartAt.UTC().Format(icsDateTimeLayout))
		writeLine(b, "DTEND:"+event.EndAt.UTC().Format(icsDateTimeLayout))
	}

	writeLine(b, "SUMMARY:"+escapeText(event.Title))
	if event.Location != "" {
		writeLine(b, "LOCATION:"+escapeText(event.Location))
	}
	if event.Description != "" {
		writeLine(b, "DESCRIPTION:"+escapeText(event.Description))
	}
	if !event.UpdatedAt.IsZero() {
		writeLine(b, "LAST-MODIFIED:"+event.UpdatedAt.UTC().Format(icsDateTimeLayout))
	}
	writeLine(b, "END:VEVENT")
}

func escapeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// writeLine folds content lines longer than 75 octets without splitting a
// UTF-8 sequence.
func writeLine(b *strings.Builder, line string) {
	limit := icsLineLimit
	for len(line) > limit {
		cut := limit
		for cut > 0 && !isRuneStart(line[cut]) {
			cut--
		}
		fmt.Fprintf(b, "%s\r\n ", line[:cut])
		line = line[cut:]
		// continuation lines carry a leading space
		limit = icsLineLimit - 1
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}

func isRuneStart(c byte) bool {
	return c&0xC0 != 0x80
}
