// Package timeparse turns the date strings found in fixtures, settings and admin
// input into instants in the tournament's time zone.
package timeparse

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var layouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2.1.2006 15:04",
	"02.01.2006 15:04",
	"2. 1. 2006 15:04",
	"2006-01-02",
	"2.1.2006",
	"02.01.2006",
	// excelize renders date cells with these when read as formatted text
	"1/2/06 15:04",
	"1/2/2006 15:04",
	"1/2/06",
	"2-Jan-06 15:04",
	"2-Jan-06",
	"Jan 2 2006 15:04",
}

// Parser reads absolute timestamps first and falls back to natural language
// ("tomorrow 5 pm") relative to a reference instant.
type Parser struct {
	loc *time.Location
	w   *when.Parser
}

// New returns a parser that interprets zone-less input in loc.
func New(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.UTC
	}
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Parser{loc: loc, w: w}
}

// Location is the zone used for input without an explicit offset.
func (p *Parser) Location() *time.Location {
	return p.loc
}

// Parse converts input to an instant. Blank input yields the zero time, which
// the scoring rules treat as "no kickoff" or "no deadline". Natural language is
// resolved against now and must make up the whole input.
func (p *Parser) Parse(input string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(input)
	if t, err := p.ParseAbsolute(s); err == nil || s == "" {
		return t, err
	}

	lower := strings.ToLower(s)
	r, err := p.w.Parse(lower, now.In(p.loc))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", input, err)
	}
	if r == nil || r.Index != 0 || len(r.Text) != len(lower) {
		return time.Time{}, fmt.Errorf("parse %q: unrecognized time format", input)
	}
	return r.Time.In(p.loc), nil
}

// ParseAbsolute accepts only the fixed layouts, so the result never depends on
// the current time.
func (p *Parser) ParseAbsolute(input string) (time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, p.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse %q: unrecognized time format", input)
}
