// Package plan rebuilds day and meal blocks from generated plan text.
package plan

import (
	"strings"
)

// Day is one day block. Meal fields accumulate one "\n"-terminated line per entry.
type Day struct {
	Title     string `json:"title"`
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
	Snacks    string `json:"snacks"`
	Notes     string `json:"notes"`
	Other     string `json:"other"`
}

type meal int

const (
	mealNone meal = iota
	mealBreakfast
	mealLunch
	mealDinner
	mealSnacks
	mealNotes
)

// Checked in order; the first keyword hit wins, so "evening snack" is a snack.
var mealKeywords = []struct {
	meal     meal
	keywords []string
}{
	{mealSnacks, []string{"snack", "mid-meal"}},
	{mealBreakfast, []string{"breakfast", "morning"}},
	{mealLunch, []string{"lunch", "afternoon", "mid-day"}},
	{mealDinner, []string{"dinner", "evening", "night"}},
	{mealNotes, []string{"note", "tip", "important", "remember", "hydration"}},
}

// Parse scans plan text line by line. Any line containing "day" opens a new
// block titled with that line. A meal keyword line selects the meal and
// contributes whatever follows its first colon. Other lines go to the
// selected meal, or to Other when none is selected. Lines before the first
// day header are ignored. Parse never fails; no header yields an empty slice.
func Parse(text string) []Day {
	days := []Day{}
	var cur *Day
	selected := mealNone

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isSeparator(trimmed) {
			continue
		}
		lower := strings.ToLower(trimmed)

		if strings.Contains(lower, "day") {
			if cur != nil {
				days = append(days, *cur)
			}
			cur = &Day{Title: line}
			selected = mealNone
			continue
		}
		if cur == nil {
			continue
		}

		if m, ok := matchMeal(lower); ok {
			selected = m
			if i := strings.Index(trimmed, ":"); i >= 0 {
				if rest := stripEmphasis(trimmed[i+1:]); rest != "" {
					cur.appendTo(selected, rest)
				}
			}
			continue
		}
		cur.appendTo(selected, stripEmphasis(trimmed))
	}
	if cur != nil {
		days = append(days, *cur)
	}
	return days
}

func matchMeal(lower string) (meal, bool) {
	for _, mk := range mealKeywords {
		for _, kw := range mk.keywords {
			if strings.Contains(lower, kw) {
				return mk.meal, true
			}
		}
	}
	return mealNone, false
}

func (d *Day) appendTo(m meal, line string) {
	if line == "" {
		return
	}
	line += "\n"
	switch m {
	case mealBreakfast:
		d.Breakfast += line
	case mealLunch:
		d.Lunch += line
	case mealDinner:
		d.Dinner += line
	case mealSnacks:
		d.Snacks += line
	case mealNotes:
		d.Notes += line
	default:
		d.Other += line
	}
}

var emphasis = strings.NewReplacer("**", "", "__", "", "*", "")

func stripEmphasis(s string) string {
	return strings.TrimSpace(emphasis.Replace(s))
}

// isSeparator reports lines like "---", "***" or "___".
func isSeparator(s string) bool {
	if len(s) < 3 {
		return false
	}
	for _, r := range s {
		if r != '-' && r != '*' && r != '_' {
			return false
		}
	}
	return true
}
