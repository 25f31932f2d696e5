// Package program turns raw shop product names into canonical program
// identities. The inventory plugin appends availability decorations to
// product names ("3 SPOTS LEFT", "60% FULL", "FULL") which must never leak
// into program names; every call site that maps a product name to a program
// name goes through Normalize so the mapping cannot drift.
package program

import (
	"regexp"
	"strings"
)

var (
	spotsLeftRe   = regexp.MustCompile(`(?i)\s*-?\s*\d+\s*SPOTS?\s*LEFT`)
	percentFullRe = regexp.MustCompile(`(?i)\s*-?\s*\d+%?\s*FULL`)
	trailingFull  = regexp.MustCompile(`(?i)\s*-?\s*FULL\s*$`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// Normalize strips availability decorations from a raw product name and
// collapses the leftover whitespace. It is deterministic and idempotent:
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(name string) string {
	name = spotsLeftRe.ReplaceAllString(name, "")
	name = percentFullRe.ReplaceAllString(name, "")
	name = trailingFull.ReplaceAllString(name, "")
	name = whitespaceRe.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// Category groups programs for roster views and gates which line items may
// become registrations.
type Category int

const (
	// CategoryMerchandise covers apparel and anything else that is not a
	// skating program. Merchandise never produces a registration.
	CategoryMerchandise Category = iota
	CategoryBeginnerHockey
	CategorySkillsDevelopment
)

func (c Category) String() string {
	switch c {
	case CategoryBeginnerHockey:
		return "Beginner Hockey"
	case CategorySkillsDevelopment:
		return "Skills Development"
	default:
		return "Merchandise"
	}
}

// IsProgram reports whether items in this category enroll a player.
func (c Category) IsProgram() bool {
	return c == CategoryBeginnerHockey || c == CategorySkillsDevelopment
}

var beginnerKeywords = []string{
	"beginner hockey",
	"pre-beginner",
}

var skillsKeywords = []string{
	"powerskating",
	"power skating",
	"shooting",
	"puck handling",
	"goalie",
}

// Classify maps a normalized program name to its category using
// case-insensitive substring matching against the curated keyword lists.
// The keyword lists live here and nowhere else so product-name drift is a
// one-file fix.
func Classify(name string) Category {
	lower := strings.ToLower(name)
	for _, kw := range beginnerKeywords {
		if strings.Contains(lower, kw) {
			return CategoryBeginnerHockey
		}
	}
	for _, kw := range skillsKeywords {
		if strings.Contains(lower, kw) {
			return CategorySkillsDevelopment
		}
	}
	return CategoryMerchandise
}

// IsProgram is the whitelist gate for registration derivation: true only for
// names that classify into an actual program category.
func IsProgram(name string) bool {
	return Classify(name).IsProgram()
}
