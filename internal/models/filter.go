package models

import (
	"strings"
	"time"
)

// PlayerFilter holds optional criteria; nil fields impose no constraint.
type PlayerFilter struct {
	Name          *string
	Title         *string
	Race          *Race
	Profession    *Profession
	After         *int64 // epoch milliseconds
	Before        *int64 // epoch milliseconds
	Banned        *bool
	MinExperience *int
	MaxExperience *int
	MinLevel      *int
	MaxLevel      *int
}

// Matches reports whether p satisfies every supplied criterion.
func (f PlayerFilter) Matches(p *Player) bool {
	if f.Name != nil && !strings.Contains(p.Name, *f.Name) {
		return false
	}
	if f.Title != nil && !strings.Contains(p.Title, *f.Title) {
		return false
	}
	if f.Race != nil && p.Race != *f.Race {
		return false
	}
	if f.Profession != nil && p.Profession != *f.Profession {
		return false
	}
	if f.After != nil && p.Birthday.Before(time.UnixMilli(*f.After)) {
		return false
	}
	if f.Before != nil && p.Birthday.After(time.UnixMilli(*f.Before)) {
		return false
	}
	if f.Banned != nil && p.Banned != *f.Banned {
		return false
	}
	if f.MinExperience != nil && p.Experience < *f.MinExperience {
		return false
	}
	if f.MaxExperience != nil && p.Experience > *f.MaxExperience {
		return false
	}
	if f.MinLevel != nil && p.Level < *f.MinLevel {
		return false
	}
	if f.MaxLevel != nil && p.Level > *f.MaxLevel {
		return false
	}
	return true
}
