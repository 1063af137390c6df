package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	pkgerrors "github.com/honeynil/player-service/pkg/errors"
)

const (
	MaxNameLength  = 12
	MaxTitleLength = 30
	MaxExperience  = 10_000_000
)

var (
	// Birthdays must fall strictly between these instants.
	MinBirthday = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	MaxBirthday = time.Date(3000, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// PlayerInput carries the settable player fields. A nil field is absent.
type PlayerInput struct {
	Name       *string
	Title      *string
	Race       *Race
	Profession *Profession
	Birthday   *int64 // epoch milliseconds
	Experience *int
	Banned     *bool
}

// Merge returns a copy of in where every absent field is taken from existing.
func (in PlayerInput) Merge(existing *Player) PlayerInput {
	out := in
	if out.Name == nil {
		out.Name = &existing.Name
	}
	if out.Title == nil {
		out.Title = &existing.Title
	}
	if out.Race == nil {
		out.Race = &existing.Race
	}
	if out.Profession == nil {
		out.Profession = &existing.Profession
	}
	if out.Birthday == nil {
		ms := existing.Birthday.UnixMilli()
		out.Birthday = &ms
	}
	if out.Experience == nil {
		out.Experience = &existing.Experience
	}
	if out.Banned == nil {
		out.Banned = &existing.Banned
	}
	return out
}

// Build validates the input and returns a new player with derived level
// fields. The returned player has no ID. Every failure wraps ErrBadRequest.
func (in PlayerInput) Build() (*Player, error) {
	if in.Name == nil || in.Title == nil || in.Race == nil || in.Profession == nil ||
		in.Birthday == nil || in.Experience == nil {
		return nil, badRequest("missing required field")
	}

	name := *in.Name
	if n := utf8.RuneCountInString(name); n < 1 || n > MaxNameLength || strings.TrimSpace(name) == "" {
		return nil, badRequest("name must be 1..%d characters and not blank", MaxNameLength)
	}

	if utf8.RuneCountInString(*in.Title) > MaxTitleLength {
		return nil, badRequest("title must be at most %d characters", MaxTitleLength)
	}

	if !in.Race.IsValid() {
		return nil, badRequest("unknown race %q", string(*in.Race))
	}
	if !in.Profession.IsValid() {
		return nil, badRequest("unknown profession %q", string(*in.Profession))
	}

	exp := *in.Experience
	if exp < 0 || exp > MaxExperience {
		return nil, badRequest("experience must be in 0..%d", MaxExperience)
	}

	ms := *in.Birthday
	birthday := time.UnixMilli(ms).UTC()
	if ms <= 0 || !birthday.After(MinBirthday) || !birthday.Before(MaxBirthday) {
		return nil, badRequest("birthday %d is out of range", ms)
	}

	banned := false
	if in.Banned != nil {
		banned = *in.Banned
	}

	level := LevelFor(exp)
	return &Player{
		Name:           name,
		Title:          *in.Title,
		Race:           *in.Race,
		Profession:     *in.Profession,
		Birthday:       birthday,
		Experience:     exp,
		Level:          level,
		UntilNextLevel: UntilNextLevel(level, exp),
		Banned:         banned,
	}, nil
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", pkgerrors.ErrBadRequest, fmt.Sprintf(format, args...))
}
