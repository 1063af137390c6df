package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type Race string

const (
	RaceHuman  Race = "HUMAN"
	RaceDwarf  Race = "DWARF"
	RaceElf    Race = "ELF"
	RaceGiant  Race = "GIANT"
	RaceOrc    Race = "ORC"
	RaceTroll  Race = "TROLL"
	RaceHobbit Race = "HOBBIT"
)

var races = []Race{RaceHuman, RaceDwarf, RaceElf, RaceGiant, RaceOrc, RaceTroll, RaceHobbit}

// ParseRace matches s against the symbolic race names, case-sensitively.
func ParseRace(s string) (Race, error) {
	for _, r := range races {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown race %q", s)
}

func (r Race) IsValid() bool {
	_, err := ParseRace(string(r))
	return err == nil
}

func (r *Race) UnmarshalText(text []byte) error {
	parsed, err := ParseRace(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

type Profession string

const (
	ProfessionWarrior  Profession = "WARRIOR"
	ProfessionRogue    Profession = "ROGUE"
	ProfessionSorcerer Profession = "SORCERER"
	ProfessionCleric   Profession = "CLERIC"
	ProfessionPaladin  Profession = "PALADIN"
	ProfessionNazgul   Profession = "NAZGUL"
	ProfessionWarlock  Profession = "WARLOCK"
	ProfessionDruid    Profession = "DRUID"
)

var professions = []Profession{
	ProfessionWarrior, ProfessionRogue, ProfessionSorcerer, ProfessionCleric,
	ProfessionPaladin, ProfessionNazgul, ProfessionWarlock, ProfessionDruid,
}

// ParseProfession matches s against the symbolic profession names, case-sensitively.
func ParseProfession(s string) (Profession, error) {
	for _, p := range professions {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown profession %q", s)
}

func (p Profession) IsValid() bool {
	_, err := ParseProfession(string(p))
	return err == nil
}

func (p *Profession) UnmarshalText(text []byte) error {
	parsed, err := ParseProfession(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Player is the stored player record. Level and UntilNextLevel are always
// derived from Experience.
type Player struct {
	ID             int64
	Name           string
	Title          string
	Race           Race
	Profession     Profession
	Birthday       time.Time
	Experience     int
	Level          int
	UntilNextLevel int
	Banned         bool
}

// playerJSON is the wire form; birthday travels as epoch milliseconds.
type playerJSON struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Title          string     `json:"title"`
	Race           Race       `json:"race"`
	Profession     Profession `json:"profession"`
	Birthday       int64      `json:"birthday"`
	Banned         bool       `json:"banned"`
	Experience     int        `json:"experience"`
	Level          int        `json:"level"`
	UntilNextLevel int        `json:"untilNextLevel"`
}

func (p Player) MarshalJSON() ([]byte, error) {
	return json.Marshal(playerJSON{
		ID:             p.ID,
		Name:           p.Name,
		Title:          p.Title,
		Race:           p.Race,
		Profession:     p.Profession,
		Birthday:       p.Birthday.UnixMilli(),
		Banned:         p.Banned,
		Experience:     p.Experience,
		Level:          p.Level,
		UntilNextLevel: p.UntilNextLevel,
	})
}

func (p *Player) UnmarshalJSON(data []byte) error {
	var raw playerJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Player{
		ID:             raw.ID,
		Name:           raw.Name,
		Title:          raw.Title,
		Race:           raw.Race,
		Profession:     raw.Profession,
		Birthday:       time.UnixMilli(raw.Birthday).UTC(),
		Banned:         raw.Banned,
		Experience:     raw.Experience,
		Level:          raw.Level,
		UntilNextLevel: raw.UntilNextLevel,
	}
	return nil
}
