package models

import (
	"cmp"
	"fmt"
)

type PlayerOrder string

const (
	OrderID         PlayerOrder = "ID"
	OrderName       PlayerOrder = "NAME"
	OrderExperience PlayerOrder = "EXPERIENCE"
	OrderBirthday   PlayerOrder = "BIRTHDAY"
	OrderLevel      PlayerOrder = "LEVEL"
)

func ParsePlayerOrder(s string) (PlayerOrder, error) {
	switch o := PlayerOrder(s); o {
	case OrderID, OrderName, OrderExperience, OrderBirthday, OrderLevel:
		return o, nil
	}
	return "", fmt.Errorf("unknown order %q", s)
}

// Compare orders a and b ascending by the key.
func (o PlayerOrder) Compare(a, b *Player) int {
	switch o {
	case OrderName:
		return cmp.Compare(a.Name, b.Name)
	case OrderExperience:
		return cmp.Compare(a.Experience, b.Experience)
	case OrderBirthday:
		return a.Birthday.Compare(b.Birthday)
	case OrderLevel:
		return cmp.Compare(a.Level, b.Level)
	default:
		return cmp.Compare(a.ID, b.ID)
	}
}
