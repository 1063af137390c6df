package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/honeynil/player-service/internal/models"
	service "github.com/honeynil/player-service/internal/services"
)

const (
	defaultPageSize = 3
	defaultOrder    = models.OrderID
)

// flexInt64 accepts a JSON number or a string holding a base-10 integer.
type flexInt64 int64

func (f *flexInt64) UnmarshalJSON(data []byte) error {
	raw := string(bytes.TrimSpace(data))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return fmt.Errorf("expected an integer, got %s", data)
	}
	*f = flexInt64(v)
	return nil
}

// flexBool accepts a JSON bool or a string; a string counts as true only when
// it equals "true" ignoring case.
type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = flexBool(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected a boolean, got %s", data)
	}
	*f = flexBool(strings.EqualFold(s, "true"))
	return nil
}

type playerRequest struct {
	Name       *string            `json:"name"`
	Title      *string            `json:"title"`
	Race       *models.Race       `json:"race"`
	Profession *models.Profession `json:"profession"`
	Birthday   *flexInt64         `json:"birthday"`
	Experience *flexInt64         `json:"experience"`
	Banned     *flexBool          `json:"banned"`
}

func (req playerRequest) toInput() models.PlayerInput {
	in := models.PlayerInput{
		Name:       req.Name,
		Title:      req.Title,
		Race:       req.Race,
		Profession: req.Profession,
	}
	if req.Birthday != nil {
		ms := int64(*req.Birthday)
		in.Birthday = &ms
	}
	if req.Experience != nil {
		exp := int(*req.Experience)
		in.Experience = &exp
	}
	if req.Banned != nil {
		banned := bool(*req.Banned)
		in.Banned = &banned
	}
	return in
}

func parseFilter(q url.Values) (models.PlayerFilter, error) {
	var (
		f   models.PlayerFilter
		err error
	)
	if v, ok := lookup(q, "name"); ok {
		f.Name = &v
	}
	if v, ok := lookup(q, "title"); ok {
		f.Title = &v
	}
	if v, ok := lookup(q, "race"); ok {
		r, perr := models.ParseRace(v)
		if perr != nil {
			return f, perr
		}
		f.Race = &r
	}
	if v, ok := lookup(q, "profession"); ok {
		p, perr := models.ParseProfession(v)
		if perr != nil {
			return f, perr
		}
		f.Profession = &p
	}
	if f.After, err = optionalInt64(q, "after"); err != nil {
		return f, err
	}
	if f.Before, err = optionalInt64(q, "before"); err != nil {
		return f, err
	}
	if v, ok := lookup(q, "banned"); ok {
		b, perr := strconv.ParseBool(v)
		if perr != nil {
			return f, fmt.Errorf("invalid banned %q", v)
		}
		f.Banned = &b
	}
	if f.MinExperience, err = optionalInt(q, "minExperience"); err != nil {
		return f, err
	}
	if f.MaxExperience, err = optionalInt(q, "maxExperience"); err != nil {
		return f, err
	}
	if f.MinLevel, err = optionalInt(q, "minLevel"); err != nil {
		return f, err
	}
	if f.MaxLevel, err = optionalInt(q, "maxLevel"); err != nil {
		return f, err
	}
	return f, nil
}

func parsePage(q url.Values) (service.Page, error) {
	page := service.Page{Size: defaultPageSize, Order: defaultOrder}
	if v, ok := lookup(q, "order"); ok {
		order, err := models.ParsePlayerOrder(v)
		if err != nil {
			return page, err
		}
		page.Order = order
	}
	if n, err := optionalInt(q, "pageNumber"); err != nil {
		return page, err
	} else if n != nil {
		page.Number = *n
	}
	if n, err := optionalInt(q, "pageSize"); err != nil {
		return page, err
	} else if n != nil {
		page.Size = *n
	}
	return page, nil
}

// lookup treats an empty parameter the same as an absent one.
func lookup(q url.Values, key string) (string, bool) {
	v := q.Get(key)
	return v, v != ""
}

func optionalInt64(q url.Values, key string) (*int64, error) {
	v, ok := lookup(q, key)
	if !ok {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", key, v)
	}
	return &n, nil
}

func optionalInt(q url.Values, key string) (*int, error) {
	v, ok := lookup(q, key)
	if !ok {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", key, v)
	}
	return &n, nil
}
