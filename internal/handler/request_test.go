package handler

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeynil/player-service/internal/models"
)

func TestPlayerRequest_LenientFields(t *testing.T) {
	var req playerRequest
	body := `{"name":"Bob","birthday":"1104537600000","experience":" 42 ","banned":"True","race":"ELF"}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	in := req.toInput()
	require.NotNil(t, in.Name)
	assert.Equal(t, "Bob", *in.Name)
	assert.Nil(t, in.Title)
	assert.Nil(t, in.Profession)
	require.NotNil(t, in.Race)
	assert.Equal(t, models.RaceElf, *in.Race)
	require.NotNil(t, in.Birthday)
	assert.Equal(t, int64(1104537600000), *in.Birthday)
	require.NotNil(t, in.Experience)
	assert.Equal(t, 42, *in.Experience)
	require.NotNil(t, in.Banned)
	assert.True(t, *in.Banned)
}

func TestPlayerRequest_Rejects(t *testing.T) {
	for _, body := range []string{
		`{"experience":"many"}`,
		`{"experience":1.5}`,
		`{"banned":1}`,
		`{"profession":"BARD"}`,
	} {
		var req playerRequest
		assert.Error(t, json.Unmarshal([]byte(body), &req), body)
	}
}

func TestFlexBool(t *testing.T) {
	cases := map[string]bool{
		`true`:    true,
		`false`:   false,
		`"TRUE"`:  true,
		`"false"`: false,
		`"yes"`:   false,
		`""`:      false,
	}
	for raw, want := range cases {
		var b flexBool
		require.NoError(t, json.Unmarshal([]byte(raw), &b), raw)
		assert.Equal(t, want, bool(b), raw)
	}
}

func TestParseFilter(t *testing.T) {
	q := url.Values{
		"name":          {"ar"},
		"race":          {"ORC"},
		"profession":    {"DRUID"},
		"after":         {"946684800001"},
		"banned":        {"true"},
		"minExperience": {"10"},
		"maxLevel":      {"5"},
		"title":         {""},
	}
	f, err := parseFilter(q)
	require.NoError(t, err)

	require.NotNil(t, f.Name)
	assert.Equal(t, "ar", *f.Name)
	assert.Nil(t, f.Title)
	assert.Equal(t, models.RaceOrc, *f.Race)
	assert.Equal(t, models.ProfessionDruid, *f.Profession)
	assert.Equal(t, int64(946684800001), *f.After)
	assert.Nil(t, f.Before)
	assert.True(t, *f.Banned)
	assert.Equal(t, 10, *f.MinExperience)
	assert.Nil(t, f.MaxExperience)
	assert.Nil(t, f.MinLevel)
	assert.Equal(t, 5, *f.MaxLevel)
}

func TestParsePage(t *testing.T) {
	page, err := parsePage(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Number)
	assert.Equal(t, defaultPageSize, page.Size)
	assert.Equal(t, models.OrderID, page.Order)

	page, err = parsePage(url.Values{"order": {"LEVEL"}, "pageNumber": {"2"}, "pageSize": {"10"}})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Number)
	assert.Equal(t, 10, page.Size)
	assert.Equal(t, models.OrderLevel, page.Order)

	_, err = parsePage(url.Values{"order": {"RANDOM"}})
	assert.Error(t, err)
}
