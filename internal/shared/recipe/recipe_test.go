package recipe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetail_DecodesFlatJSON(t *testing.T) {
	raw := `{"id":1,"name":"Soup","emoji":"🍲","time":"20m","difficulty":"Easy","total_cost":4.5,
		"ingredients":[{"name":"Carrot","amount":"2","cost":1.5},{"name":"Stock","amount":"1l","cost":3}],
		"instructions":["Chop","Simmer"],"servings":2}`

	var d Detail
	require.NoError(t, json.Unmarshal([]byte(raw), &d))

	assert.Equal(t, 1, d.ID)
	assert.Equal(t, "Soup", d.Name)
	assert.InDelta(t, 4.5, d.TotalCost, 1e-9)
	assert.Len(t, d.Ingredients, 2)
	assert.Equal(t, []string{"Chop", "Simmer"}, d.Instructions)
	assert.Equal(t, 2, d.Servings)
}

func TestParseCollection(t *testing.T) {
	c, err := ParseCollection("saved")
	require.NoError(t, err)
	assert.Equal(t, Saved, c)

	c, err = ParseCollection("liked")
	require.NoError(t, err)
	assert.Equal(t, "Liked", c.Title())

	_, err = ParseCollection("favorites")
	assert.ErrorIs(t, err, ErrUnknownCollection)
}
