package teams

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll(t *testing.T) {
	teams := All()
	require.Len(t, teams, 30)

	seen := make(map[string]bool)
	for i, team := range teams {
		assert.False(t, seen[team.Abbreviation], "duplicate code %s", team.Abbreviation)
		seen[team.Abbreviation] = true
		if i > 0 {
			assert.Less(t, teams[i-1].ID, team.ID)
		}
	}

	// Callers get copies.
	teams[0].Abbreviation = "XXX"
	atl, ok := ByID(1610612737)
	require.True(t, ok)
	assert.Equal(t, "ATL", atl.Abbreviation)
}

func TestLookups(t *testing.T) {
	nyk, ok := ByAbbreviation("nyk")
	require.True(t, ok)
	assert.Equal(t, int64(1610612752), nyk.ID)
	assert.Equal(t, "New York Knicks", nyk.FullName)

	bkn, ok := ByAbbreviation("NJN")
	require.True(t, ok)
	assert.Equal(t, "BKN", bkn.Abbreviation)

	byName, ok := ByFullName("Portland_Trail_Blazers")
	require.True(t, ok)
	assert.Equal(t, "POR", byName.Abbreviation)
	assert.Equal(t, "Portland_Trail_Blazers", FileStem(byName))

	_, ok = ByAbbreviation("XYZ")
	assert.False(t, ok)
	_, ok = ByID(42)
	assert.False(t, ok)
}
