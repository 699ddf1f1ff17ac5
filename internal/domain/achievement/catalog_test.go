package achievement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	catalog := Catalog()
	require.Len(t, catalog, 9)

	seen := make(map[Type]bool, len(catalog))
	for _, def := range catalog {
		assert.False(t, seen[def.Type], "duplicate type %s", def.Type)
		seen[def.Type] = true

		assert.NotEmpty(t, def.Title)
		assert.NotEmpty(t, def.Description)
		assert.NotEmpty(t, def.Icon)
		assert.Equal(t, BonusPoints, def.BonusPoints)
	}
}

func TestGetDefinition(t *testing.T) {
	def, ok := GetDefinition(TypeTaskMaster)
	require.True(t, ok)
	assert.Equal(t, "Task Master", def.Title)

	_, ok = GetDefinition(Type("made_up"))
	assert.False(t, ok)
}

func TestTypeIsValid(t *testing.T) {
	assert.True(t, TypeFirstJobApply.IsValid())
	assert.True(t, TypeStreakWeek.IsValid())
	assert.False(t, Type("").IsValid())
	assert.False(t, Type("made_up").IsValid())
}
