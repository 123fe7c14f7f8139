package identity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID_Format(t *testing.T) {
	for _, kind := range []Kind{KindVision, KindMetric, KindAction} {
		id, err := NewID(kind)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(id, string(kind)+"_"))
		assert.Len(t, id, 36) // 3-char prefix + "_" + 32 hex chars
	}
}

func TestClassify_GeneratedIDsArePersisted(t *testing.T) {
	id, err := NewID(KindMetric)
	require.NoError(t, err)
	assert.Equal(t, Persisted, Classify(KindMetric, id))
}

func TestClassify_PlaceholdersAreEphemeral(t *testing.T) {
	placeholders := []string{
		"",
		"new",
		"okr-3",
		"kpi_tmp",
		"met_123",                // too short
		"met_ZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZ", // not hex
		"gol-aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", // wrong separator
	}
	for _, id := range placeholders {
		assert.Equal(t, Ephemeral, Classify(KindMetric, id), "id %q", id)
	}
}

func TestClassify_KindMismatchIsEphemeral(t *testing.T) {
	// a valid metric id is not a valid action id
	id, err := NewID(KindMetric)
	require.NoError(t, err)
	assert.Equal(t, Ephemeral, Classify(KindAction, id))
	assert.Equal(t, Ephemeral, Classify(KindVision, id))
}

func TestIsPersisted(t *testing.T) {
	id, err := NewID(KindVision)
	require.NoError(t, err)
	assert.True(t, IsPersisted(KindVision, id))
	assert.False(t, IsPersisted(KindVision, "vision-1"))
}
