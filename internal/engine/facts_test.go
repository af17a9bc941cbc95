package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/types"
)

func TestGatherFactsWithAssignment(t *testing.T) {
	st := newMemStore()
	caller := types.User{ID: "u-maria", Name: "Марія"}

	facts, err := GatherFacts(context.Background(), st, caller)
	require.NoError(t, err)

	assert.Equal(t, "u-maria", facts.CallerID)
	assert.Equal(t, "Марія", facts.CallerName)
	assert.False(t, facts.IsAdmin)
	assert.Equal(t, []string{"562"}, facts.AssignedApartmentIDs)
	require.Len(t, facts.OpenTasks, 1)
	assert.Equal(t, "562", facts.OpenTasks[0].ID)
}

func TestGatherFactsWithoutAssignmentRecord(t *testing.T) {
	st := newMemStore()
	caller := types.User{ID: "u-olena", Name: "Олена", IsAdmin: true}

	facts, err := GatherFacts(context.Background(), st, caller)
	require.NoError(t, err, "missing assignment record is not an error")
	assert.Empty(t, facts.AssignedApartmentIDs)
	assert.True(t, facts.IsAdmin)
}

func TestGatherFactsStoreFailure(t *testing.T) {
	st := newMemStore()
	st.listErr = errors.New("db locked")

	_, err := GatherFacts(context.Background(), st, types.User{ID: "u-olena"})
	assert.Error(t, err)
}
