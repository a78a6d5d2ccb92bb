package hierarchy

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryForest struct {
	parents    map[string]*string
	failRemove error
}

func (f *memoryForest) Parent(_ context.Context, id string) (*string, bool, error) {
	p, ok := f.parents[id]
	return p, ok, nil
}

func (f *memoryForest) Children(_ context.Context, id string) ([]string, error) {
	var ids []string
	for child, parent := range f.parents {
		if parent != nil && *parent == id {
			ids = append(ids, child)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *memoryForest) Reparent(_ context.Context, ids []string, newParent *string) error {
	for _, id := range ids {
		f.parents[id] = newParent
	}
	return nil
}

func (f *memoryForest) Remove(_ context.Context, id string) error {
	if f.failRemove != nil {
		return f.failRemove
	}
	delete(f.parents, id)
	return nil
}

func TestOnTeamDelete_PromotesChildrenOfRoot(t *testing.T) {
	forest := &memoryForest{parents: map[string]*string{
		"engineering": nil,
		"frontend":    strPtr("engineering"),
		"backend":     strPtr("engineering"),
	}}

	result, err := OnTeamDelete(context.Background(), forest, "engineering")
	require.NoError(t, err)

	assert.Equal(t, 2, result.ReassignedSubteamCount)
	assert.Nil(t, result.NewParentID)
	assert.Nil(t, forest.parents["frontend"])
	assert.Nil(t, forest.parents["backend"])
	assert.NotContains(t, forest.parents, "engineering")
}

func TestOnTeamDelete_ChildrenMoveToGrandparent(t *testing.T) {
	forest := &memoryForest{parents: map[string]*string{
		"company":  nil,
		"platform": strPtr("company"),
		"infra":    strPtr("platform"),
		"sre":      strPtr("platform"),
		"oncall":   strPtr("sre"),
	}}

	result, err := OnTeamDelete(context.Background(), forest, "platform")
	require.NoError(t, err)

	assert.Equal(t, 2, result.ReassignedSubteamCount)
	require.NotNil(t, result.NewParentID)
	assert.Equal(t, "company", *result.NewParentID)
	assert.Equal(t, "company", *forest.parents["infra"])
	assert.Equal(t, "company", *forest.parents["sre"])
	assert.Equal(t, "sre", *forest.parents["oncall"])

	for id, parent := range forest.parents {
		if parent != nil {
			assert.Contains(t, forest.parents, *parent, "team %s points at a deleted parent", id)
		}
	}
}

func TestOnTeamDelete_Leaf(t *testing.T) {
	forest := &memoryForest{parents: map[string]*string{
		"a": nil,
		"b": strPtr("a"),
	}}

	result, err := OnTeamDelete(context.Background(), forest, "b")
	require.NoError(t, err)
	assert.Zero(t, result.ReassignedSubteamCount)
	assert.Equal(t, "a", *result.NewParentID)
}

func TestOnTeamDelete_MissingTeam(t *testing.T) {
	forest := &memoryForest{parents: map[string]*string{}}

	_, err := OnTeamDelete(context.Background(), forest, "nope")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestOnTeamDelete_RemoveFailure(t *testing.T) {
	boom := errors.New("disk full")
	forest := &memoryForest{
		parents:    map[string]*string{"a": nil},
		failRemove: boom,
	}

	_, err := OnTeamDelete(context.Background(), forest, "a")
	assert.ErrorIs(t, err, boom)
}
