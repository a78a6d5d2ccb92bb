package hierarchy

import (
	"context"
	"fmt"
)

// TeamForest is the persistence view the reparenting engine needs. Implementations
// are expected to run inside a single transaction.
type TeamForest interface {
	// Parent returns the parent team id of teamID. found is false when the team is missing.
	Parent(ctx context.Context, teamID string) (parent *string, found bool, err error)
	// Children returns the ids of teams whose parent is teamID.
	Children(ctx context.Context, teamID string) ([]string, error)
	// Reparent points every team in ids at newParent.
	Reparent(ctx context.Context, ids []string, newParent *string) error
	// Remove deletes the team row and anything that depends on it.
	Remove(ctx context.Context, teamID string) error
}

// ReparentResult describes what a team deletion did to the forest.
type ReparentResult struct {
	ReassignedSubteamCount int     `json:"reassigned_subteam_count"`
	NewParentID            *string `json:"new_parent_id"`
}

// OnTeamDelete moves the direct children of teamID up to its parent and then
// removes teamID. Children are reparented before removal so no team is left
// pointing at a deleted parent.
func OnTeamDelete(ctx context.Context, forest TeamForest, teamID string) (ReparentResult, error) {
	parent, found, err := forest.Parent(ctx, teamID)
	if err != nil {
		return ReparentResult{}, fmt.Errorf("load team %s: %w", teamID, err)
	}
	if !found {
		return ReparentResult{}, fmt.Errorf("team %s: %w", teamID, ErrNodeNotFound)
	}

	children, err := forest.Children(ctx, teamID)
	if err != nil {
		return ReparentResult{}, fmt.Errorf("load sub-teams of %s: %w", teamID, err)
	}

	if len(children) > 0 {
		if err := forest.Reparent(ctx, children, parent); err != nil {
			return ReparentResult{}, fmt.Errorf("reparent sub-teams of %s: %w", teamID, err)
		}
	}

	if err := forest.Remove(ctx, teamID); err != nil {
		return ReparentResult{}, fmt.Errorf("remove team %s: %w", teamID, err)
	}

	return ReparentResult{
		ReassignedSubteamCount: len(children),
		NewParentID:            parent,
	}, nil
}
