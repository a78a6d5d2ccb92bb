// Package hierarchy keeps the employee manager chains and the team forest
// acyclic and bounded, and builds tree views from flat snapshots.
package hierarchy

import (
	"context"
	"fmt"
)

// MaxDepth is the longest allowed distance, in hops, from any node to its root.
const MaxDepth = 20

// NewNodeID is the candidate id used when validating a row that has not been
// persisted yet. Stored ids are never empty, so it cannot close a cycle.
const NewNodeID = ""

// ChainLookup resolves the parent of a node. found is false when the node
// itself does not exist; parent is nil for a root.
type ChainLookup interface {
	ParentOf(ctx context.Context, id string) (parent *string, found bool, err error)
}

// LookupFunc adapts a plain function to ChainLookup.
type LookupFunc func(ctx context.Context, id string) (*string, bool, error)

func (f LookupFunc) ParentOf(ctx context.Context, id string) (*string, bool, error) {
	return f(ctx, id)
}

// Validator proves that a proposed parent edge keeps a chain acyclic and
// within MaxDepth. It is the only gate for manager and parent-team writes.
type Validator struct {
	lookup   ChainLookup
	relation Relation
	maxDepth int
}

// NewValidator creates a Validator over lookup with the default depth ceiling.
func NewValidator(lookup ChainLookup, relation Relation) *Validator {
	return &Validator{
		lookup:   lookup,
		relation: relation,
		maxDepth: MaxDepth,
	}
}

// Validate checks the edge candidateID -> proposedParentID. A nil or empty
// proposal clears the edge and is always valid.
func (v *Validator) Validate(ctx context.Context, candidateID string, proposedParentID *string) error {
	if proposedParentID == nil || *proposedParentID == "" {
		return nil
	}
	proposed := *proposedParentID

	if candidateID != NewNodeID && candidateID == proposed {
		return &SelfManagementError{Relation: v.relation, ID: candidateID}
	}

	path := []string{candidateID, proposed}
	current := proposed
	referencedBy := ""
	hops := 1

	for {
		if candidateID != NewNodeID && current == candidateID {
			return &CycleError{Relation: v.relation, Path: path}
		}

		parent, found, err := v.lookup.ParentOf(ctx, current)
		if err != nil {
			return fmt.Errorf("load %s chain: %w", v.relation, err)
		}
		if !found {
			return &ManagerNotFoundError{Relation: v.relation, ID: current, ReferencedBy: referencedBy}
		}
		if parent == nil || *parent == "" {
			return nil
		}
		if hops >= v.maxDepth {
			return &DepthExceededError{Relation: v.relation, ID: displayID(candidateID), MaxDepth: v.maxDepth}
		}

		hops++
		referencedBy = current
		current = *parent
		path = append(path, current)
	}
}

func displayID(id string) string {
	if id == NewNodeID {
		return "(new)"
	}
	return id
}
