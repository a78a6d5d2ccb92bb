package hierarchy

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidHierarchy is matched by every structural rejection raised by a Validator.
	ErrInvalidHierarchy = errors.New("invalid hierarchy")
	// ErrStructuralIntegrity is matched when a tree builder finds a snapshot that
	// violates acyclicity or the depth ceiling.
	ErrStructuralIntegrity = errors.New("hierarchy structural integrity violated")
	// ErrNodeNotFound is returned by OnTeamDelete when the team to delete is missing.
	ErrNodeNotFound = errors.New("hierarchy node not found")
)

// Relation names the parent edge being validated so messages read naturally.
type Relation string

const (
	RelationManager    Relation = "manager"
	RelationParentTeam Relation = "parent team"
)

func (r Relation) subject() string {
	if r == RelationParentTeam {
		return "team"
	}
	return "employee"
}

// SelfManagementError rejects an edge from a node to itself.
type SelfManagementError struct {
	Relation Relation
	ID       string
}

func (e *SelfManagementError) Error() string {
	if e.Relation == RelationParentTeam {
		return fmt.Sprintf("team %s cannot be its own parent team", e.ID)
	}
	return fmt.Sprintf("employee %s cannot be their own manager", e.ID)
}

func (e *SelfManagementError) Unwrap() error { return ErrInvalidHierarchy }

// CycleError rejects an edge that would close a loop. Path starts at the
// candidate and ends at the candidate again.
type CycleError struct {
	Relation Relation
	Path     []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("assigning %s %s to %s %s would create a cycle: %s",
		e.Relation, e.proposed(), e.Relation.subject(), e.candidate(), strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrInvalidHierarchy }

func (e *CycleError) candidate() string {
	if len(e.Path) == 0 {
		return ""
	}
	return e.Path[0]
}

func (e *CycleError) proposed() string {
	if len(e.Path) < 2 {
		return ""
	}
	return e.Path[1]
}

// DepthExceededError rejects an edge that would put a node more than MaxDepth
// hops away from its root.
type DepthExceededError struct {
	Relation Relation
	ID       string
	MaxDepth int
}

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("%s chain of %s %s would exceed %d levels",
		e.Relation, e.Relation.subject(), e.ID, e.MaxDepth)
}

func (e *DepthExceededError) Unwrap() error { return ErrInvalidHierarchy }

// ManagerNotFoundError reports a chain link that points at a missing node.
// ReferencedBy is empty when the proposed parent itself does not exist.
type ManagerNotFoundError struct {
	Relation     Relation
	ID           string
	ReferencedBy string
}

func (e *ManagerNotFoundError) Error() string {
	if e.ReferencedBy == "" {
		return fmt.Sprintf("%s %s not found", e.Relation, e.ID)
	}
	return fmt.Sprintf("%s %s referenced by %s %s not found",
		e.Relation, e.ID, e.Relation.subject(), e.ReferencedBy)
}

func (e *ManagerNotFoundError) Unwrap() error { return ErrInvalidHierarchy }

// IntegrityError is raised by the tree builders.
type IntegrityError struct {
	Reason string
	IDs    []string
}

func (e *IntegrityError) Error() string {
	if len(e.IDs) == 0 {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Reason, strings.Join(e.IDs, ", "))
}

func (e *IntegrityError) Unwrap() error { return ErrStructuralIntegrity }
