package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/seth-walker/HRIS/internal/access"
	"github.com/seth-walker/HRIS/internal/hierarchy"
	"github.com/seth-walker/HRIS/internal/models"
	"github.com/seth-walker/HRIS/internal/repository"
)

const entityTeam = "team"

// TeamService handles team business logic. Parent-team edges are validated
// with the same chain rules as manager edges.
type TeamService struct {
	teamRepo     repository.TeamRepository
	employeeRepo repository.EmployeeRepository
	audit        *AuditService
	parents      *hierarchy.Validator
}

// NewTeamService creates a new TeamService.
func NewTeamService(teamRepo repository.TeamRepository, employeeRepo repository.EmployeeRepository, audit *AuditService) *TeamService {
	return &TeamService{
		teamRepo:     teamRepo,
		employeeRepo: employeeRepo,
		audit:        audit,
		parents:      hierarchy.NewValidator(teamRepo, hierarchy.RelationParentTeam),
	}
}

// CreateTeamInput represents input for creating a team
type CreateTeamInput struct {
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	LeadID       *string `json:"lead_id"`
	ParentTeamID *string `json:"parent_team_id"`
}

// UpdateTeamInput represents input for updating a team
type UpdateTeamInput struct {
	Name         *string
	Description  Nullable[string]
	LeadID       Nullable[string]
	ParentTeamID Nullable[string]
}

// TeamDetail is a team with its members.
type TeamDetail struct {
	models.Team
	Members []models.Employee `json:"members"`
}

// ListTeams returns teams ordered by name, optionally filtered by a search term.
func (s *TeamService) ListTeams(ctx context.Context, actor access.Principal, search *string) ([]models.Team, error) {
	filter := repository.TeamFilter{}
	if search != nil && strings.TrimSpace(*search) != "" {
		filter.Search = search
	}

	teams, err := s.teamRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	for i := range teams {
		redactLead(actor, &teams[i])
	}
	return teams, nil
}

// GetTeam returns a team with its lead, parent, sub-teams and members.
func (s *TeamService) GetTeam(ctx context.Context, actor access.Principal, id string) (*TeamDetail, error) {
	team, err := s.teamRepo.FindByID(ctx, id, "Lead", "ParentTeam", "SubTeams")
	if err != nil {
		return nil, lookupError(err, entityTeam, id)
	}

	members, err := s.teamRepo.ListMembers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}

	redactLead(actor, team)
	return &TeamDetail{Team: *team, Members: access.FilterEmployeeList(actor, members)}, nil
}

// CreateTeam validates and persists a new team.
func (s *TeamService) CreateTeam(ctx context.Context, actor access.Principal, input CreateTeamInput) (*TeamDetail, error) {
	if err := access.Authorize(actor, access.ActionManageTeams); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationError("name is required")
	}

	leadID := normalizeID(Nullable[string]{Set: true, Value: input.LeadID}).Value
	if err := s.ensureEmployee(ctx, leadID); err != nil {
		return nil, err
	}
	parentID := normalizeID(Nullable[string]{Set: true, Value: input.ParentTeamID}).Value
	if err := s.parents.Validate(ctx, hierarchy.NewNodeID, parentID); err != nil {
		return nil, err
	}

	team := &models.Team{
		Name:         name,
		Description:  input.Description,
		LeadID:       leadID,
		ParentTeamID: parentID,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:    actor.UserID,
		Action:     models.AuditCreate,
		EntityType: models.EntityTeam,
		EntityID:   stringRef(team.ID),
		Changes:    map[string]interface{}{"data": input},
	})

	return s.GetTeam(ctx, actor, team.ID)
}

// UpdateTeam applies a partial update. An unchanged parent is not revalidated.
func (s *TeamService) UpdateTeam(ctx context.Context, actor access.Principal, id string, input UpdateTeamInput) (*TeamDetail, error) {
	if err := access.Authorize(actor, access.ActionManageTeams); err != nil {
		return nil, err
	}

	team, err := s.teamRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, entityTeam, id)
	}

	changes := map[string]interface{}{}
	previous := map[string]interface{}{}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, validationError("name cannot be empty")
		}
		if name != team.Name {
			changes["name"] = name
			previous["name"] = team.Name
		}
	}
	if input.Description.Set && !sameString(team.Description, input.Description.Value) {
		changes["description"] = input.Description.Value
		previous["description"] = team.Description
	}

	leadID := normalizeID(input.LeadID)
	if leadID.Set && !sameString(team.LeadID, leadID.Value) {
		if err := s.ensureEmployee(ctx, leadID.Value); err != nil {
			return nil, err
		}
		changes["lead_id"] = leadID.Value
		previous["lead_id"] = team.LeadID
	}

	parentID := normalizeID(input.ParentTeamID)
	if parentID.Set && !sameString(team.ParentTeamID, parentID.Value) {
		if err := s.parents.Validate(ctx, team.ID, parentID.Value); err != nil {
			return nil, err
		}
		changes["parent_team_id"] = parentID.Value
		previous["parent_team_id"] = team.ParentTeamID
	}

	if len(changes) > 0 {
		if err := s.teamRepo.Update(ctx, id, changes); err != nil {
			return nil, fmt.Errorf("failed to update team: %w", err)
		}

		s.audit.Record(ctx, AuditEntry{
			ActorID:    actor.UserID,
			Action:     models.AuditUpdate,
			EntityType: models.EntityTeam,
			EntityID:   stringRef(id),
			Changes:    map[string]interface{}{"old": previous, "new": changes},
		})
	}

	return s.GetTeam(ctx, actor, id)
}

// DeleteTeam removes a team and moves its sub-teams up to its parent.
func (s *TeamService) DeleteTeam(ctx context.Context, actor access.Principal, id string) (*hierarchy.ReparentResult, error) {
	if err := access.Authorize(actor, access.ActionManageTeams); err != nil {
		return nil, err
	}

	team, err := s.teamRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, entityTeam, id)
	}

	result, err := s.teamRepo.DeleteReparenting(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(entityTeam, id)
		}
		return nil, fmt.Errorf("failed to delete team: %w", err)
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:    actor.UserID,
		Action:     models.AuditDelete,
		EntityType: models.EntityTeam,
		EntityID:   stringRef(id),
		Changes:    map[string]interface{}{"deleted_team": team, "reparent": result},
	})

	return &result, nil
}

// GetTeamHierarchy builds the team forest with member counts and rollups.
func (s *TeamService) GetTeamHierarchy(ctx context.Context) ([]hierarchy.TeamNode, error) {
	teams, err := s.teamRepo.ListAllOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}

	counts, err := s.teamRepo.MemberCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count team members: %w", err)
	}

	entries := make([]hierarchy.TeamEntry, len(teams))
	for i, t := range teams {
		entries[i] = hierarchy.TeamEntry{
			ID:           t.ID,
			Name:         t.Name,
			Description:  t.Description,
			ParentTeamID: t.ParentTeamID,
			MemberCount:  counts[t.ID],
		}
		if t.Lead != nil {
			entries[i].Lead = &hierarchy.TeamLead{
				ID:    t.Lead.ID,
				Name:  t.Lead.FullName(),
				Title: t.Lead.Title,
			}
		}
	}

	return hierarchy.BuildTeamHierarchy(entries)
}

// AddTeamMember adds an employee to a team.
func (s *TeamService) AddTeamMember(ctx context.Context, actor access.Principal, teamID, employeeID string) (*models.EmployeeTeamMembership, error) {
	if err := access.Authorize(actor, access.ActionManageTeamMembers); err != nil {
		return nil, err
	}

	if err := s.ensureTeam(ctx, teamID); err != nil {
		return nil, err
	}
	if err := s.ensureEmployee(ctx, &employeeID); err != nil {
		return nil, err
	}

	if _, err := s.teamRepo.FindMember(ctx, teamID, employeeID); err == nil {
		return nil, fmt.Errorf("%w: employee %s is already a member of team %s", ErrConflict, employeeID, teamID)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	member := &models.EmployeeTeamMembership{
		EmployeeID: employeeID,
		TeamID:     teamID,
	}
	if err := s.teamRepo.AddMember(ctx, member); err != nil {
		return nil, writeError(err, "add team member", fmt.Sprintf("employee %s is already a member of team %s", employeeID, teamID))
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:    actor.UserID,
		Action:     models.AuditAddMember,
		EntityType: models.EntityTeam,
		EntityID:   stringRef(teamID),
		Changes:    map[string]interface{}{"employee_id": employeeID},
	})

	return member, nil
}

// RemoveTeamMember removes an employee from a team.
func (s *TeamService) RemoveTeamMember(ctx context.Context, actor access.Principal, teamID, employeeID string) error {
	if err := access.Authorize(actor, access.ActionManageTeamMembers); err != nil {
		return err
	}

	if err := s.teamRepo.RemoveMember(ctx, teamID, employeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("team membership", teamID+"/"+employeeID)
		}
		return fmt.Errorf("failed to remove team member: %w", err)
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:    actor.UserID,
		Action:     models.AuditRemoveMember,
		EntityType: models.EntityTeam,
		EntityID:   stringRef(teamID),
		Changes:    map[string]interface{}{"employee_id": employeeID},
	})

	return nil
}

// GetTeamMembers lists the team's members the actor may see, redacted.
func (s *TeamService) GetTeamMembers(ctx context.Context, actor access.Principal, teamID string) ([]models.Employee, error) {
	if err := s.ensureTeam(ctx, teamID); err != nil {
		return nil, err
	}

	members, err := s.teamRepo.ListMembers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	return access.FilterEmployeeList(actor, members), nil
}

func (s *TeamService) ensureTeam(ctx context.Context, id string) error {
	_, found, err := s.teamRepo.ParentOf(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find team: %w", err)
	}
	if !found {
		return notFound(entityTeam, id)
	}
	return nil
}

func (s *TeamService) ensureEmployee(ctx context.Context, id *string) error {
	if id == nil {
		return nil
	}
	exists, err := s.employeeRepo.ExistsByID(ctx, *id)
	if err != nil {
		return fmt.Errorf("failed to find employee: %w", err)
	}
	if !exists {
		return notFound(entityEmployee, *id)
	}
	return nil
}

func redactLead(actor access.Principal, team *models.Team) {
	if team.Lead != nil {
		lead := access.Redact(actor, *team.Lead)
		team.Lead = &lead
	}
}
