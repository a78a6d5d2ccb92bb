package dto

import (
	"time"

	"github.com/seth-walker/HRIS/internal/models"
	"github.com/seth-walker/HRIS/internal/services"
)

// CreateTeamRequest is the body of POST /api/teams
type CreateTeamRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  *string `json:"description"`
	LeadID       *string `json:"lead_id"`
	ParentTeamID *string `json:"parent_team_id"`
}

// ToInput converts the request to service input
func (r CreateTeamRequest) ToInput() services.CreateTeamInput {
	return services.CreateTeamInput{
		Name:         r.Name,
		Description:  r.Description,
		LeadID:       r.LeadID,
		ParentTeamID: r.ParentTeamID,
	}
}

// UpdateTeamRequest is the body of PUT /api/teams/:id
type UpdateTeamRequest struct {
	Name         *string                   `json:"name"`
	Description  services.Nullable[string] `json:"description"`
	LeadID       services.Nullable[string] `json:"lead_id"`
	ParentTeamID services.Nullable[string] `json:"parent_team_id"`
}

// ToInput converts the request to service input
func (r UpdateTeamRequest) ToInput() services.UpdateTeamInput {
	return services.UpdateTeamInput{
		Name:         r.Name,
		Description:  r.Description,
		LeadID:       r.LeadID,
		ParentTeamID: r.ParentTeamID,
	}
}

// TeamSummaryDTO is the compact form used for related teams
type TeamSummaryDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TeamDTO represents a team in API responses
type TeamDTO struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Description  *string             `json:"description"`
	LeadID       *string             `json:"lead_id"`
	ParentTeamID *string             `json:"parent_team_id"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	Lead         *EmployeeSummaryDTO `json:"lead,omitempty"`
	ParentTeam   *TeamSummaryDTO     `json:"parent_team,omitempty"`
	SubTeams     []TeamSummaryDTO    `json:"sub_teams,omitempty"`
}

// TeamDetailDTO is a team with its members
type TeamDetailDTO struct {
	TeamDTO
	Members []EmployeeDTO `json:"members"`
}

// TeamMembershipDTO represents a membership row in API responses
type TeamMembershipDTO struct {
	ID         string    `json:"id"`
	TeamID     string    `json:"team_id"`
	EmployeeID string    `json:"employee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToTeamSummaryDTO converts a Team model to TeamSummaryDTO
func ToTeamSummaryDTO(t models.Team) TeamSummaryDTO {
	return TeamSummaryDTO{ID: t.ID, Name: t.Name}
}

// ToTeamDTO converts a Team model to TeamDTO
func ToTeamDTO(t models.Team) TeamDTO {
	dto := TeamDTO{
		ID:           t.ID,
		Name:         t.Name,
		Description:  t.Description,
		LeadID:       t.LeadID,
		ParentTeamID: t.ParentTeamID,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}

	if t.Lead != nil {
		lead := ToEmployeeSummaryDTO(*t.Lead)
		dto.Lead = &lead
	}
	if t.ParentTeam != nil {
		parent := ToTeamSummaryDTO(*t.ParentTeam)
		dto.ParentTeam = &parent
	}
	if len(t.SubTeams) > 0 {
		dto.SubTeams = make([]TeamSummaryDTO, len(t.SubTeams))
		for i, sub := range t.SubTeams {
			dto.SubTeams[i] = ToTeamSummaryDTO(sub)
		}
	}

	return dto
}

// ToTeamDTOs converts a slice of teams
func ToTeamDTOs(teams []models.Team) []TeamDTO {
	dtos := make([]TeamDTO, len(teams))
	for i, t := range teams {
		dtos[i] = ToTeamDTO(t)
	}
	return dtos
}

// ToTeamDetailDTO converts a team detail to TeamDetailDTO
func ToTeamDetailDTO(detail services.TeamDetail) TeamDetailDTO {
	return TeamDetailDTO{
		TeamDTO: ToTeamDTO(detail.Team),
		Members: ToEmployeeDTOs(detail.Members),
	}
}

// ToTeamMembershipDTO converts a membership to TeamMembershipDTO
func ToTeamMembershipDTO(m models.EmployeeTeamMembership) TeamMembershipDTO {
	return TeamMembershipDTO{
		ID:         m.ID,
		TeamID:     m.TeamID,
		EmployeeID: m.EmployeeID,
		CreatedAt:  m.CreatedAt,
	}
}
