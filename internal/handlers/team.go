package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seth-walker/HRIS/internal/dto"
	apierrors "github.com/seth-walker/HRIS/internal/errors"
	"github.com/seth-walker/HRIS/internal/services"
)

type TeamHandler struct {
	teamService *services.TeamService
	log         *zap.Logger
}

func NewTeamHandler(teamService *services.TeamService, log *zap.Logger) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
		log:         log,
	}
}

// ListTeams returns all teams, optionally filtered by ?search=
func (h *TeamHandler) ListTeams(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	var search *string
	if s := c.Query("search"); s != "" {
		search = &s
	}

	teams, err := h.teamService.ListTeams(c.Request.Context(), actor, search)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDTOs(teams))
}

// GetTeam returns a team with its lead, parent, sub-teams and members
func (h *TeamHandler) GetTeam(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	team, err := h.teamService.GetTeam(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDetailDTO(*team))
}

// CreateTeam creates a new team
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	var req dto.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, err := h.teamService.CreateTeam(c.Request.Context(), actor, req.ToInput())
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamDetailDTO(*team))
}

// UpdateTeam applies a partial update to a team
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	var req dto.UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, err := h.teamService.UpdateTeam(c.Request.Context(), actor, c.Param("id"), req.ToInput())
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDetailDTO(*team))
}

// DeleteTeam deletes a team and moves its sub-teams to its parent
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	result, err := h.teamService.DeleteTeam(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":                  "Team deleted successfully",
		"reassigned_subteam_count": result.ReassignedSubteamCount,
		"new_parent_id":            result.NewParentID,
	})
}

// GetTeamHierarchy returns the team forest with member counts
func (h *TeamHandler) GetTeamHierarchy(c *gin.Context) {
	if _, ok := principal(c); !ok {
		return
	}

	forest, err := h.teamService.GetTeamHierarchy(c.Request.Context())
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, forest)
}

// GetTeamMembers lists a team's members
func (h *TeamHandler) GetTeamMembers(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	members, err := h.teamService.GetTeamMembers(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEmployeeDTOs(members))
}

// AddTeamMember adds the employee in the path to the team
func (h *TeamHandler) AddTeamMember(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	member, err := h.teamService.AddTeamMember(c.Request.Context(), actor, c.Param("id"), c.Param("employee_id"))
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamMembershipDTO(*member))
}

// RemoveTeamMember removes the employee in the path from the team
func (h *TeamHandler) RemoveTeamMember(c *gin.Context) {
	actor, ok := principal(c)
	if !ok {
		return
	}

	if err := h.teamService.RemoveTeamMember(c.Request.Context(), actor, c.Param("id"), c.Param("employee_id")); err != nil {
		respondWithError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member removed successfully",
	})
}
