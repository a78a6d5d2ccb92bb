package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/seth-walker/HRIS/internal/models"
)

func TestTeamRepository_DeleteReparenting(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTeamRepository(db)
	ctx := context.Background()

	engineering := seedTeam(t, db, "Engineering", nil)
	frontend := seedTeam(t, db, "Frontend", &engineering.ID)
	backend := seedTeam(t, db, "Backend", &engineering.ID)

	member := seedEmployee(t, db, "Mem", "Ber", nil)
	require.NoError(t, repo.AddMember(ctx, &models.EmployeeTeamMembership{EmployeeID: member.ID, TeamID: engineering.ID}))
	require.NoError(t, db.Model(&models.Employee{}).Where("id = ?", member.ID).Update("team_id", engineering.ID).Error)

	result, err := repo.DeleteReparenting(ctx, engineering.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.ReassignedSubteamCount)
	assert.Nil(t, result.NewParentID)

	for _, id := range []string{frontend.ID, backend.ID} {
		parent, found, err := repo.ParentOf(ctx, id)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Nil(t, parent)
	}

	_, err = repo.FindByID(ctx, engineering.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.FindMember(ctx, engineering.ID, member.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var reloaded models.Employee
	require.NoError(t, db.First(&reloaded, "id = ?", member.ID).Error)
	assert.Nil(t, reloaded.TeamID)
}

func TestTeamRepository_DeleteReparentingToGrandparent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTeamRepository(db)
	ctx := context.Background()

	company := seedTeam(t, db, "Company", nil)
	platform := seedTeam(t, db, "Platform", &company.ID)
	infra := seedTeam(t, db, "Infra", &platform.ID)

	result, err := repo.DeleteReparenting(ctx, platform.ID)
	require.NoError(t, err)
	require.NotNil(t, result.NewParentID)
	assert.Equal(t, company.ID, *result.NewParentID)

	parent, _, err := repo.ParentOf(ctx, infra.ID)
	require.NoError(t, err)
	require.NotNil(t, parent)
	assert.Equal(t, company.ID, *parent)
}

func TestTeamRepository_DeleteMissing(t *testing.T) {
	db := setupTestDB(t)

	_, err := NewTeamRepository(db).DeleteReparenting(context.Background(), "nope")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTeamRepository_Membership(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTeamRepository(db)
	ctx := context.Background()

	team := seedTeam(t, db, "Design", nil)
	other := seedTeam(t, db, "Docs", nil)
	zoe := seedEmployee(t, db, "Zoe", "Young", nil)
	adam := seedEmployee(t, db, "Adam", "Ant", nil)

	require.NoError(t, repo.AddMember(ctx, &models.EmployeeTeamMembership{EmployeeID: zoe.ID, TeamID: team.ID}))
	require.NoError(t, repo.AddMember(ctx, &models.EmployeeTeamMembership{EmployeeID: adam.ID, TeamID: team.ID}))
	require.NoError(t, repo.AddMember(ctx, &models.EmployeeTeamMembership{EmployeeID: adam.ID, TeamID: other.ID}))

	err := repo.AddMember(ctx, &models.EmployeeTeamMembership{EmployeeID: zoe.ID, TeamID: team.ID})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	members, err := repo.ListMembers(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "Ant", members[0].LastName)

	counts, err := repo.MemberCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[team.ID])
	assert.Equal(t, 1, counts[other.ID])

	require.NoError(t, repo.RemoveMember(ctx, team.ID, zoe.ID))
	assert.ErrorIs(t, repo.RemoveMember(ctx, team.ID, zoe.ID), gorm.ErrRecordNotFound)
}

func TestTeamRepository_ListSearch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTeamRepository(db)
	ctx := context.Background()

	platform := seedTeam(t, db, "Platform", nil)
	seedTeam(t, db, "Payments", &platform.ID)
	seedTeam(t, db, "Marketing", nil)

	search := "pla"
	teams, err := repo.List(ctx, TeamFilter{Search: &search})
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "Platform", teams[0].Name)
	require.Len(t, teams[0].SubTeams, 1)
	assert.Equal(t, "Payments", teams[0].SubTeams[0].Name)
}
