package roles

import (
	"context"
	"fmt"

	"github.com/creatorstack/creatorstack-backend/pkg/db/models"
	"github.com/creatorstack/creatorstack-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository exposes role persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get retrieves the role a user holds within a team.
func (r *Repository) Get(ctx context.Context, userID, teamID uuid.UUID) (*models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND team_id = ?", userID, teamID).
		First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// Upsert grants the user the given level within the team, overwriting any
// existing level for the same (user, team) pair.
func (r *Repository) Upsert(ctx context.Context, userID, teamID uuid.UUID, level enums.RoleLevel) (*models.Role, error) {
	if !level.IsValid() {
		return nil, fmt.Errorf("invalid role level %q", level)
	}

	role := &models.Role{
		UserID:    userID,
		TeamID:    teamID,
		RoleLevel: level,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "team_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role_level", "updated_at"}),
		}).
		Create(role).Error
	if err != nil {
		return nil, err
	}

	// The RETURNING clause is not populated uniformly across dialects on
	// conflict updates, so reload the canonical row.
	return r.Get(ctx, userID, teamID)
}

// ListUserTeams returns the teams a user belongs to along with role metadata.
func (r *Repository) ListUserTeams(ctx context.Context, userID uuid.UUID) ([]RoleWithTeam, error) {
	var rows []roleWithTeamRow

	err := r.db.WithContext(ctx).
		Model(&models.Role{}).
		Select("roles.*, teams.name AS team_name").
		Joins("JOIN teams ON teams.id = roles.team_id").
		Where("roles.user_id = ? AND teams.deleted_at IS NULL", userID).
		Order("teams.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return roleRowsToDTO(rows), nil
}

// ListTeamUsers returns roles for the team along with user metadata.
func (r *Repository) ListTeamUsers(ctx context.Context, teamID uuid.UUID) ([]TeamUserDTO, error) {
	var rows []teamUserRow
	err := r.db.WithContext(ctx).
		Model(&models.Role{}).
		Select("roles.*, users.email, users.name, users.last_login_at").
		Joins("JOIN users ON users.id = roles.user_id").
		Where("roles.team_id = ?", teamID).
		Order("roles.created_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return teamUsersFromRows(rows), nil
}

// UserHasLevel reports whether the user holds one of the provided levels for the team.
func (r *Repository) UserHasLevel(ctx context.Context, userID, teamID uuid.UUID, levels ...enums.RoleLevel) (bool, error) {
	if len(levels) == 0 {
		return false, nil
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Role{}).
		Where("user_id = ? AND team_id = ? AND role_level IN ?", userID, teamID, levels).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
