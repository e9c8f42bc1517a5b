package roles

import (
	"time"

	"github.com/creatorstack/creatorstack-backend/pkg/db/models"
)

type roleWithTeamRow struct {
	models.Role
	TeamName string `gorm:"column:team_name"`
}

func roleWithTeamFromRow(row roleWithTeamRow) RoleWithTeam {
	return RoleWithTeam{
		RoleID:    row.ID,
		TeamID:    row.TeamID,
		UserID:    row.UserID,
		TeamName:  row.TeamName,
		RoleLevel: row.RoleLevel,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func roleRowsToDTO(rows []roleWithTeamRow) []RoleWithTeam {
	out := make([]RoleWithTeam, 0, len(rows))
	for _, row := range rows {
		out = append(out, roleWithTeamFromRow(row))
	}
	return out
}

type teamUserRow struct {
	models.Role
	Email       string     `gorm:"column:email"`
	Name        string     `gorm:"column:name"`
	LastLoginAt *time.Time `gorm:"column:last_login_at"`
}

func teamUsersFromRows(rows []teamUserRow) []TeamUserDTO {
	out := make([]TeamUserDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, TeamUserDTO{
			RoleID:      row.ID,
			TeamID:      row.TeamID,
			UserID:      row.UserID,
			Email:       row.Email,
			Name:        row.Name,
			RoleLevel:   row.RoleLevel,
			CreatedAt:   row.CreatedAt,
			LastLoginAt: row.LastLoginAt,
		})
	}
	return out
}
