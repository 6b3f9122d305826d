package repository

import (
	"github.com/yukikurage/kanban-api/internal/database"
	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBoardRepository is a GORM implementation of BoardRepository
type GormBoardRepository struct {
	db *gorm.DB
}

// NewBoardRepository creates a new BoardRepository
func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &GormBoardRepository{db: db}
}

// Create creates a new board
func (r *GormBoardRepository) Create(board *models.Board) error {
	return r.db.Create(board).Error
}

// FindByID finds a board by ID
func (r *GormBoardRepository) FindByID(id uint64) (*models.Board, error) {
	var board models.Board
	if err := r.db.First(&board, id).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// LockByID loads a board with SELECT ... FOR UPDATE
func (r *GormBoardRepository) LockByID(id uint64) (*models.Board, error) {
	var board models.Board
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&board, id).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// ListForUser lists boards the user owns or is a member of, newest first
func (r *GormBoardRepository) ListForUser(userID uint64, params utils.PaginationParams) ([]models.Board, int64, error) {
	visible := func() *gorm.DB {
		memberOf := r.db.Model(&models.BoardMember{}).Select("board_id").Where("user_id = ?", userID)
		return r.db.Model(&models.Board{}).Where("boards.owner_id = ? OR boards.id IN (?)", userID, memberOf)
	}

	var total int64
	if err := visible().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var boards []models.Board
	if err := visible().
		Order("boards.created_at DESC").
		Order("boards.id DESC").
		Scopes(database.Paginate(params)).
		Find(&boards).Error; err != nil {
		return nil, 0, err
	}

	return boards, total, nil
}

// Update saves board fields
func (r *GormBoardRepository) Update(board *models.Board) error {
	return r.db.Model(board).Select("name", "description").Updates(board).Error
}

// Delete deletes a board and all related data
func (r *GormBoardRepository) Delete(id uint64) error {
	columns := r.db.Model(&models.Column{}).Select("id").Where("board_id = ?", id)
	tasks := r.db.Model(&models.Task{}).Select("id").Where("column_id IN (?)", columns)

	// Children first so restrictive foreign keys never block the delete
	steps := []func() error{
		func() error {
			return r.db.Where("task_id IN (?)", tasks).Delete(&models.TaskAssignment{}).Error
		},
		func() error {
			return r.db.Where("task_id IN (?)", tasks).Delete(&models.TaskTag{}).Error
		},
		func() error {
			return r.db.Where("column_id IN (?)", columns).Delete(&models.Task{}).Error
		},
		func() error {
			return r.db.Where("board_id = ?", id).Delete(&models.Column{}).Error
		},
		func() error {
			return r.db.Where("board_id = ?", id).Delete(&models.Tag{}).Error
		},
		func() error {
			return r.db.Where("board_id = ?", id).Delete(&models.BoardMember{}).Error
		},
		func() error {
			return r.db.Model(&models.Notification{}).Where("ref_board_id = ?", id).Update("ref_board_id", nil).Error
		},
		func() error {
			return r.db.Delete(&models.Board{}, id).Error
		},
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// GormMemberRepository is a GORM implementation of MemberRepository
type GormMemberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &GormMemberRepository{db: db}
}

// GetOrCreate inserts the membership unless (board, user) already exists
func (r *GormMemberRepository) GetOrCreate(member *models.BoardMember) (bool, error) {
	result := r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "board_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(member)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	existing, err := r.FindByUser(member.BoardID, member.UserID)
	if err != nil {
		return false, err
	}
	*member = *existing
	return false, nil
}

// FindByID finds a membership of a board by its ID
func (r *GormMemberRepository) FindByID(boardID, memberID uint64) (*models.BoardMember, error) {
	var member models.BoardMember
	if err := r.db.Preload("User").
		Where("board_id = ? AND id = ?", boardID, memberID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindByUser finds the membership of a user on a board
func (r *GormMemberRepository) FindByUser(boardID, userID uint64) (*models.BoardMember, error) {
	var member models.BoardMember
	if err := r.db.Preload("User").
		Where("board_id = ? AND user_id = ?", boardID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// List lists the memberships of a board ordered by username
func (r *GormMemberRepository) List(boardID uint64) ([]models.BoardMember, error) {
	var members []models.BoardMember
	err := r.db.Preload("User").
		Joins("JOIN users ON users.id = board_members.user_id").
		Where("board_members.board_id = ?", boardID).
		Order("users.username ASC").
		Find(&members).Error
	return members, err
}

// UpdateRole changes the role of a membership
func (r *GormMemberRepository) UpdateRole(member *models.BoardMember, role models.BoardRole) error {
	if err := r.db.Model(member).Update("role", role).Error; err != nil {
		return err
	}
	member.Role = role
	return nil
}

// Delete removes a membership
func (r *GormMemberRepository) Delete(member *models.BoardMember) error {
	return r.db.Delete(&models.BoardMember{}, member.ID).Error
}

// CountOwners counts owner-role memberships of a board
func (r *GormMemberRepository) CountOwners(boardID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.BoardMember{}).
		Where("board_id = ? AND role = ?", boardID, models.RoleOwner).
		Count(&count).Error
	return count, err
}
