package repository

import (
	"gorm.io/gorm"

	"github.com/TeamFoxHQ/TeamFox/app/models"
)

// positionRepository implements the PositionRepository interface
type positionRepository struct {
	db *gorm.DB
}

// NewPositionRepository creates a new position repository instance
func NewPositionRepository(db *gorm.DB) PositionRepository {
	return &positionRepository{db: db}
}

// Create creates a new position
func (r *positionRepository) Create(position *models.Position) error {
	return r.db.Create(position).Error
}

// GetByID retrieves a position with its department
func (r *positionRepository) GetByID(id uint) (*models.Position, error) {
	var position models.Position
	err := r.db.Preload("Department").First(&position, id).Error
	if err != nil {
		return nil, err
	}
	return &position, nil
}

// GetByDepartment returns the positions of a department ordered by rank
func (r *positionRepository) GetByDepartment(departmentID uint) ([]models.Position, error) {
	var positions []models.Position
	err := r.db.Where("department_id = ?", departmentID).Order("rank asc, title asc").Find(&positions).Error
	return positions, err
}

// GetAll returns all positions with their departments
func (r *positionRepository) GetAll() ([]models.Position, error) {
	var positions []models.Position
	err := r.db.Preload("Department").Order("rank asc, title asc").Find(&positions).Error
	return positions, err
}

// Update persists changes to an existing position
func (r *positionRepository) Update(position *models.Position) error {
	return r.db.Save(position).Error
}

// Delete removes a position; users holding it lose the assignment
func (r *positionRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("position_id = ?", id).Update("position_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Position{}, id).Error
	})
}
