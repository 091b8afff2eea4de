package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/TeamFoxHQ/TeamFox/app/models"
)

// ErrDepartmentCycle is returned when an update would make a department its
// own ancestor.
var ErrDepartmentCycle = errors.New("department cannot be its own ancestor")

// departmentRepository implements the DepartmentRepository interface
type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository creates a new department repository instance
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

// Create creates a new department
func (r *departmentRepository) Create(department *models.Department) error {
	if err := r.checkCycle(department); err != nil {
		return err
	}
	return r.db.Create(department).Error
}

// GetByID retrieves a department with its positions
func (r *departmentRepository) GetByID(id uint) (*models.Department, error) {
	var department models.Department
	err := r.db.Preload("Positions", func(db *gorm.DB) *gorm.DB {
		return db.Order("positions.rank asc")
	}).Preload("Parent").First(&department, id).Error
	if err != nil {
		return nil, err
	}
	return &department, nil
}

// GetAll returns all departments ordered by name
func (r *departmentRepository) GetAll() ([]models.Department, error) {
	var departments []models.Department
	err := r.db.Order("name asc").Find(&departments).Error
	return departments, err
}

// GetChildren returns the direct children of a department
func (r *departmentRepository) GetChildren(parentID uint) ([]models.Department, error) {
	var departments []models.Department
	err := r.db.Where("parent_id = ?", parentID).Order("name asc").Find(&departments).Error
	return departments, err
}

// Update persists changes to an existing department
func (r *departmentRepository) Update(department *models.Department) error {
	if err := r.checkCycle(department); err != nil {
		return err
	}
	return r.db.Save(department).Error
}

// Delete removes a department; children are re-parented to the root level
func (r *departmentRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Department{}).Where("parent_id = ?", id).Update("parent_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Department{}, id).Error
	})
}

// Count returns the total number of departments
func (r *departmentRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Department{}).Count(&count).Error
	return count, err
}

// checkCycle walks the parent chain and rejects updates that would create a
// loop in the tree.
func (r *departmentRepository) checkCycle(department *models.Department) error {
	if department.ParentID == nil || department.ID == 0 {
		return nil
	}
	parentID := department.ParentID
	for parentID != nil {
		if *parentID == department.ID {
			return ErrDepartmentCycle
		}
		var parent models.Department
		if err := r.db.Select("id", "parent_id").First(&parent, *parentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		parentID = parent.ParentID
	}
	return nil
}
