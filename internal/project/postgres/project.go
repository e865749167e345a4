package postgres

import (
	"errors"

	"github.com/frahmantamala/workforce-management/internal"
	projectDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/project"
	"github.com/frahmantamala/workforce-management/internal/project"
	"gorm.io/gorm"
)

// ProjectRepository implements project.RepositoryAPI using GORM.
type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) project.RepositoryAPI {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(p *projectDatamodel.Project) error {
	return r.db.Create(p).Error
}

func (r *ProjectRepository) GetByID(id int64) (*projectDatamodel.Project, error) {
	var p projectDatamodel.Project
	err := r.db.Preload("Assignments").Preload("Milestones").
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) GetAll(limit, offset int) ([]*projectDatamodel.Project, error) {
	var projects []*projectDatamodel.Project
	err := r.db.Preload("Assignments").Preload("Milestones").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&projects).Error
	return projects, err
}

// ListAll loads every project with its aggregate, for the rule engine scan.
func (r *ProjectRepository) ListAll() ([]*projectDatamodel.Project, error) {
	var projects []*projectDatamodel.Project
	err := r.db.Preload("Assignments").Preload("Milestones").
		Find(&projects).Error
	return projects, err
}

// ListActiveForEmployee feeds the capacity calculator: only active projects
// where the employee holds an assignment. Indexed on assignments.employee_id
// so this is not a full scan.
func (r *ProjectRepository) ListActiveForEmployee(employeeID int64) ([]*projectDatamodel.Project, error) {
	var projects []*projectDatamodel.Project
	err := r.db.Preload("Assignments").Preload("Milestones").
		Joins("JOIN assignments ON assignments.project_id = projects.id").
		Where("assignments.employee_id = ? AND projects.status = ?", employeeID, projectDatamodel.StatusActive).
		Find(&projects).Error
	return projects, err
}

// SaveVersioned persists the whole aggregate in one transaction. The parent
// row update is conditional on the version the caller read; zero rows
// affected means a concurrent writer won and the caller must re-read.
func (r *ProjectRepository) SaveVersioned(p *projectDatamodel.Project, expectedVersion int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&projectDatamodel.Project{}).
			Where("id = ? AND version = ?", p.ID, expectedVersion).
			Updates(map[string]interface{}{
				"name":            p.Name,
				"description":     p.Description,
				"status":          p.Status,
				"manager_id":      p.ManagerID,
				"budget":          p.Budget,
				"estimated_hours": p.EstimatedHours,
				"actual_hours":    p.ActualHours,
				"version":         p.Version,
				"updated_at":      p.UpdatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return internal.ErrConcurrentModification
		}

		if err := syncAssignments(tx, p); err != nil {
			return err
		}
		return syncMilestones(tx, p)
	})
}

func syncAssignments(tx *gorm.DB, p *projectDatamodel.Project) error {
	keep := make([]int64, 0, len(p.Assignments))
	for i := range p.Assignments {
		p.Assignments[i].ProjectID = p.ID
		if err := tx.Save(&p.Assignments[i]).Error; err != nil {
			return err
		}
		keep = append(keep, p.Assignments[i].ID)
	}

	q := tx.Where("project_id = ?", p.ID)
	if len(keep) > 0 {
		q = q.Where("id NOT IN ?", keep)
	}
	return q.Delete(&projectDatamodel.Assignment{}).Error
}

func syncMilestones(tx *gorm.DB, p *projectDatamodel.Project) error {
	keep := make([]int64, 0, len(p.Milestones))
	for i := range p.Milestones {
		p.Milestones[i].ProjectID = p.ID
		if err := tx.Save(&p.Milestones[i]).Error; err != nil {
			return err
		}
		keep = append(keep, p.Milestones[i].ID)
	}

	q := tx.Where("project_id = ?", p.ID)
	if len(keep) > 0 {
		q = q.Where("id NOT IN ?", keep)
	}
	return q.Delete(&projectDatamodel.Milestone{}).Error
}

func (r *ProjectRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&projectDatamodel.Assignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&projectDatamodel.Milestone{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&projectDatamodel.Project{}).Error
	})
}
