package postgres

import (
	"errors"

	"github.com/frahmantamala/workforce-management/internal"
	initiativeDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/initiative"
	"github.com/frahmantamala/workforce-management/internal/initiative"
	"gorm.io/gorm"
)

// InitiativeRepository implements initiative.RepositoryAPI using GORM.
type InitiativeRepository struct {
	db *gorm.DB
}

func NewInitiativeRepository(db *gorm.DB) initiative.RepositoryAPI {
	return &InitiativeRepository{db: db}
}

func (r *InitiativeRepository) Create(i *initiativeDatamodel.Initiative) error {
	return r.db.Create(i).Error
}

func (r *InitiativeRepository) GetByID(id int64) (*initiativeDatamodel.Initiative, error) {
	var i initiativeDatamodel.Initiative
	err := r.db.Where("id = ?", id).First(&i).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrInitiativeNotFound
		}
		return nil, err
	}
	return &i, nil
}

func (r *InitiativeRepository) GetAll(limit, offset int) ([]*initiativeDatamodel.Initiative, error) {
	var initiatives []*initiativeDatamodel.Initiative
	err := r.db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&initiatives).Error
	return initiatives, err
}

func (r *InitiativeRepository) ListAll() ([]*initiativeDatamodel.Initiative, error) {
	var initiatives []*initiativeDatamodel.Initiative
	err := r.db.Find(&initiatives).Error
	return initiatives, err
}

// ListActiveForEmployee feeds the over-beyond pool of the capacity
// calculator; indexed on assigned_to.
func (r *InitiativeRepository) ListActiveForEmployee(employeeID int64) ([]*initiativeDatamodel.Initiative, error) {
	var initiatives []*initiativeDatamodel.Initiative
	err := r.db.Where("assigned_to = ? AND status = ?", employeeID, initiativeDatamodel.StatusActive).
		Find(&initiatives).Error
	return initiatives, err
}

func (r *InitiativeRepository) Update(i *initiativeDatamodel.Initiative) error {
	return r.db.Save(i).Error
}

func (r *InitiativeRepository) Delete(id int64) error {
	return r.db.Where("id = ?", id).Delete(&initiativeDatamodel.Initiative{}).Error
}
