package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/soleindustrial/plm/internal/domain"
)

type InspectionRepo struct{ db *gorm.DB }

func NewInspectionRepo(db *gorm.DB) *InspectionRepo { return &InspectionRepo{db: db} }

func (r *InspectionRepo) List(ctx context.Context) ([]domain.Inspection, error) {
	var list []domain.Inspection
	if err := r.db.WithContext(ctx).Order("date desc, version desc").Find(&list).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return list, nil
}

func (r *InspectionRepo) Insert(ctx context.Context, i *domain.Inspection) error {
	return wrapStoreErr(r.db.WithContext(ctx).Create(i).Error)
}
