package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/soleindustrial/plm/internal/domain"
)

type SampleRepo struct{ db *gorm.DB }

func NewSampleRepo(db *gorm.DB) *SampleRepo { return &SampleRepo{db: db} }

func (r *SampleRepo) List(ctx context.Context) ([]domain.Sample, error) {
	var list []domain.Sample
	if err := r.db.WithContext(ctx).Order("registration_date desc, sequential_id desc").Find(&list).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return list, nil
}

func (r *SampleRepo) Insert(ctx context.Context, s *domain.Sample) error {
	return wrapStoreErr(r.db.WithContext(ctx).Create(s).Error)
}

func (r *SampleRepo) Update(ctx context.Context, s *domain.Sample) error {
	return wrapStoreErr(r.db.WithContext(ctx).Save(s).Error)
}

func wrapStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrConflict
	default:
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
}
