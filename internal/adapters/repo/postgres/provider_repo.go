package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/soleindustrial/plm/internal/domain"
)

type ProviderRepo struct{ db *gorm.DB }

func NewProviderRepo(db *gorm.DB) *ProviderRepo { return &ProviderRepo{db: db} }

func (r *ProviderRepo) List(ctx context.Context) ([]domain.Provider, error) {
	var list []domain.Provider
	if err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return list, nil
}

func (r *ProviderRepo) Insert(ctx context.Context, p *domain.Provider) error {
	return wrapStoreErr(r.db.WithContext(ctx).Create(p).Error)
}

func (r *ProviderRepo) Update(ctx context.Context, p *domain.Provider) error {
	return wrapStoreErr(r.db.WithContext(ctx).Save(p).Error)
}

func (r *ProviderRepo) Delete(ctx context.Context, id string) error {
	return wrapStoreErr(r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Provider{}).Error)
}
