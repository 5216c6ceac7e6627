package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/soleindustrial/plm/internal/domain"
)

type SheetRepo struct{ db *gorm.DB }

func NewSheetRepo(db *gorm.DB) *SheetRepo { return &SheetRepo{db: db} }

func (r *SheetRepo) List(ctx context.Context) ([]domain.TechnicalSheet, error) {
	var list []domain.TechnicalSheet
	if err := r.db.WithContext(ctx).Order("date desc, version desc").Find(&list).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return list, nil
}

func (r *SheetRepo) Insert(ctx context.Context, sh *domain.TechnicalSheet) error {
	return wrapStoreErr(r.db.WithContext(ctx).Create(sh).Error)
}
