package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/soleindustrial/plm/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	var list []domain.User
	if err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return list, nil
}

func (r *UserRepo) Insert(ctx context.Context, u *domain.User) error {
	return wrapStoreErr(r.db.WithContext(ctx).Create(u).Error)
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	return wrapStoreErr(r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{}).Error)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, wrapStoreErr(err)
	}
	return &u, nil
}
