package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain/account"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

func (r *UserGormRepository) CreateUser(ctx context.Context, u *models.User) error {
	if err := conn(ctx, r.db).Create(u).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			return httperr.ErrConflict(
				"email_taken",
				"An account with this e-mail already exists.",
				nil,
			)
		}
		return err
	}
	return nil
}

func (r *UserGormRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := conn(ctx, r.db).First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserGormRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := conn(ctx, r.db).
		Where("lower(email) = lower(?)", email).
		First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

var _ account.Repository = (*UserGormRepository)(nil)
