package database

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Clauses(dbresolver.Write).First(&user, "id = ?", id).Error; err != nil {
		return nil, wrapErr("find", "user", err)
	}
	return &user, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Clauses(dbresolver.Write).
		First(&user, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		return nil, wrapErr("find", "user", err)
	}
	return &user, nil
}

func (r *UserRepo) Add(ctx context.Context, user *models.User) error {
	return wrapErr("create", "user", r.db.WithContext(ctx).Create(user).Error)
}

func (r *UserRepo) Update(ctx context.Context, user *models.User) error {
	return wrapErr("update", "user", r.db.WithContext(ctx).Save(user).Error)
}
