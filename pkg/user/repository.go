package user

import (
	"context"
	"errors"

	"github.com/localhive/event-catalog/internal/errdef"
	"github.com/google/uuid"

	"github.com/localhive/event-catalog/pkg/model"
	"gorm.io/gorm"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewRepository(db *gorm.DB) *repository {
	return &repository{db}
}

type repository struct {
	db *gorm.DB
}

func (r repository) save(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(&user).Error
}

func (r repository) create(ctx context.Context, u *model.User) error {
	err := r.db.WithContext(ctx).Create(&u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errdef.NewDuplicated("user %q already exists", u.Email)
	}

	return err
}

func (r repository) findByEmail(ctx context.Context, email string) (*model.User, error) {
	var u *model.User
	err := r.db.
		WithContext(ctx).
		Where("email = ?", email).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("failed to find user with email %q", email)
	}
	return u, err
}

func (r repository) findByEmailToken(ctx context.Context, token uuid.UUID) (*model.User, error) {
	var u *model.User
	err := r.db.WithContext(ctx).First(&u, "email_token = ?", token.String()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("failed to find user with email token %q", token.String())
	}
	return u, err
}

func (r repository) findById(ctx context.Context, id uint) (*model.User, error) {
	var u *model.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errdef.NewNotFound("failed to find user with id %d", id)
	}
	return u, err
}
