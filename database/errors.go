package database

import (
	"errors"
	"fmt"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"gorm.io/gorm"
)

// wrapErr converts a gorm error into the errs taxonomy. nil stays nil.
func wrapErr(operation, entity string, err error) error {
	if err == nil {
		return nil
	}
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.NewNotFound(entity)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errs.NewDatabaseError(operation, entity, fmt.Errorf("%w: %v", errs.ErrUniqueConstraintViolation, err))
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return errs.NewDatabaseError(operation, entity, fmt.Errorf("%w: %v", errs.ErrForeignKeyConstraint, err))
	}
	return errs.NewDatabaseError(operation, entity, err)
}

// txErr is wrapErr for transaction bodies. Failures that map to no specific
// condition are reported as a failed transaction.
func txErr(operation, entity string, err error) error {
	wrapped := wrapErr(operation, entity, err)
	if errors.Is(wrapped, errs.ErrDatabaseQuery) {
		return errs.NewTransactionFailedError(operation+" "+entity, err)
	}
	return wrapped
}

// Page is an offset window over an ordered result set.
type Page struct {
	Offset int
	Limit  int
}

func (p Page) apply(db *gorm.DB) *gorm.DB {
	if p.Offset > 0 {
		db = db.Offset(p.Offset)
	}
	if p.Limit > 0 {
		db = db.Limit(p.Limit)
	}
	return db
}
