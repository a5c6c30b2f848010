package services

import (
	"errors"

	"gorm.io/gorm"

	"tierlist-restful/apperrors"
)

// translate maps persistence errors to service error kinds. notFound, when
// non-nil, is returned for gorm.ErrRecordNotFound.
func translate(err error, notFound *apperrors.Error, internalMsg string) error {
	switch {
	case err == nil:
		return nil
	case apperrors.KindOf(err) != apperrors.KindInternal:
		return err
	case errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil:
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.Conflict("A row with the same unique value already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperrors.Conflict("The change violates a reference between rows")
	default:
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return err
		}
		return apperrors.Internal(internalMsg, err)
	}
}
