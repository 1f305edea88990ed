package cartstore

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidArgument is returned for requests rejected before the backend is touched.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrBackendUnavailable is returned when the backend cannot be reached or times out.
	// Callers may retry; stores never do.
	ErrBackendUnavailable = errors.New("cart backend unavailable")

	// ErrCorruptCart is returned when a stored cart cannot be decoded.
	ErrCorruptCart = errors.New("corrupt cart data")
)

func validateUser(userID string) error {
	if userID == "" {
		return errors.Wrap(ErrInvalidArgument, "user id must not be empty")
	}
	return nil
}

func validateAdd(userID string, quantity int32) error {
	if err := validateUser(userID); err != nil {
		return err
	}
	if quantity < 1 {
		return errors.Wrapf(ErrInvalidArgument, "quantity must be positive, got %d", quantity)
	}
	return nil
}

func overflowError(userID, productID string, quantity int32) error {
	return errors.Wrapf(ErrInvalidArgument,
		"adding %d of product %q to cart of user %q exceeds the maximum quantity", quantity, productID, userID)
}
