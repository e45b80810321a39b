package idempotency

import (
	"errors"

	"encore.dev/beta/errs"
)

var (
	ErrMissingKey   = errors.New("the idempotency header key is not found")
	ErrMultipleKeys = errors.New("multiple idempotency keys were found")
	ErrEmptyKey     = errors.New("an idempotency header value is not found")
	ErrCorruptEntry = errors.New("cannot deserialize cached data")
)

func keyError(sentinel error, header string) error {
	return errs.WrapCode(sentinel, errs.InvalidArgument, sentinel.Error()+": "+header)
}

func corruptEntryError(err error) error {
	return errs.WrapCode(errors.Join(ErrCorruptEntry, err), errs.Internal, ErrCorruptEntry.Error())
}

func substrateError(err error) error {
	return errs.WrapCode(err, errs.Unavailable, "idempotency cache unavailable")
}
