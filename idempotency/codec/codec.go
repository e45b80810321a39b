// Package codec serializes idempotency cache entries to the bytes stored in
// the access cache.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"encore.app/idempotency/model"
)

// ErrSerialization is returned when an entry cannot be encoded or decoded.
var ErrSerialization = errors.New("codec: cannot serialize cache entry")

// Codec converts cache entries to and from bytes.
type Codec interface {
	Encode(entry model.Entry) ([]byte, error)
	Decode(data []byte) (model.Entry, error)
}

// JSON is the default Codec. The zero value is ready to use.
type JSON struct{}

var _ Codec = JSON{}

// Encode validates the entry shape and marshals it.
func (JSON) Encode(entry model.Entry) ([]byte, error) {
	if err := validate(entry); err != nil {
		return nil, err
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return data, nil
}

// Decode unmarshals data and rejects anything that is not exactly one of the
// two entry shapes.
func (JSON) Decode(data []byte) (model.Entry, error) {
	var entry model.Entry
	if len(bytes.TrimSpace(data)) == 0 {
		return entry, fmt.Errorf("%w: empty payload", ErrSerialization)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&entry); err != nil {
		return model.Entry{}, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	if dec.More() {
		return model.Entry{}, fmt.Errorf("%w: trailing data", ErrSerialization)
	}
	if err := validate(entry); err != nil {
		return model.Entry{}, err
	}
	return entry, nil
}

func validate(entry model.Entry) error {
	switch {
	case entry.IsInFlight() && entry.HasCompletedFields():
		return fmt.Errorf("%w: entry mixes in-flight and completed fields", ErrSerialization)
	case entry.IsInFlight():
		if _, err := uuid.Parse(entry.RequestInFlightID); err != nil {
			return fmt.Errorf("%w: in-flight id: %w", ErrSerialization, err)
		}
	case !entry.HasCompletedFields():
		return fmt.Errorf("%w: entry has no fields", ErrSerialization)
	case entry.ResponseStatusCode == 0:
		return fmt.Errorf("%w: completed entry without status code", ErrSerialization)
	case entry.ResponseBody != nil && !entry.ResponseBody.Kind.Valid():
		return fmt.Errorf("%w: unknown result type %q", ErrSerialization, entry.ResponseBody.Kind)
	}
	return nil
}
