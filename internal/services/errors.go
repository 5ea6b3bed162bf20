package services

import (
	"errors"
)

var (
	ErrInvalidURL              = errors.New("invalid url")
	ErrInvalidCustomCode       = errors.New("invalid custom code")
	ErrCodeAlreadyExists       = errors.New("short code already exists")
	ErrCodeGenerationExhausted = errors.New("unable to generate a unique short code")
	ErrNotFound                = errors.New("short url not found")
	ErrStorageUnavailable      = errors.New("storage unavailable")
	ErrInvalidPeriod           = errors.New("invalid period")
)

// Kind is the stable machine-readable name of an error returned to clients.
type Kind string

const (
	KindInvalidURL              Kind = "invalid_url"
	KindInvalidCustomCode       Kind = "invalid_custom_code"
	KindCodeAlreadyExists       Kind = "code_already_exists"
	KindCodeGenerationExhausted Kind = "code_generation_exhausted"
	KindNotFound                Kind = "not_found"
	KindStorageUnavailable      Kind = "storage_unavailable"
	KindInvalidPeriod           Kind = "invalid_period"
	KindInternal                Kind = "internal"
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrInvalidURL, KindInvalidURL},
	{ErrInvalidCustomCode, KindInvalidCustomCode},
	{ErrCodeAlreadyExists, KindCodeAlreadyExists},
	{ErrCodeGenerationExhausted, KindCodeGenerationExhausted},
	{ErrNotFound, KindNotFound},
	{ErrStorageUnavailable, KindStorageUnavailable},
	{ErrInvalidPeriod, KindInvalidPeriod},
}

// KindOf maps err to its Kind, or KindInternal if it wraps none of the
// sentinel errors above.
func KindOf(err error) Kind {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}
