package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cases := map[error]Kind{
		ErrInvalidURL:                                 KindInvalidURL,
		fmt.Errorf("%w: bad scheme", ErrInvalidURL):   KindInvalidURL,
		ErrInvalidCustomCode:                          KindInvalidCustomCode,
		fmt.Errorf("%w: promo", ErrCodeAlreadyExists): KindCodeAlreadyExists,
		ErrCodeGenerationExhausted:                    KindCodeGenerationExhausted,
		ErrNotFound:                                   KindNotFound,
		fmt.Errorf("%w: %w", ErrStorageUnavailable, errors.New("conn refused")): KindStorageUnavailable,
		ErrInvalidPeriod:        KindInvalidPeriod,
		errors.New("something"): KindInternal,
	}
	for err, want := range cases {
		assert.Equal(t, want, KindOf(err), err.Error())
	}
}
