package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("matches direct code", func(t *testing.T) {
		err := New(CodeConflict, "name taken")
		assert.True(t, HasCode(err, CodeConflict))
		assert.False(t, HasCode(err, CodeNotFound))
	})

	t.Run("matches wrapped code", func(t *testing.T) {
		inner := New(CodeNotFound, "agreement missing")
		outer := Wrap(inner, CodeInternal, "lookup failed")
		assert.True(t, HasCode(outer, CodeInternal))
		assert.True(t, HasCode(outer, CodeNotFound))
	})

	t.Run("false for foreign errors", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("plain"), CodeInternal))
		assert.False(t, HasCode(nil, CodeInternal))
	})

	t.Run("survives fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", New(CodeValidation, "bad name"))
		assert.True(t, HasCode(err, CodeValidation))
	})
}

func TestFieldErrors(t *testing.T) {
	err := NewField(CodeValidation, "maxDependents", "maxDependents must be between 1 and 50")
	require.True(t, HasCode(err, CodeValidation))
	assert.Equal(t, "maxDependents", FieldName(err))
	assert.Equal(t, "", FieldName(New(CodeConflict, "no field")))
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeTransferFailed, GetCode(New(CodeTransferFailed, "insufficient balance")))
	assert.Equal(t, CodeInternal, GetCode(errors.New("plain")))
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeBadRequest:            http.StatusBadRequest,
		CodeValidation:            http.StatusBadRequest,
		CodeNotFound:              http.StatusNotFound,
		CodeConflict:              http.StatusConflict,
		CodeUnauthorized:          http.StatusUnauthorized,
		CodeForbidden:             http.StatusForbidden,
		CodeAuthorityNotVerified:  http.StatusPreconditionFailed,
		CodeMaxAgreementsExceeded: http.StatusConflict,
		CodeTransferFailed:        http.StatusPaymentRequired,
		CodeInternal:              http.StatusInternalServerError,
		Code("unknown"):           http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(code), string(code))
	}
}
