package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("jamaah")))
	assert.Equal(t, KindConflict, KindOf(Conflict("duplikat")))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestKindOfWrapped(t *testing.T) {
	inner := CapacityExceeded("grup penuh")
	wrapped := fmt.Errorf("saat menambah anggota: %w", inner)
	assert.True(t, IsKind(wrapped, KindCapacityExceeded))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("pq: boom")
	err := Internal(cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "boom")
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, "jamaah tidak ditemukan", NotFound("jamaah").Message)
}
