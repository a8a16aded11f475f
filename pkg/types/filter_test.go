package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterOffset(t *testing.T) {
	assert.Equal(t, 0, Filter{Page: 1, Limit: 50}.Offset())
	assert.Equal(t, 50, Filter{Page: 2, Limit: 50}.Offset())
	assert.Equal(t, 0, Filter{Page: 0, Limit: 50}.Offset())
	assert.Equal(t, 0, Filter{Page: -3, Limit: 50}.Offset())
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(101, 2, 50)
	assert.Equal(t, uint64(101), p.Total)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 50, p.Limit)
	assert.Equal(t, 3, p.TotalPages)

	assert.Equal(t, 0, NewPagination(0, 1, 50).TotalPages)
	assert.Equal(t, 1, NewPagination(50, 1, 50).TotalPages)
	assert.Equal(t, 0, NewPagination(10, 1, 0).TotalPages)
}
