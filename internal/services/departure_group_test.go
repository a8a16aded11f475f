package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupCodeSuffix(t *testing.T) {
	testCases := []struct {
		index    int
		expected string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, GroupCodeSuffix(tc.index), "index %d", tc.index)
	}
}
