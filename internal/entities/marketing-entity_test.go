package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidStage(t *testing.T) {
	assert.True(t, ValidStage(StageLeads))
	assert.True(t, ValidStage(StageInterest))
	assert.True(t, ValidStage(StageBooked))

	assert.False(t, ValidStage(""))
	assert.False(t, ValidStage("closed"))
	assert.False(t, ValidStage("Leads"))
}
