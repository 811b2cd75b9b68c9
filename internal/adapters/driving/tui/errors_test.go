package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AreDistinct(t *testing.T) {
	assert.NotEqual(t, ErrMissingDatasetService.Error(), ErrInvalidPorts.Error())
}

func TestErrMissingDatasetService_Message(t *testing.T) {
	assert.Contains(t, ErrMissingDatasetService.Error(), "dataset service")
}

func TestErrInvalidPorts_Message(t *testing.T) {
	assert.Contains(t, ErrInvalidPorts.Error(), "invalid ports")
}
