package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionDefaults(t *testing.T) {
	assert.Equal(t, "0.0.0-dev", Version)
	assert.Equal(t, "", Commit)
}
