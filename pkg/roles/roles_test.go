package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, Admin.HasPermission(Staff))
	assert.True(t, Admin.HasPermission(Admin))
	assert.True(t, Manager.HasPermission(Staff))
	assert.False(t, Manager.HasPermission(Admin))
	assert.False(t, Staff.HasPermission(Manager))
	assert.True(t, Staff.HasPermission(Staff))
}

func TestIsValid(t *testing.T) {
	assert.True(t, Staff.IsValid())
	assert.True(t, Manager.IsValid())
	assert.True(t, Admin.IsValid())
	assert.False(t, Role("superuser").IsValid())
	assert.False(t, Role("").IsValid())
}
