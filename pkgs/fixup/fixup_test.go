package fixup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAllReachesFixpoint(t *testing.T) {
	s := NewSystem()

	// b resolves only after a has, forcing a second pass.
	aDone := false
	s.Register(func(interface{}) bool {
		return aDone
	}, nil, nil)
	s.Register(func(interface{}) bool {
		aDone = true
		return true
	}, nil, nil)

	assert.True(t, s.ResolveAll())
	assert.True(t, s.Resolved())
	assert.Empty(t, s.Pending())
}

func TestUnresolvableFixupReported(t *testing.T) {
	s := NewSystem()
	s.Register(func(interface{}) bool { return false }, nil, nil)

	assert.False(t, s.ResolveAll())
	assert.False(t, s.Resolved())
	require.Len(t, s.Pending(), 1)
}

func TestEndReleasesPrivateData(t *testing.T) {
	s := NewSystem()
	released := ""
	s.Register(
		func(data interface{}) bool { return data.(string) == "payload" },
		func(data interface{}) { released = data.(string) },
		"payload",
	)

	require.True(t, s.ResolveAll())
	assert.Equal(t, "payload", released)
}

func TestEndRunsOncePerFixup(t *testing.T) {
	s := NewSystem()
	calls := 0
	s.Register(
		func(interface{}) bool { return true },
		func(interface{}) { calls++ },
		nil,
	)
	require.True(t, s.ResolveAll())
	require.True(t, s.ResolveAll())
	assert.Equal(t, 1, calls)
}

func TestEmptySystemIsResolved(t *testing.T) {
	s := NewSystem()
	assert.True(t, s.ResolveAll())
	assert.True(t, s.Resolved())
}
