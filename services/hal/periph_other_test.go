//go:build !linux && !tinygo

package hal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envmon-go/errcode"
)

func TestPeriphUnavailableOffLinux(t *testing.T) {
	p, err := NewPeriph(simConfig(t))
	require.Error(t, err)
	assert.Nil(t, p)
	assert.Equal(t, errcode.Error, errcode.Of(err))
	assert.Contains(t, err.Error(), "periph requires linux")
}
