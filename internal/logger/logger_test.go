package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, mode := range []string{"production", "development", ""} {
		l, err := New(mode)
		require.NoError(t, err)
		require.NotNil(t, l.SugaredLogger)
	}
}

func TestNopWith(t *testing.T) {
	l := Nop().With("component", "test")
	assert.NotNil(t, l)
	assert.NotPanics(t, func() {
		l.Info("message", "key", 1)
		l.Warn("message")
	})
}
