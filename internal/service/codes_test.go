package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCode(t *testing.T) {
	t.Run("pass code shape", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			code := newCode(8)
			assert.Len(t, code, 8)
			assert.Equal(t, strings.ToUpper(code), code)
			assert.NotContains(t, code, "-")
		}
	})

	t.Run("registration code shape", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			code := newCode(6)
			assert.Len(t, code, 6)
			assert.Equal(t, strings.ToUpper(code), code)
			assert.NotContains(t, code, "-")
		}
	})

	t.Run("codes are hex characters", func(t *testing.T) {
		code := newCode(8)
		for _, r := range code {
			assert.Contains(t, "0123456789ABCDEF", string(r))
		}
	})
}
