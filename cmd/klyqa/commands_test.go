package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wheelibin/klyqa/internal/models"
)

func Test_parseRGB(t *testing.T) {

	t.Run("should parse three channels", func(t *testing.T) {
		// act
		color, err := parseRGB("255, 120,0")

		// assert
		require.NoError(t, err)
		assert.Equal(t, models.RGBColor{Red: 255, Green: 120, Blue: 0}, color)
	})

	t.Run("should reject a channel above 255", func(t *testing.T) {
		// act
		_, err := parseRGB("256,0,0")

		// assert
		assert.Error(t, err)
	})

	t.Run("should reject the wrong number of channels", func(t *testing.T) {
		// act
		_, err := parseRGB("1,2")

		// assert
		assert.Error(t, err)
	})
}
