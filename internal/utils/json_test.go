package utils_test

import (
	"testing"

	"startup-sim/internal/utils"

	"github.com/stretchr/testify/assert"
)

func TestDecodeStrict(t *testing.T) {
	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	t.Run("Decodes a well-formed payload", func(t *testing.T) {
		var out payload
		err := utils.DecodeStrict([]byte(`{"name":"PlantPal","count":3}`), &out)
		assert.NoError(t, err)
		assert.Equal(t, payload{Name: "PlantPal", Count: 3}, out)
	})

	t.Run("Rejects unknown fields", func(t *testing.T) {
		var out payload
		err := utils.DecodeStrict([]byte(`{"name":"PlantPal","stale":true}`), &out)
		assert.Error(t, err)
	})

	t.Run("Rejects malformed JSON", func(t *testing.T) {
		var out payload
		err := utils.DecodeStrict([]byte(`{"name":`), &out)
		assert.Error(t, err)
	})
}
