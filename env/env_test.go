package env

import (
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestEnv(t *testing.T) {
	ctx := context.Background()

	t.Run("flags are only set by a case-insensitive true", func(t *testing.T) {
		cases := []struct {
			value    string
			expected bool
		}{
			{"true", true},
			{"TRUE", true},
			{" True ", true},
			{"false", false},
			{"1", false},
			{"yes", false},
			{"", false},
		}
		for _, c := range cases {
			viper.Set("TEST_FLAG", c.value)
			assert.Equal(t, c.expected, GetFlag(ctx, "TEST_FLAG"), c.value)
		}
	})

	t.Run("validate reports the offending var", func(t *testing.T) {
		RegisterValidation("TEST_ADDRESS", "required", "eth_addr")
		viper.Set("TEST_ADDRESS", "not-an-address")
		err := Validate()
		assert.Error(t, err)
		var invalid ErrInvalidEnv
		assert.ErrorAs(t, err, &invalid)
		assert.Equal(t, "TEST_ADDRESS", invalid.Name)

		viper.Set("TEST_ADDRESS", "0x5FbDB2315678afecb367f032d93F642f64180aa3")
		assert.NoError(t, Validate())
	})

	t.Run("get returns the zero value for unset vars", func(t *testing.T) {
		assert.Equal(t, "", Get[string](ctx, "TEST_UNSET_VAR"))
		_, ok := GetIfExists[string](ctx, "TEST_UNSET_VAR")
		assert.False(t, ok)
	})
}
