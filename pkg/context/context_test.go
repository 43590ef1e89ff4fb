package context_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ctxpkg "github.com/Mindburn-Labs/helm-decide/pkg/context"
)

func TestNew_RejectsUnsupportedKinds(t *testing.T) {
	_, err := ctxpkg.New(map[string]interface{}{
		"fn": func() {},
	})
	require.Error(t, err)
}

func TestGet_DottedPathAndListIndex(t *testing.T) {
	c := ctxpkg.MustNew(map[string]interface{}{
		"customer": map[string]interface{}{
			"address": map[string]interface{}{
				"country": "DE",
			},
			"tags": []interface{}{"vip", "eu"},
		},
		"amount": 100,
	})

	assert.Equal(t, "DE", c.Get("customer.address.country"))
	assert.Equal(t, "vip", c.Get("customer.tags.0"))
	assert.Equal(t, float64(100), c.Get("amount"))
}

func TestGet_AbsentIsDistinctFromNull(t *testing.T) {
	c := ctxpkg.MustNew(map[string]interface{}{
		"nullable": nil,
	})

	assert.Nil(t, c.Get("nullable"))
	assert.False(t, ctxpkg.IsAbsent(c.Get("nullable")))

	assert.True(t, ctxpkg.IsAbsent(c.Get("missing.path")))
	assert.True(t, ctxpkg.IsAbsent(c.Get("nullable.deeper")))
}

func TestWith_DoesNotMutateOriginal(t *testing.T) {
	c := ctxpkg.MustNew(map[string]interface{}{"a": 1})
	c2 := c.With(map[string]ctxpkg.Value{"b": float64(2)})

	assert.True(t, ctxpkg.IsAbsent(c.Get("b")))
	assert.Equal(t, float64(2), c2.Get("b"))
	assert.Equal(t, float64(1), c2.Get("a"))
}
