package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePolicyDefaults(t *testing.T) {
	policy, err := ParsePolicy([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, "product", policy.Orders.DiscountSnapshot)
	assert.False(t, policy.Orders.EnforceTransitions)
	assert.False(t, policy.Catalog.GuardCategoryDelete)
}

func TestParsePolicyFile(t *testing.T) {
	data := []byte(`
orders:
  discount_snapshot: none
  enforce_transitions: true
  transitions:
    Processing: [Shipped, Cancelled]
    Shipped: [Delivered]
catalog:
  guard_banner_delete: true
`)
	policy, err := ParsePolicy(data)
	require.NoError(t, err)
	assert.Equal(t, "none", policy.Orders.DiscountSnapshot)
	assert.True(t, policy.Orders.EnforceTransitions)
	assert.Equal(t, []string{"Shipped", "Cancelled"}, policy.Orders.Transitions["Processing"])
	assert.True(t, policy.Catalog.GuardBannerDelete)
}

func TestParsePolicyRejectsUnknownDiscountSource(t *testing.T) {
	_, err := ParsePolicy([]byte("orders:\n  discount_snapshot: live\n"))
	assert.Error(t, err)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("POLICY_FILE", "")
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_URL", "postgres://localhost/shop")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://admin.example.com, https://shop.example.com")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/shop", cfg.DatabaseURL)
	assert.Equal(t, []string{"https://admin.example.com", "https://shop.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, "INR", cfg.Razorpay.Currency)
}
