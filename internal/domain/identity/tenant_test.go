package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTenant(t *testing.T) {
	owner := uuid.New()

	tenant, err := NewTenant("Acme Studio", "acme-studio", "usd", owner)
	require.NoError(t, err)
	assert.Equal(t, "Acme Studio", tenant.Name)
	assert.Equal(t, "acme-studio", tenant.Slug)
	assert.Equal(t, "USD", tenant.Currency)
	assert.Equal(t, TenantStatusActive, tenant.Status)
	assert.True(t, tenant.IsActive())
}

func TestNewTenant_Validation(t *testing.T) {
	owner := uuid.New()

	tests := []struct {
		name     string
		tname    string
		slug     string
		currency string
		ownerID  uuid.UUID
	}{
		{"empty name", "", "acme", "USD", owner},
		{"empty slug", "Acme", "", "USD", owner},
		{"bad slug chars", "Acme", "Acme Studio!", "USD", owner},
		{"bad currency", "Acme", "acme", "DOLLARS", owner},
		{"nil owner", "Acme", "acme", "USD", uuid.Nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTenant(tt.tname, tt.slug, tt.currency, tt.ownerID)
			assert.Error(t, err)
		})
	}
}

func TestTenant_DeactivateActivate(t *testing.T) {
	tenant, err := NewTenant("Acme", "acme", "USD", uuid.New())
	require.NoError(t, err)

	tenant.Deactivate()
	assert.False(t, tenant.IsActive())
	assert.Equal(t, 2, tenant.Version)

	tenant.Activate()
	assert.True(t, tenant.IsActive())
}

func TestPlan_AllowsInvoices(t *testing.T) {
	limit := int64(5)
	limited := &Plan{Code: "starter", InvoiceLimit: &limit}
	unlimited := &Plan{Code: "pro"}

	assert.True(t, limited.AllowsInvoices(4))
	assert.False(t, limited.AllowsInvoices(5))
	assert.False(t, limited.AllowsInvoices(6))
	assert.True(t, unlimited.AllowsInvoices(1000000))
}

func TestSubscription_IsActive(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	assert.True(t, (&Subscription{Status: SubscriptionActive}).IsActive())
	assert.True(t, (&Subscription{Status: SubscriptionActive, ExpiresAt: &future}).IsActive())
	assert.False(t, (&Subscription{Status: SubscriptionActive, ExpiresAt: &past}).IsActive())
	assert.False(t, (&Subscription{Status: SubscriptionCancelled}).IsActive())
}
