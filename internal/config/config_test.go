package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, OrderStoreMongo, cfg.OrderStore)
	assert.Equal(t, int64(1000), cfg.Checkout.ShippingFee)
	assert.Equal(t, 1500*time.Millisecond, cfg.Checkout.PaymentDelay)
	assert.Equal(t, "admin@crochetcreations.com", cfg.Email.AdminEmail)
	assert.Equal(t, "admin_notification_template", cfg.Email.Templates.Admin)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.False(t, cfg.Email.Enabled())
}

func TestLoad_Env(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ORDER_STORE", "Postgres")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("SHIPPING_FEE", "2500")
	t.Setenv("PAYMENT_DELAY", "10ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, OrderStorePostgres, cfg.OrderStore)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, int64(2500), cfg.Checkout.ShippingFee)
	assert.Equal(t, 10*time.Millisecond, cfg.Checkout.PaymentDelay)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "unknown store", key: "ORDER_STORE", val: "firestore"},
		{name: "negative shipping", key: "SHIPPING_FEE", val: "-1"},
		{name: "failure rate above one", key: "PAYMENT_FAILURE_RATE", val: "1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_ProductionRequiresAdminKey(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ENVIRONMENT", "production")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("ADMIN_KEY_HASH", "$2a$10$abcdefghijklmnopqrstuv")
	_, err = Load()
	assert.NoError(t, err)
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
