package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnv_KafkaDefaults(t *testing.T) {
	cfg := LoadEnv()

	assert.Equal(t, "orders.events", cfg.Kafka.OrdersTopic)
	assert.Equal(t, "payments.events", cfg.Kafka.PaymentsTopic)
	// Each event family travels on its own topic; a producer bound to one
	// never reaches the other family's consumer.
	assert.NotEqual(t, cfg.Kafka.OrdersTopic, cfg.Kafka.PaymentsTopic)
}
