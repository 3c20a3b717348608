package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_NAME", "wave_kiosk")

	cfg := DatabaseConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "pw", Database: "wave", SSLMode: "disable"}
	cfg.LoadFromEnv("DB")

	assert.Equal(t, "host=db.internal port=6543 user=postgres password=pw dbname=wave_kiosk sslmode=disable", cfg.GetDSN())
}

func TestRedisAndMQTTConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("MQTT_BROKER", "tcp://mq:1883")
	t.Setenv("MQTT_QOS", "0")

	r := RedisConfig{Addr: "localhost:6379"}
	r.LoadFromEnv("REDIS")
	assert.Equal(t, "redis:6380", r.Addr)
	assert.Equal(t, 2, r.DB)

	m := MQTTConfig{Broker: "tcp://localhost:1883", ClientID: "wavectl", QoS: 1}
	m.LoadFromEnv("MQTT")
	assert.Equal(t, "tcp://mq:1883", m.Broker)
	assert.Equal(t, "wavectl", m.ClientID)
	assert.Equal(t, byte(0), m.QoS)
}
