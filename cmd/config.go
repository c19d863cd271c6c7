package cmd

import (
	"fmt"
	"time"
)

// Config carries every knob the process reads from the environment.
// String fields come straight from os.Getenv; durations and numbers are
// parsed with defaults by getConfigs in cmd/app.
type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	KafkaBrokers        []string
	KafkaTickAuditTopic string
	KafkaClientID       string

	MqttBroker   string
	MqttClientID string
	MqttUsername string
	MqttPassword string
	MqttQoS      byte

	// TickInterval is the dispatch loop cadence.
	TickInterval time.Duration

	// StaleAfter is how old a heartbeat may be before a connected courier
	// is marked disconnected.
	StaleAfter time.Duration

	// ReminderAfter and ReminderBefore bound the window in which an
	// assigned-but-unaccepted order triggers a courier reminder.
	ReminderAfter  time.Duration
	ReminderBefore time.Duration
}

// PostgresDSN renders the keyword connection string for the gorm postgres
// driver.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
