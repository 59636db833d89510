package cmd

import "time"

// Config carries the environment-driven settings of the fulfillment service.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	KafkaBrokers           []string
	KafkaOrderStatusTopic  string
	KafkaStockReleaseTopic string
	KafkaClientID          string

	// ReturnWindow bounds how long after delivery an admin may accept a return.
	ReturnWindow time.Duration
	// DispatchInterval is the tick of the automatic order dispatch job.
	DispatchInterval time.Duration

	TracingExporterURL string
	TracingSampleRate  float64
	Environment        string
}
