package cmd

import "time"

// Config carries everything the service reads from the environment.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	KafkaHost              string
	KafkaOrderChangedTopic string
	RedisAddr              string

	// ReservationTTL is how long a stock hold survives without payment.
	ReservationTTL time.Duration

	// DeliverySLA is the window between payment and the delivery deadline.
	DeliverySLA time.Duration

	// IdempotencyTTL is the retention window for checkout idempotency keys.
	IdempotencyTTL time.Duration

	// SweepBatchLimit bounds how many expired reservations one sweep run
	// releases.
	SweepBatchLimit int

	RouteCapacity       int
	ClusterRadiusKm     float64
	RouteDeadlineSpread time.Duration
}
