// Package constants contains provider identifiers shared between config and infra.
package constants

// Environments
const (
	EnvLocal = "local"
)

// Pub/Sub providers
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
	PubSubProviderAMQP   = "amqp"
)

// Session store providers
const (
	SessionProviderMemory = "memory"
	SessionProviderRedis  = "redis"
)

// Database drivers
const (
	DatabaseDriverPostgres = "postgres"
	DatabaseDriverSQLite   = "sqlite"
)

// Session keys
const (
	SessionKeyActiveStoreID = "active_store_id"
)
