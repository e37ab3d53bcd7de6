package bunx

import "github.com/google/uuid"

// NewUUIDv7 generates a time-ordered UUIDv7 string for database primary keys.
// UUIDv7 sorts by creation time, which keeps index pages hot in both
// PostgreSQL and SQLite and avoids a dependency on gen_random_uuid().
//
// Panics only on catastrophic entropy failure, in which case no ID generation
// would succeed anyway.
func NewUUIDv7() string {
	return uuid.Must(uuid.NewV7()).String()
}
