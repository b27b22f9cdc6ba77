package domain

// Store is a storage handle serving both ports. It is shared for the process
// lifetime, safe for concurrent use, and closed exactly once at shutdown.
type Store interface {
	WeightRepository
	WaterRepository
	Close() error
}
