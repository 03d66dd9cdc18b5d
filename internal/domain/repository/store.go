package repository

import "context"

// Store groups the record repositories behind one injected capability.
type Store interface {
	Users() UserRepository
	OTPs() OTPRepository
	Carts() CartRepository
	Ping(ctx context.Context) error
	Close()
}
