package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles the repositories over a single gorm handle so callers can
// run them inside one database transaction.
type Store struct {
	db *gorm.DB

	Wallets      WalletRepository
	Offers       OfferRepository
	Transactions TransactionRepository
	Users        UserRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:           db,
		Wallets:      NewWalletRepository(db),
		Offers:       NewOfferRepository(db),
		Transactions: NewTransactionRepository(db),
		Users:        NewUserRepository(db),
	}
}

// InTransaction runs fn against a Store bound to a database transaction.
// A non-nil error from fn rolls everything back. A Store assembled without
// a database handle runs fn inline against itself.
func (s *Store) InTransaction(ctx context.Context, fn func(tx *Store) error) error {
	if s.db == nil {
		return fn(s)
	}
	return s.db.WithContext(ctx).Transaction(func(txDB *gorm.DB) error {
		return fn(NewStore(txDB))
	})
}
