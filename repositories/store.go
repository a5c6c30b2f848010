package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories over one database handle. A Store built
// inside Transaction is bound to that transaction.
type Store struct {
	db         *gorm.DB
	Users      UserRepository
	Tierlists  TierlistRepository
	Categories CategoryRepository
	Elements   ElementRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		Users:      NewUserRepository(db),
		Tierlists:  NewTierlistRepository(db),
		Categories: NewCategoryRepository(db),
		Elements:   NewElementRepository(db),
	}
}

// Transaction runs fn against a Store bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// Trees returns a reader that serializes rows together with their children.
func (s *Store) Trees() TreeReader {
	return TreeReader{
		tierlists:  s.Tierlists,
		categories: s.Categories,
		elements:   s.Elements,
	}
}
