package repository

import "gorm.io/gorm"

// TxManager runs a function inside one database transaction. Every write
// path in the API commits or rolls back as a unit through this interface;
// tests substitute a pass-through implementation.
type TxManager interface {
	Transaction(fn func(tx *gorm.DB) error) error
}

type gormTxManager struct {
	db *gorm.DB
}

// NewTxManager creates a TxManager over a gorm connection
func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

func (m *gormTxManager) Transaction(fn func(tx *gorm.DB) error) error {
	return m.db.Transaction(fn)
}
