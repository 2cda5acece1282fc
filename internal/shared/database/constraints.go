package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds indexes AutoMigrate does not create. Safe to
// run repeatedly.
func MigrateConstraints(db *gorm.DB) error {
	// Expense listing filters on status and the added_on window
	err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_expense_details_status_added_on
		ON expense_details (status, added_on DESC);
	`).Error
	if err != nil {
		return err
	}

	// Token rotation looks rows up by the previously issued access token
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_user_tokens_token
		ON user_tokens USING hash (token);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
