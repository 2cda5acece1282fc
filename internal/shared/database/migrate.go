package database

import (
	"spendly/internal/expenses"
	"spendly/internal/tokens"
	"spendly/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.UserLogin{},
		&tokens.UserToken{},
		&expenses.ExpenseDetails{},
	)
}
