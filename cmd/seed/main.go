package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"spendly/internal/expenses"
	"spendly/internal/shared/config"
	"spendly/internal/shared/database"
	"spendly/internal/users"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Spendly Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"expense_details",
		"user_tokens",
		"user_logins",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	userGuids, err := s.SeedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	if err := s.SeedExpenses(userGuids["demo"]); err != nil {
		return fmt.Errorf("failed to seed expenses: %w", err)
	}

	// Clear Redis so stale rate-limit windows do not survive a reseed
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}

	return nil
}

// SeedUsers creates the demo login accounts (password "qwerty")
func (s *Seeder) SeedUsers() (map[string]string, error) {
	fmt.Println("  👤 Seeding users...")

	userGuids := make(map[string]string)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key     string
		loginID string
		status  string
	}{
		{"demo", "demo.user", users.StatusActive},
		{"finance", "finance.lead", users.StatusActive},
		{"blocked", "former.employee", users.StatusBlocked},
	}

	now := time.Now().UTC()
	for _, userData := range usersData {
		user := users.UserLogin{
			UserGuid:  uuid.New().String(),
			LoginID:   userData.loginID,
			Password:  string(hashedPassword),
			AddedOn:   now,
			AddedIP:   "127.0.0.1",
			UpdatedOn: now,
			UpdatedIP: "127.0.0.1",
			Status:    userData.status,
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.loginID, err)
		}

		userGuids[userData.key] = user.UserGuid
		fmt.Printf("    ✅ Created user: %s (%s)\n", user.LoginID, user.Status)
	}

	return userGuids, nil
}

// SeedExpenses creates sample expenses for the demo account
func (s *Seeder) SeedExpenses(ownerGuid string) error {
	fmt.Println("  💸 Seeding expenses...")

	expensesData := []struct {
		categoryName string
		amount       float64
		notes        string
		daysAgo      int
	}{
		{"Travel", 1450.00, "Airport taxi, client visit", 2},
		{"Food", 320.50, "Team lunch", 7},
		{"Office Supplies", 899.99, "Wireless keyboard and mouse", 14},
		{"Software", 2400.00, "Annual IDE licence", 30},
		{"Training", 5000.00, "Conference registration", 55},
	}

	now := time.Now().UTC()
	for i, expenseData := range expensesData {
		sequence := i + 1
		addedOn := now.AddDate(0, 0, -expenseData.daysAgo)

		expense := expenses.ExpenseDetails{
			ExpenseGuid:     uuid.New().String(),
			ExpenseID:       fmt.Sprintf("EXP%04d", sequence),
			CategoryName:    expenseData.categoryName,
			Amount:          expenseData.amount,
			Notes:           expenseData.notes,
			AddedBy:         ownerGuid,
			AddedOn:         addedOn,
			AddedIP:         "127.0.0.1",
			UpdatedBy:       ownerGuid,
			UpdatedOn:       addedOn,
			UpdatedIP:       "127.0.0.1",
			Status:          string(expenses.StatusActive),
			CollectionMax:   sequence,
			CollectionMaxID: fmt.Sprintf("%04d", sequence),
		}

		if err := s.db.PostgreSQL.Create(&expense).Error; err != nil {
			return fmt.Errorf("failed to create expense %s: %w", expense.ExpenseID, err)
		}

		fmt.Printf("    ✅ Created expense: %s (%s)\n", expense.ExpenseID, expense.CategoryName)
	}

	return nil
}
