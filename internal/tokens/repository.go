package tokens

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerRepository persists the per-user token ledger.
type LedgerRepository interface {
	// FindByAccessToken looks up the ledger row holding the given
	// access-token string. Returns (nil, nil) when no row matches.
	FindByAccessToken(ctx context.Context, accessToken string) (*UserToken, error)
	// Upsert writes the row for its user, inserting on first issuance
	// and updating in place thereafter. Keyed on user_guid so two
	// overlapping issuances for one user cannot insert duplicate rows.
	Upsert(ctx context.Context, row *UserToken) error
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) FindByAccessToken(ctx context.Context, accessToken string) (*UserToken, error) {
	if accessToken == "" {
		return nil, nil
	}
	var row UserToken
	err := r.db.WithContext(ctx).Where("token = ?", accessToken).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *ledgerRepository) Upsert(ctx context.Context, row *UserToken) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_guid"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"token",
			"refresh_token",
			"token_created_on",
			"token_valid_till",
			"refresh_token_expire",
		}),
	}).Create(row).Error
}
