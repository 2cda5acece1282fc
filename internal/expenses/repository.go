package expenses

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

type ListQuery struct {
	PageNo   int
	PageSize int
	FromDate time.Time
	ToDate   time.Time
	Search   string
}

type Repository interface {
	Create(ctx context.Context, expense *ExpenseDetails) error
	NextCollectionMax(ctx context.Context) (int, error)
	GetByGuid(ctx context.Context, expenseGuid string) (*ExpenseDetails, error)
	Update(ctx context.Context, expense *ExpenseDetails) error
	List(ctx context.Context, query ListQuery) ([]ExpenseDetails, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, expense *ExpenseDetails) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *repository) NextCollectionMax(ctx context.Context) (int, error) {
	var maxValue *int
	err := r.db.WithContext(ctx).Model(&ExpenseDetails{}).
		Select("MAX(collection_max)").
		Scan(&maxValue).Error
	if err != nil {
		return 0, err
	}
	if maxValue == nil {
		return 1, nil
	}
	return *maxValue + 1, nil
}

func (r *repository) GetByGuid(ctx context.Context, expenseGuid string) (*ExpenseDetails, error) {
	var expense ExpenseDetails
	err := r.db.WithContext(ctx).
		Where("expense_guid = ? AND status <> ?", expenseGuid, string(StatusDeleted)).
		First(&expense).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, err
	}
	return &expense, nil
}

func (r *repository) Update(ctx context.Context, expense *ExpenseDetails) error {
	return r.db.WithContext(ctx).Save(expense).Error
}

func (r *repository) List(ctx context.Context, query ListQuery) ([]ExpenseDetails, int64, error) {
	var rows []ExpenseDetails
	var totalCount int64

	db := r.db.WithContext(ctx).Model(&ExpenseDetails{}).
		Where("status <> ?", string(StatusDeleted)).
		Where("added_on >= ? AND added_on < ?", query.FromDate, query.ToDate.AddDate(0, 0, 1))

	if query.Search != "" {
		searchTerm := "%" + strings.ToLower(query.Search) + "%"
		db = db.Where("LOWER(expense_id) LIKE ? OR LOWER(category_name) LIKE ? OR LOWER(notes) LIKE ?",
			searchTerm, searchTerm, searchTerm)
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.PageNo - 1) * query.PageSize
	err := db.Order("added_on DESC").
		Limit(query.PageSize).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	return rows, totalCount, nil
}
