package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/viahme/viah/internal/entity"
)

// BudgetRepo is the repository for budget categories and expenses
type BudgetRepo struct {
	db *gorm.DB
}

// NewBudgetRepo creates a new BudgetRepo
func NewBudgetRepo(db *gorm.DB) *BudgetRepo {
	return &BudgetRepo{db: db}
}

// CreateCategory creates a budget category
func (r *BudgetRepo) CreateCategory(ctx context.Context, c *entity.BudgetCategory) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// GetCategory gets a category, nil when absent
func (r *BudgetRepo) GetCategory(ctx context.Context, id string) (*entity.BudgetCategory, error) {
	var c entity.BudgetCategory
	return notFoundAsNil(&c, r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error)
}

// ListCategories lists a wedding's categories
func (r *BudgetRepo) ListCategories(ctx context.Context, weddingId string) ([]*entity.BudgetCategory, error) {
	var cs []*entity.BudgetCategory
	err := r.db.WithContext(ctx).Where("wedding_id = ?", weddingId).Order("created_at ASC").Find(&cs).Error
	return cs, err
}

// UpdateCategory updates category columns
func (r *BudgetRepo) UpdateCategory(ctx context.Context, id string, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&entity.BudgetCategory{}).Where("id = ?", id).Updates(updates).Error
}

// DeleteCategory removes a category
func (r *BudgetRepo) DeleteCategory(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.BudgetCategory{}).Error
}

// CreateExpense creates an expense
func (r *BudgetRepo) CreateExpense(ctx context.Context, e *entity.Expense) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// GetExpense gets an expense, nil when absent
func (r *BudgetRepo) GetExpense(ctx context.Context, id string) (*entity.Expense, error) {
	var e entity.Expense
	return notFoundAsNil(&e, r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error)
}

// ListExpenses lists a wedding's expenses, newest first
func (r *BudgetRepo) ListExpenses(ctx context.Context, weddingId string) ([]*entity.Expense, error) {
	var es []*entity.Expense
	err := r.db.WithContext(ctx).Where("wedding_id = ?", weddingId).Order("created_at DESC").Find(&es).Error
	return es, err
}

// UpdateExpense updates expense columns
func (r *BudgetRepo) UpdateExpense(ctx context.Context, id string, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&entity.Expense{}).Where("id = ?", id).Updates(updates).Error
}

// DeleteExpense removes an expense
func (r *BudgetRepo) DeleteExpense(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Expense{}).Error
}
