package service

import (
	"context"
	"strings"
	"time"

	"github.com/mbeoliero/kit/log"

	"github.com/viahme/viah/internal/entity"
	"github.com/viahme/viah/internal/finance"
	"github.com/viahme/viah/internal/repository"
	"github.com/viahme/viah/pkg/constant"
	"github.com/viahme/viah/pkg/errcode"
	"github.com/viahme/viah/pkg/idgen"
)

// BudgetService handles budget categories, expenses and the financial summary
type BudgetService struct {
	budgetRepo  *repository.BudgetRepo
	weddingRepo *repository.WeddingRepo
	bookingRepo *repository.BookingRepo
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(repos *repository.Repositories) *BudgetService {
	return &BudgetService{
		budgetRepo:  repos.Budget,
		weddingRepo: repos.Wedding,
		bookingRepo: repos.Booking,
	}
}

// CategoryRequest represents create/update category request
type CategoryRequest struct {
	Name      string `json:"name"`
	Allocated int64  `json:"allocated"`
}

func (r *CategoryRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errcode.ErrInvalidParam
	}
	if r.Allocated < 0 {
		return errcode.ErrInvalidAmount
	}
	return nil
}

// CreateCategory adds a budget category to a wedding
func (s *BudgetService) CreateCategory(ctx context.Context, userId, weddingId string, req *CategoryRequest) (*entity.BudgetCategory, error) {
	if _, err := ownedWedding(ctx, s.weddingRepo, userId, weddingId); err != nil {
		return nil, err
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	id, err := idgen.NextID()
	if err != nil {
		log.CtxError(ctx, "generate category id failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	c := &entity.BudgetCategory{
		Id:        id,
		WeddingId: weddingId,
		Name:      strings.TrimSpace(req.Name),
		Allocated: req.Allocated,
	}
	if err := s.budgetRepo.CreateCategory(ctx, c); err != nil {
		log.CtxError(ctx, "create category failed: wedding_id=%s, error=%v", weddingId, err)
		return nil, errcode.ErrInternalServer
	}
	return c, nil
}

// ListCategories lists a wedding's categories
func (s *BudgetService) ListCategories(ctx context.Context, userId, weddingId string) ([]*entity.BudgetCategory, error) {
	if _, err := ownedWedding(ctx, s.weddingRepo, userId, weddingId); err != nil {
		return nil, err
	}
	cs, err := s.budgetRepo.ListCategories(ctx, weddingId)
	if err != nil {
		log.CtxError(ctx, "list categories failed: wedding_id=%s, error=%v", weddingId, err)
		return nil, errcode.ErrInternalServer
	}
	return cs, nil
}

func (s *BudgetService) ownedCategory(ctx context.Context, userId, categoryId string) (*entity.BudgetCategory, error) {
	c, err := s.budgetRepo.GetCategory(ctx, categoryId)
	if err != nil {
		log.CtxError(ctx, "get category failed: category_id=%s, error=%v", categoryId, err)
		return nil, errcode.ErrInternalServer
	}
	if c == nil {
		return nil, errcode.ErrCategoryNotFound
	}
	if _, err := ownedWedding(ctx, s.weddingRepo, userId, c.WeddingId); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCategory renames or reallocates a category
func (s *BudgetService) UpdateCategory(ctx context.Context, userId, categoryId string, req *CategoryRequest) (*entity.BudgetCategory, error) {
	c, err := s.ownedCategory(ctx, userId, categoryId)
	if err != nil {
		return nil, err
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":      strings.TrimSpace(req.Name),
		"allocated": req.Allocated,
	}
	if err := s.budgetRepo.UpdateCategory(ctx, categoryId, updates); err != nil {
		log.CtxError(ctx, "update category failed: category_id=%s, error=%v", categoryId, err)
		return nil, errcode.ErrInternalServer
	}
	c.Name = strings.TrimSpace(req.Name)
	c.Allocated = req.Allocated
	return c, nil
}

// DeleteCategory removes a category
func (s *BudgetService) DeleteCategory(ctx context.Context, userId, categoryId string) error {
	if _, err := s.ownedCategory(ctx, userId, categoryId); err != nil {
		return err
	}
	if err := s.budgetRepo.DeleteCategory(ctx, categoryId); err != nil {
		log.CtxError(ctx, "delete category failed: category_id=%s, error=%v", categoryId, err)
		return errcode.ErrInternalServer
	}
	return nil
}

// ExpenseRequest represents create expense request
type ExpenseRequest struct {
	CategoryId    string `json:"category_id"`
	EventId       string `json:"event_id,omitempty"`
	VendorId      string `json:"vendor_id,omitempty"`
	Description   string `json:"description"`
	Amount        int64  `json:"amount"`
	AmountPaid    int64  `json:"amount_paid"`
	PaymentStatus string `json:"payment_status,omitempty"`
	ExpenseDate   *int64 `json:"expense_date,omitempty"`
}

// UpdateExpenseRequest represents a partial expense update
type UpdateExpenseRequest struct {
	CategoryId    *string `json:"category_id,omitempty"`
	Description   *string `json:"description,omitempty"`
	Amount        *int64  `json:"amount,omitempty"`
	AmountPaid    *int64  `json:"amount_paid,omitempty"`
	PaymentStatus *string `json:"payment_status,omitempty"`
	ExpenseDate   *int64  `json:"expense_date,omitempty"`
}

// derivePaymentStatus infers the status from the paid amount
func derivePaymentStatus(amount, paid int64) string {
	switch {
	case paid <= 0:
		return constant.PaymentStatusPending
	case paid >= amount:
		return constant.PaymentStatusPaid
	default:
		return constant.PaymentStatusPartial
	}
}

// resolvePaymentStatus validates an explicit status or derives one
func resolvePaymentStatus(status string, amount, paid int64) (string, error) {
	if amount < 0 || paid < 0 {
		return "", errcode.ErrInvalidAmount
	}
	if status == "" {
		return derivePaymentStatus(amount, paid), nil
	}
	if !entity.ValidPaymentStatus(status) {
		return "", errcode.ErrInvalidPayStatus
	}
	return status, nil
}

// checkCategory ensures categoryId, if set, belongs to weddingId
func (s *BudgetService) checkCategory(ctx context.Context, weddingId, categoryId string) error {
	if categoryId == "" {
		return nil
	}
	c, err := s.budgetRepo.GetCategory(ctx, categoryId)
	if err != nil {
		log.CtxError(ctx, "get category failed: category_id=%s, error=%v", categoryId, err)
		return errcode.ErrInternalServer
	}
	if c == nil || c.WeddingId != weddingId {
		return errcode.ErrCategoryNotFound
	}
	return nil
}

// CreateExpense records a spend line
func (s *BudgetService) CreateExpense(ctx context.Context, userId, weddingId string, req *ExpenseRequest) (*entity.Expense, error) {
	if _, err := ownedWedding(ctx, s.weddingRepo, userId, weddingId); err != nil {
		return nil, err
	}
	status, err := resolvePaymentStatus(req.PaymentStatus, req.Amount, req.AmountPaid)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, weddingId, req.CategoryId); err != nil {
		return nil, err
	}

	id, err := idgen.NextID()
	if err != nil {
		log.CtxError(ctx, "generate expense id failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	e := &entity.Expense{
		Id:            id,
		WeddingId:     weddingId,
		CategoryId:    req.CategoryId,
		EventId:       req.EventId,
		VendorId:      req.VendorId,
		Description:   strings.TrimSpace(req.Description),
		Amount:        req.Amount,
		AmountPaid:    req.AmountPaid,
		PaymentStatus: status,
		ExpenseDate:   req.ExpenseDate,
	}
	if err := s.budgetRepo.CreateExpense(ctx, e); err != nil {
		log.CtxError(ctx, "create expense failed: wedding_id=%s, error=%v", weddingId, err)
		return nil, errcode.ErrInternalServer
	}

	log.CtxInfo(ctx, "expense created: wedding_id=%s, expense_id=%s, amount=%d", weddingId, id, req.Amount)
	return e, nil
}

// ListExpenses lists a wedding's expenses
func (s *BudgetService) ListExpenses(ctx context.Context, userId, weddingId string) ([]*entity.Expense, error) {
	if _, err := ownedWedding(ctx, s.weddingRepo, userId, weddingId); err != nil {
		return nil, err
	}
	es, err := s.budgetRepo.ListExpenses(ctx, weddingId)
	if err != nil {
		log.CtxError(ctx, "list expenses failed: wedding_id=%s, error=%v", weddingId, err)
		return nil, errcode.ErrInternalServer
	}
	return es, nil
}

func (s *BudgetService) ownedExpense(ctx context.Context, userId, expenseId string) (*entity.Expense, error) {
	e, err := s.budgetRepo.GetExpense(ctx, expenseId)
	if err != nil {
		log.CtxError(ctx, "get expense failed: expense_id=%s, error=%v", expenseId, err)
		return nil, errcode.ErrInternalServer
	}
	if e == nil {
		return nil, errcode.ErrExpenseNotFound
	}
	if _, err := ownedWedding(ctx, s.weddingRepo, userId, e.WeddingId); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateExpense applies a partial update. When amounts change without an
// explicit status, the status is derived again.
func (s *BudgetService) UpdateExpense(ctx context.Context, userId, expenseId string, req *UpdateExpenseRequest) (*entity.Expense, error) {
	e, err := s.ownedExpense(ctx, userId, expenseId)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.CategoryId != nil {
		if err := s.checkCategory(ctx, e.WeddingId, *req.CategoryId); err != nil {
			return nil, err
		}
		e.CategoryId = *req.CategoryId
		updates["category_id"] = e.CategoryId
	}
	if req.Description != nil {
		e.Description = strings.TrimSpace(*req.Description)
		updates["description"] = e.Description
	}
	if req.ExpenseDate != nil {
		e.ExpenseDate = req.ExpenseDate
		updates["expense_date"] = *req.ExpenseDate
	}

	amountsChanged := req.Amount != nil || req.AmountPaid != nil
	if req.Amount != nil {
		e.Amount = *req.Amount
	}
	if req.AmountPaid != nil {
		e.AmountPaid = *req.AmountPaid
	}
	if amountsChanged || req.PaymentStatus != nil {
		status := ""
		if req.PaymentStatus != nil {
			status = *req.PaymentStatus
		}
		resolved, err := resolvePaymentStatus(status, e.Amount, e.AmountPaid)
		if err != nil {
			return nil, err
		}
		e.PaymentStatus = resolved
		updates["amount"] = e.Amount
		updates["amount_paid"] = e.AmountPaid
		updates["payment_status"] = resolved
	}

	if len(updates) > 0 {
		if err := s.budgetRepo.UpdateExpense(ctx, expenseId, updates); err != nil {
			log.CtxError(ctx, "update expense failed: expense_id=%s, error=%v", expenseId, err)
			return nil, errcode.ErrInternalServer
		}
	}
	return e, nil
}

// DeleteExpense removes an expense
func (s *BudgetService) DeleteExpense(ctx context.Context, userId, expenseId string) error {
	if _, err := s.ownedExpense(ctx, userId, expenseId); err != nil {
		return err
	}
	if err := s.budgetRepo.DeleteExpense(ctx, expenseId); err != nil {
		log.CtxError(ctx, "delete expense failed: expense_id=%s, error=%v", expenseId, err)
		return errcode.ErrInternalServer
	}
	return nil
}

// FinancialSummary computes overview, alerts, trend and upcoming payments
func (s *BudgetService) FinancialSummary(ctx context.Context, userId, weddingId string) (*finance.Summary, error) {
	w, err := ownedWedding(ctx, s.weddingRepo, userId, weddingId)
	if err != nil {
		return nil, err
	}

	expenses, err := s.budgetRepo.ListExpenses(ctx, weddingId)
	if err != nil {
		log.CtxError(ctx, "list expenses failed: wedding_id=%s, error=%v", weddingId, err)
		return nil, errcode.ErrInternalServer
	}
	categories, err := s.budgetRepo.ListCategories(ctx, weddingId)
	if err != nil {
		log.CtxError(ctx, "list categories failed: wedding_id=%s, error=%v", weddingId, err)
		return nil, errcode.ErrInternalServer
	}
	contracts, err := s.bookingRepo.ListContractsByWedding(ctx, weddingId)
	if err != nil {
		log.CtxError(ctx, "list contracts failed: wedding_id=%s, error=%v", weddingId, err)
		return nil, errcode.ErrInternalServer
	}

	return finance.Summarize(w.TotalBudget, expenses, categories, contracts, time.Now()), nil
}
