package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/viahme/viah/internal/service"
)

// BudgetHandler handles budget categories, expenses and the financial summary
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// CreateCategory handles POST /api/weddings/:id/categories
func (h *BudgetHandler) CreateCategory(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}
	var req service.CategoryRequest
	if !bind(ctx, c, &req) {
		return
	}

	cat, err := h.budgetService.CreateCategory(ctx, userId, c.Param("id"), &req)
	reply(ctx, c, cat, err)
}

// ListCategories handles GET /api/weddings/:id/categories
func (h *BudgetHandler) ListCategories(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	cats, err := h.budgetService.ListCategories(ctx, userId, c.Param("id"))
	reply(ctx, c, cats, err)
}

// UpdateCategory handles PUT /api/categories/:id
func (h *BudgetHandler) UpdateCategory(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}
	var req service.CategoryRequest
	if !bind(ctx, c, &req) {
		return
	}

	cat, err := h.budgetService.UpdateCategory(ctx, userId, c.Param("id"), &req)
	reply(ctx, c, cat, err)
}

// DeleteCategory handles DELETE /api/categories/:id
func (h *BudgetHandler) DeleteCategory(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	err := h.budgetService.DeleteCategory(ctx, userId, c.Param("id"))
	reply(ctx, c, nil, err)
}

// CreateExpense handles POST /api/weddings/:id/expenses
func (h *BudgetHandler) CreateExpense(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}
	var req service.ExpenseRequest
	if !bind(ctx, c, &req) {
		return
	}

	e, err := h.budgetService.CreateExpense(ctx, userId, c.Param("id"), &req)
	reply(ctx, c, e, err)
}

// ListExpenses handles GET /api/weddings/:id/expenses
func (h *BudgetHandler) ListExpenses(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	es, err := h.budgetService.ListExpenses(ctx, userId, c.Param("id"))
	reply(ctx, c, es, err)
}

// UpdateExpense handles PATCH /api/expenses/:id
func (h *BudgetHandler) UpdateExpense(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}
	var req service.UpdateExpenseRequest
	if !bind(ctx, c, &req) {
		return
	}

	e, err := h.budgetService.UpdateExpense(ctx, userId, c.Param("id"), &req)
	reply(ctx, c, e, err)
}

// DeleteExpense handles DELETE /api/expenses/:id
func (h *BudgetHandler) DeleteExpense(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	err := h.budgetService.DeleteExpense(ctx, userId, c.Param("id"))
	reply(ctx, c, nil, err)
}

// FinancialSummary returns overview, alerts, trend and upcoming payments
func (h *BudgetHandler) FinancialSummary(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	summary, err := h.budgetService.FinancialSummary(ctx, userId, c.Param("id"))
	reply(ctx, c, summary, err)
}
