package sdk

import "context"

// CreateCategory adds a budget category
func (c *Client) CreateCategory(ctx context.Context, weddingId string, req *CategoryRequest) (*BudgetCategory, error) {
	var result BudgetCategory
	if err := c.post(ctx, "/weddings/"+weddingId+"/categories", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListCategories lists a wedding's budget categories
func (c *Client) ListCategories(ctx context.Context, weddingId string) ([]*BudgetCategory, error) {
	var result []*BudgetCategory
	if err := c.get(ctx, "/weddings/"+weddingId+"/categories", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateCategory renames or reallocates a category
func (c *Client) UpdateCategory(ctx context.Context, categoryId string, req *CategoryRequest) (*BudgetCategory, error) {
	var result BudgetCategory
	if err := c.put(ctx, "/categories/"+categoryId, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteCategory deletes a category
func (c *Client) DeleteCategory(ctx context.Context, categoryId string) error {
	return c.delete(ctx, "/categories/"+categoryId)
}

// CreateExpense records an expense
func (c *Client) CreateExpense(ctx context.Context, weddingId string, req *ExpenseRequest) (*Expense, error) {
	var result Expense
	if err := c.post(ctx, "/weddings/"+weddingId+"/expenses", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListExpenses lists a wedding's expenses
func (c *Client) ListExpenses(ctx context.Context, weddingId string) ([]*Expense, error) {
	var result []*Expense
	if err := c.get(ctx, "/weddings/"+weddingId+"/expenses", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateExpense applies a partial update
func (c *Client) UpdateExpense(ctx context.Context, expenseId string, req *UpdateExpenseRequest) (*Expense, error) {
	var result Expense
	if err := c.patch(ctx, "/expenses/"+expenseId, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteExpense deletes an expense
func (c *Client) DeleteExpense(ctx context.Context, expenseId string) error {
	return c.delete(ctx, "/expenses/"+expenseId)
}

// GetFinancialSummary returns overview, alerts, trend and upcoming payments
func (c *Client) GetFinancialSummary(ctx context.Context, weddingId string) (*FinancialSummary, error) {
	var result FinancialSummary
	if err := c.get(ctx, "/weddings/"+weddingId+"/financial-summary", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListWidgets lists dashboard widgets in position order
func (c *Client) ListWidgets(ctx context.Context, weddingId string) ([]*DashboardWidget, error) {
	var result []*DashboardWidget
	if err := c.get(ctx, "/dashboard/widgets/"+weddingId, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ReorderWidgets persists a full widget order
func (c *Client) ReorderWidgets(ctx context.Context, weddingId string, widgetIds []string) ([]*DashboardWidget, error) {
	var result []*DashboardWidget
	body := map[string][]string{"widget_ids": widgetIds}
	if err := c.put(ctx, "/dashboard/widgets/"+weddingId+"/order", body, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// SetWidgetVisibility shows or hides one widget
func (c *Client) SetWidgetVisibility(ctx context.Context, widgetId string, visible bool) (*DashboardWidget, error) {
	var result DashboardWidget
	body := map[string]bool{"is_visible": visible}
	if err := c.patch(ctx, "/dashboard/widgets/item/"+widgetId, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
