package report

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kyber/backend/internal/domain/billing"
	"github.com/kyber/backend/internal/domain/expense"
	"github.com/kyber/backend/internal/domain/shared"
)

// ReportService aggregates revenue, expense and document data into the
// summary and dashboard read models. Revenue is recognized on the
// payment date, expenses on the expense date.
type ReportService struct {
	quoteRepo    billing.QuoteRepository
	invoiceRepo  billing.InvoiceRepository
	expenseRepo  expense.ExpenseRepository
	categoryRepo expense.CategoryRepository
}

// NewReportService creates a new ReportService
func NewReportService(
	quoteRepo billing.QuoteRepository,
	invoiceRepo billing.InvoiceRepository,
	expenseRepo expense.ExpenseRepository,
	categoryRepo expense.CategoryRepository,
) *ReportService {
	return &ReportService{
		quoteRepo:    quoteRepo,
		invoiceRepo:  invoiceRepo,
		expenseRepo:  expenseRepo,
		categoryRepo: categoryRepo,
	}
}

// SummaryFilter defines the reporting period
type SummaryFilter struct {
	StartDate time.Time `form:"start_date" binding:"required"`
	EndDate   time.Time `form:"end_date" binding:"required"`
}

// MonthlyBucketResponse is one calendar month of the summary chart
type MonthlyBucketResponse struct {
	Month    string          `json:"month"`
	Revenue  decimal.Decimal `json:"revenue"`
	Expenses decimal.Decimal `json:"expenses"`
}

// CategoryBreakdownResponse is one slice of the expense breakdown
type CategoryBreakdownResponse struct {
	CategoryID   uuid.UUID       `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Color        string          `json:"color"`
	Total        decimal.Decimal `json:"total"`
	Percentage   decimal.Decimal `json:"percentage"`
}

// SummaryResponse is the profit and loss view for a period
type SummaryResponse struct {
	PeriodStart   time.Time                   `json:"period_start"`
	PeriodEnd     time.Time                   `json:"period_end"`
	Revenue       decimal.Decimal             `json:"revenue"`
	Expenses      decimal.Decimal             `json:"expenses"`
	Profit        decimal.Decimal             `json:"profit"`
	PaidInvoices  int                         `json:"paid_invoices"`
	ExpenseCount  int                         `json:"expense_count"`
	ChartData     []MonthlyBucketResponse     `json:"chart_data"`
	ByCategory    []CategoryBreakdownResponse `json:"by_category"`
}

// GetSummary aggregates paid invoices and expenses over the period
func (s *ReportService) GetSummary(ctx context.Context, filter SummaryFilter) (*SummaryResponse, error) {
	if filter.EndDate.Before(filter.StartDate) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Period end must not precede period start")
	}

	invoices, err := s.invoiceRepo.FindPaidBetween(ctx, filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, err
	}

	expenses, err := s.expenseRepo.FindBetween(ctx, filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, err
	}

	revenue := decimal.Zero
	for i := range invoices {
		revenue = revenue.Add(invoices[i].Total)
	}

	expenseTotal := decimal.Zero
	for i := range expenses {
		expenseTotal = expenseTotal.Add(expenses[i].Amount)
	}

	byCategory, err := s.breakdownByCategory(ctx, expenses, expenseTotal)
	if err != nil {
		return nil, err
	}

	return &SummaryResponse{
		PeriodStart:  filter.StartDate,
		PeriodEnd:    filter.EndDate,
		Revenue:      revenue,
		Expenses:     expenseTotal,
		Profit:       revenue.Sub(expenseTotal),
		PaidInvoices: len(invoices),
		ExpenseCount: len(expenses),
		ChartData:    buildChartData(filter.StartDate, filter.EndDate, invoices, expenses),
		ByCategory:   byCategory,
	}, nil
}

// buildChartData buckets revenue and expenses by calendar month across
// the period. Months are walked in order from the period start, so the
// series is chronological and zero-filled for months with no activity.
func buildChartData(start, end time.Time, invoices []billing.Invoice, expenses []expense.Expense) []MonthlyBucketResponse {
	const monthKey = "2006-01"

	revenueByMonth := make(map[string]decimal.Decimal)
	for i := range invoices {
		inv := &invoices[i]
		if inv.PaidAt == nil {
			continue
		}
		key := inv.PaidAt.Format(monthKey)
		revenueByMonth[key] = revenueByMonth[key].Add(inv.Total)
	}

	expensesByMonth := make(map[string]decimal.Decimal)
	for i := range expenses {
		key := expenses[i].Date.Format(monthKey)
		expensesByMonth[key] = expensesByMonth[key].Add(expenses[i].Amount)
	}

	chart := make([]MonthlyBucketResponse, 0)
	month := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !month.After(last) {
		key := month.Format(monthKey)
		bucket := MonthlyBucketResponse{
			Month:    key,
			Revenue:  decimal.Zero,
			Expenses: decimal.Zero,
		}
		if revenue, ok := revenueByMonth[key]; ok {
			bucket.Revenue = revenue
		}
		if spent, ok := expensesByMonth[key]; ok {
			bucket.Expenses = spent
		}
		chart = append(chart, bucket)
		month = month.AddDate(0, 1, 0)
	}

	return chart
}

// breakdownByCategory groups expense totals per category with the share
// of total spend. Categories deleted after the fact show up unnamed.
func (s *ReportService) breakdownByCategory(ctx context.Context, expenses []expense.Expense, total decimal.Decimal) ([]CategoryBreakdownResponse, error) {
	totals := make(map[uuid.UUID]decimal.Decimal)
	for i := range expenses {
		exp := &expenses[i]
		totals[exp.CategoryID] = totals[exp.CategoryID].Add(exp.Amount)
	}

	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]*expense.Category, len(categories))
	for i := range categories {
		names[categories[i].ID] = &categories[i]
	}

	hundred := decimal.NewFromInt(100)
	breakdown := make([]CategoryBreakdownResponse, 0, len(totals))
	for categoryID, categoryTotal := range totals {
		entry := CategoryBreakdownResponse{
			CategoryID: categoryID,
			Total:      categoryTotal,
		}
		if category, ok := names[categoryID]; ok {
			entry.CategoryName = category.Name
			entry.Color = category.Color
		}
		if total.IsPositive() {
			entry.Percentage = categoryTotal.Div(total).Mul(hundred).Round(2)
		}
		breakdown = append(breakdown, entry)
	}

	// Sorted by name so equal totals cannot reorder between reads;
	// unnamed buckets from deleted categories tiebreak on ID.
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].CategoryName != breakdown[j].CategoryName {
			return breakdown[i].CategoryName < breakdown[j].CategoryName
		}
		return breakdown[i].CategoryID.String() < breakdown[j].CategoryID.String()
	})

	return breakdown, nil
}

// DashboardResponse is the landing page snapshot
type DashboardResponse struct {
	DraftQuotes      int64           `json:"draft_quotes"`
	SentQuotes       int64           `json:"sent_quotes"`
	ConvertedQuotes  int64           `json:"converted_quotes"`
	DraftInvoices    int64           `json:"draft_invoices"`
	SentInvoices     int64           `json:"sent_invoices"`
	PaidInvoices     int64           `json:"paid_invoices"`
	OverdueInvoices  int64           `json:"overdue_invoices"`
	OutstandingTotal decimal.Decimal `json:"outstanding_total"`
	RevenueThisMonth decimal.Decimal `json:"revenue_this_month"`
}

// GetDashboard builds the status counts and outstanding totals. Overdue
// is derived from due dates at read time, so sent counts here exclude
// invoices that are past due.
func (s *ReportService) GetDashboard(ctx context.Context) (*DashboardResponse, error) {
	now := time.Now()
	response := &DashboardResponse{
		OutstandingTotal: decimal.Zero,
		RevenueThisMonth: decimal.Zero,
	}

	quoteCounts := []struct {
		status billing.QuoteStatus
		target *int64
	}{
		{billing.QuoteStatusDraft, &response.DraftQuotes},
		{billing.QuoteStatusSent, &response.SentQuotes},
		{billing.QuoteStatusConverted, &response.ConvertedQuotes},
	}
	for _, qc := range quoteCounts {
		count, err := s.quoteRepo.CountByStatus(ctx, qc.status)
		if err != nil {
			return nil, err
		}
		*qc.target = count
	}

	paidCount, err := s.invoiceRepo.CountByStatus(ctx, billing.InvoiceStatusPaid)
	if err != nil {
		return nil, err
	}
	response.PaidInvoices = paidCount

	outstanding, err := s.invoiceRepo.FindOutstanding(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}
	for i := range outstanding {
		inv := &outstanding[i]
		response.OutstandingTotal = response.OutstandingTotal.Add(inv.Total)
		switch inv.EffectiveStatus(now) {
		case billing.InvoiceStatusDraft:
			response.DraftInvoices++
		case billing.InvoiceStatusSent:
			response.SentInvoices++
		case billing.InvoiceStatusOverdue:
			response.OverdueInvoices++
		}
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	paidThisMonth, err := s.invoiceRepo.FindPaidBetween(ctx, monthStart, now)
	if err != nil {
		return nil, err
	}
	for i := range paidThisMonth {
		response.RevenueThisMonth = response.RevenueThisMonth.Add(paidThisMonth[i].Total)
	}

	return response, nil
}
