package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CategorySpend represents an amount aggregated by category name.
type CategorySpend struct {
	Category   string `json:"category" db:"category"`
	TotalSpent Money  `json:"total_spent" db:"total_spent"`
}

// BudgetStatus is the spend-vs-budget view of one trip. Remaining is signed.
type BudgetStatus struct {
	TotalBudget Money  `json:"total_budget"`
	TotalSpent  Money  `json:"total_spent"`
	Remaining   Money  `json:"remaining"`
	Status      string `json:"status"`
}

type InsightSummary struct {
	TotalBudget Money `json:"total_budget"`
	TotalSpent  Money `json:"total_spent"`
	Remaining   Money `json:"remaining"`
}

type TripInsights struct {
	Summary           InsightSummary  `json:"summary"`
	CategoryBreakdown []CategorySpend `json:"category_breakdown"`
	Insights          []string        `json:"insights"`
}

// NewBudgetStatus computes remaining and the status label.
func NewBudgetStatus(budget, spent Money) BudgetStatus {
	remaining := budget.Sub(spent)
	status := StatusWithinBudget
	if remaining.Cents < 0 {
		status = StatusOverBudget
	}
	return BudgetStatus{
		TotalBudget: budget,
		TotalSpent:  spent,
		Remaining:   remaining,
		Status:      status,
	}
}

// ComputeInsights builds the summary and advice for a trip. breakdown must
// already be ordered by spend, highest first.
func ComputeInsights(budget Money, breakdown []CategorySpend) TripInsights {
	var spent Money
	for _, c := range breakdown {
		spent = spent.Add(c.TotalSpent)
	}
	if breakdown == nil {
		breakdown = []CategorySpend{}
	}

	insights := make([]string, 0, 2)
	if spent.Cents > budget.Cents {
		insights = append(insights, fmt.Sprintf("You are over budget by ₹%s.", spent.Sub(budget)))
	} else {
		insights = append(insights, fmt.Sprintf("You have ₹%s remaining.", budget.Sub(spent)))
	}
	if len(breakdown) > 0 {
		top := breakdown[0]
		insights = append(insights, fmt.Sprintf("Highest spending is on %s (%s%% of budget).",
			top.Category, BudgetShare(top.TotalSpent, budget)))
	}

	return TripInsights{
		Summary: InsightSummary{
			TotalBudget: budget,
			TotalSpent:  spent,
			Remaining:   budget.Sub(spent),
		},
		CategoryBreakdown: breakdown,
		Insights:          insights,
	}
}

// BudgetShare is part / budget * 100 with one decimal, e.g. "25.0".
// The denominator is the whole budget, not the total spend.
func BudgetShare(part, budget Money) string {
	if budget.Cents == 0 {
		return "0.0"
	}
	pct := decimal.NewFromInt(part.Cents).
		Mul(hundred).
		Div(decimal.NewFromInt(budget.Cents))
	return pct.StringFixed(1)
}
