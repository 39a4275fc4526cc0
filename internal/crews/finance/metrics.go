// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package finance runs the financial advisor crew: budgeting, investment,
// and debt management analysis over the user's financial profile.
package finance

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/tombee/advisor/internal/profile"
)

// Minimum payment estimates as a fraction of balance.
const (
	creditCardMinRate = 0.02
	loanMinRate       = 0.01
)

// Metrics holds the pre-calculated figures fed into the analysis and the
// closing summary table.
type Metrics struct {
	TotalExpenses    float64
	NetIncome        float64
	AvailableForDebt float64

	// SavingsRate and ExpenseRatio are percentages of monthly income.
	SavingsRate  float64
	ExpenseRatio float64

	TotalDebt float64

	// DebtToIncome is total debt as a percentage of annual income.
	DebtToIncome float64

	CreditCardMinPayment float64
	LoanMinPayment       float64
	TotalMinPayments     float64
}

// CalculateMetrics derives the key financial figures from the profile.
func CalculateMetrics(data profile.FinancialData) Metrics {
	var m Metrics

	for _, amount := range data.Expenses {
		m.TotalExpenses += amount
	}
	m.NetIncome = data.Income - m.TotalExpenses
	m.AvailableForDebt = math.Max(0, m.NetIncome-data.SavingsGoal)

	if data.Income > 0 {
		m.SavingsRate = data.SavingsGoal / data.Income * 100
		m.ExpenseRatio = m.TotalExpenses / data.Income * 100
	}

	for _, debt := range data.Debts {
		m.TotalDebt += debt.Balance
	}
	if data.Income > 0 {
		m.DebtToIncome = m.TotalDebt / (data.Income * 12) * 100
	}

	m.CreditCardMinPayment = data.Debts["credit_card"].Balance * creditCardMinRate
	m.LoanMinPayment = data.Debts["student_loan"].Balance * loanMinRate
	m.TotalMinPayments = m.CreditCardMinPayment + m.LoanMinPayment

	return m
}

// SummaryMarkdown renders the closing metrics table appended to every
// financial analysis, with status markers against recommended ranges.
func (m Metrics) SummaryMarkdown(data profile.FinancialData) string {
	savingsStatus := "⚠️ Improve"
	if m.SavingsRate >= 20 {
		savingsStatus = "✅ Good"
	}

	expenseStatus := "⚠️ High"
	if m.ExpenseRatio <= 80 {
		expenseStatus = "✅ Good"
	}

	dtiStatus := "❌ High"
	if m.DebtToIncome < 36 {
		dtiStatus = "✅ Good"
	}

	return fmt.Sprintf(`

---

## 📊 QUICK FINANCIAL METRICS SUMMARY

| **Metric** | **Current Value** | **Recommended Range** | **Status** |
|------------|-------------------|----------------------|------------|
| Savings Rate | %.1f%% | 20-30%% | %s |
| Expense Ratio | %.1f%% | 70-80%% | %s |
| Debt-to-Income | %.1f%% | <36%% | %s |

### 🧮 Key Calculations:
- **Monthly Cash Flow**: %s - %s = %s
- **Annual Savings Potential**: %s
- **Emergency Fund Target**: %s (6 months expenses)
- **Total Debt Burden**: %s

*All calculations are based on your specific financial data provided.*
`,
		m.SavingsRate, savingsStatus,
		m.ExpenseRatio, expenseStatus,
		m.DebtToIncome, dtiStatus,
		usd(data.Income), usd(m.TotalExpenses), usd(m.NetIncome),
		usd(m.NetIncome*12),
		usd(m.TotalExpenses*6),
		usd(m.TotalDebt),
	)
}

// inputs flattens the profile and metrics into template variables for the
// crew tasks. Monetary amounts arrive pre-formatted so agents quote them
// verbatim.
func inputs(data profile.FinancialData, m Metrics) map[string]any {
	return map[string]any{
		"monthly_income":       usd(data.Income),
		"savings_goal":         usd(data.SavingsGoal),
		"total_expenses":       usd(m.TotalExpenses),
		"net_monthly_income":   usd(m.NetIncome),
		"available_for_debt":   usd(m.AvailableForDebt),
		"savings_rate":         fmt.Sprintf("%.1f%%", m.SavingsRate),
		"expense_ratio":        fmt.Sprintf("%.1f%%", m.ExpenseRatio),
		"debt_to_income":       fmt.Sprintf("%.1f%%", m.DebtToIncome),
		"expense_breakdown":    expenseBreakdown(data.Expenses),
		"debt_details":         debtDetails(data.Debts, m),
		"mathematical_context": mathematicalContext(data, m),
	}
}

// expenseBreakdown renders each expense category on its own line, in a
// stable order.
func expenseBreakdown(expenses map[string]float64) string {
	names := make([]string, 0, len(expenses))
	for name := range expenses {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "- %s: %s\n", titleCase(name), usd(expenses[name]))
	}
	return strings.TrimRight(b.String(), "\n")
}

// debtDetails renders each debt with its balance, rate, and estimated
// minimum payment.
func debtDetails(debts map[string]profile.Debt, m Metrics) string {
	names := make([]string, 0, len(debts))
	for name := range debts {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		debt := debts[name]
		fmt.Fprintf(&b, "- %s: %s at %.1f%% APR\n",
			titleCase(name), usd(debt.Balance), debt.InterestRate*100)
	}
	fmt.Fprintf(&b, "- Estimated minimum payments: %s/month total", usd(m.TotalMinPayments))
	return b.String()
}

// mathematicalContext gives the agents the formulas and snapshot figures
// they are expected to build on.
func mathematicalContext(data profile.FinancialData, m Metrics) string {
	return fmt.Sprintf(`FINANCIAL CALCULATION FORMULAS TO USE:

1. Compound Interest: A = P(1 + r/n)^(nt)
2. Debt Payment: M = P[r(1+r)^n]/[(1+r)^n-1]
3. Savings Rate: (Monthly Savings / Monthly Income) × 100
4. Debt-to-Income: (Total Debt / Annual Income) × 100
5. Emergency Fund: Monthly Expenses × 3 to 6 months

CURRENT FINANCIAL SNAPSHOT:
- Income: %s/month = %s/year
- Expenses: %s/month = %s/year
- Net Cash Flow: %s/month
- Current Savings Rate: %.1f%%
- Current Expense Ratio: %.1f%%`,
		usd(data.Income), usd(data.Income*12),
		usd(m.TotalExpenses), usd(m.TotalExpenses*12),
		usd(m.NetIncome),
		m.SavingsRate, m.ExpenseRatio,
	)
}

// titleCase turns a snake_case key into a display label.
func titleCase(key string) string {
	words := strings.Split(key, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// usd formats a dollar amount with thousands separators and cents.
func usd(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	cents := int64(math.Round(amount * 100))
	whole := cents / 100
	frac := cents % 100

	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("%s$%s.%02d", sign, b.String(), frac)
}
