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

package finance

import (
	"context"

	"github.com/tombee/advisor/internal/profile"
	"github.com/tombee/advisor/pkg/crew"
	"github.com/tombee/advisor/pkg/llm"
)

// Analysis is the outcome of a financial advisor run.
type Analysis struct {
	// Report is the full analysis text including the metrics summary.
	Report string

	// Metrics are the pre-calculated figures used in the analysis.
	Metrics Metrics

	// Result carries per-task outputs and token usage.
	Result *crew.Result
}

// Run executes the financial advisor crew against the given financial data
// and appends the calculated metrics summary to the crew's output.
func Run(ctx context.Context, provider llm.Provider, data profile.FinancialData, opts ...crew.Option) (*Analysis, error) {
	metrics := CalculateMetrics(data)

	c, err := NewCrew(provider, opts...)
	if err != nil {
		return nil, err
	}

	result, err := c.Kickoff(ctx, inputs(data, metrics))
	if err != nil {
		return nil, err
	}

	return &Analysis{
		Report:  result.Raw + metrics.SummaryMarkdown(data),
		Metrics: metrics,
		Result:  result,
	}, nil
}

// NewCrew builds the three-agent financial advisor crew.
func NewCrew(provider llm.Provider, opts ...crew.Option) (*crew.Crew, error) {
	budgetingAgent := crew.Agent{
		Role: "Budgeting Advisor & Financial Calculator",
		Goal: "Create detailed budgets with mathematical analysis and tabular financial breakdowns.",
		Backstory: "You are an expert financial advisor with strong analytical and mathematical skills. " +
			"You excel at creating detailed financial tables, calculating ratios, percentages, and " +
			"presenting complex financial data in clear, organized formats. You use precise calculations " +
			"to support all your recommendations and present data in tables for easy understanding.",
	}

	investmentAgent := crew.Agent{
		Role: "Investment Advisor & Portfolio Analyst",
		Goal: "Recommend investments with detailed mathematical projections and risk calculations.",
		Backstory: "You are an investment expert who specializes in quantitative analysis and portfolio optimization. " +
			"You provide detailed mathematical projections, compound interest calculations, and risk assessments. " +
			"You present investment recommendations with supporting tables showing projected returns, scenarios, " +
			"and time-based growth calculations.",
	}

	debtAgent := crew.Agent{
		Role: "Debt Management Specialist & Payment Calculator",
		Goal: "Create mathematical debt repayment strategies with detailed payment schedules and savings calculations.",
		Backstory: "You specialize in debt optimization using mathematical models and payment calculations. " +
			"You create detailed amortization schedules, calculate interest savings, and provide " +
			"precise payoff timelines. You present all debt strategies in clear tabular formats " +
			"showing payment amounts, interest costs, and total savings.",
	}

	tasks := []crew.Task{
		{
			ID:    "budgeting",
			Agent: budgetingAgent,
			Description: `Analyze the client's financial situation with MATHEMATICAL PRECISION using these specific details:

INCOME & EXPENSES DATA:
- Monthly Income: {{.monthly_income}}
- Net Monthly Income: {{.net_monthly_income}}
- Savings Goal: {{.savings_goal}}
- Total Monthly Expenses: {{.total_expenses}}
{{.expense_breakdown}}

DEBT DATA:
{{.debt_details}}

{{.mathematical_context}}

Create a comprehensive analysis with:

1. **EXPENSE ANALYSIS TABLE** showing:
   - Category | Amount | % of Income | Recommended % | Variance

2. **FINANCIAL RATIOS CALCULATION**:
   - Savings Rate = (Savings Goal / Monthly Income) × 100 (currently {{.savings_rate}})
   - Expense Ratio = (Total Expenses / Monthly Income) × 100 (currently {{.expense_ratio}})
   - Debt-to-Income Ratio calculation (currently {{.debt_to_income}})

3. **MONTHLY CASH FLOW TABLE**:
   - Income vs Expenses breakdown
   - Available funds for savings/debt payment

4. **50/30/20 BUDGET COMPARISON TABLE**:
   - Current allocation vs recommended 50/30/20 rule

5. **SAVINGS PROJECTION TABLE** (1, 3, 5, 10 years):
   - Monthly savings compound growth calculations

Use MARKDOWN TABLES and show all mathematical calculations.`,
			ExpectedOutput: `A detailed financial budget analysis with:
- Mathematical calculations and percentages
- Multiple comparison tables in markdown format
- Financial ratios and metrics
- Cash flow analysis with precise numbers
- Savings growth projections with compound interest calculations`,
		},
		{
			ID:    "investment",
			Agent: investmentAgent,
			Description: `Based on the financial data provided, create investment recommendations with MATHEMATICAL PROJECTIONS:

Available for Investment: {{.net_monthly_income}} (after covering savings goal of {{.savings_goal}})
Risk Profile: Moderate (based on current financial stability)

Create:

1. **INVESTMENT ALLOCATION TABLE**:
   - Asset Class | Allocation % | Monthly Amount | Annual Amount

2. **COMPOUND GROWTH PROJECTIONS TABLE**:
   - Year | Principal | Interest Earned | Total Value
   - Show 1, 5, 10, 15, 20 year projections

3. **RISK-RETURN SCENARIOS TABLE**:
   - Scenario | Annual Return % | 10-Year Value | 20-Year Value
   - Conservative (4-6%), Moderate (6-8%), Aggressive (8-10%)

4. **MONTHLY INVESTMENT BREAKDOWN**:
   - Emergency Fund: 3-6 months expenses calculation
   - Retirement: 10-15% of income calculation
   - Growth Investments: Remaining available funds

5. **RETIREMENT CALCULATION TABLE**:
   - Current age assumptions (30, 35, 40)
   - Retirement needs calculation
   - Required monthly savings for different retirement goals

Show all compound interest formulas: A = P(1 + r/n)^(nt)`,
			ExpectedOutput: `Investment strategy with:
- Detailed allocation tables with percentages and dollar amounts
- Compound growth projections with mathematical formulas
- Multiple scenario analysis tables
- Retirement planning calculations
- Risk assessment with quantified projections`,
		},
		{
			ID:    "debt_management",
			Agent: debtAgent,
			Description: `Create a MATHEMATICAL DEBT ELIMINATION STRATEGY using:

DEBT DETAILS:
{{.debt_details}}

Available for debt payment: {{.available_for_debt}} (from {{.net_monthly_income}} after {{.savings_goal}})

Create:

1. **CURRENT DEBT SUMMARY TABLE**:
   - Debt Type | Balance | Interest Rate | Minimum Payment | Total Interest if Min Payments

2. **DEBT AVALANCHE vs SNOWBALL COMPARISON**:
   - Method | Total Interest Paid | Payoff Time | Monthly Payment

3. **PAYMENT STRATEGY TABLE** (Recommended approach):
   - Month | Payment Amount | Principal | Interest | Remaining Balance
   - Show first 12 months and key milestones

4. **INTEREST SAVINGS CALCULATION**:
   - Extra Payment Amount | Time Saved | Interest Saved | Total Savings
   - Show scenarios for +$50, +$100, +$200 extra payments

5. **DEBT-FREE TIMELINE TABLE**:
   - Current payments vs optimized payments
   - Mathematical proof of interest savings

6. **DEBT CONSOLIDATION ANALYSIS** (if applicable):
   - Current total monthly payments
   - Potential consolidated payment at lower rate
   - Savings calculation and break-even analysis

Use precise mathematical formulas for all calculations.
Show amortization formulas: M = P[r(1+r)^n]/[(1+r)^n-1]`,
			ExpectedOutput: `Comprehensive debt management plan with:
- Detailed payment schedules with mathematical calculations
- Comparison tables for different strategies
- Interest savings calculations with precise dollar amounts
- Timeline tables showing month-by-month progress
- Mathematical formulas and compound interest calculations
- ROI analysis for different payment strategies`,
		},
	}

	return crew.New("finance", provider, tasks, opts...)
}
