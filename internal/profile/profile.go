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

// Package profile manages the user's scenario profile: the financial,
// product, and research inputs that feed the advisor crews.
//
// Profiles are persisted as a single JSON file. Loading always succeeds:
// a missing file means first run and yields the built-in defaults, and a
// corrupt file is logged and replaced by defaults rather than failing.
// Individual values of the wrong type fall back to their defaults without
// disturbing the rest of the profile.
package profile

import (
	"fmt"
	"time"

	advisorerrors "github.com/tombee/advisor/pkg/errors"
)

// Profile holds every user-adjustable input across the three advisors.
type Profile struct {
	Financial     FinancialData `json:"financial_data"`
	Product       ProductData   `json:"product_data"`
	WebsiteURL    string        `json:"website_url"`
	ResearchTopic string        `json:"research_topic"`
}

// FinancialData describes the user's monthly financial situation.
type FinancialData struct {
	// Income is the monthly income in dollars.
	Income float64 `json:"income"`

	// Expenses maps expense categories to monthly amounts.
	Expenses map[string]float64 `json:"expenses"`

	// Debts maps debt names to their balance and rate.
	Debts map[string]Debt `json:"debts"`

	// SavingsGoal is the target monthly savings in dollars.
	SavingsGoal float64 `json:"savings_goal"`
}

// Debt is a single outstanding debt.
type Debt struct {
	// Balance is the outstanding amount in dollars.
	Balance float64 `json:"balance"`

	// InterestRate is the annual rate as a fraction (0.18 = 18%).
	InterestRate float64 `json:"interest_rate"`
}

// ProductData describes the product being launched.
type ProductData struct {
	ProductName        string  `json:"product_name"`
	ProductDescription string  `json:"product_description"`
	LaunchDate         string  `json:"launch_date"`
	TargetMarket       string  `json:"target_market"`
	Budget             float64 `json:"budget"`
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	clone := *p

	clone.Financial.Expenses = make(map[string]float64, len(p.Financial.Expenses))
	for k, v := range p.Financial.Expenses {
		clone.Financial.Expenses[k] = v
	}

	clone.Financial.Debts = make(map[string]Debt, len(p.Financial.Debts))
	for k, v := range p.Financial.Debts {
		clone.Financial.Debts[k] = v
	}

	return &clone
}

// Validate checks the profile for values that cannot be persisted.
func (p *Profile) Validate() error {
	if p.Financial.Income < 0 {
		return &advisorerrors.ValidationError{
			Field:      "financial.income",
			Message:    fmt.Sprintf("income must not be negative, got %v", p.Financial.Income),
			Suggestion: "Set a monthly income of 0 or more",
		}
	}

	if p.Financial.SavingsGoal < 0 {
		return &advisorerrors.ValidationError{
			Field:      "financial.savings_goal",
			Message:    fmt.Sprintf("savings goal must not be negative, got %v", p.Financial.SavingsGoal),
			Suggestion: "Set a savings goal of 0 or more",
		}
	}

	for name, amount := range p.Financial.Expenses {
		if amount < 0 {
			return &advisorerrors.ValidationError{
				Field:      "financial.expenses." + name,
				Message:    fmt.Sprintf("expense must not be negative, got %v", amount),
				Suggestion: "Set the expense amount to 0 or more",
			}
		}
	}

	for name, debt := range p.Financial.Debts {
		if debt.Balance < 0 {
			return &advisorerrors.ValidationError{
				Field:      "financial.debts." + name + ".balance",
				Message:    fmt.Sprintf("balance must not be negative, got %v", debt.Balance),
				Suggestion: "Set the debt balance to 0 or more",
			}
		}
		if debt.InterestRate < 0 || debt.InterestRate > 1 {
			return &advisorerrors.ValidationError{
				Field:      "financial.debts." + name + ".interest_rate",
				Message:    fmt.Sprintf("interest rate must be a fraction between 0 and 1, got %v", debt.InterestRate),
				Suggestion: "Express the annual rate as a fraction, e.g. 0.18 for 18%",
			}
		}
	}

	if p.Product.ProductName == "" {
		return &advisorerrors.ValidationError{
			Field:      "product.name",
			Message:    "product name must not be empty",
			Suggestion: "Set a product name before saving",
		}
	}

	if p.Product.Budget < 0 {
		return &advisorerrors.ValidationError{
			Field:      "product.budget",
			Message:    fmt.Sprintf("budget must not be negative, got %v", p.Product.Budget),
			Suggestion: "Set a launch budget of 0 or more",
		}
	}

	if p.Product.LaunchDate != "" {
		if _, err := time.Parse("2006-01-02", p.Product.LaunchDate); err != nil {
			return &advisorerrors.ValidationError{
				Field:      "product.launch_date",
				Message:    fmt.Sprintf("launch date %q is not in YYYY-MM-DD format", p.Product.LaunchDate),
				Suggestion: "Use a date like 2025-12-31",
			}
		}
	}

	if p.WebsiteURL == "" {
		return &advisorerrors.ValidationError{
			Field:      "research.website_url",
			Message:    "website URL must not be empty",
			Suggestion: "Set a website URL to research",
		}
	}

	if p.ResearchTopic == "" {
		return &advisorerrors.ValidationError{
			Field:      "research.topic",
			Message:    "research topic must not be empty",
			Suggestion: "Set a research topic",
		}
	}

	return nil
}
