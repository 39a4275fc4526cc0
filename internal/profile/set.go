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

package profile

import (
	"strconv"
	"strings"

	advisorerrors "github.com/tombee/advisor/pkg/errors"
)

// Set updates a single profile value addressed by a dotted key, coercing
// the string value to the key's type. Supported keys:
//
//	financial.income
//	financial.savings_goal
//	financial.expenses.<category>
//	financial.debts.<name>.balance
//	financial.debts.<name>.interest_rate
//	product.name
//	product.description
//	product.launch_date
//	product.target_market
//	product.budget
//	research.website_url
//	research.topic
func Set(p *Profile, key, value string) error {
	parts := strings.Split(key, ".")

	switch parts[0] {
	case "financial":
		return setFinancial(p, parts, value)
	case "product":
		return setProduct(p, parts, value)
	case "research":
		return setResearch(p, parts, value)
	default:
		return unknownKey(key)
	}
}

func setFinancial(p *Profile, parts []string, value string) error {
	key := strings.Join(parts, ".")

	if len(parts) == 2 {
		switch parts[1] {
		case "income":
			amount, err := parseAmount(key, value)
			if err != nil {
				return err
			}
			p.Financial.Income = amount
			return nil
		case "savings_goal":
			amount, err := parseAmount(key, value)
			if err != nil {
				return err
			}
			p.Financial.SavingsGoal = amount
			return nil
		}
		return unknownKey(key)
	}

	if len(parts) == 3 && parts[1] == "expenses" {
		amount, err := parseAmount(key, value)
		if err != nil {
			return err
		}
		if p.Financial.Expenses == nil {
			p.Financial.Expenses = make(map[string]float64)
		}
		p.Financial.Expenses[parts[2]] = amount
		return nil
	}

	if len(parts) == 4 && parts[1] == "debts" {
		amount, err := parseAmount(key, value)
		if err != nil {
			return err
		}
		if p.Financial.Debts == nil {
			p.Financial.Debts = make(map[string]Debt)
		}

		debt := p.Financial.Debts[parts[2]]
		switch parts[3] {
		case "balance":
			debt.Balance = amount
		case "interest_rate":
			debt.InterestRate = amount
		default:
			return unknownKey(key)
		}
		p.Financial.Debts[parts[2]] = debt
		return nil
	}

	return unknownKey(key)
}

func setProduct(p *Profile, parts []string, value string) error {
	key := strings.Join(parts, ".")
	if len(parts) != 2 {
		return unknownKey(key)
	}

	switch parts[1] {
	case "name":
		p.Product.ProductName = value
	case "description":
		p.Product.ProductDescription = value
	case "launch_date":
		p.Product.LaunchDate = value
	case "target_market":
		p.Product.TargetMarket = value
	case "budget":
		amount, err := parseAmount(key, value)
		if err != nil {
			return err
		}
		p.Product.Budget = amount
	default:
		return unknownKey(key)
	}

	return nil
}

func setResearch(p *Profile, parts []string, value string) error {
	key := strings.Join(parts, ".")
	if len(parts) != 2 {
		return unknownKey(key)
	}

	switch parts[1] {
	case "website_url":
		p.WebsiteURL = value
	case "topic":
		p.ResearchTopic = value
	default:
		return unknownKey(key)
	}

	return nil
}

func parseAmount(key, value string) (float64, error) {
	amount, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, &advisorerrors.ValidationError{
			Field:      key,
			Message:    "value must be a number, got " + strconv.Quote(value),
			Suggestion: "Provide a numeric value, e.g. 5000 or 0.18",
		}
	}
	return amount, nil
}

func unknownKey(key string) error {
	return &advisorerrors.ValidationError{
		Field:      key,
		Message:    "unknown profile key",
		Suggestion: "Run 'advisor profile show' to see available keys",
	}
}
