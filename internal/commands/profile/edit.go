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
	"fmt"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/tombee/advisor/internal/commands/shared"
	profilestore "github.com/tombee/advisor/internal/profile"
)

func newEditCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit the profile interactively",
		Long: `Walk through the profile sections with interactive prompts, showing
current values as defaults, and save the result.`,
		Args: cobra.NoArgs,
		RunE: runEdit,
	}
}

func runEdit(cmd *cobra.Command, args []string) error {
	rt, err := shared.NewRuntime()
	if err != nil {
		return shared.ClassifyError("loading configuration", err)
	}

	prof, err := rt.Profile.Load()
	if err != nil {
		return shared.ClassifyError("loading profile", err)
	}

	var section string
	if err := survey.AskOne(&survey.Select{
		Message: "Which section do you want to edit?",
		Options: []string{"financial", "product", "research", "all"},
		Default: "all",
	}, &section); err != nil {
		return shared.NewInvalidInputError("editing profile", err)
	}

	if section == "financial" || section == "all" {
		if err := editFinancial(prof); err != nil {
			return shared.NewInvalidInputError("editing financial data", err)
		}
	}
	if section == "product" || section == "all" {
		if err := editProduct(prof); err != nil {
			return shared.NewInvalidInputError("editing product data", err)
		}
	}
	if section == "research" || section == "all" {
		if err := editResearch(prof); err != nil {
			return shared.NewInvalidInputError("editing research settings", err)
		}
	}

	if err := rt.Profile.Save(prof); err != nil {
		return shared.ClassifyError("saving profile", err)
	}

	cmd.Println(shared.RenderOK("profile saved to " + rt.Profile.Path()))
	return nil
}

func editFinancial(prof *profilestore.Profile) error {
	income, err := askNumber("Monthly income", prof.Financial.Income)
	if err != nil {
		return err
	}
	prof.Financial.Income = income

	goal, err := askNumber("Monthly savings goal", prof.Financial.SavingsGoal)
	if err != nil {
		return err
	}
	prof.Financial.SavingsGoal = goal

	for _, name := range sortedKeys(prof.Financial.Expenses) {
		amount, err := askNumber(fmt.Sprintf("Expense %q", name), prof.Financial.Expenses[name])
		if err != nil {
			return err
		}
		prof.Financial.Expenses[name] = amount
	}

	for _, name := range sortedDebtKeys(prof.Financial.Debts) {
		debt := prof.Financial.Debts[name]

		balance, err := askNumber(fmt.Sprintf("Debt %q balance", name), debt.Balance)
		if err != nil {
			return err
		}
		rate, err := askNumber(fmt.Sprintf("Debt %q interest rate (0-1)", name), debt.InterestRate)
		if err != nil {
			return err
		}

		prof.Financial.Debts[name] = profilestore.Debt{Balance: balance, InterestRate: rate}
	}

	return nil
}

func editProduct(prof *profilestore.Profile) error {
	fields := []struct {
		message string
		target  *string
	}{
		{"Product name", &prof.Product.ProductName},
		{"Product description", &prof.Product.ProductDescription},
		{"Launch date (YYYY-MM-DD)", &prof.Product.LaunchDate},
		{"Target market", &prof.Product.TargetMarket},
	}

	for _, f := range fields {
		value, err := askString(f.message, *f.target)
		if err != nil {
			return err
		}
		*f.target = value
	}

	budget, err := askNumber("Launch budget", prof.Product.Budget)
	if err != nil {
		return err
	}
	prof.Product.Budget = budget

	return nil
}

func editResearch(prof *profilestore.Profile) error {
	url, err := askString("Website URL", prof.WebsiteURL)
	if err != nil {
		return err
	}
	prof.WebsiteURL = url

	topic, err := askString("Research topic", prof.ResearchTopic)
	if err != nil {
		return err
	}
	prof.ResearchTopic = topic

	return nil
}

func askString(message, def string) (string, error) {
	var result string
	err := survey.AskOne(&survey.Input{
		Message: message,
		Default: def,
	}, &result)
	return result, err
}

func askNumber(message string, def float64) (float64, error) {
	var input string
	err := survey.AskOne(&survey.Input{
		Message: message,
		Default: strconv.FormatFloat(def, 'f', -1, 64),
	}, &input, survey.WithValidator(func(ans interface{}) error {
		str, ok := ans.(string)
		if !ok {
			return nil
		}
		if _, err := strconv.ParseFloat(str, 64); err != nil {
			return fmt.Errorf("%q is not a number", str)
		}
		return nil
	}))
	if err != nil {
		return 0, err
	}

	return strconv.ParseFloat(input, 64)
}
