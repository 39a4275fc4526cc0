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
	"sort"

	"github.com/spf13/cobra"
	"github.com/tombee/advisor/internal/commands/shared"
	profilestore "github.com/tombee/advisor/internal/profile"
)

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current profile",
		Args:  cobra.NoArgs,
		RunE:  runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	rt, err := shared.NewRuntime()
	if err != nil {
		return shared.ClassifyError("loading configuration", err)
	}

	prof, err := rt.Profile.Load()
	if err != nil {
		return shared.ClassifyError("loading profile", err)
	}

	if shared.GetJSON() {
		resp := struct {
			shared.JSONResponse
			Path    string                `json:"path"`
			Profile *profilestore.Profile `json:"profile"`
		}{
			JSONResponse: shared.NewJSONResponse("profile show"),
			Path:         rt.Profile.Path(),
			Profile:      prof,
		}
		return shared.EmitJSON(resp)
	}

	cmd.Println(shared.RenderLabel("profile: " + rt.Profile.Path()))
	if !rt.Profile.Exists() {
		cmd.Println(shared.RenderWarn("no saved profile, showing defaults"))
	}
	cmd.Println()

	cmd.Println(shared.RenderHeader("Financial"))
	cmd.Printf("  financial.income        %.2f\n", prof.Financial.Income)
	cmd.Printf("  financial.savings_goal  %.2f\n", prof.Financial.SavingsGoal)
	for _, name := range sortedKeys(prof.Financial.Expenses) {
		cmd.Printf("  financial.expenses.%s  %.2f\n", name, prof.Financial.Expenses[name])
	}
	for _, name := range sortedDebtKeys(prof.Financial.Debts) {
		debt := prof.Financial.Debts[name]
		cmd.Printf("  financial.debts.%s  balance %.2f, interest_rate %.3f\n", name, debt.Balance, debt.InterestRate)
	}
	cmd.Println()

	cmd.Println(shared.RenderHeader("Product"))
	cmd.Printf("  product.name           %s\n", prof.Product.ProductName)
	cmd.Printf("  product.description    %s\n", prof.Product.ProductDescription)
	cmd.Printf("  product.launch_date    %s\n", prof.Product.LaunchDate)
	cmd.Printf("  product.target_market  %s\n", prof.Product.TargetMarket)
	cmd.Printf("  product.budget         %.2f\n", prof.Product.Budget)
	cmd.Println()

	cmd.Println(shared.RenderHeader("Research"))
	cmd.Printf("  research.website_url  %s\n", prof.WebsiteURL)
	cmd.Printf("  research.topic        %s\n", prof.ResearchTopic)

	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedDebtKeys(m map[string]profilestore.Debt) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
