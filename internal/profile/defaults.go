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

// Default returns the factory profile used when no saved profile exists.
func Default() *Profile {
	return &Profile{
		Financial: FinancialData{
			Income: 5000,
			Expenses: map[string]float64{
				"rent":           1500,
				"utilities":      300,
				"groceries":      400,
				"transportation": 200,
				"entertainment":  150,
				"other":          450,
			},
			Debts: map[string]Debt{
				"credit_card": {
					Balance:      2000,
					InterestRate: 0.18,
				},
				"student_loan": {
					Balance:      15000,
					InterestRate: 0.045,
				},
			},
			SavingsGoal: 500,
		},
		Product: ProductData{
			ProductName:        "New Product",
			ProductDescription: "A description of your new product.",
			LaunchDate:         "2025-12-31",
			TargetMarket:       "General consumers",
			Budget:             50000,
		},
		WebsiteURL:    "https://en.wikipedia.org/wiki/Alan_Turing",
		ResearchTopic: "Artificial intelligence",
	}
}
