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

	"github.com/spf13/cobra"
	"github.com/tombee/advisor/internal/commands/shared"
	profilestore "github.com/tombee/advisor/internal/profile"
)

func newSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a profile value",
		Long: `Set a single profile value by dotted key and save the profile.

Examples:
  advisor profile set financial.income 6500
  advisor profile set financial.expenses.gym 55
  advisor profile set financial.debts.car_loan.balance 12000
  advisor profile set product.name "Widget Pro"
  advisor profile set research.topic "Quantum computing"`,
		Args: cobra.ExactArgs(2),
		RunE: runSet,
	}
}

func runSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	rt, err := shared.NewRuntime()
	if err != nil {
		return shared.ClassifyError("loading configuration", err)
	}

	prof, err := rt.Profile.Load()
	if err != nil {
		return shared.ClassifyError("loading profile", err)
	}

	if err := profilestore.Set(prof, key, value); err != nil {
		return shared.NewInvalidInputError(fmt.Sprintf("setting %s", key), err)
	}

	if err := rt.Profile.Save(prof); err != nil {
		return shared.ClassifyError("saving profile", err)
	}

	if shared.GetJSON() {
		resp := struct {
			shared.JSONResponse
			Key   string `json:"key"`
			Value string `json:"value"`
		}{
			JSONResponse: shared.NewJSONResponse("profile set"),
			Key:          key,
			Value:        value,
		}
		return shared.EmitJSON(resp)
	}

	cmd.Println(shared.RenderOK(fmt.Sprintf("%s = %s", key, value)))
	return nil
}
