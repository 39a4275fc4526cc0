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
	"github.com/spf13/cobra"
	"github.com/tombee/advisor/internal/commands/shared"
	profilestore "github.com/tombee/advisor/internal/profile"
)

func newResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset [financial|product|research]",
		Short: "Reset the profile to defaults",
		Long: `Reset the whole profile, or a single section, to built-in defaults.

With no argument the saved profile file is removed and all values revert
to defaults. With a section name only that section is replaced and the
rest of the profile is kept.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{profilestore.SectionFinancial, profilestore.SectionProduct, profilestore.SectionResearch},
		RunE:      runReset,
	}
}

func runReset(cmd *cobra.Command, args []string) error {
	section := profilestore.SectionAll
	if len(args) == 1 {
		section = args[0]
	}

	rt, err := shared.NewRuntime()
	if err != nil {
		return shared.ClassifyError("loading configuration", err)
	}

	if _, err := rt.Profile.Reset(section); err != nil {
		return shared.ClassifyError("resetting profile", err)
	}

	what := "profile"
	if section != profilestore.SectionAll {
		what = section + " section"
	}

	if shared.GetJSON() {
		resp := struct {
			shared.JSONResponse
			Section string `json:"section,omitempty"`
		}{
			JSONResponse: shared.NewJSONResponse("profile reset"),
			Section:      section,
		}
		return shared.EmitJSON(resp)
	}

	cmd.Println(shared.RenderOK(what + " reset to defaults"))
	return nil
}
