package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/waterfall-cli/internal/report"
	"github.com/sells-group/waterfall-cli/internal/store"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Manage saved capital structures",
}

var (
	scenarioSaveForm *formFlags
	scenarioSaveName string
	scenarioSaveID   string
)

var scenarioSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save a capital structure from flags or a scenario file",
	Long:  "Saves a new scenario, or with --id replaces the structure of an existing one. The name defaults to the one in the scenario file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cs, fileName, err := scenarioSaveForm.structure(cmd)
		if err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if scenarioSaveID != "" {
			if err := st.UpdateScenario(ctx, scenarioSaveID, cs); err != nil {
				return eris.Wrap(err, "update scenario")
			}
			zap.L().Info("scenario updated", zap.String("scenario", scenarioSaveID))
			_, _ = cmd.OutOrStdout().Write([]byte(scenarioSaveID + "\n"))
			return nil
		}

		name := scenarioSaveName
		if name == "" {
			name = fileName
		}
		if name == "" {
			return eris.New("scenario name is required (--name or a scenario file)")
		}

		sc, err := st.SaveScenario(ctx, name, cs)
		if err != nil {
			return eris.Wrap(err, "save scenario")
		}
		zap.L().Info("scenario saved", zap.String("scenario", sc.ID), zap.String("name", sc.Name))
		_, _ = cmd.OutOrStdout().Write([]byte(sc.ID + "\n"))
		return nil
	},
}

var (
	scenarioListName   string
	scenarioListLimit  int
	scenarioListOffset int
)

var scenarioListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved scenarios, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		scenarios, err := st.ListScenarios(ctx, store.ScenarioFilter{
			Name:   scenarioListName,
			Limit:  scenarioListLimit,
			Offset: scenarioListOffset,
		})
		if err != nil {
			return eris.Wrap(err, "list scenarios")
		}
		formatScenarioList(cmd.OutOrStdout(), scenarios)
		return nil
	},
}

var scenarioShowJSON bool

var scenarioShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Recompute and print a saved scenario",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		sc, err := st.GetScenario(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "show scenario")
		}

		v := report.NewView(sc.Structure)
		if scenarioShowJSON {
			return writeJSON(cmd.OutOrStdout(), struct {
				Scenario *store.Scenario `json:"scenario"`
				report.View
			}{sc, v})
		}
		_, _ = cmd.OutOrStdout().Write([]byte(sc.Name + " (" + sc.ID + ")\n\n"))
		formatView(cmd.OutOrStdout(), v)
		return nil
	},
}

var scenarioDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved scenario",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.DeleteScenario(ctx, args[0]); err != nil {
			return eris.Wrap(err, "delete scenario")
		}
		zap.L().Info("scenario deleted", zap.String("scenario", args[0]))
		return nil
	},
}

func init() {
	scenarioSaveForm = addFormFlags(scenarioSaveCmd)
	scenarioSaveCmd.Flags().StringVar(&scenarioSaveName, "name", "", "scenario name")
	scenarioSaveCmd.Flags().StringVar(&scenarioSaveID, "id", "", "replace the structure of an existing scenario")

	scenarioListCmd.Flags().StringVar(&scenarioListName, "name", "", "only scenarios with this name")
	scenarioListCmd.Flags().IntVar(&scenarioListLimit, "limit", 100, "max scenarios to list")
	scenarioListCmd.Flags().IntVar(&scenarioListOffset, "offset", 0, "scenarios to skip")

	scenarioShowCmd.Flags().BoolVar(&scenarioShowJSON, "json", false, "print as JSON")

	scenarioCmd.AddCommand(scenarioSaveCmd, scenarioListCmd, scenarioShowCmd, scenarioDeleteCmd)
	rootCmd.AddCommand(scenarioCmd)
}
