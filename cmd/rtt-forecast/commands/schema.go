package commands

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/cobra"

	"rtt-forecast/internal/mcp"
	"rtt-forecast/internal/planner"
	"rtt-forecast/internal/simulation"
)

// schemas lists the documents the schema command can describe.
var schemas = map[string]func() (*jsonschema.Schema, error){
	"week-record":    func() (*jsonschema.Schema, error) { return jsonschema.For[simulation.WeekRecord](nil) },
	"kpis":           func() (*jsonschema.Schema, error) { return jsonschema.For[planner.KPISnapshot](nil) },
	"snapshot":       func() (*jsonschema.Schema, error) { return jsonschema.For[planner.Snapshot](nil) },
	"forecast-input": func() (*jsonschema.Schema, error) { return jsonschema.For[mcp.ForecastInput](nil) },
	"target-input":   func() (*jsonschema.Schema, error) { return jsonschema.For[mcp.SolveTargetInput](nil) },
	"timetable-row":  func() (*jsonschema.Schema, error) { return jsonschema.For[mcp.TimetableRowInput](nil) },
}

func schemaNames() []string {
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

var schemaCmd = &cobra.Command{
	Use:   "schema <name>",
	Short: "Print the JSON schema of an output record or tool input",
	Long:  "Print the JSON schema of one of: " + strings.Join(schemaNames(), ", "),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		build, ok := schemas[args[0]]
		if !ok {
			return fmt.Errorf("unknown schema %q (expected one of %s)", args[0], strings.Join(schemaNames(), ", "))
		}
		s, err := build()
		if err != nil {
			return fmt.Errorf("failed to infer schema: %w", err)
		}
		out, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
