package main

import (
	"fmt"
	"os"

	"github.com/okian/staffing/internal/adapters/snapshot"
	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var (
		prospects      int
		employees      int
		clearedPercent int
		areas          []string
		out            string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a random snapshot for trial runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if prospects < 0 || employees < 0 {
				return fmt.Errorf("prospects and employees must not be negative, got %d and %d", prospects, employees)
			}
			if clearedPercent < 0 || clearedPercent > 100 {
				return fmt.Errorf("cleared-percent must be within 0..100, got %d", clearedPercent)
			}

			f := snapshot.Generate(
				snapshot.WithProspects(prospects),
				snapshot.WithEmployees(employees),
				snapshot.WithClearedPercent(clearedPercent),
				snapshot.WithPracticeAreas(areas...),
			)
			data, err := f.Encode()
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o600); err != nil {
				return fmt.Errorf("write snapshot: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&prospects, "prospects", 20, "number of prospects")
	cmd.Flags().IntVar(&employees, "employees", 60, "number of employees")
	cmd.Flags().IntVar(&clearedPercent, "cleared-percent", 30, "share of employees with a security clearance")
	cmd.Flags().StringSliceVar(&areas, "practice-areas", nil, "practice area catalogue (default built-in list)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}
