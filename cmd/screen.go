package main

import (
	"encoding/json"
	"fmt"

	"github.com/okian/staffing/internal/adapters/snapshot"
	"github.com/spf13/cobra"
)

func newScreenCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "screen",
		Short: "Print the eligible prospects in rank order",
		Long:  "Applies the screening thresholds to the snapshot's prospects and prints the survivors as JSON, highest priority first, with their value per month per position. Nothing is staffed or delivered.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup(cmd, flags)
			if err != nil {
				return err
			}

			snap, err := snapshot.Load(cfg.SnapshotPath)
			if err != nil {
				return err
			}
			prospects, err := snap.Prospects(cmd.Context())
			if err != nil {
				return err
			}

			ranked := newScreener(cfg).Screen(cmd.Context(), prospects)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(ranked); err != nil {
				return fmt.Errorf("write ranking: %w", err)
			}
			return nil
		},
	}
}
