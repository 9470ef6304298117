package cmd

import (
	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/entity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var freezeCmd = &cobra.Command{
	Use:   "freeze ID",
	Short: "Set a transaction aside, excluding it from stock and profit",
	Args:  cobra.ExactArgs(1),
	Run:   runE(setFrozen(true)),
}

var unfreezeCmd = &cobra.Command{
	Use:   "unfreeze ID",
	Short: "Count a frozen transaction again",
	Args:  cobra.ExactArgs(1),
	Run:   runE(setFrozen(false)),
}

func init() {
	rootCmd.AddCommand(freezeCmd)
	rootCmd.AddCommand(unfreezeCmd)
}

func setFrozen(frozen bool) func(log *zap.Logger, cmd *cobra.Command, args []string) error {
	return func(log *zap.Logger, cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		fleet, err := currentFleet()
		if err != nil {
			return err
		}
		return fleetRepository(log, db, fleet).SetFrozen(cmd.Context(), entity.TransactionID(args[0]), frozen)
	}
}
