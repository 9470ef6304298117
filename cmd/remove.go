package cmd

import (
	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/entity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var removeCmd = &cobra.Command{
	Use:   "remove ID",
	Short: "Delete a transaction from the book",
	Args:  cobra.ExactArgs(1),
	Run:   runE(removeTransaction),
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func removeTransaction(log *zap.Logger, cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	fleet, err := currentFleet()
	if err != nil {
		return err
	}
	err = fleetRepository(log, db, fleet).Delete(cmd.Context(), entity.TransactionID(args[0]))
	if err != nil {
		return err
	}
	log.Info("transaction removed", zap.String("id", args[0]))
	return nil
}
