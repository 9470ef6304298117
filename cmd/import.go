package cmd

import (
	"fmt"

	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/repository"
	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/repository/external/jsonfile"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import a JSON export of the legacy app into the current fleet",
	Long: `Import reads a JSON array of transaction records and stores them in the
current fleet. Records already imported are updated in place, their frozen
flag is kept. Records without an ID are identified by their content, so
importing the same file again does not duplicate them. Records removed with
remove are not imported again. Unreadable values are logged and left empty,
records without a readable date are booked at 1970-01-01. Summaries report
both as data warnings.`,
	Args: cobra.ExactArgs(1),
	Run:  runE(importTransactions),
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func importTransactions(log *zap.Logger, cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	fleet, err := currentFleet()
	if err != nil {
		return err
	}
	source := jsonfile.New(log, args[0])
	count, err := repository.New(log, db, fleet.Name, source, viper.GetDuration("sync_interval")).Sync(cmd.Context())
	if err != nil {
		return errors.Wrapf(err, "error importing: %s", args[0])
	}
	fmt.Printf("imported %d transactions into %s\n", count, fleet.Name)
	return nil
}
