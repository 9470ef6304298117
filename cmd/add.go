package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/lunemec/fuel-accountant/pkg/domain/fuel"
	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/aggregate"
	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/entity"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a fuel transaction",
	Example: `  fuel-accountant add --kind purchase --grade diesel --volume 1000 --price 50
  fuel-accountant add --kind base_to_bunker --grade diesel --volume 300`,
	Run: runE(addTransaction),
}

var (
	addKind   string
	addGrade  string
	addVolume string
	addPrice  string
	addTotal  string
	addDate   string
	addUser   string
	addVessel string
	addFrozen bool
)

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addKind, "kind", "k", "", "purchase, sale, drain, base_to_bunker or bunker_to_base")
	addCmd.Flags().StringVarP(&addGrade, "grade", "g", "", "fuel grade, e.g. diesel")
	addCmd.Flags().StringVarP(&addVolume, "volume", "v", "", "volume in liters")
	addCmd.Flags().StringVarP(&addPrice, "price", "p", "", "price per liter, purchases and sales only")
	addCmd.Flags().StringVar(&addTotal, "total", "", "total cost, computed from volume and price when empty")
	addCmd.Flags().StringVar(&addDate, "date", "", "date of the transaction, RFC3339 or YYYY-MM-DD (default now)")
	addCmd.Flags().StringVar(&addUser, "user", "", "user who recorded the transaction")
	addCmd.Flags().StringVar(&addVessel, "vessel", "", "vessel reference")
	addCmd.Flags().BoolVar(&addFrozen, "frozen", false, "record the transaction as frozen")

	must(addCmd.MarkFlagRequired("kind"))
	must(addCmd.MarkFlagRequired("grade"))
	must(addCmd.MarkFlagRequired("volume"))
}

func addTransaction(log *zap.Logger, cmd *cobra.Command, args []string) error {
	transaction, err := transactionFromFlags(time.Now())
	if err != nil {
		return err
	}

	err = validateTransaction(transaction)
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	fleet, err := currentFleet()
	if err != nil {
		return err
	}
	err = fleetRepository(log, db, fleet).Save(cmd.Context(), transaction)
	if err != nil {
		return err
	}
	fmt.Println(transaction.ID)
	return nil
}

// validateTransaction runs the checks the summary runs before anything is
// written. Summaries skip frozen records, so the check runs on an unfrozen copy.
func validateTransaction(transaction *aggregate.Transaction) error {
	unfrozen := transaction.Copy()
	unfrozen.Frozen = false
	summary, err := fuel.Summarize([]*aggregate.Transaction{unfrozen})
	if err != nil {
		return errors.Wrap(err, "error validating transaction")
	}
	if len(summary.Warnings) > 0 {
		return errors.Errorf("refusing to record transaction: %s", strings.Join(summary.Warnings, "; "))
	}
	return nil
}

func transactionFromFlags(now time.Time) (*aggregate.Transaction, error) {
	kind := entity.Kind(addKind).Normalize()
	if fuel.ClassifyKind(kind) == entity.Unrecognized {
		return nil, errors.Errorf("unknown kind: %q", addKind)
	}
	volume, err := parseNullDecimal(addVolume)
	if err != nil {
		return nil, errors.Wrap(err, "invalid volume")
	}
	unitPrice, err := parseNullDecimal(addPrice)
	if err != nil {
		return nil, errors.Wrap(err, "invalid price")
	}
	totalCost, err := parseNullDecimal(addTotal)
	if err != nil {
		return nil, errors.Wrap(err, "invalid total")
	}
	date, err := parseDate(addDate, now)
	if err != nil {
		return nil, err
	}

	return &aggregate.Transaction{
		Kind:      kind,
		Volume:    volume,
		UnitPrice: unitPrice,
		TotalCost: totalCost,
		Grade:     entity.Grade(strings.ToLower(strings.TrimSpace(addGrade))),
		Frozen:    addFrozen,
		Date:      date,
		UserID:    entity.UserID(addUser),
		VesselRef: entity.VesselRef(addVessel),
	}, nil
}

func parseNullDecimal(value string) (decimal.NullDecimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

func parseDate(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	for _, format := range []string{time.RFC3339, "2006-01-02"} {
		date, err := time.Parse(format, value)
		if err == nil {
			return date, nil
		}
	}
	return time.Time{}, errors.Errorf("unknown date format: %q, use RFC3339 or YYYY-MM-DD", value)
}
