package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lunemec/fuel-accountant/pkg/domain/fuel"
	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/aggregate"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print stock, profit and frozen capital for all fleets",
	Run:   runE(report),
}

var (
	reportFrom string
	reportTo   string
)

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "first day of the report, YYYY-MM-DD (default whole history)")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "last day of the report, YYYY-MM-DD (default now)")
}

func report(log *zap.Logger, cmd *cobra.Command, args []string) error {
	now := time.Now()
	from, err := parseDate(reportFrom, time.Unix(0, 0))
	if err != nil {
		return err
	}
	to, err := parseDate(reportTo, now)
	if err != nil {
		return err
	}
	if reportTo != "" {
		to = to.Add(24*time.Hour - time.Second)
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	repositories, err := fleetRepositories(log, db)
	if err != nil {
		return err
	}
	summary, err := fuel.NewService(repositories...).Summary(cmd.Context(), from, to)
	if err != nil {
		return err
	}
	printSummary(os.Stdout, summary)
	return nil
}

func printSummary(w io.Writer, summary *aggregate.Summary) {
	row := func(name string, s aggregate.GradeSummary) {
		fmt.Fprintf(w, "%-12s %14s %14s %10s %14s %14s\n",
			name,
			formatAmount(s.Base),
			formatAmount(s.Bunker),
			formatPrice(s.AvgPurchasePrice),
			formatAmount(s.Profit),
			formatAmount(s.FrozenCapital),
		)
	}

	fmt.Fprintf(w, "%-12s %14s %14s %10s %14s %14s\n", "GRADE", "BASE", "BUNKER", "AVG PRICE", "PROFIT", "FROZEN CAP")
	for _, grade := range summary.Grades() {
		name := string(grade)
		if name == "" {
			name = "(none)"
		}
		row(name, summary.PerGrade[grade])
	}
	row("TOTAL", summary.GradeSummary)

	if len(summary.Warnings) > 0 {
		fmt.Fprintf(w, "\nwarnings (%d):\n", len(summary.Warnings))
		for _, warning := range summary.Warnings {
			fmt.Fprintf(w, "  %s\n", warning)
		}
	}
}

func formatAmount(d decimal.Decimal) string {
	return humanize.FormatFloat("#,###.", d.InexactFloat64())
}

func formatPrice(d decimal.Decimal) string {
	return humanize.FormatFloat("#,###.##", d.InexactFloat64())
}
