package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lunemec/fuel-accountant/pkg/domain/fuel"
	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/repository"
	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/repository/external/jsonfile"

	"github.com/asdine/storm/v3"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fuel-accountant",
	Short: "Fuel stock, profit and frozen capital bookkeeping",
	Long: `Keeps fuel purchases, sales, drains and base <-> bunker transfers
and reports stock on hand, weighted-average cost profit and the capital
tied up in unsold fuel.`,
}

// Fleet is one book of transactions, optionally fed from a legacy export.
type Fleet struct {
	Name   string `mapstructure:"name"`
	Source string `mapstructure:"source"`
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./fuel-accountant.yaml)")
	rootCmd.PersistentFlags().String("db", "fuel.db", "path to the database file")
	rootCmd.PersistentFlags().String("fleet", "main", "fleet the command operates on")
	rootCmd.PersistentFlags().Duration("sync_interval", 30*time.Minute, "how often to re-read fleet sources")
	rootCmd.PersistentFlags().Bool("log_production", false, "log JSON instead of human readable output")

	must(viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db")))
	must(viper.BindPFlag("fleet", rootCmd.PersistentFlags().Lookup("fleet")))
	must(viper.BindPFlag("sync_interval", rootCmd.PersistentFlags().Lookup("sync_interval")))
	must(viper.BindPFlag("log_production", rootCmd.PersistentFlags().Lookup("log_production")))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("fuel-accountant")
	}

	viper.SetEnvPrefix("fuel")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Printf("error reading config: %s \n", err)
			os.Exit(1)
		}
	}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func newLogger() (*zap.Logger, error) {
	if viper.GetBool("log_production") {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// runE wraps a command body with logger setup the same way for every command.
func runE(fn func(log *zap.Logger, cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		log, err := newLogger()
		if err != nil {
			fmt.Printf("error inicializing logger: %s \n", err)
			os.Exit(1)
		}
		defer log.Sync() // nolint: errcheck

		err = fn(log, cmd, args)
		if err != nil {
			log.Fatal(fmt.Sprintf("error running %s", cmd.Name()), zap.Error(err))
		}
	}
}

func openDB() (*storm.DB, error) {
	db, err := storm.Open(viper.GetString("db"))
	if err != nil {
		return nil, errors.Wrapf(err, "error openning DB: %s", viper.GetString("db"))
	}
	return db, nil
}

// fleets lists configured fleets, falling back to the --fleet flag.
func fleets() ([]Fleet, error) {
	var out []Fleet
	err := viper.UnmarshalKey("fleets", &out)
	if err != nil {
		return nil, errors.Wrap(err, "error reading fleets from config")
	}
	if len(out) == 0 {
		out = append(out, Fleet{Name: viper.GetString("fleet")})
	}
	return out, nil
}

func fleetRepository(log *zap.Logger, db *storm.DB, fleet Fleet) fuel.Store {
	var source fuel.Repository
	if fleet.Source != "" {
		source = jsonfile.New(log, fleet.Source)
	}
	return repository.New(log.With(zap.String("fleet", fleet.Name)), db, fleet.Name, source, viper.GetDuration("sync_interval"))
}

func fleetRepositories(log *zap.Logger, db *storm.DB) ([]fuel.Repository, error) {
	configured, err := fleets()
	if err != nil {
		return nil, err
	}
	repositories := make([]fuel.Repository, 0, len(configured))
	for _, fleet := range configured {
		repositories = append(repositories, fleetRepository(log, db, fleet))
	}
	return repositories, nil
}

// currentFleet is the fleet named by --fleet, with its configured source if any.
func currentFleet() (Fleet, error) {
	configured, err := fleets()
	if err != nil {
		return Fleet{}, err
	}
	name := viper.GetString("fleet")
	for _, fleet := range configured {
		if fleet.Name == name {
			return fleet, nil
		}
	}
	return Fleet{Name: name}, nil
}
