package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lunemec/fuel-accountant/pkg/domain/fuel"
	discordHandler "github.com/lunemec/fuel-accountant/pkg/handlers/discord"
	notifierHandler "github.com/lunemec/fuel-accountant/pkg/handlers/notifier"
	accountantService "github.com/lunemec/fuel-accountant/pkg/services/accountant"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/tomb.v2"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the discord bot",
	Run:   runE(runBot),
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("discord_channel_id", "", "ID of discord channel")
	runCmd.Flags().String("discord_auth_token", "", "Auth token for discord")
	runCmd.Flags().Duration("check_interval", 30*time.Minute, "how often to check stock levels (default 30min)")
	runCmd.Flags().Duration("notify_interval", 24*time.Hour, "how often to spam Discord about a low grade (default 24H)")
	runCmd.Flags().Float64("notify_threshold", 5000, "liters on hand under which to notify (default 5 000 l)")

	for _, name := range []string{"discord_channel_id", "discord_auth_token", "check_interval", "notify_interval", "notify_threshold"} {
		must(viper.BindPFlag(name, runCmd.Flags().Lookup(name)))
	}
}

func runBot(log *zap.Logger, cmd *cobra.Command, args []string) error {
	channelID := viper.GetString("discord_channel_id")
	authToken := viper.GetString("discord_auth_token")
	if channelID == "" || authToken == "" {
		return errors.New("discord_channel_id and discord_auth_token are required")
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	repositories, err := fleetRepositories(log, db)
	if err != nil {
		return err
	}

	discord, err := discordgo.New("Bot " + authToken)
	if err != nil {
		return errors.Wrap(err, "error inicializing discord client")
	}
	err = discord.Open()
	if err != nil {
		return errors.Wrap(err, "unable to connect to discord")
	}
	defer discord.Close()
	var t tomb.Tomb

	fuelSvc := fuel.NewService(repositories...)
	accountantSvc := accountantService.New(fuelSvc, decimal.NewFromFloat(viper.GetFloat64("notify_threshold")))
	discordHandler := discordHandler.New(
		t.Context(nil),
		log,
		discord,
		channelID,
		accountantSvc,
	)
	notifierHandler := notifierHandler.New(
		t.Context(nil),
		log,
		viper.GetDuration("check_interval"),
		viper.GetDuration("notify_interval"),
		accountantSvc,
		discordHandler.LowStockMessage,
	)

	t.Go(func() error {
		discordHandler.Start()
		return nil
	})
	t.Go(func() error {
		notifierHandler.Start()
		return nil
	})

	select {
	case <-t.Dying():
	case <-signalChan:
		t.Kill(nil)
	}
	t.Wait()

	// systemd handles reload, so we can return the error.
	err = t.Err()
	if err != nil {
		return errors.Wrapf(err, "error running bot: %+v", err)
	}

	return nil
}
