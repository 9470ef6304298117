package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lunemec/fuel-accountant/pkg/services/accountant"

	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	floatFormat             = "#\u202F###."
	priceFormat             = "#\u202F###.##"
	summaryMsg              = ":fuelpump: Fuel"
	byGradeMsg              = ":oil: Fuel by grade"
	stockMsg                = ":package: Stock"
	profitMsg               = ":chart_with_upwards_trend: Profit"
	frozenCapitalMsg        = ":ice_cube: Frozen capital"
	lowStockNotificationMsg = ":exclamation: Low stock"
	warningsMsg             = ":warning: Data warnings"
	forMoreDetailsMsg       = "For more details run:\n\n`!fuel by grade`\n`!fuel graph`\n`!fuel YYYY-MM-DD YYYY-MM-DD`\n`!fuel by grade YYYY-MM-DD YYYY-MM-DD`"
	maxWarningLines         = 10
)

type discordHandler struct {
	ctx       context.Context
	log       *zap.Logger
	discord   *discordgo.Session
	channelID string

	accountantSvc accountant.Service
}

func New(
	ctx context.Context,
	log *zap.Logger,
	discord *discordgo.Session,
	channelID string,
	accountantSvc accountant.Service,
) *discordHandler {
	return &discordHandler{
		ctx:           ctx,
		log:           log,
		discord:       discord,
		channelID:     channelID,
		accountantSvc: accountantSvc,
	}
}

func (h *discordHandler) Start() {
	h.log.Info("Discord handler started.")
	h.discord.AddHandler(h.router)
	<-h.ctx.Done()
}

func (h *discordHandler) router(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore all messages created by the bot itself.
	if m.Author.ID == s.State.User.ID {
		return
	}
	if ok, _ := h.command("!help", m.Content); ok {
		h.helpHandler(s, m, nil)
		return
	}
	if ok, args := h.command("!fuel by grade", m.Content); ok {
		h.fuelByGradeHandler(s, m, args)
		return
	}
	if ok, args := h.command("!fuel graph", m.Content); ok {
		h.fuelGraphHandler(s, m, args)
		return
	}
	if ok, args := h.command("!fuel", m.Content); ok {
		h.fuelHandler(s, m, args)
		return
	}
}

func (h *discordHandler) error(errIn error, channelID string) {
	h.log.Error("error in discord handler call", zap.Error(errIn))
	msg := fmt.Sprintf("Sorry, some error happened: %s", errIn.Error())
	_, err := h.discord.ChannelMessageSend(channelID, msg)
	if err != nil {
		h.log.Error("error responding with error", zap.Error(err), zap.NamedError("original_error", errIn))
	}
}

// React before starting the calculation, syncing the DB may take a while.
func (h *discordHandler) reactWorking(m *discordgo.MessageCreate) {
	err := h.discord.MessageReactionAdd(m.ChannelID, m.ID, `⏱️`)
	if err != nil {
		h.error(errors.Wrap(err, "error reacting with :stopwatch: emoji"), m.ChannelID)
	}
}

func (h *discordHandler) command(command string, messageContent string) (bool, []string) {
	if !strings.HasPrefix(messageContent, command) {
		return false, nil
	}
	paramsStr := strings.TrimPrefix(messageContent, command)
	paramsStr = strings.TrimSpace(paramsStr)
	params := strings.Split(paramsStr, " ")

	return true, params
}

// parseDateStartDateEnd defaults to the current month. The end date is
// inclusive, it covers the whole day.
func (h *discordHandler) parseDateStartDateEnd(params []string) (time.Time, time.Time, error) {
	var (
		err                error
		dateStart, dateEnd time.Time
	)
	if len(params) == 2 {
		format := "2006-01-02"
		dateStart, err = time.Parse(format, params[0])
		if err != nil {
			return dateStart, dateEnd, errors.Wrap(err, "unknown date format, use YYYY-MM-DD")
		}
		dateEnd, err = time.Parse(format, params[1])
		if err != nil {
			return dateStart, dateEnd, errors.Wrap(err, "unknown date format, use YYYY-MM-DD")
		}
		if dateEnd.Before(dateStart) {
			return dateStart, dateEnd, errors.New("end date is before start date")
		}
	} else {
		now := time.Now()
		currentYear, currentMonth, _ := now.Date()

		dateStart = time.Date(currentYear, currentMonth, 1, 0, 0, 0, 0, time.UTC)
		dateEnd = dateStart.AddDate(0, 1, -1)
	}
	return dateStart, endOfDay(dateEnd), nil
}

func endOfDay(t time.Time) time.Time {
	return t.Add(24*time.Hour - time.Second)
}

func titleWithDate(dateStart, dateEnd time.Time) string {
	var title string
	if dateStart.Year() == dateEnd.Year() && dateStart.Month() == dateEnd.Month() {
		currentYear, currentMonth, _ := dateStart.Date()
		title = fmt.Sprintf("for %s %d", currentMonth.String(), currentYear)
	} else {
		startYear, startMonth, _ := dateStart.Date()
		endYear, endMonth, _ := dateEnd.Date()
		title = fmt.Sprintf("for %s %d - %s %d", startMonth.String(), startYear, endMonth.String(), endYear)
	}

	return title
}

func amount(d decimal.Decimal) string {
	return humanize.FormatFloat(floatFormat, d.InexactFloat64())
}

func price(d decimal.Decimal) string {
	return humanize.FormatFloat(priceFormat, d.InexactFloat64())
}

func warningsDescription(warnings []string) string {
	var description strings.Builder
	description.WriteString("```")
	for i, warning := range warnings {
		if i == maxWarningLines {
			description.WriteString(fmt.Sprintf("... and %d more\n", len(warnings)-maxWarningLines))
			break
		}
		description.WriteString(warning + "\n")
	}
	description.WriteString("```")
	return description.String()
}
