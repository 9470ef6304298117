package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/aggregate"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
)

// fuelByGradeHandler will be called every time a new
// message is created on any channel that the autenticated bot has access to.
func (h *discordHandler) fuelByGradeHandler(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	h.reactWorking(m)

	dateStart, dateEnd, err := h.parseDateStartDateEnd(args)
	if err != nil {
		h.error(err, m.ChannelID)
		return
	}

	period, err := h.accountantSvc.Summary(h.ctx, dateStart, dateEnd)
	if err != nil {
		h.error(errors.Wrap(err, "error calculating summary"), m.ChannelID)
		return
	}

	for _, message := range h.fuelByGradeMessages(dateStart, dateEnd, period) {
		_, err = h.discord.ChannelMessageSendEmbed(m.ChannelID, message)
		if err != nil {
			h.error(errors.Wrap(err, "error sending summary message"), m.ChannelID)
			return
		}
	}
}

func (h *discordHandler) fuelByGradeMessages(dateStart, dateEnd time.Time, summary *aggregate.Summary) []*discordgo.MessageEmbed {
	var description strings.Builder

	description.WriteString("```")
	description.WriteString(fmt.Sprintf("%-12s %12s %12s %12s %10s %14s\n", "grade", "base", "bunker", "profit", "avg", "frozen"))
	for _, grade := range summary.Grades() {
		gradeSummary := summary.PerGrade[grade]
		name := string(grade)
		if name == "" {
			name = "(none)"
		}
		description.WriteString(fmt.Sprintf(
			"%-12s %12s %12s %12s %10s %14s\n",
			name,
			amount(gradeSummary.Base),
			amount(gradeSummary.Bunker),
			amount(gradeSummary.Profit),
			price(gradeSummary.AvgPurchasePrice),
			amount(gradeSummary.FrozenCapital),
		))
	}
	description.WriteString(fmt.Sprintf(
		"%-12s %12s %12s %12s %10s %14s\n",
		"total",
		amount(summary.Base),
		amount(summary.Bunker),
		amount(summary.Profit),
		price(summary.AvgPurchasePrice),
		amount(summary.FrozenCapital),
	))
	description.WriteString("```")

	return []*discordgo.MessageEmbed{
		{
			Title:       fmt.Sprintf("%s %s", byGradeMsg, titleWithDate(dateStart, dateEnd)),
			Description: description.String(),
			Color:       0x00ff00,
		},
	}
}
