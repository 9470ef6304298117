package discord

import (
	"fmt"
	"time"

	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/aggregate"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
)

var epoch = time.Unix(0, 0).UTC()

// fuelHandler will be called every time a new
// message is created on any channel that the autenticated bot has access to.
func (h *discordHandler) fuelHandler(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
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
	stock, err := h.accountantSvc.Summary(h.ctx, epoch, dateEnd)
	if err != nil {
		h.error(errors.Wrap(err, "error calculating stock"), m.ChannelID)
		return
	}

	for _, message := range h.fuelMessages(dateStart, dateEnd, period, stock) {
		_, err = h.discord.ChannelMessageSendEmbed(m.ChannelID, message)
		if err != nil {
			h.error(errors.Wrap(err, "error sending summary message"), m.ChannelID)
			return
		}
	}
}

// fuelMessages renders period figures (profit, volumes) next to the stock
// on hand at the end of the period.
func (h *discordHandler) fuelMessages(dateStart, dateEnd time.Time, period, stock *aggregate.Summary) []*discordgo.MessageEmbed {
	description := fmt.Sprintf(
		"%s: `%s`\nAvg purchase price: `%s`\nPurchased: `%s` l for `%s`\nSold: `%s` l for `%s`\nDrained: `%s` l\n\n"+
			"%s\nBase: `%s` l\nBunker: `%s` l\n%s: `%s`\n\n%s",
		profitMsg,
		amount(period.Profit),
		price(period.AvgPurchasePrice),
		amount(period.Volumes.Purchased),
		amount(period.Volumes.PurchaseCost),
		amount(period.Volumes.Sold),
		amount(period.Volumes.SaleRevenue),
		amount(period.Volumes.Drained),
		stockMsg,
		amount(stock.Base),
		amount(stock.Bunker),
		frozenCapitalMsg,
		amount(stock.FrozenCapital),
		forMoreDetailsMsg,
	)

	var messages = []*discordgo.MessageEmbed{
		{
			Title:       fmt.Sprintf("%s %s", summaryMsg, titleWithDate(dateStart, dateEnd)),
			Description: description,
			Color:       0xffffff,
		},
	}
	if len(period.Warnings) > 0 {
		messages = append(messages, &discordgo.MessageEmbed{
			Title:       warningsMsg,
			Description: warningsDescription(period.Warnings),
			Color:       0xffaa00,
		})
	}

	return messages
}
