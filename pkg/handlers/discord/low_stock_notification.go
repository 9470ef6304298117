package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/aggregate"

	"github.com/bwmarrin/discordgo"
)

func (h *discordHandler) LowStockMessage(ctx context.Context, notification aggregate.LowStockNotification) {
	_, err := h.discord.ChannelMessageSendEmbed(h.channelID, lowStockEmbed(notification))
	if err != nil {
		h.error(err, h.channelID)
		return
	}
}

func lowStockEmbed(notification aggregate.LowStockNotification) *discordgo.MessageEmbed {
	description := fmt.Sprintf(
		"`%s` l < `%s` l\n\nBase: `%s` l\nBunker: `%s` l\n\nFor more details run:\n`!fuel by grade`",
		amount(notification.Balances.OnHand()),
		amount(notification.Threshold),
		amount(notification.Balances.Base),
		amount(notification.Balances.Bunker),
	)
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s: %s", lowStockNotificationMsg, notification.Grade),
		Description: description,
		Color:       0xff0000,
		Timestamp:   notification.Date.Format(time.RFC3339),
	}
}
