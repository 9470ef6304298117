package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// helpHandler will be called every time a new
// message is created on any channel that the autenticated bot has access to.
func (h *discordHandler) helpHandler(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	msg := "I'll keep track of fuel purchases, sales and transfers between base and bunker. \n\n" +
		"Here is the list of commands you can use:\n" +
		"`!help` - shows this help message\n" +
		"`!fuel` - stock, profit and frozen capital overview\n" +
		"`!fuel by grade` - the same overview for each fuel grade\n" +
		"`!fuel graph` - daily base and bunker stock chart\n\n" +
		"Every command accepts an optional `YYYY-MM-DD YYYY-MM-DD` date range."

	_, err := h.discord.ChannelMessageSendEmbed(m.ChannelID, &discordgo.MessageEmbed{
		Title:       "Hello, I'm your fuel accountant.",
		Color:       0x00ff00,
		Description: msg,
		Timestamp:   time.Now().Format(time.RFC3339), // Discord wants ISO8601; RFC3339 is an extension of ISO8601 and should be completely compatible.
	})
	if err != nil {
		h.log.Error("error sending message for !help", zap.Error(err))
		return
	}
}
