package discord

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lunemec/fuel-accountant/pkg/domain/fuel/aggregate"

	"github.com/bwmarrin/discordgo"
	quickchartgo "github.com/henomis/quickchart-go"
	"github.com/pkg/errors"
)

// fuelGraphHandler will be called every time a new
// message is created on any channel that the autenticated bot has access to.
func (h *discordHandler) fuelGraphHandler(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	h.reactWorking(m)

	dateStart, dateEnd, err := h.parseDateStartDateEnd(args)
	if err != nil {
		h.error(err, m.ChannelID)
		return
	}

	opening, err := h.accountantSvc.Summary(h.ctx, epoch, dateStart.Add(-time.Second))
	if err != nil {
		h.error(errors.Wrap(err, "error calculating opening stock"), m.ChannelID)
		return
	}
	days, err := h.accountantSvc.SummaryByDay(h.ctx, dateStart, dateEnd)
	if err != nil {
		h.error(errors.Wrap(err, "error calculating daily summary"), m.ChannelID)
		return
	}

	chartConfig, err := stockChartConfig(stockSeries(opening.Balances, days))
	if err != nil {
		h.error(errors.Wrap(err, "error encoding chart"), m.ChannelID)
		return
	}

	qc := quickchartgo.New()
	qc.Config = chartConfig
	qc.Width = 1920
	qc.Height = 1080
	qc.Version = "2.9.4"

	chartURL, err := qc.GetShortUrl()
	if err != nil {
		h.error(errors.Wrap(err, "error generating chart url"), m.ChannelID)
		return
	}

	for _, message := range h.fuelGraphMessages(dateStart, dateEnd, chartURL) {
		_, err = h.discord.ChannelMessageSendComplex(m.ChannelID, message)
		if err != nil {
			h.error(errors.Wrap(err, "error sending chart message"), m.ChannelID)
			return
		}
	}
}

type series struct {
	Days   []string
	Base   []float64
	Bunker []float64
}

// stockSeries turns daily deltas into running stock levels, starting from
// the opening balances.
func stockSeries(opening aggregate.Balances, days []aggregate.DailySummary) series {
	var (
		out     series
		running = opening
	)
	for _, day := range days {
		running.Sum(day.Summary.Balances)

		out.Days = append(out.Days, day.Timestamp.Format("2006-01-02"))
		out.Base = append(out.Base, running.Base.InexactFloat64())
		out.Bunker = append(out.Bunker, running.Bunker.InexactFloat64())
	}
	return out
}

func stockChartConfig(s series) (string, error) {
	datasetConfig := `{
		"label": "%s",
		"data": %s,
		"fill": false,
		"lineTension": 0,
		"pointRadius": 3,
		"borderWidth": 3
	}`

	var datasetConfigs []string
	for _, dataset := range []struct {
		label string
		data  []float64
	}{
		{"Base", s.Base},
		{"Bunker", s.Bunker},
	} {
		dataB, err := json.Marshal(dataset.data)
		if err != nil {
			return "", errors.Wrapf(err, "error encoding %s data", dataset.label)
		}
		datasetConfigs = append(datasetConfigs, fmt.Sprintf(datasetConfig, dataset.label, string(dataB)))
	}

	chartConfig := `{
		"type": "line",
		"data": {
			"datasets": [%s],
			"labels": %s
		},
		"options": {
			"legend": {
				"display": true,
				"position": "top"
			},
			"scales": {
				"xAxes": [{
					"id": "X1",
					"type": "time",
					"time": {"unit": "day", "displayFormats": {"day": "yyyy-MM-DD"}},
					"scaleLabel": {"display": true, "labelString": "Day"}
				}],
				"yAxes": [{
					"id": "Y1",
					"position": "left",
					"scaleLabel": {"display": true, "labelString": "Liters"}
				}]
			},
			"tooltips": {"mode": "index"},
			"hover": {"mode": "index"}
		}
	}`

	daysB, err := json.Marshal(s.Days)
	if err != nil {
		return "", errors.Wrap(err, "error encoding days for chart")
	}
	return fmt.Sprintf(chartConfig, strings.Join(datasetConfigs, ","), string(daysB)), nil
}

func (h *discordHandler) fuelGraphMessages(
	dateStart, dateEnd time.Time,
	chartURL string,
) []*discordgo.MessageSend {
	title := fmt.Sprintf("%s %s", stockMsg, titleWithDate(dateStart, dateEnd))
	var messages = []*discordgo.MessageSend{
		{
			Embed: &discordgo.MessageEmbed{
				Title: title,
				Color: 0xffffff,
				Image: &discordgo.MessageEmbedImage{
					URL: chartURL,
				},
			},
		},
	}

	return messages
}
