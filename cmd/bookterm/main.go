package main

import (
	"flag"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/zappabad/limitbook/internal/flow"
	"github.com/zappabad/limitbook/internal/market"
	marketservice "github.com/zappabad/limitbook/internal/market/service"
	"github.com/zappabad/limitbook/tui"
)

func defaultInstruments() []market.Instrument {
	return []market.Instrument{
		{ID: 1, Name: "ALPHA", Decimals: 2},
		{ID: 2, Name: "BETA", Decimals: 2},
		{ID: 3, Name: "GAMMA", Decimals: 2},
		{ID: 4, Name: "DELTA", Decimals: 2},
	}
}

func main() {
	catalogPath := flag.String("catalog", "data/instruments.csv", "path to the instrument catalog")
	flowRunners := flag.Int("flow", 3, "number of random flow runners (0 disables)")
	seed := flag.Int64("seed", 69420, "base seed for random flow")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	instruments, err := market.LoadCatalog(*catalogPath)
	if err != nil {
		log.WithError(err).WithField("path", *catalogPath).
			Warn("could not load catalog, using built-in instruments")
		instruments = defaultInstruments()
	}
	log.WithField("instruments", len(instruments)).Info("catalog loaded")

	svc := marketservice.NewMarketService(instruments, marketservice.DefaultConfig())
	defer svc.Close()

	var runners []*flow.Runner
	for i := 0; i < *flowRunners; i++ {
		strat := flow.NewRandomStrategy(*seed+int64(i), 69)
		runners = append(runners, flow.NewRunner(flow.DefaultConfig(), strat, svc, svc))
	}
	defer func() {
		for _, r := range runners {
			r.Close()
		}
	}()
	log.WithField("runners", len(runners)).Info("flow started")

	model := tui.NewModel(svc)
	program := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := program.Run(); err != nil {
		log.WithError(err).Error("terminal ui failed")
		os.Exit(1)
	}
}
