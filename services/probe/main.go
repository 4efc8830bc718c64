// Command probe performs one end-to-end water-quality fetch for a commune
// and logs the consolidated record. Useful for checking Hub'Eau behavior
// for a given commune without running the API service.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/text"
	"github.com/joho/godotenv"

	"github.com/pureflow/water-quality-viewer/services/api/hubeau"
	"github.com/pureflow/water-quality-viewer/services/api/waterquality"
)

func main() {
	log.SetHandler(text.New(os.Stderr))

	communeCode := flag.String("commune", "", "INSEE commune code to probe")
	debug := flag.Bool("debug", false, "enable debug logging")
	timeout := flag.Duration("timeout", time.Minute, "overall fetch timeout")
	flag.Parse()

	if *debug {
		log.SetLevel(log.DebugLevel)
	}
	if *communeCode == "" {
		log.Fatal("-commune is required")
	}

	if err := run(*communeCode, *timeout); err != nil {
		log.Fatalf("probe failed: %v", err)
	}
}

func run(communeCode string, timeout time.Duration) error {
	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	svc := waterquality.New(hubeau.New(os.Getenv("HUBEAU_BASE_URL")), 0)

	record, err := svc.Fetch(ctx, communeCode)
	if errors.Is(err, hubeau.ErrNoData) {
		log.Warnf("no data available for commune %s", communeCode)
		return nil
	}
	if err != nil {
		return err
	}

	logger := log.WithField("commune", record.CommuneCode)
	if record.Network != nil {
		logger = logger.WithField("network", record.Network.Code)
	}
	logger.Infof("latest sample %s: %d parameters (overall=%s bacterio=%s chemical=%s)",
		record.SampleDate, len(record.Parameters),
		record.OverallConformity, record.BacterioConformity, record.ChemicalConformity)

	for code, series := range record.History {
		log.Infof("history %s: %d points (latest %s = %.2f)", code, len(series), series[0].Date, series[0].Value)
	}
	if record.Truncated {
		log.Warn("result page came back full; history may be partial")
	}
	return nil
}
