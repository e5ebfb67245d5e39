package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/acch-2/toy-pay/internal/common"
	"github.com/acch-2/toy-pay/internal/csvio"
	"github.com/acch-2/toy-pay/internal/events/kafka"
	"github.com/acch-2/toy-pay/internal/events/logsink"
	"github.com/acch-2/toy-pay/internal/interfaces"
	"github.com/acch-2/toy-pay/internal/ledger"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "toy-pay: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	flags := flag.NewFlagSet("toy-pay", flag.ContinueOnError)
	configPath := flags.String("config", os.Getenv("TOYPAY_CONFIG"), "path to a TOML config file")
	logLevel := flags.String("log-level", "", "override the configured log level")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if flags.NArg() < 1 {
		return errors.New("usage: toy-pay [-config path] [-log-level level] <input.csv>")
	}
	inputPath := flags.Arg(0)

	cfg, err := common.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	logger := common.NewLogger(cfg.Logging.Level)

	sink, closeSink := newSink(cfg, logger)
	defer closeSink()

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	reader, err := csvio.NewReader(file, logger)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", inputPath, err)
	}

	ldg := ledger.NewLedger(logger, sink)
	ctx := context.Background()

	processed := 0
	for {
		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", inputPath, err)
		}

		// Rejections are already logged and published by the ledger;
		// the run continues regardless.
		_ = ldg.Process(ctx, rec)
		processed++
	}

	logger.Info().
		Int("processed", processed).
		Int("skipped", reader.Skipped()).
		Msg("Stream exhausted")

	return csvio.Write(out, ldg)
}

// newSink builds the configured event publisher and its cleanup func.
func newSink(cfg *common.Config, logger *common.Logger) (interfaces.EventPublisher, func()) {
	switch cfg.Events.Sink {
	case common.SinkKafka:
		p := kafka.NewPublisher(cfg.Events.Kafka.Brokers, cfg.Events.Kafka.Topic)
		return p, func() {
			if err := p.Close(); err != nil {
				logger.Error().Err(err).Msg("Failed to close kafka publisher")
			}
		}
	case common.SinkNone:
		return nil, func() {}
	default:
		return logsink.NewPublisher(logger), func() {}
	}
}
