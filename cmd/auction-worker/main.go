// Command auction-worker runs one procurement auction as a long-lived worker
// process. Stage advancement is externally triggered in production; the
// fast-forward mode replays the auction to its final state in one shot, used
// for recovery and simulation.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yarsanich/openprocurement.auction.worker/audit"
	"github.com/yarsanich/openprocurement.auction.worker/config"
	"github.com/yarsanich/openprocurement.auction.worker/engine"
	"github.com/yarsanich/openprocurement.auction.worker/store"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "auction-worker",
		Short: "Worker process driving one live procurement auction",
	}
	rootCmd.AddCommand(runCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var (
		auctionID   string
		biddersFile string
		fastForward bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Prepare and run an auction",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), auctionID, biddersFile, fastForward)
		},
	}
	cmd.Flags().StringVar(&auctionID, "auction-id", "", "auction/tender identifier (required)")
	cmd.Flags().StringVar(&biddersFile, "bidders-file", "", "JSON file with bidder submissions")
	cmd.Flags().BoolVar(&fastForward, "fast-forward", false, "replay the auction to its final state")
	_ = cmd.MarkFlagRequired("auction-id")
	return cmd
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout)
	if cfg.LogPretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	return logger.Level(level).With().Timestamp().Str("service", "auction-worker").Logger()
}

func loadSubmissions(path string) ([]engine.BidderSubmission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bidders file: %w", err)
	}
	var subs []engine.BidderSubmission
	if err := json.Unmarshal(data, &subs); err != nil {
		return nil, fmt.Errorf("parse bidders file: %w", err)
	}
	return subs, nil
}

func run(ctx context.Context, auctionID, biddersFile string, fastForward bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				log.Error().Err(err).Msg("Metrics listener stopped")
			}
		}()
	}

	backend := store.NewHTTPBackend(cfg.StoreURL, cfg.StoreDB, nil)
	client := store.NewClient(backend, store.DefaultRetryPolicy(), log.With().Str("component", "store").Logger())
	auction := engine.New(auctionID, client, nil, log)

	if biddersFile != "" {
		subs, err := loadSubmissions(biddersFile)
		if err != nil {
			return err
		}
		if err := auction.LoadBidders(subs); err != nil {
			return err
		}
	}

	if err := auction.PrepareAuctionDocument(ctx); err != nil {
		return err
	}
	auction.PrepareStages(fastForward)
	trail := auction.PrepareAudit()

	var service audit.FileUploader
	if cfg.DocServiceURL != "" {
		service = audit.NewDocumentService(cfg.DocServiceURL, cfg.DocServiceToken, nil)
	}
	uploader := audit.NewUploader(trail, service, client, log.With().Str("component", "audit").Logger())

	if fastForward {
		if err := auction.EndAuction(ctx); err != nil {
			return err
		}
		if service != nil {
			_, err = uploader.UploadWithDocumentService(ctx)
		} else {
			err = uploader.UploadAsAttachment(ctx, auction.Document())
		}
		if err != nil {
			return err
		}
		log.Info().Msg(fmt.Sprintf("Auction %s replayed to final state", auctionID))
		return nil
	}

	if _, _, err := auction.SaveAuctionDocument(ctx); err != nil {
		return err
	}
	log.Info().Msg(fmt.Sprintf("Auction %s prepared; stage transitions are externally scheduled", auctionID))
	return nil
}
