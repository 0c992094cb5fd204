// Command exchanged runs the BTC/USDC matching engine: the single-writer
// command dispatcher (§4-5), an optional Pebble-backed audit journal, and
// the HTTP/JSON + WebSocket transport shell around it.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/uhyunpark/btcusdc-exchange/internal/engine"
	"github.com/uhyunpark/btcusdc-exchange/internal/journal"
	"github.com/uhyunpark/btcusdc-exchange/internal/transport"
	"github.com/uhyunpark/btcusdc-exchange/internal/util"
	"github.com/uhyunpark/btcusdc-exchange/params"
)

func main() {
	cfg := params.LoadFromEnv("") // "" means load from .env in current directory

	logger, err := util.NewLoggerWithFile(cfg.Node.LogFile)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()
	sugar.Infow("logger_initialized", "log_file", cfg.Node.LogFile)

	var j *journal.Journal
	if cfg.Node.JournalPath != "" {
		j, err = journal.Open(cfg.Node.JournalPath)
		if err != nil {
			sugar.Fatalw("journal_open_failed", "err", err)
		}
		defer j.Close()
	}

	eng := engine.New(sugar, j, engine.Config{MaxOpenOrdersPerUser: cfg.Engine.MaxOpenOrdersPerUser})
	go eng.Run()
	defer eng.Stop()

	srv := transport.NewServer(eng, sugar)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		sugar.Infow("transport_starting", "addr", cfg.Node.ListenAddr)
		if err := srv.Start(cfg.Node.ListenAddr); err != nil {
			sugar.Fatalw("transport_failed", "err", err)
		}
	}()

	<-ctx.Done()
	sugar.Info("shutting_down")
}
