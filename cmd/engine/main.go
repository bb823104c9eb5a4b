// The engine binary replays a CSV of transactions and writes the resulting
// per-client account report to stdout.
//
// Usage: engine <transactions.csv>
package main

import (
	"bufio"
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/finbatch/payments-engine/internal/csvio"
	eventsmemory "github.com/finbatch/payments-engine/internal/events/memory"
	"github.com/finbatch/payments-engine/internal/models"
	"github.com/finbatch/payments-engine/internal/processor"
	"github.com/finbatch/payments-engine/internal/storage/memory"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	if len(os.Args) < 2 {
		logger.Fatal("missing transactions file argument")
	}

	input, err := os.Open(os.Args[1])
	if err != nil {
		logger.Fatal("failed to open transactions file", zap.Error(err))
	}
	defer input.Close()

	proc := processor.New(memory.NewMemoryLedgerStore(), eventsmemory.NewPublisher(), logger)

	ctx := context.Background()
	err = csvio.ReadTransactions(input, func(tx models.Transaction) error {
		return proc.Apply(ctx, tx)
	})
	if err != nil {
		logger.Fatal("replay failed", zap.Error(err))
	}

	out := bufio.NewWriter(os.Stdout)
	if err := csvio.WriteReport(out, proc.Accounts()); err != nil {
		logger.Fatal("failed to write report", zap.Error(err))
	}
	if err := out.Flush(); err != nil {
		logger.Fatal("failed to flush report", zap.Error(err))
	}
}
