// The server binary exposes the replay engine over HTTP: transactions are
// posted one at a time and account states queried back. Store and event
// publisher backends are selected through the environment.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/finbatch/payments-engine/internal/config"
	eventskafka "github.com/finbatch/payments-engine/internal/events/kafka"
	eventsmemory "github.com/finbatch/payments-engine/internal/events/memory"
	interfaces "github.com/finbatch/payments-engine/internal/interfaces"
	"github.com/finbatch/payments-engine/internal/models"
	"github.com/finbatch/payments-engine/internal/processor"
	"github.com/finbatch/payments-engine/internal/storage/memory"
	"github.com/finbatch/payments-engine/internal/storage/postgres"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	var store interfaces.LedgerStore
	switch cfg.LedgerStore {
	case config.StorePostgres:
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("failed to open database", zap.Error(err))
		}
		if err := db.Ping(); err != nil {
			logger.Fatal("failed to reach database", zap.Error(err))
		}
		store = postgres.NewPostgresLedgerStore(db)
	default:
		store = memory.NewMemoryLedgerStore()
	}

	var publisher interfaces.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := eventskafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	} else {
		publisher = eventsmemory.NewPublisher()
	}

	proc := processor.New(store, publisher, logger)

	// The processor applies transactions strictly in order; requests
	// serialize here.
	var mu sync.Mutex

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	http.HandleFunc("/transactions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var req struct {
			Type   string          `json:"type"`
			Client uint16          `json:"client"`
			Tx     uint32          `json:"tx"`
			Amount decimal.Decimal `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		kind, ok := models.ParseKind(req.Type)
		if !ok {
			http.Error(w, "unrecognized transaction type", http.StatusBadRequest)
			return
		}
		if req.Amount.IsNegative() {
			http.Error(w, "amount must not be negative", http.StatusBadRequest)
			return
		}

		tx := models.Transaction{
			Kind:   kind,
			Client: models.ClientID(req.Client),
			Tx:     models.TxID(req.Tx),
			Amount: req.Amount,
		}

		mu.Lock()
		err := proc.Apply(context.Background(), tx)
		mu.Unlock()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		// Semantic rejections are absorbed silently, so acceptance here
		// only means the transaction was processed.
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"status":"processed"}`))
	})

	http.HandleFunc("/accounts", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		mu.Lock()
		accounts := proc.Accounts()
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(accounts)
	})

	http.HandleFunc("/accounts/state", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		raw := r.URL.Query().Get("client_id")
		if raw == "" {
			http.Error(w, "client_id is a mandatory field", http.StatusBadRequest)
			return
		}
		client, err := strconv.ParseUint(raw, 10, 16)
		if err != nil {
			http.Error(w, "invalid client_id", http.StatusBadRequest)
			return
		}

		mu.Lock()
		state, ok := proc.Account(models.ClientID(client))
		mu.Unlock()
		if !ok {
			http.Error(w, "unknown client", http.StatusNotFound)
			return
		}

		response := struct {
			Client uint64              `json:"client"`
			State  models.AccountState `json:"state"`
		}{
			Client: client,
			State:  state,
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	})

	logger.Info("starting server", zap.String("addr", cfg.HTTPAddr))
	logger.Fatal("server stopped", zap.Error(http.ListenAndServe(cfg.HTTPAddr, nil)))
}
