package csvio

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/finbatch/payments-engine/internal/models"
)

// WriteReport renders the final account states as CSV: header
// `client,available,held,total,locked`, one row per client in ascending
// client order, amounts at exactly four decimal places, booleans lowercase.
func WriteReport(w io.Writer, accounts map[models.ClientID]models.AccountState) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return err
	}

	clients := make([]models.ClientID, 0, len(accounts))
	for client := range accounts {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i] < clients[j] })

	for _, client := range clients {
		acct := accounts[client]
		row := []string{
			strconv.FormatUint(uint64(client), 10),
			acct.Available.StringFixed(4),
			acct.Held.StringFixed(4),
			acct.Total.StringFixed(4),
			strconv.FormatBool(acct.Locked),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
