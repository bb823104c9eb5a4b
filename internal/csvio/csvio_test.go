package csvio_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/finbatch/payments-engine/internal/csvio"
	"github.com/finbatch/payments-engine/internal/models"
	"github.com/finbatch/payments-engine/internal/processor"
	"github.com/finbatch/payments-engine/internal/storage/memory"
)

// replay feeds a CSV document through a fresh processor and returns the
// final account states.
func replay(t *testing.T, input string) map[models.ClientID]models.AccountState {
	t.Helper()
	proc := processor.New(memory.NewMemoryLedgerStore(), nil, zap.NewNop())
	err := csvio.ReadTransactions(strings.NewReader(input), func(tx models.Transaction) error {
		return proc.Apply(context.Background(), tx)
	})
	require.NoError(t, err)
	return proc.Accounts()
}

func TestReadTransactionsParsesRecordsInOrder(t *testing.T) {
	input := "type,client,tx,amount\ndeposit,1,1,1.0\nwithdrawal,1,2,0.4\ndispute,1,1,"

	var seen []models.Transaction
	err := csvio.ReadTransactions(strings.NewReader(input), func(tx models.Transaction) error {
		seen = append(seen, tx)
		return nil
	})

	require.NoError(t, err)
	require.Len(t, seen, 3)
	assert.Equal(t, models.KindDeposit, seen[0].Kind)
	assert.Equal(t, models.ClientID(1), seen[0].Client)
	assert.Equal(t, models.TxID(1), seen[0].Tx)
	assert.Equal(t, "1", seen[0].Amount.String())
	assert.Equal(t, models.KindWithdrawal, seen[1].Kind)
	assert.Equal(t, "0.4", seen[1].Amount.String())
	assert.Equal(t, models.KindDispute, seen[2].Kind)
	assert.True(t, seen[2].Amount.IsZero())
}

func TestReadTransactionsTrimsWhitespace(t *testing.T) {
	input := "type, client, tx, amount\ndeposit, 1 , 1 , 1.5 \n dispute , 1, 1,"

	var seen []models.Transaction
	err := csvio.ReadTransactions(strings.NewReader(input), func(tx models.Transaction) error {
		seen = append(seen, tx)
		return nil
	})

	require.NoError(t, err)
	require.Len(t, seen, 2)
	assert.Equal(t, "1.5", seen[0].Amount.String())
	assert.Equal(t, models.KindDispute, seen[1].Kind)
}

func TestReadTransactionsEmptyInput(t *testing.T) {
	err := csvio.ReadTransactions(strings.NewReader(""), func(models.Transaction) error {
		t.Fatal("apply should not be called")
		return nil
	})
	require.NoError(t, err)
}

func TestMalformedRecordAbortsRun(t *testing.T) {
	cases := map[string]string{
		"bad client":      "type,client,tx,amount\ndeposit,abc,1,1.0",
		"bad tx":          "type,client,tx,amount\ndeposit,1,abc,1.0",
		"bad amount":      "type,client,tx,amount\ndeposit,1,1,abc",
		"negative amount": "type,client,tx,amount\ndeposit,1,1,-1.0",
		"missing column":  "type,client,amount\ndeposit,1,1.0",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			err := csvio.ReadTransactions(strings.NewReader(input), func(models.Transaction) error {
				return nil
			})
			require.Error(t, err)
		})
	}
}

func TestUnrecognizedTypeIsNotMalformed(t *testing.T) {
	input := "type,client,tx,amount\ntransfer,1,1,1.0"

	var seen []models.Transaction
	err := csvio.ReadTransactions(strings.NewReader(input), func(tx models.Transaction) error {
		seen = append(seen, tx)
		return nil
	})

	// The record parses; classifying the kind is the processor's job.
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, models.Kind("transfer"), seen[0].Kind)
}

func TestReplayThroughProcessor(t *testing.T) {
	input := "type,client,tx,amount\ndeposit,1,1,1.0\ndispute,1,1,\nchargeback,1,1,\ndeposit,1,2,1.0"

	accounts := replay(t, input)

	require.Len(t, accounts, 1)
	state := accounts[1]
	assert.True(t, state.Available.IsZero())
	assert.True(t, state.Held.IsZero())
	assert.True(t, state.Total.IsZero())
	assert.True(t, state.Locked)
}

func TestWriteReportFormat(t *testing.T) {
	input := "type,client,tx,amount\n" +
		"deposit,1,1,1.0\n" +
		"deposit,2,2,2.0\n" +
		"deposit,1,3,2.0\n" +
		"withdrawal,1,4,1.5\n" +
		"withdrawal,2,5,3.0"

	accounts := replay(t, input)

	var out bytes.Buffer
	require.NoError(t, csvio.WriteReport(&out, accounts))

	expected := "client,available,held,total,locked\n" +
		"1,1.5000,0.0000,1.5000,false\n" +
		"2,2.0000,0.0000,2.0000,false\n"
	assert.Equal(t, expected, out.String())
}

func TestWriteReportLockedAccount(t *testing.T) {
	input := "type,client,tx,amount\ndeposit,3,1,0.5\ndispute,3,1,\nchargeback,3,1,"

	accounts := replay(t, input)

	var out bytes.Buffer
	require.NoError(t, csvio.WriteReport(&out, accounts))

	expected := "client,available,held,total,locked\n" +
		"3,0.0000,0.0000,0.0000,true\n"
	assert.Equal(t, expected, out.String())
}

func TestWriteReportSortsClients(t *testing.T) {
	input := "type,client,tx,amount\ndeposit,9,1,1.0\ndeposit,2,2,1.0\ndeposit,5,3,1.0"

	accounts := replay(t, input)

	var out bytes.Buffer
	require.NoError(t, csvio.WriteReport(&out, accounts))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[1], "2,"))
	assert.True(t, strings.HasPrefix(lines[2], "5,"))
	assert.True(t, strings.HasPrefix(lines[3], "9,"))
}
