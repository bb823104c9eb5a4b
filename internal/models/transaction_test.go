package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/finbatch/payments-engine/internal/models"
)

func TestParseKind(t *testing.T) {
	for _, valid := range []string{"deposit", "withdrawal", "dispute", "resolve", "chargeback"} {
		kind, ok := models.ParseKind(valid)
		assert.True(t, ok, valid)
		assert.Equal(t, models.Kind(valid), kind)
	}

	for _, invalid := range []string{"", "transfer", "Deposit", "DEPOSIT", " deposit"} {
		_, ok := models.ParseKind(invalid)
		assert.False(t, ok, invalid)
	}
}
