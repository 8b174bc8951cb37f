// Package ledger owns the append side of the transaction log: reference
// generation and collision-safe inserts.
package ledger

import (
	"context"
	"errors"
	"strings"

	domainerr "clinicpay/internal/errors"
	"clinicpay/internal/models"
	"clinicpay/internal/repositories"

	"github.com/google/uuid"
)

// Reference prefixes by transaction kind.
const (
	PrefixDeposit    = "DEP-"
	PrefixWithdrawal = "WTH-"
	PrefixRefund     = "RFD-"
)

const (
	referenceEntropy = 16
	maxInsertRetries = 5
)

// NewReference generates a ledger reference such as DEP-9F2C41A87B3E06D1.
func NewReference(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + strings.ToUpper(raw[:referenceEntropy])
}

// Appender is the slice of the repository the writer needs.
type Appender interface {
	CreateTransaction(ctx context.Context, txn *models.Transaction) error
}

// Writer appends immutable transaction records. A reference collision is
// retried with a fresh reference instead of failing the unit of work.
type Writer struct{}

func NewWriter() *Writer {
	return &Writer{}
}

// Append stamps txn with a fresh reference under prefix and inserts it. The
// caller must invoke it inside the same atomic unit as the balance write.
func (w *Writer) Append(ctx context.Context, repo Appender, txn *models.Transaction, prefix string) error {
	for attempt := 0; attempt < maxInsertRetries; attempt++ {
		txn.Reference = NewReference(prefix)
		err := repo.CreateTransaction(ctx, txn)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repositories.ErrDuplicateReference) {
			return err
		}
	}
	return domainerr.ErrReferenceCollision
}
