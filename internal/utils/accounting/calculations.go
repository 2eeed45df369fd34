package accounting

import (
	"fmt"

	"github.com/SscSPs/ledger_desk/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateSignedAmount returns the effect of a journal line on its account's
// balance. Debits raise asset and expense balances; credits raise liability,
// equity and revenue balances.
func CalculateSignedAmount(line domain.JournalLine, accountType domain.AccountType) (decimal.Decimal, error) {
	net := line.Debit.Sub(line.Credit)

	switch accountType {
	case domain.Asset, domain.Expense:
		return net, nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return net.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, line.AccountID)
	}
}

// BalanceChanges sums the signed effect of lines per account.
func BalanceChanges(lines []domain.JournalLine, accountTypes map[domain.ID]domain.AccountType) (map[domain.ID]decimal.Decimal, error) {
	changes := make(map[domain.ID]decimal.Decimal, len(lines))
	for i, line := range lines {
		accountType, ok := accountTypes[line.AccountID]
		if !ok {
			return nil, fmt.Errorf("account type not found for account ID %s (line %d)", line.AccountID, i+1)
		}
		signed, err := CalculateSignedAmount(line, accountType)
		if err != nil {
			return nil, err
		}
		changes[line.AccountID] = changes[line.AccountID].Add(signed)
	}
	return changes, nil
}
