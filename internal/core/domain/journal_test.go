package domain_test

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/SscSPs/ledger_desk/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func line(account, debit, credit string) domain.JournalLine {
	return domain.JournalLine{AccountID: domain.ID(account), Debit: dec(debit), Credit: dec(credit)}
}

var ledgerAccounts = domain.NewAccountCatalog([]domain.Account{
	acct("cash", "", domain.Asset, true),
	acct("sales", "", domain.Revenue, true),
	acct("assets", "", domain.Asset, false),
})

func draft(lines ...domain.JournalLine) domain.JournalEntry {
	return domain.NewDraft(domain.NewDate(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)), "sale", lines)
}

func TestPost_Balanced(t *testing.T) {
	entry := draft(line("cash", "100", "0"), line("sales", "0", "100"))

	assert.True(t, domain.IsBalanced(entry.Lines, domain.Epsilon))
	posted, err := domain.Post(entry, ledgerAccounts)
	require.NoError(t, err)
	assert.Equal(t, domain.Posted, posted.Status)
	assert.True(t, posted.Amount.Equal(dec("100")))
	assert.Equal(t, domain.Draft, entry.Status, "input entry is not modified")
}

func TestPost_Unbalanced(t *testing.T) {
	entry := draft(line("cash", "100", "0"), line("sales", "0", "99"))

	assert.False(t, domain.IsBalanced(entry.Lines, domain.Epsilon))
	_, err := domain.Post(entry, ledgerAccounts)
	assert.ErrorIs(t, err, domain.ErrUnbalanced)
}

func TestPost_Failures(t *testing.T) {
	posted := draft(line("cash", "5", "0"), line("sales", "0", "5"))
	posted.Status = domain.Posted

	tests := []struct {
		name    string
		entry   domain.JournalEntry
		wantErr error
	}{
		{"already posted", posted, domain.ErrAlreadyPosted},
		{"no lines", draft(), domain.ErrEmptyEntry},
		{"one line", draft(line("cash", "5", "0")), domain.ErrEmptyEntry},
		{"both sides", draft(line("cash", "5", "5"), line("sales", "0", "0.5")), domain.ErrBothSidesSet},
		{"neither side", draft(line("cash", "0", "0"), line("sales", "0", "0")), domain.ErrNeitherSideSet},
		{"negative", draft(line("cash", "-5", "0"), line("sales", "0", "-5")), domain.ErrNegativeAmount},
		{"summary account", draft(line("assets", "5", "0"), line("sales", "0", "5")), domain.ErrUnselectableAccount},
		{"unknown account", draft(line("ghost", "5", "0"), line("sales", "0", "5")), domain.ErrUnselectableAccount},
		{"difference within epsilon", draft(line("cash", "10.005", "0"), line("sales", "0", "10")), nil},
		{"difference of exactly epsilon", draft(line("cash", "10.01", "0"), line("sales", "0", "10")), domain.ErrUnbalanced},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.Post(tt.entry, ledgerAccounts)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPost_LineErrorNamesTheLine(t *testing.T) {
	entry := draft(line("cash", "5", "0"), line("sales", "0", "2"), line("assets", "0", "3"))

	_, err := domain.Post(entry, ledgerAccounts)
	var lineErr *domain.LineError
	require.True(t, errors.As(err, &lineErr))
	assert.Equal(t, 2, lineErr.Index)
	assert.Equal(t, domain.ID("assets"), lineErr.AccountID)
	assert.ErrorIs(t, err, domain.ErrUnselectableAccount)
}

func TestValidateLine_SubEpsilonAmountCountsAsZero(t *testing.T) {
	assert.ErrorIs(t, domain.ValidateLine(line("cash", "0.01", "0"), nil), domain.ErrNeitherSideSet)
	assert.NoError(t, domain.ValidateLine(line("cash", "0.02", "0.01"), nil))
	assert.NoError(t, domain.ValidateLine(line("ghost", "3", "0"), nil), "nil index skips the account check")
}

func TestComputeTotals(t *testing.T) {
	totals := domain.ComputeTotals([]domain.JournalLine{
		line("cash", "10.10", "0"),
		line("cash", "0.20", "0"),
		line("sales", "0", "10.30"),
	})
	assert.True(t, totals.Debit.Equal(dec("10.30")))
	assert.True(t, totals.Credit.Equal(dec("10.30")))
	assert.True(t, totals.Difference().IsZero())
}

// Post succeeds exactly when the entry has two or more lines, each line is
// valid, and the lines balance.
func TestPost_SucceedsIffValidAndBalanced(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	amounts := []string{"0", "0.005", "1", "2.5", "100", "-1"}
	accounts := []string{"cash", "sales", "assets"}
	for round := 0; round < 500; round++ {
		n := r.Intn(5)
		lines := make([]domain.JournalLine, n)
		for i := range lines {
			lines[i] = line(accounts[r.Intn(len(accounts))], amounts[r.Intn(len(amounts))], amounts[r.Intn(len(amounts))])
		}
		entry := draft(lines...)

		want := len(lines) >= 2 && domain.IsBalanced(lines, domain.Epsilon)
		for _, l := range lines {
			want = want && domain.ValidateLine(l, ledgerAccounts) == nil
		}
		_, err := domain.Post(entry, ledgerAccounts)
		assert.Equal(t, want, err == nil, "round %d: %v", round, err)
	}
}

func TestPostedEntry_RejectsEveryEdit(t *testing.T) {
	entry, err := domain.Post(draft(line("cash", "5", "0"), line("sales", "0", "5")), ledgerAccounts)
	require.NoError(t, err)

	edits := map[string]func(e *domain.JournalEntry) error{
		"date":          func(e *domain.JournalEntry) error { return e.SetDate(domain.NewDate(time.Now())) },
		"description":   func(e *domain.JournalEntry) error { return e.SetDescription("x") },
		"reference":     func(e *domain.JournalEntry) error { return e.SetReferenceNo("R-1") },
		"add line":      func(e *domain.JournalEntry) error { return e.AddLine(line("cash", "1", "0")) },
		"update line":   func(e *domain.JournalEntry) error { return e.UpdateLine(0, line("cash", "6", "0")) },
		"remove line":   func(e *domain.JournalEntry) error { return e.RemoveLine(0) },
		"replace lines": func(e *domain.JournalEntry) error { return e.ReplaceLines(nil) },
	}
	for name, edit := range edits {
		t.Run(name, func(t *testing.T) {
			e := entry
			e.Lines = append([]domain.JournalLine(nil), entry.Lines...)
			assert.ErrorIs(t, edit(&e), domain.ErrImmutable)
			assert.Equal(t, entry, e)
		})
	}
}

func TestDraftEdits(t *testing.T) {
	e := draft(line("cash", "5", "0"), line("sales", "0", "5"))

	require.ErrorIs(t, e.RemoveLine(0), domain.ErrEmptyEntry, "two lines is the minimum")
	require.NoError(t, e.AddLine(line("sales", "0", "1")))
	assert.Len(t, e.Lines, 3)
	require.NoError(t, e.UpdateLine(0, line("cash", "6", "0")))
	assert.True(t, e.Amount.Equal(dec("6")))
	require.NoError(t, e.RemoveLine(2))
	assert.Len(t, e.Lines, 2)
	assert.ErrorIs(t, e.UpdateLine(5, line("cash", "1", "0")), domain.ErrLineIndex)
	require.NoError(t, e.SetReferenceNo("JV-7"))
	assert.Equal(t, "JV-7", e.ReferenceNo)
}
