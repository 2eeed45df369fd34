package restapi_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/ledger_desk/internal/adapters/restapi"
	"github.com/SscSPs/ledger_desk/internal/apperrors"
	"github.com/SscSPs/ledger_desk/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_desk/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newServer(t *testing.T, handler http.HandlerFunc) *restapi.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return restapi.NewClient(srv.URL, time.Second)
}

func signedIn(branch domain.ID, onUnauthorized func(context.Context)) context.Context {
	return portsrepo.WithCaller(context.Background(), portsrepo.Caller{
		Tokens:         oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok-1"}),
		BranchID:       branch,
		OnUnauthorized: onUnauthorized,
	})
}

func TestAccountRepository_ListSendsCredentialsAndUnwrapsEnvelope(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, "7", r.Header.Get(restapi.BranchHeader))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = io.WriteString(w, `{"data":[{"id":1,"code":"1","name_ar":"Assets","type":"asset","parent_id":null},
			{"id":"11","code":"11","type":"asset","parent_id":1,"is_selectable":true}]}`)
	})

	accounts, err := restapi.NewAccountRepository(client).ListAccounts(signedIn("7", nil))

	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, domain.ID("1"), accounts[0].AccountID)
	assert.True(t, accounts[0].IsRoot())
	assert.Equal(t, domain.ID("1"), accounts[1].ParentAccountID)
}

func TestAccountRepository_BareResponseAndNoBranch(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get(restapi.BranchHeader))
		_, _ = io.WriteString(w, `{"id":5,"code":"5","name_ar":"Expenses","type":"expense"}`)
	})

	account, err := restapi.NewAccountRepository(client).FindAccountByID(signedIn("", nil), "5")

	require.NoError(t, err)
	assert.Equal(t, "Expenses", account.NamePrimary)
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		status  int
		wantErr error
	}{
		{http.StatusUnauthorized, apperrors.ErrSessionExpired},
		{http.StatusForbidden, apperrors.ErrPermissionDenied},
		{http.StatusNotFound, apperrors.ErrNotFound},
		{http.StatusConflict, apperrors.ErrState},
		{http.StatusUnprocessableEntity, apperrors.ErrValidation},
		{http.StatusInternalServerError, apperrors.ErrServerFailure},
		{http.StatusBadGateway, apperrors.ErrTransport},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, `{"message":"nope"}`)
			})
			err := restapi.NewTreasuryRepository(client).DeleteTreasury(signedIn("", nil), "t1")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_UnauthorizedEndsSession(t *testing.T) {
	var ended atomic.Int32
	client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	ctx := signedIn("", func(context.Context) { ended.Add(1) })

	_, err := restapi.NewVoucherRepository(client).ListVouchers(ctx)

	assert.ErrorIs(t, err, apperrors.ErrSessionExpired)
	assert.Equal(t, int32(1), ended.Load())
}

func TestClient_ForbiddenKeepsSession(t *testing.T) {
	var ended atomic.Int32
	client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	ctx := signedIn("", func(context.Context) { ended.Add(1) })

	_, err := restapi.NewBankAccountRepository(client).ListBankAccounts(ctx)

	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Zero(t, ended.Load())
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := restapi.NewAccountRepository(restapi.NewClient(url, time.Second)).ListAccounts(signedIn("", nil))
	assert.ErrorIs(t, err, apperrors.ErrNetworkFailure)
}

func TestClient_RequiresCaller(t *testing.T) {
	client := newServer(t, func(http.ResponseWriter, *http.Request) {
		t.Fatal("request must not be sent")
	})
	_, err := restapi.NewAccountRepository(client).ListAccounts(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
}

func TestClient_CancelledContext(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})
	ctx, cancel := context.WithCancel(signedIn("", nil))
	cancel()

	_, err := restapi.NewAccountRepository(client).ListAccounts(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_MalformedPayload(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"data": "not a list"}`)
	})
	_, err := restapi.NewAccountRepository(client).ListAccounts(signedIn("", nil))
	assert.ErrorIs(t, err, apperrors.ErrTransport)
}

func TestJournalRepository_ListByDate(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/operations/daily-journal", r.URL.Path)
		assert.Equal(t, "2024-03-01", r.URL.Query().Get("date"))
		_, _ = io.WriteString(w, `{"data":[]}`)
	})
	day, err := domain.ParseDate("2024-03-01")
	require.NoError(t, err)

	entries, err := restapi.NewJournalRepository(client).ListJournalEntries(signedIn("", nil), portsrepo.JournalFilter{Date: day})

	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestJournalRepository_PostReadsThenWrites(t *testing.T) {
	stored := domain.JournalEntry{
		EntryID: "e1", Description: "sale", Status: domain.Draft,
		Lines: []domain.JournalLine{
			{AccountID: "cash", Debit: decimal.NewFromInt(10), Credit: decimal.Zero},
			{AccountID: "sales", Debit: decimal.Zero, Credit: decimal.NewFromInt(10)},
		},
	}
	var written domain.JournalEntry
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/operations/daily-journal/e1", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]any{"data": stored})
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&written))
			_ = json.NewEncoder(w).Encode(written)
		default:
			t.Fatalf("unexpected %s", r.Method)
		}
	})

	var seen domain.JournalEntry
	posted, err := restapi.NewJournalRepository(client).PostJournalEntry(signedIn("", nil), "e1",
		func(current domain.JournalEntry) (domain.JournalEntry, error) {
			seen = current
			current.Status = domain.Posted
			return current, nil
		})

	require.NoError(t, err)
	assert.Equal(t, "sale", seen.Description)
	assert.Equal(t, domain.Posted, written.Status)
	assert.Equal(t, domain.Posted, posted.Status)
}

func TestJournalRepository_PostRejectionWritesNothing(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		_, _ = io.WriteString(w, `{"id":"e1","status":"posted"}`)
	})

	_, err := restapi.NewJournalRepository(client).PostJournalEntry(signedIn("", nil), "e1",
		func(domain.JournalEntry) (domain.JournalEntry, error) { return domain.JournalEntry{}, domain.ErrAlreadyPosted })
	assert.ErrorIs(t, err, domain.ErrAlreadyPosted)
}

func TestVoucherRepository_NumbersSpanBranches(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vouchers", r.URL.Path)
		assert.Empty(t, r.Header.Get(restapi.BranchHeader))
		_, _ = io.WriteString(w, `{"data":[{"id":"v1","number":"V-2024-003"},{"id":"v2","number":"V-2023-009"},
			{"id":"v3","number":"V-2024-011"}]}`)
	})

	numbers, err := restapi.NewVoucherRepository(client).VoucherNumbers(signedIn("7", nil), 2024)

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"V-2024-003", "V-2024-011"}, numbers)
}
