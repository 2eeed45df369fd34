package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/SscSPs/ledger_desk/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_desk/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
)

// balanceReader is implemented by repositories that keep running balances.
type balanceReader interface {
	AccountBalance(ctx context.Context, accountID domain.ID) (decimal.Decimal, error)
}

func newAccountsCmd(app *cli) *cobra.Command {
	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "Inspect the chart of accounts",
	}

	var token, branch string
	var balances bool
	treeCmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the chart of accounts as a tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			be, err := app.openBackend(ctx, false)
			if err != nil {
				return err
			}
			defer be.Close()

			if token != "" {
				ctx = portsrepo.WithCaller(ctx, portsrepo.Caller{
					Tokens:   oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
					BranchID: domain.ID(branch),
				})
			}
			accounts, err := be.repos.AccountRepo.ListAccounts(ctx)
			if err != nil {
				return fmt.Errorf("failed to list accounts: %w", err)
			}
			for _, id := range domain.DanglingParents(accounts) {
				app.logger.Warn("Account parent not found, shown as root", slog.String("account_id", id.String()))
			}
			tree, err := domain.BuildTree(accounts)
			if err != nil {
				return err
			}

			var balanceOf func(domain.ID) (decimal.Decimal, error)
			if balances {
				reader, ok := be.repos.AccountRepo.(balanceReader)
				if !ok {
					return errors.New("balances are only kept by the pgsql backend")
				}
				balanceOf = func(id domain.ID) (decimal.Decimal, error) { return reader.AccountBalance(ctx, id) }
			}
			return printTree(cmd.OutOrStdout(), tree, balanceOf)
		},
	}
	treeCmd.Flags().StringVar(&token, "token", "", "bearer token for the REST backend")
	treeCmd.Flags().StringVar(&branch, "branch", "", "branch scope for the REST backend")
	treeCmd.Flags().BoolVar(&balances, "balances", false, "show posted balances (pgsql only)")

	accountsCmd.AddCommand(treeCmd)
	return accountsCmd
}

// printTree writes one line per account in pre-order, indented by level.
// Summary accounts are marked with a trailing slash.
func printTree(w io.Writer, tree []domain.AccountNode, balanceOf func(domain.ID) (decimal.Decimal, error)) error {
	for account := range domain.Flatten(tree) {
		name := account.DisplayName()
		if !account.IsSelectable {
			name += "/"
		}
		line := fmt.Sprintf("%s%-10s %s [%s]", strings.Repeat("  ", max(account.Level-1, 0)), account.Code, name, account.AccountType)
		if balanceOf != nil {
			balance, err := balanceOf(account.AccountID)
			if err != nil {
				return fmt.Errorf("failed to read balance of %s: %w", account.Code, err)
			}
			line += "  " + balance.StringFixed(2)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
