package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"google.golang.org/api/iterator"
)

// Records is what Load returns.
type Records struct {
	Transactions []domain.Transaction
	Accounts     []domain.BankAccount
}

// Source reads statement data from one BigQuery dataset. It never writes.
type Source struct {
	client    *bigquery.Client
	projectID string
	datasetID string
	rates     RateSource
}

// NewSource opens a client for projectID. Call Close when done.
func NewSource(ctx context.Context, projectID, datasetID string, rates RateSource) (*Source, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewSource: creating client: %w", err)
	}
	return &Source{client: client, projectID: projectID, datasetID: datasetID, rates: rates}, nil
}

// Close releases the BigQuery client.
func (s *Source) Close() error {
	return s.client.Close()
}

func (s *Source) table(name string) string {
	return fmt.Sprintf("`%s.%s.%s`", s.projectID, s.datasetID, name)
}

// Load reads settled, non-transfer transactions from successful parsing runs
// and every open account.
func (s *Source) Load(ctx context.Context) (Records, error) {
	txRows, err := s.listTransactions(ctx)
	if err != nil {
		return Records{}, fmt.Errorf("Load: %w", err)
	}
	accRows, err := s.listAccounts(ctx)
	if err != nil {
		return Records{}, fmt.Errorf("Load: %w", err)
	}

	var out Records
	for _, row := range txRows {
		tx, err := TransactionFromRow(row, s.rates)
		if err != nil {
			return Records{}, fmt.Errorf("Load: %w", err)
		}
		out.Transactions = append(out.Transactions, tx)
	}
	for _, row := range accRows {
		a, err := AccountFromRow(row, s.rates)
		if err != nil {
			return Records{}, fmt.Errorf("Load: %w", err)
		}
		out.Accounts = append(out.Accounts, a)
	}
	return out, nil
}

func (s *Source) listTransactions(ctx context.Context) ([]*TransactionRow, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT
			t.transaction_id,
			t.transaction_date,
			t.amount,
			t.currency,
			t.raw_description,
			t.normalized_description,
			t.category_name,
			t.tags
		FROM %s t
		INNER JOIN %s pr
		  ON t.parsing_run_id = pr.parsing_run_id
		WHERE pr.status = 'SUCCESS'
		  AND IFNULL(t.is_pending, FALSE) = FALSE
		  AND IFNULL(t.is_internal_transfer, FALSE) = FALSE
		ORDER BY t.transaction_date, t.created_ts
	`, s.table("transactions"), s.table("parsing_runs")))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("listTransactions: query read: %w", err)
	}

	var rows []*TransactionRow
	for {
		var r TransactionRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listTransactions: iter next: %w", err)
		}
		rows = append(rows, &r)
	}
	return rows, nil
}

func (s *Source) listAccounts(ctx context.Context) ([]*AccountRow, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT
			a.account_id,
			a.institution_id,
			a.account_name,
			a.account_number,
			a.account_type,
			a.currency,
			(
				SELECT t.balance_after
				FROM %s t
				WHERE t.account_id = a.account_id
				  AND t.balance_after IS NOT NULL
				ORDER BY t.transaction_date DESC, t.created_ts DESC
				LIMIT 1
			) AS balance,
			a.updated_ts
		FROM %s a
		WHERE a.closed_date IS NULL
		ORDER BY a.created_ts DESC
	`, s.table("transactions"), s.table("accounts")))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("listAccounts: query read: %w", err)
	}

	var rows []*AccountRow
	for {
		var r AccountRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listAccounts: iter next: %w", err)
		}
		rows = append(rows, &r)
	}
	return rows, nil
}
