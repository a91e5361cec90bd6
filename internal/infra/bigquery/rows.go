// Package bigquery reads statement transactions and accounts from BigQuery
// so they can seed the in-memory store.
package bigquery

import (
	"math/big"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
)

// TransactionRow is the subset of finance.transactions the dashboard reads.
type TransactionRow struct {
	TransactionID         string              `bigquery:"transaction_id"`
	TransactionDate       civil.Date          `bigquery:"transaction_date"`
	Amount                *big.Rat            `bigquery:"amount"` // signed: positive is money in
	Currency              string              `bigquery:"currency"`
	RawDescription        string              `bigquery:"raw_description"`
	NormalizedDescription bigquery.NullString `bigquery:"normalized_description"`
	CategoryName          bigquery.NullString `bigquery:"category_name"`
	Tags                  []string            `bigquery:"tags"`
}

// AccountRow is an open account joined with its latest statement balance.
type AccountRow struct {
	AccountID     string                 `bigquery:"account_id"`
	InstitutionID bigquery.NullString    `bigquery:"institution_id"`
	AccountName   bigquery.NullString    `bigquery:"account_name"`
	AccountNumber bigquery.NullString    `bigquery:"account_number"`
	AccountType   bigquery.NullString    `bigquery:"account_type"`
	Currency      bigquery.NullString    `bigquery:"currency"`
	Balance       *big.Rat               `bigquery:"balance"` // NULL when no statement has a balance
	UpdatedTS     bigquery.NullTimestamp `bigquery:"updated_ts"`
}
