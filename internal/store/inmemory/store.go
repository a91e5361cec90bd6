// Package inmemory holds the dashboard records in process memory.
// It is safe for concurrent use. Data is lost on restart.
package inmemory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/finance-dashboard/internal/budget"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when no record has the requested ID.
var ErrNotFound = errors.New("not found")

// Snapshot is a consistent, deep-copied view of every collection.
type Snapshot struct {
	Transactions []domain.Transaction `json:"transactions"`
	Budgets      []domain.Budget      `json:"budgets"`
	Accounts     []domain.BankAccount `json:"accounts"`
	Investments  []domain.Investment  `json:"investments"`
	SIPs         []domain.SIP         `json:"sips"`
}

// Store keeps each collection in insertion order.
type Store struct {
	mu           sync.RWMutex
	transactions []domain.Transaction
	budgets      []domain.Budget
	accounts     []domain.BankAccount
	investments  []domain.Investment
	sips         []domain.SIP
	newID        func() string

	// deleted holds removed transaction IDs so generated instances stay gone.
	deleted map[string]struct{}
}

// NewStore creates an empty store that assigns random UUIDs.
func NewStore() *Store {
	return &Store{newID: func() string { return uuid.New().String() }}
}

// Seed replaces every collection with data after validating it.
func (s *Store) Seed(ctx context.Context, data Snapshot) error {
	for _, tx := range data.Transactions {
		if err := tx.Validate(); err != nil {
			return fmt.Errorf("Seed: %w", err)
		}
	}
	for _, b := range data.Budgets {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("Seed: %w", err)
		}
	}
	for _, a := range data.Accounts {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("Seed: %w", err)
		}
	}
	for _, inv := range data.Investments {
		if err := inv.Validate(); err != nil {
			return fmt.Errorf("Seed: %w", err)
		}
	}
	for _, sip := range data.SIPs {
		if err := sip.Validate(); err != nil {
			return fmt.Errorf("Seed: %w", err)
		}
	}

	cp := data.clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = cp.Transactions
	s.budgets = cp.Budgets
	s.accounts = cp.Accounts
	s.investments = cp.Investments
	s.sips = cp.SIPs
	s.deleted = nil
	return nil
}

// Snapshot returns a deep copy of every collection taken under one lock.
func (s *Store) Snapshot(ctx context.Context) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Transactions: s.transactions,
		Budgets:      s.budgets,
		Accounts:     s.accounts,
		Investments:  s.investments,
		SIPs:         s.sips,
	}.clone()
}

// Transactions lists transactions newest first.
func (s *Store) Transactions(ctx context.Context) []domain.Transaction {
	txs := s.Snapshot(ctx).Transactions
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[j].Date.Before(txs[i].Date)
	})
	return txs
}

// AddTransaction assigns an ID when missing and stores tx.
func (s *Store) AddTransaction(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	if tx.ID == "" {
		tx.ID = s.newID()
	}
	if err := tx.Validate(); err != nil {
		return domain.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if indexOf(s.transactions, tx.ID, txID) >= 0 {
		return domain.Transaction{}, fmt.Errorf("AddTransaction: transaction %q already exists", tx.ID)
	}
	s.transactions = append(s.transactions, cloneTx(tx))
	return cloneTx(tx), nil
}

// AddTransactionsIfAbsent stores every tx whose ID is neither present nor
// previously deleted and reports how many were added.
func (s *Store) AddTransactionsIfAbsent(ctx context.Context, txs []domain.Transaction) (int, error) {
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return 0, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	added := 0
	for _, tx := range txs {
		if _, gone := s.deleted[tx.ID]; gone {
			continue
		}
		if indexOf(s.transactions, tx.ID, txID) >= 0 {
			continue
		}
		s.transactions = append(s.transactions, cloneTx(tx))
		added++
	}
	return added, nil
}

// ReplaceTransaction overwrites the transaction with id, keeping the id.
func (s *Store) ReplaceTransaction(ctx context.Context, id string, tx domain.Transaction) (domain.Transaction, error) {
	tx.ID = id
	if err := tx.Validate(); err != nil {
		return domain.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.transactions, id, txID)
	if i < 0 {
		return domain.Transaction{}, fmt.Errorf("ReplaceTransaction: transaction %q: %w", id, ErrNotFound)
	}
	s.transactions[i] = cloneTx(tx)
	return cloneTx(tx), nil
}

// DeleteTransaction removes the transaction with id.
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ok bool
	if s.transactions, ok = remove(s.transactions, id, txID); !ok {
		return fmt.Errorf("DeleteTransaction: transaction %q: %w", id, ErrNotFound)
	}
	if s.deleted == nil {
		s.deleted = make(map[string]struct{})
	}
	s.deleted[id] = struct{}{}
	return nil
}

// Budgets lists budgets in creation order.
func (s *Store) Budgets(ctx context.Context) []domain.Budget {
	return s.Snapshot(ctx).Budgets
}

// UpsertBudget sets the limit for category, creating the budget if no
// existing one matches case-insensitively.
func (s *Store) UpsertBudget(ctx context.Context, category string, limit decimal.Decimal) (domain.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, err := budget.Upsert(s.budgets, category, limit, s.newID)
	if err != nil {
		return domain.Budget{}, err
	}
	s.budgets = updated

	key := budget.CategoryKey(category)
	for _, b := range updated {
		if budget.CategoryKey(b.Category) == key {
			return b, nil
		}
	}
	return domain.Budget{}, fmt.Errorf("UpsertBudget: budget for %q missing after upsert", category)
}

// DeleteBudget removes the budget with id.
func (s *Store) DeleteBudget(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ok bool
	if s.budgets, ok = remove(s.budgets, id, budgetID); !ok {
		return fmt.Errorf("DeleteBudget: budget %q: %w", id, ErrNotFound)
	}
	return nil
}

// Accounts lists linked accounts.
func (s *Store) Accounts(ctx context.Context) []domain.BankAccount {
	return s.Snapshot(ctx).Accounts
}

// AddAccount links a new account.
func (s *Store) AddAccount(ctx context.Context, a domain.BankAccount) (domain.BankAccount, error) {
	if a.ID == "" {
		a.ID = s.newID()
	}
	if err := a.Validate(); err != nil {
		return domain.BankAccount{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if indexOf(s.accounts, a.ID, accountID) >= 0 {
		return domain.BankAccount{}, fmt.Errorf("AddAccount: account %q already exists", a.ID)
	}
	s.accounts = append(s.accounts, a)
	return a, nil
}

// DeleteAccount unlinks the account with id.
func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ok bool
	if s.accounts, ok = remove(s.accounts, id, accountID); !ok {
		return fmt.Errorf("DeleteAccount: account %q: %w", id, ErrNotFound)
	}
	return nil
}

// Investments lists holdings.
func (s *Store) Investments(ctx context.Context) []domain.Investment {
	return s.Snapshot(ctx).Investments
}

// GetInvestment returns the holding with id.
func (s *Store) GetInvestment(ctx context.Context, id string) (domain.Investment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.investments, id, investmentID)
	if i < 0 {
		return domain.Investment{}, fmt.Errorf("GetInvestment: investment %q: %w", id, ErrNotFound)
	}
	return s.investments[i], nil
}

// AddInvestment stores a new holding.
func (s *Store) AddInvestment(ctx context.Context, inv domain.Investment) (domain.Investment, error) {
	if inv.ID == "" {
		inv.ID = s.newID()
	}
	if err := inv.Validate(); err != nil {
		return domain.Investment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if indexOf(s.investments, inv.ID, investmentID) >= 0 {
		return domain.Investment{}, fmt.Errorf("AddInvestment: investment %q already exists", inv.ID)
	}
	s.investments = append(s.investments, inv)
	return inv, nil
}

// ReplaceInvestment overwrites the holding with id, keeping the id.
func (s *Store) ReplaceInvestment(ctx context.Context, id string, inv domain.Investment) (domain.Investment, error) {
	inv.ID = id
	if err := inv.Validate(); err != nil {
		return domain.Investment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.investments, id, investmentID)
	if i < 0 {
		return domain.Investment{}, fmt.Errorf("ReplaceInvestment: investment %q: %w", id, ErrNotFound)
	}
	s.investments[i] = inv
	return inv, nil
}

// DeleteInvestment removes the holding with id.
func (s *Store) DeleteInvestment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ok bool
	if s.investments, ok = remove(s.investments, id, investmentID); !ok {
		return fmt.Errorf("DeleteInvestment: investment %q: %w", id, ErrNotFound)
	}
	return nil
}

// SIPs lists investment plans.
func (s *Store) SIPs(ctx context.Context) []domain.SIP {
	return s.Snapshot(ctx).SIPs
}

// AddSIP stores a new plan. New plans start active.
func (s *Store) AddSIP(ctx context.Context, sip domain.SIP) (domain.SIP, error) {
	if sip.ID == "" {
		sip.ID = s.newID()
	}
	sip.Active = true
	if err := sip.Validate(); err != nil {
		return domain.SIP{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if indexOf(s.sips, sip.ID, sipID) >= 0 {
		return domain.SIP{}, fmt.Errorf("AddSIP: sip %q already exists", sip.ID)
	}
	s.sips = append(s.sips, cloneSIP(sip))
	return cloneSIP(sip), nil
}

// AdvanceSIP moves the next date of an active plan from from to next. It
// reports false, without error, when the plan is gone, paused, or no longer
// at from.
func (s *Store) AdvanceSIP(ctx context.Context, id string, from, next civil.Date) (bool, error) {
	if !next.After(from) {
		return false, &domain.ValidationError{Entity: "sip", ID: id, Field: "next_date", Reason: "must move forward"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.sips, id, sipID)
	if i < 0 || !s.sips[i].Active || s.sips[i].NextDate != from {
		return false, nil
	}
	s.sips[i].NextDate = next
	return true, nil
}

// ToggleSIP flips the active flag of the plan with id.
func (s *Store) ToggleSIP(ctx context.Context, id string) (domain.SIP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexOf(s.sips, id, sipID)
	if i < 0 {
		return domain.SIP{}, fmt.Errorf("ToggleSIP: sip %q: %w", id, ErrNotFound)
	}
	s.sips[i].Active = !s.sips[i].Active
	return cloneSIP(s.sips[i]), nil
}

// DeleteSIP removes the plan with id.
func (s *Store) DeleteSIP(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ok bool
	if s.sips, ok = remove(s.sips, id, sipID); !ok {
		return fmt.Errorf("DeleteSIP: sip %q: %w", id, ErrNotFound)
	}
	return nil
}

func txID(t domain.Transaction) string { return t.ID }
func budgetID(b domain.Budget) string { return b.ID }
func accountID(a domain.BankAccount) string { return a.ID }
func investmentID(i domain.Investment) string { return i.ID }
func sipID(s domain.SIP) string { return s.ID }

func indexOf[T any](items []T, id string, key func(T) string) int {
	for i, item := range items {
		if key(item) == id {
			return i
		}
	}
	return -1
}

func remove[T any](items []T, id string, key func(T) string) ([]T, bool) {
	i := indexOf(items, id, key)
	if i < 0 {
		return items, false
	}
	return append(items[:i:i], items[i+1:]...), true
}
