package inmemory

import "github.com/dvloznov/finance-dashboard/internal/domain"

func (s Snapshot) clone() Snapshot {
	out := Snapshot{
		Transactions: make([]domain.Transaction, len(s.Transactions)),
		Budgets:      append([]domain.Budget{}, s.Budgets...),
		Accounts:     append([]domain.BankAccount{}, s.Accounts...),
		Investments:  append([]domain.Investment{}, s.Investments...),
		SIPs:         make([]domain.SIP, len(s.SIPs)),
	}
	for i, tx := range s.Transactions {
		out.Transactions[i] = cloneTx(tx)
	}
	for i, sip := range s.SIPs {
		out.SIPs[i] = cloneSIP(sip)
	}
	return out
}

func cloneTx(tx domain.Transaction) domain.Transaction {
	if tx.Recurrence != nil {
		r := *tx.Recurrence
		if r.EndDate != nil {
			end := *r.EndDate
			r.EndDate = &end
		}
		tx.Recurrence = &r
	}
	return tx
}

func cloneSIP(sip domain.SIP) domain.SIP {
	if sip.StartDate != nil {
		start := *sip.StartDate
		sip.StartDate = &start
	}
	return sip
}
