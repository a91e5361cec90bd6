// Package recurring expands repeating transactions and investment plans into
// dated occurrences.
package recurring

import (
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/finance-dashboard/internal/domain"
)

// maxOccurrences bounds a single expansion, e.g. a daily rule left running
// for decades.
const maxOccurrences = 3660

// ErrTooManyOccurrences is returned alongside the capped instances when an
// expansion would exceed maxOccurrences.
var ErrTooManyOccurrences = errors.New("too many occurrences")

// Next returns the occurrence after date. Month and year steps clamp to the
// last day of the target month.
func Next(freq domain.Frequency, date civil.Date) (civil.Date, error) {
	return nth(freq, date, 1)
}

func nth(freq domain.Frequency, start civil.Date, n int) (civil.Date, error) {
	switch freq {
	case domain.FrequencyDaily:
		return start.AddDays(n), nil
	case domain.FrequencyWeekly:
		return start.AddDays(7 * n), nil
	case domain.FrequencyMonthly:
		return addMonths(start, n), nil
	case domain.FrequencyYearly:
		return addMonths(start, 12*n), nil
	default:
		return civil.Date{}, &domain.ValidationError{Entity: "recurrence", Field: "frequency", Reason: fmt.Sprintf("%q does not repeat", freq)}
	}
}

func addMonths(d civil.Date, n int) civil.Date {
	first := time.Date(d.Year, d.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	return civil.Date{Year: first.Year(), Month: first.Month(), Day: min(d.Day, last)}
}

// OccurrenceID is the ID given to the instance of id dated on.
func OccurrenceID(id string, on civil.Date) string {
	return id + "@" + on.String()
}

// Occurrences returns the instances of a recurring transaction dated strictly
// after tx.Date and no later than through or the rule's end date. Each step
// is computed from tx.Date, so a rule on the 31st returns to the 31st after a
// short month. Non-recurring transactions yield nothing.
//
// At most maxOccurrences instances are returned; past that the capped
// instances come back with ErrTooManyOccurrences.
func Occurrences(tx domain.Transaction, through civil.Date) ([]domain.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	if !tx.IsRecurring() {
		return nil, nil
	}

	limit := through
	if end := tx.Recurrence.EndDate; end != nil && end.Before(limit) {
		limit = *end
	}

	var out []domain.Transaction
	for n := 1; ; n++ {
		on, err := nth(tx.Recurrence.Frequency, tx.Date, n)
		if err != nil {
			return nil, err
		}
		if on.After(limit) {
			return out, nil
		}
		if len(out) == maxOccurrences {
			return out, fmt.Errorf("Occurrences: transaction %q: %w", tx.ID, ErrTooManyOccurrences)
		}
		inst := tx
		inst.ID = OccurrenceID(tx.ID, on)
		inst.Date = on
		inst.Recurrence = nil
		out = append(out, inst)
	}
}

// DueInstallments returns the dates an active plan falls due on or before
// today and the plan's next date afterwards. A catch-up longer than
// maxOccurrences stops early with ErrTooManyOccurrences; the returned next
// date is where the following pass resumes.
func DueInstallments(sip domain.SIP, today civil.Date) ([]civil.Date, civil.Date, error) {
	if err := sip.Validate(); err != nil {
		return nil, civil.Date{}, err
	}
	if !sip.Active {
		return nil, sip.NextDate, nil
	}

	var due []civil.Date
	next := sip.NextDate
	for !next.After(today) {
		if len(due) == maxOccurrences {
			return due, next, fmt.Errorf("DueInstallments: sip %q: %w", sip.ID, ErrTooManyOccurrences)
		}
		due = append(due, next)
		var err error
		if next, err = Next(sip.Frequency, next); err != nil {
			return nil, civil.Date{}, err
		}
	}
	return due, next, nil
}
