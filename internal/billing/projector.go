// Package billing computes due dates and payment status for recurring
// household bills.
package billing

import (
	"time"

	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/model"
	"github.com/stefandinca/FamilyCommandCenter-sub000/internal/recurrence"
)

// Projection is the next occurrence of a bill relative to a reference date.
type Projection struct {
	DueDate      time.Time `json:"due_date"`
	DaysUntilDue int       `json:"days_until_due"`
	IsOverdue    bool      `json:"is_overdue"`
}

// ProjectNextDueDate computes when a bill next falls due. The candidate is
// the bill's due day in the reference month; if that day has already passed
// it advances to the next month. Due days of 29-31 clamp to the last day of
// short months rather than rolling over (so day 31 in February means
// February 28/29, never March 2).
func ProjectNextDueDate(bill model.Bill, ref time.Time) Projection {
	refDay := startOfDay(ref)

	candidate := recurrence.ClampToMonth(ref.Year(), ref.Month(), bill.DueDay, ref.Location())
	if candidate.Before(refDay) {
		month := ref.Month() + 1
		year := ref.Year()
		if month > time.December {
			month = time.January
			year++
		}
		candidate = recurrence.ClampToMonth(year, month, bill.DueDay, ref.Location())
	}

	return Projection{
		DueDate:      candidate,
		DaysUntilDue: daysUntil(ref, candidate),
	}
}

// NextStatus resolves the bill's upcoming period against recorded payments:
// paid when a payment exists for the projected due date with status paid,
// overdue when an earlier period is still pending, pending otherwise. The
// returned projection carries the overdue flag.
func NextStatus(bill model.Bill, payments []model.BillPayment, ref time.Time) (Projection, string) {
	proj := ProjectNextDueDate(bill, ref)

	if p := PaymentForDueDate(payments, bill.ID, proj.DueDate); p != nil && p.Status == model.PaymentPaid {
		return proj, model.PaymentPaid
	}

	refDay := startOfDay(ref)
	for _, p := range payments {
		if p.BillID != bill.ID || p.Status == model.PaymentPaid {
			continue
		}
		if startOfDay(p.DueDate).Before(refDay) {
			proj.IsOverdue = true
			return proj, model.PaymentOverdue
		}
	}

	return proj, model.PaymentPending
}

// PaymentForDueDate finds the payment recorded for a bill's projected due
// date, matching on the calendar day.
func PaymentForDueDate(payments []model.BillPayment, billID int64, due time.Time) *model.BillPayment {
	dueDay := startOfDay(due)
	for i := range payments {
		p := &payments[i]
		if p.BillID == billID && startOfDay(p.DueDate).Equal(dueDay) {
			return p
		}
	}
	return nil
}

// daysUntil is the ceiling of the distance from ref to the target date in
// days, so a due date 26 calendar days out reports 26 even mid-day.
func daysUntil(ref, target time.Time) int {
	diff := target.Sub(ref)
	if diff <= 0 {
		return 0
	}
	const day = 24 * time.Hour
	days := int(diff / day)
	if diff%day != 0 {
		days++
	}
	return days
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
