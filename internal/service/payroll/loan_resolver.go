package payroll

import (
	"time"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/loan"
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

var (
	loanSettledThreshold = decimal.RequireFromString("0.01")
	halfTerm             = decimal.RequireFromString("0.5")
	fullTerm             = decimal.NewFromInt(1)
)

// LoanDeduction is one installment due in a cutoff.
type LoanDeduction struct {
	Loan          loan.Loan
	Amount        decimal.Decimal
	TermDecrement decimal.Decimal
}

// dueInCutoff reports whether the loan's cutoff assignment covers c.
func dueInCutoff(a loan.CutoffAssignment, c payroll.Cutoff) bool {
	switch a {
	case loan.CutoffBoth:
		return true
	case loan.CutoffFirst:
		return !c.IsSecond()
	case loan.CutoffSecond:
		return c.IsSecond()
	}
	return false
}

// ResolveLoanDeductions selects the installments due in cutoff. A loan split
// over both cutoffs pays half its monthly payment each time. Installments
// never exceed the remaining balance.
func ResolveLoanDeductions(loans []loan.Loan, cutoff payroll.Cutoff, periodEnd time.Time) []LoanDeduction {
	var out []LoanDeduction
	for _, l := range loans {
		if !l.IsActive || l.EffectivityDate.After(periodEnd) || !l.CurrentBalance.IsPositive() {
			continue
		}
		if !dueInCutoff(l.CutoffAssignment, cutoff) {
			continue
		}

		amount := l.MonthlyPayment
		decrement := fullTerm
		if l.CutoffAssignment == loan.CutoffBoth {
			amount = amount.Div(two)
			decrement = halfTerm
		}
		amount = decimal.Min(amount, l.CurrentBalance).Round(moneyPlaces)
		if !amount.IsPositive() {
			continue
		}

		out = append(out, LoanDeduction{Loan: l, Amount: amount, TermDecrement: decrement})
	}
	return out
}

// ApplyLoanDeduction returns the loan after the installment is taken.
// Remaining terms are stored as max(0, remaining - decrement); the rounded-up
// count ceil(max(0, remaining - decrement)) is what closure is tested on.
// Storing the rounded-up value would pin a both-cutoff loan at its starting
// term count, since ceil(n - 0.5) == n.
func ApplyLoanDeduction(l loan.Loan, d LoanDeduction) loan.Loan {
	balance := decimal.Max(l.CurrentBalance.Sub(d.Amount), decimal.Zero)
	terms := decimal.Max(l.RemainingTerms.Sub(d.TermDecrement), decimal.Zero)

	l.CurrentBalance = balance
	l.RemainingTerms = terms
	if balance.LessThanOrEqual(loanSettledThreshold) || terms.Ceil().LessThanOrEqual(decimal.Zero) {
		l.IsActive = false
		l.CurrentBalance = decimal.Zero
		l.RemainingTerms = decimal.Zero
	}
	return l
}
