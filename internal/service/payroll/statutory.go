package payroll

import (
	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// SSS schedule: Monthly Salary Credit in 500 steps between the floor and the
// ceiling. Contributions on MSC above the regular ceiling go to WISP.
var (
	sssMSCFloor          = decimal.NewFromInt(5000)
	sssMSCCeiling        = decimal.NewFromInt(35000)
	sssRegularCeiling    = decimal.NewFromInt(20000)
	sssFirstBracketUpper = decimal.NewFromInt(5250)
	sssBracketStep       = decimal.NewFromInt(500)
	sssEmployeeRate      = decimal.RequireFromString("0.05")

	philHealthRate = decimal.RequireFromString("0.025")
	pagIBIGShare   = decimal.NewFromInt(200)

	two = decimal.NewFromInt(2)
)

// taxBracket: tax = Base + Rate * (taxable - Over), for taxable > Over.
type taxBracket struct {
	Over decimal.Decimal
	Base decimal.Decimal
	Rate decimal.Decimal
}

// BIR monthly withholding table (TRAIN, 2023 onward), highest first.
var monthlyTaxTable = []taxBracket{
	{decimal.NewFromInt(666667), decimal.RequireFromString("183541.80"), decimal.RequireFromString("0.35")},
	{decimal.NewFromInt(166667), decimal.RequireFromString("33541.80"), decimal.RequireFromString("0.30")},
	{decimal.NewFromInt(66667), decimal.RequireFromString("8541.80"), decimal.RequireFromString("0.25")},
	{decimal.NewFromInt(33333), decimal.NewFromInt(1875), decimal.RequireFromString("0.20")},
	{decimal.NewFromInt(20833), decimal.Zero, decimal.RequireFromString("0.15")},
}

// Contributions are the monthly employee shares.
type Contributions struct {
	SSS        decimal.Decimal
	SSSWISP    decimal.Decimal
	PhilHealth decimal.Decimal
	PagIBIG    decimal.Decimal
}

func (c Contributions) Total() decimal.Decimal {
	return c.SSS.Add(c.SSSWISP).Add(c.PhilHealth).Add(c.PagIBIG)
}

// StatutoryDeductions are the amounts taken in one cutoff.
type StatutoryDeductions struct {
	Monthly             Contributions
	MonthlyTax          decimal.Decimal
	SSS                 decimal.Decimal
	SSSWISP             decimal.Decimal
	PhilHealth          decimal.Decimal
	PagIBIG             decimal.Decimal
	WithholdingTax      decimal.Decimal
	ContributionsDue    bool
	MonthlySalaryCredit decimal.Decimal
}

func (d StatutoryDeductions) Total() decimal.Decimal {
	return d.SSS.Add(d.SSSWISP).Add(d.PhilHealth).Add(d.PagIBIG).Add(d.WithholdingTax)
}

type StatutoryCalculator struct{}

func NewStatutoryCalculator() *StatutoryCalculator {
	return &StatutoryCalculator{}
}

// MonthlySalaryCredit maps a monthly salary to its SSS bracket.
func (c *StatutoryCalculator) MonthlySalaryCredit(salary decimal.Decimal) decimal.Decimal {
	if salary.LessThan(sssFirstBracketUpper) {
		return sssMSCFloor
	}
	k := salary.Sub(sssFirstBracketUpper).Div(sssBracketStep).Floor().Add(decimal.NewFromInt(1))
	msc := sssMSCFloor.Add(k.Mul(sssBracketStep))
	if msc.GreaterThan(sssMSCCeiling) {
		return sssMSCCeiling
	}
	return msc
}

// SSS returns the regular employee share and the WISP share.
func (c *StatutoryCalculator) SSS(salary decimal.Decimal) (regular, wisp decimal.Decimal) {
	msc := c.MonthlySalaryCredit(salary)
	regularBase := decimal.Min(msc, sssRegularCeiling)
	wispBase := decimal.Max(msc.Sub(sssRegularCeiling), decimal.Zero)
	return regularBase.Mul(sssEmployeeRate).Round(moneyPlaces), wispBase.Mul(sssEmployeeRate).Round(moneyPlaces)
}

func (c *StatutoryCalculator) PhilHealth(salary decimal.Decimal) decimal.Decimal {
	return salary.Mul(philHealthRate).Round(moneyPlaces)
}

func (c *StatutoryCalculator) PagIBIG(decimal.Decimal) decimal.Decimal {
	return pagIBIGShare
}

// MonthlyWithholdingTax applies the BIR table to a monthly taxable income.
func (c *StatutoryCalculator) MonthlyWithholdingTax(taxable decimal.Decimal) decimal.Decimal {
	for _, b := range monthlyTaxTable {
		if taxable.GreaterThan(b.Over) {
			return b.Base.Add(taxable.Sub(b.Over).Mul(b.Rate)).Round(moneyPlaces)
		}
	}
	return decimal.Zero
}

func (c *StatutoryCalculator) Contributions(salary decimal.Decimal) Contributions {
	sss, wisp := c.SSS(salary)
	return Contributions{
		SSS:        sss,
		SSSWISP:    wisp,
		PhilHealth: c.PhilHealth(salary),
		PagIBIG:    c.PagIBIG(salary),
	}
}

// Compute returns the deductions of one cutoff. SSS, PhilHealth and Pag-IBIG
// are taken once a month in the second cutoff; withholding tax is computed on
// the monthly figures and split evenly over both cutoffs.
func (c *StatutoryCalculator) Compute(monthlyBasicSalary decimal.Decimal, cutoff payroll.Cutoff) StatutoryDeductions {
	monthly := c.Contributions(monthlyBasicSalary)

	taxable := decimal.Max(monthlyBasicSalary.Sub(monthly.Total()), decimal.Zero)
	monthlyTax := c.MonthlyWithholdingTax(taxable)

	out := StatutoryDeductions{
		Monthly:             monthly,
		MonthlyTax:          monthlyTax,
		SSS:                 decimal.Zero,
		SSSWISP:             decimal.Zero,
		PhilHealth:          decimal.Zero,
		PagIBIG:             decimal.Zero,
		WithholdingTax:      monthlyTax.Div(two).Round(moneyPlaces),
		ContributionsDue:    cutoff.IsSecond(),
		MonthlySalaryCredit: c.MonthlySalaryCredit(monthlyBasicSalary),
	}
	if cutoff.IsSecond() {
		out.SSS = monthly.SSS
		out.SSSWISP = monthly.SSSWISP
		out.PhilHealth = monthly.PhilHealth
		out.PagIBIG = monthly.PagIBIG
	}
	return out
}
