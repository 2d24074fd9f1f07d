package payroll

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-ph-backend-go/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
)

func TestStatutoryCalculator_MonthlySalaryCredit(t *testing.T) {
	c := NewStatutoryCalculator()

	tests := []struct {
		salary string
		msc    string
	}{
		{"0", "5000"},
		{"4000", "5000"},
		{"5249.99", "5000"},
		{"5250", "5500"},
		{"5749.99", "5500"},
		{"5750", "6000"},
		{"20000", "20000"},
		{"26000", "26000"},
		{"34749.99", "34500"},
		{"34750", "35000"},
		{"100000", "35000"},
	}

	for _, tt := range tests {
		t.Run(tt.salary, func(t *testing.T) {
			assertDecimal(t, tt.msc, c.MonthlySalaryCredit(dec(tt.salary)))
		})
	}
}

func TestStatutoryCalculator_SSS(t *testing.T) {
	c := NewStatutoryCalculator()

	regular, wisp := c.SSS(dec("15000"))
	assertDecimal(t, "750", regular)
	assertDecimal(t, "0", wisp)

	regular, wisp = c.SSS(dec("26000"))
	assertDecimal(t, "1000", regular)
	assertDecimal(t, "300", wisp)

	regular, wisp = c.SSS(dec("80000"))
	assertDecimal(t, "1000", regular)
	assertDecimal(t, "750", wisp)
}

func TestStatutoryCalculator_MonthlyWithholdingTax(t *testing.T) {
	c := NewStatutoryCalculator()

	tests := []struct {
		taxable string
		tax     string
	}{
		{"0", "0"},
		{"20833", "0"},
		{"23850", "452.55"},
		{"33333", "1875"},
		{"50000", "5208.40"},
		{"100000", "16875.05"},
		{"200000", "43541.70"},
		{"700000", "195208.35"},
	}

	for _, tt := range tests {
		t.Run(tt.taxable, func(t *testing.T) {
			assertDecimal(t, tt.tax, c.MonthlyWithholdingTax(dec(tt.taxable)))
		})
	}
}

func TestStatutoryCalculator_CutoffGating(t *testing.T) {
	c := NewStatutoryCalculator()
	salary := dec("26000")

	second := c.Compute(salary, payroll.CutoffOf(time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)))
	assert.True(t, second.ContributionsDue)
	assertDecimal(t, "1000", second.SSS)
	assertDecimal(t, "300", second.SSSWISP)
	assertDecimal(t, "650", second.PhilHealth)
	assertDecimal(t, "200", second.PagIBIG)
	// (26000 - 2150 - 20833) * 15% = 452.55 monthly, halved
	assertDecimal(t, "452.55", second.MonthlyTax)
	assertDecimal(t, "226.28", second.WithholdingTax)
	assertDecimal(t, "2376.28", second.Total())

	first := c.Compute(salary, payroll.CutoffOf(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, first.ContributionsDue)
	assertDecimal(t, "0", first.SSS)
	assertDecimal(t, "0", first.SSSWISP)
	assertDecimal(t, "0", first.PhilHealth)
	assertDecimal(t, "0", first.PagIBIG)
	assertDecimal(t, "226.28", first.WithholdingTax)

	// the monthly figures are identical in both cutoffs
	assert.Equal(t, second.Monthly, first.Monthly)
}

func TestStatutoryCalculator_BelowTaxThreshold(t *testing.T) {
	got := NewStatutoryCalculator().Compute(dec("15000"), payroll.Cutoff{Year: 2025, Month: time.March, Half: 2})

	assertDecimal(t, "750", got.SSS)
	assertDecimal(t, "375", got.PhilHealth)
	assertDecimal(t, "0", got.WithholdingTax)
}
