package money

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
)

// TestDataGenerator generates realistic financial test data using gofakeit.
type TestDataGenerator struct {
	faker *gofakeit.Faker
}

// NewTestDataGenerator creates a new test data generator with a random seed.
func NewTestDataGenerator() *TestDataGenerator {
	return &TestDataGenerator{
		faker: gofakeit.New(0),
	}
}

// NewTestDataGeneratorWithSeed creates a generator with a specific seed for
// reproducibility.
func NewTestDataGeneratorWithSeed(seed int64) *TestDataGenerator {
	return &TestDataGenerator{
		faker: gofakeit.New(seed),
	}
}

// RandomAmount generates a random amount between min and max minor units.
func (g *TestDataGenerator) RandomAmount(currency string, minMinor, maxMinor int64) *Money {
	minor := g.faker.Number(int(minMinor), int(maxMinor))
	return New(int64(minor), currency)
}

// UnitPrice generates a plausible per-unit price between 10.00 and 5000.00.
func (g *TestDataGenerator) UnitPrice(currency string) *Money {
	return g.RandomAmount(currency, 1000, 500000)
}

// Quantity generates a line-item quantity between 1 and 50.
func (g *TestDataGenerator) Quantity() int {
	return g.faker.Number(1, 50)
}

// ItemDescription generates a product description.
func (g *TestDataGenerator) ItemDescription() string {
	return g.faker.ProductName()
}

// InvoiceNo generates an invoice number like "INV-4821".
func (g *TestDataGenerator) InvoiceNo() string {
	return "INV-" + g.faker.DigitN(4)
}

// MonthlySeries generates n months of sales totals ending at the given month,
// as decimals suitable for forecasting tests. Values trend upward with noise.
func (g *TestDataGenerator) MonthlySeries(n int, end time.Time, base, step float64) ([]time.Time, []decimal.Decimal) {
	periods := make([]time.Time, n)
	values := make([]decimal.Decimal, n)

	start := end.AddDate(0, -(n - 1), 0)
	for i := 0; i < n; i++ {
		periods[i] = time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, i, 0)
		noise := g.faker.Float64Range(-step/2, step/2)
		values[i] = decimal.NewFromFloat(base + step*float64(i) + noise).Round(2)
	}
	return periods, values
}
