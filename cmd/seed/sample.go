package main

import (
	"database/sql"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/de-tools/booking-atlas/pkg/models/store"
	"github.com/shopspring/decimal"
)

var (
	projects = []string{"Skyline Residency", "Green Valley", "Lakeview Towers", "Palm Grove"}
	// Price per square foot of each property type.
	propertyTypes = map[string]int64{"1BHK": 5200, "2BHK": 5600, "3BHK": 6100, "Villa": 7400, "Plot": 2900}
	typeNames     = []string{"1BHK", "2BHK", "3BHK", "Villa", "Plot"}
	firstNames    = []string{"Asha", "Ravi", "Meera", "Arjun", "Kavya", "Nikhil", "Priya", "Sanjay"}
	lastNames     = []string{"Rao", "Kumar", "Iyer", "Shah", "Menon", "Gupta", "Nair", "Das"}
	gstRate       = decimal.RequireFromString("0.05")
)

type generator struct {
	rnd    *rand.Rand
	now    time.Time
	months int
}

func newGenerator(seed uint64, now time.Time, months int) *generator {
	if months < 1 {
		months = 1
	}
	return &generator{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), now: now, months: months}
}

func (g *generator) pick(values []string) string {
	return values[g.rnd.IntN(len(values))]
}

// booking draws one plausible booking created within the configured months.
func (g *generator) booking(createdBy string) store.Booking {
	kind := g.pick(typeNames)
	area := float64(450 + g.rnd.IntN(2200))
	agreement := decimal.NewFromFloat(area).Mul(decimal.NewFromInt(propertyTypes[kind])).Round(2)
	// Negotiated price lands between 92% and 100% of the agreement cost.
	amount := agreement.Mul(decimal.NewFromInt(int64(92 + g.rnd.IntN(9)))).Div(decimal.NewFromInt(100)).Round(2)

	created := g.now.AddDate(0, -g.rnd.IntN(g.months), -g.rnd.IntN(28)).Truncate(time.Minute)
	if created.After(g.now) {
		created = g.now
	}

	status := "active"
	switch roll := g.rnd.IntN(10); {
	case roll < 3:
		status = "complete"
	case roll < 4:
		status = "cancelled"
	}

	loan := "no"
	if g.rnd.IntN(2) == 0 {
		loan = "yes"
	}

	b := store.Booking{
		CustomerName:   fmt.Sprintf("%s %s", g.pick(firstNames), g.pick(lastNames)),
		ContactNumber:  fmt.Sprintf("98%08d", g.rnd.IntN(100000000)),
		ProjectName:    g.pick(projects),
		PropertyType:   kind,
		Area:           area,
		AgreementCost:  agreement,
		Amount:         amount,
		TaxGST:         amount.Mul(gstRate).Round(2),
		RefundBuyer:    decimal.Zero,
		RefundReferral: decimal.Zero,
		TrustFund:      decimal.Zero,
		TrustFunded:    decimal.Zero,
		InvoiceStatus:  "pending",
		Timeline:       sql.NullTime{Time: created.AddDate(1, 6, 0), Valid: true},
		LoanRequired:   loan,
		Status:         status,
		CreatedAt:      created,
		UpdatedAt:      created,
		CreatedBy:      createdBy,
	}
	if status == "complete" {
		b.InvoiceStatus = "paid"
	}
	return b
}
