package models

import (
	"github.com/shopspring/decimal"
)

// CreditPackage is a storefront offer. Price is informational only: no real
// payment gateway is integrated, the purchase flow runs a simulated
// authorize/capture cycle before granting credits.
type CreditPackage struct {
	ID      string
	Name    string
	Credits int
	Bonus   int
	Price   decimal.Decimal
	Popular bool
}

// Total credits granted by the package including the bonus.
func (p CreditPackage) Total() int {
	return p.Credits + p.Bonus
}

// CreditPackages is the static storefront catalog.
var CreditPackages = []CreditPackage{
	{
		ID:      "starter",
		Name:    "Starter",
		Credits: 50,
		Price:   decimal.RequireFromString("9.90"),
	},
	{
		ID:      "pro",
		Name:    "Pro",
		Credits: 150,
		Bonus:   20,
		Price:   decimal.RequireFromString("24.90"),
		Popular: true,
	},
	{
		ID:      "ultimate",
		Name:    "Ultimate",
		Credits: 500,
		Bonus:   100,
		Price:   decimal.RequireFromString("69.90"),
	},
}

// FindPackage returns the catalog package with the given id.
func FindPackage(id string) (CreditPackage, bool) {
	for _, p := range CreditPackages {
		if p.ID == id {
			return p, true
		}
	}
	return CreditPackage{}, false
}
