package models

import "slices"

// Districts lists the districts a request may be filed under.
var Districts = []string{
	"Central",
	"North",
	"South",
	"East",
	"West",
	"Downtown",
	"Uptown",
	"Suburbs",
}

// Banks lists the banks overtime pay may be routed to.
var Banks = []string{
	"Chase",
	"Bank of America",
	"Wells Fargo",
	"Citi",
	"Goldman Sachs",
	"HSBC",
}

func IsKnownDistrict(d string) bool { return slices.Contains(Districts, d) }

func IsKnownBank(b string) bool { return slices.Contains(Banks, b) }
