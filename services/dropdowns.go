package services

// UOMOptions lists the unit-of-measure labels offered for RFQ items.
var UOMOptions = []string{
	"pcs",
	"set",
	"lot",
	"m",
	"m2",
	"kg",
	"box",
	"roll",
	"pair",
	"hour",
	"day",
	"month",
}
