package types

// ExportRow is one flat record of the export snapshot table. Every cell is
// already rendered as a string: pending values carry the "-" placeholder,
// never a zero.
type ExportRow struct {
	Symbol        string
	Type          string
	Quantity      string
	PurchasePrice string
	PurchaseDate  string
	CurrentPrice  string
	CurrentValue  string
	GainLoss      string
}

// ExportHeader is the fixed column order of the export table.
var ExportHeader = []string{
	"Symbol", "Type", "Quantity", "Purchase Price", "Purchase Date",
	"Current Price", "Current Value", "Gain/Loss",
}

// Values returns the row's cells in ExportHeader order.
func (r ExportRow) Values() []string {
	return []string{
		r.Symbol, r.Type, r.Quantity, r.PurchasePrice, r.PurchaseDate,
		r.CurrentPrice, r.CurrentValue, r.GainLoss,
	}
}
