package types

// InstrumentType identifies which numeric fields and valuation formulas
// apply to a transaction record.
type InstrumentType string

const (
	Stock      InstrumentType = "Stock"
	MutualFund InstrumentType = "MutualFund"
	Bond       InstrumentType = "Bond"
	GoldBond   InstrumentType = "GoldBond"
)

// TransactionType is the direction of a ledger entry.
type TransactionType string

const (
	Buy  TransactionType = "Buy"
	Sell TransactionType = "Sell"
)

// AmountType qualifies the MutualFund amount field: an investment in
// rupees (units derived from NAV) or a direct unit count.
type AmountType string

const (
	Rupees AmountType = "Rupees"
	Units  AmountType = "Units"
)

// TransactionRecord is one ledger entry. The ID is assigned by the ledger
// store on creation; the engine treats it as opaque and never generates it.
type TransactionRecord struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Type            InstrumentType  `json:"type"`
	TransactionType TransactionType `json:"transactionType"`

	// Exactly one of these identifies the instrument, depending on Type.
	StockName       string `json:"stockName,omitempty"`
	SchemeName      string `json:"schemeName,omitempty"`
	FixedIncomeName string `json:"fixedIncomeName,omitempty"`

	DematAccount string `json:"dematAccount,omitempty"`
	FolioNo      string `json:"folioNo,omitempty"`

	// Stock
	NumberOfShares float64 `json:"numberOfShares,omitempty"`
	// MutualFund
	Amount     float64    `json:"amount,omitempty"`
	AmountType AmountType `json:"amountType,omitempty"`
	// MutualFund NAV / GoldBond issue price
	Price float64 `json:"price,omitempty"`
	// GoldBond
	Units float64 `json:"units,omitempty"`
	// Bond lump investment
	InvestmentAmount float64 `json:"investmentAmount,omitempty"`

	PurchasePrice float64 `json:"purchasePrice,omitempty"`
	PurchaseDate  string  `json:"purchaseDate,omitempty"`

	Brokerage     float64 `json:"brokerage,omitempty"`
	BrokerageType string  `json:"brokerageType,omitempty"`

	// Populated only when TransactionType is Sell.
	SellPrice *float64 `json:"sellPrice,omitempty"`
	SellDate  string   `json:"sellDate,omitempty"`
}

// InstrumentKey returns the identifying name for the record's instrument:
// stock symbol, scheme name or fixed-income name. Empty when none is set.
func (r TransactionRecord) InstrumentKey() string {
	switch {
	case r.StockName != "":
		return r.StockName
	case r.SchemeName != "":
		return r.SchemeName
	default:
		return r.FixedIncomeName
	}
}

// Position is the current holding in one instrument, folded from its
// Buy-type ledger records. It is recomputed on every aggregation pass and
// never mutated in place.
type Position struct {
	InstrumentKey string         `json:"instrumentKey"`
	Type          InstrumentType `json:"type"`

	// Quantity held. Unit semantics depend on Type: shares for Stock,
	// fund units for MutualFund, bond units for GoldBond. Zero for Bond,
	// which is a lump amount rather than a unit holding.
	Quantity float64 `json:"quantity"`
	// Total cost basis.
	Cost float64 `json:"cost"`
	// Cost per unit (average across folded records). Equals Cost for Bond.
	UnitPrice float64 `json:"unitPrice"`
	// Earliest purchase date among the folded records.
	PurchaseDate string `json:"purchaseDate,omitempty"`
	// Number of Buy records folded into this position.
	Records int `json:"records"`
}

// ValuationSnapshot is a Position annotated with a current market price.
// When the price lookup failed or has not run, CurrentPrice and every
// derived field are nil: the valuation is pending, not zero.
type ValuationSnapshot struct {
	Position

	CurrentPrice       *float64 `json:"currentPrice,omitempty"`
	CurrentValue       *float64 `json:"currentValue,omitempty"`
	GainLoss           *float64 `json:"gainLoss,omitempty"`
	GainLossPercentage *float64 `json:"gainLossPercentage,omitempty"`
}

// Pending reports whether the snapshot still awaits a market price.
func (s ValuationSnapshot) Pending() bool { return s.CurrentPrice == nil }

// PortfolioTotals sums valuation over all positions. Pending snapshots
// contribute zero and set Partial, so a caller can present the totals as
// incomplete rather than implying every position was priced.
type PortfolioTotals struct {
	TotalInvestmentValue float64 `json:"totalInvestmentValue"`
	TotalInvestmentCost  float64 `json:"totalInvestmentCost"`
	TotalGainLoss        float64 `json:"totalGainLoss"`
	// Nil when TotalInvestmentCost is zero: the percentage is undefined,
	// not zero.
	TotalGainLossPercentage *float64 `json:"totalGainLossPercentage,omitempty"`

	Partial     bool     `json:"partial"`
	PendingKeys []string `json:"pendingKeys,omitempty"`
}

// PortfolioView is the result of one full aggregation and valuation pass.
type PortfolioView struct {
	UserID    string              `json:"userId"`
	Snapshots []ValuationSnapshot `json:"snapshots"`
	Totals    PortfolioTotals     `json:"totals"`
	// Records excluded from aggregation, with the reason each was skipped.
	Skipped []string `json:"skipped,omitempty"`
}

// SaveStatus describes how a SaveRecord submission was resolved.
type SaveStatus string

const (
	// Record created or replaced directly, no decision step.
	SaveApplied SaveStatus = "Applied"
	// Quantity reduction detected: the caller must choose between a
	// correction and a sale before anything is written.
	SaveAwaitingDecision SaveStatus = "AwaitingDecision"
	// Correction chosen: the record was rewritten in place.
	SaveCorrected SaveStatus = "Corrected"
	// Sale confirmed: the holding was reduced and a Sell record inserted.
	SaveSaleRecorded SaveStatus = "SaleRecorded"
)

// SaveOutcome is what the engine hands back for a save or a reconciliation
// resolution. Updated/Inserted carry the records as written to the ledger.
type SaveOutcome struct {
	Status   SaveStatus         `json:"status"`
	Updated  *TransactionRecord `json:"updated,omitempty"`
	Inserted *TransactionRecord `json:"inserted,omitempty"`

	// Set when Status is SaveAwaitingDecision.
	OriginalQuantity float64 `json:"originalQuantity,omitempty"`
	ProposedQuantity float64 `json:"proposedQuantity,omitempty"`
}

// ReconcileResult is the single typed result of resolving a quantity
// reduction: the rewritten Buy record, plus the new Sell record when the
// reduction was an economic sale. Insert is nil for a correction. The
// caller applies both through the ledger store.
type ReconcileResult struct {
	Update TransactionRecord
	Insert *TransactionRecord
}
