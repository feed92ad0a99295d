package types

// Validate checks a transaction record against the ledger contract:
// exactly one instrument key, the numeric fields its instrument type
// requires, no negative quantities, and sell fields only on Sell records.
// It returns every violation found, not just the first.
//
// NumberOfShares of zero is deliberately legal for Stock: a fully-sold
// holding keeps its Buy record with quantity zero.
func Validate(r TransactionRecord) []error {
	var errs []error

	add := func(field, msg string) {
		errs = append(errs, &ValidationError{Field: field, Message: msg})
	}

	keys := 0
	for _, k := range []string{r.StockName, r.SchemeName, r.FixedIncomeName} {
		if k != "" {
			keys++
		}
	}
	if keys == 0 {
		add("instrumentKey", "no instrument name set")
	} else if keys > 1 {
		add("instrumentKey", "more than one instrument name set")
	}

	switch r.TransactionType {
	case Buy:
		if r.SellPrice != nil {
			add("sellPrice", "must be null on a Buy record")
		}
		if r.SellDate != "" {
			add("sellDate", "must be null on a Buy record")
		}
	case Sell:
		if r.SellPrice == nil {
			add("sellPrice", "required on a Sell record")
		} else if *r.SellPrice <= 0 {
			add("sellPrice", "must be positive")
		}
		if r.SellDate == "" {
			add("sellDate", "required on a Sell record")
		}
	default:
		add("transactionType", "must be Buy or Sell")
	}

	switch r.Type {
	case Stock:
		if r.NumberOfShares < 0 {
			add("numberOfShares", "must not be negative")
		}
		if r.PurchasePrice <= 0 && r.TransactionType == Buy {
			add("purchasePrice", "required for a Stock record")
		}
	case MutualFund:
		if r.Amount <= 0 {
			add("amount", "required for a MutualFund record")
		}
		if r.AmountType != Rupees && r.AmountType != Units {
			add("amountType", "must be Rupees or Units")
		}
		if r.Price <= 0 {
			add("price", "required for a MutualFund record")
		}
	case GoldBond:
		if r.Units <= 0 {
			add("units", "required for a GoldBond record")
		}
		if r.Price <= 0 {
			add("price", "required for a GoldBond record")
		}
	case Bond:
		if r.InvestmentAmount <= 0 {
			add("investmentAmount", "required for a Bond record")
		}
	default:
		add("type", "unknown instrument type")
	}

	return errs
}
