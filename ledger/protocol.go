package ledger

// CurrencyResource is the representation of a currency unit in the ledger
// API.
type CurrencyResource struct {
	ID          string   `json:"id"`
	Transaction string   `json:"transaction"`
	Status      CyStatus `json:"status"`
	Owner       string   `json:"owner"`
	Amount      int64    `json:"amount"`
	Created     int64    `json:"created"`
	Updated     int64    `json:"updated"`

	// DestroyedBy is the id of the transaction that consumed this unit, set
	// only once the unit was spent as an input.
	DestroyedBy *string `json:"destroyed_by,omitempty"`
}

// SettlementResource is the representation of a successful settlement in the
// ledger API.
type SettlementResource struct {
	Transaction string   `json:"transaction"`
	Currencies  []string `json:"currencies"`
	TotalAmount int64    `json:"total_amount"`
	Created     int64    `json:"created"`
}

// TransactionEntryResource is one input or output of a settled transaction.
type TransactionEntryResource struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
}

// TransactionResource is the representation of a settled transaction in the
// ledger API.
type TransactionResource struct {
	ID          string                     `json:"id"`
	Inputs      []TransactionEntryResource `json:"inputs"`
	Outputs     []TransactionEntryResource `json:"outputs"`
	TotalAmount int64                      `json:"total_amount"`
	Created     int64                      `json:"created"`
}

// ExchangeResource is the representation of an exchange log entry in
// transaction listings.
type ExchangeResource struct {
	ID          string `json:"id"`
	TotalAmount int64  `json:"total_amount"`
	Created     int64  `json:"created"`
}

// CurrencyListResource is a page of currency units.
type CurrencyListResource struct {
	Total    int64              `json:"total"`
	Page     uint64             `json:"page"`
	PageSize uint64             `json:"page_size"`
	Items    []CurrencyResource `json:"items"`
}

// TransactionListResource is a page of exchange log entries.
type TransactionListResource struct {
	Total    int64              `json:"total"`
	Page     uint64             `json:"page"`
	PageSize uint64             `json:"page_size"`
	Items    []ExchangeResource `json:"items"`
}

// StatisticsResource is the representation of aggregate ledger statistics.
// DailyTotals is indexed by days before today (index 0 is today) and sums the
// amounts of circulating units created on that calendar day.
type StatisticsResource struct {
	CirculatingTotal int64    `json:"circulating_total"`
	DestroyedTotal   int64    `json:"destroyed_total"`
	TransactionCount int64    `json:"transaction_count"`
	DailyTotals      [7]int64 `json:"daily_totals"`
}
