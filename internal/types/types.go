package types

// PlaceOrderParams carries the order placement arguments. Field names map
// onto the Noren wire keys; defaults are applied by the ops service.
type PlaceOrderParams struct {
	Exch     string `json:"exch"`
	Tsym     string `json:"tsym"`
	Qty      int    `json:"qty"`
	Prc      string `json:"prc,omitempty"`
	Prctyp   string `json:"prctyp,omitempty"`
	Prd      string `json:"prd,omitempty"`
	Trgprc   string `json:"trgprc,omitempty"`
	Trantype string `json:"trantype"`
	Ret      string `json:"ret,omitempty"`
	Bpprc    string `json:"bpprc,omitempty"`
	Blprc    string `json:"blprc,omitempty"`
	Trailprc string `json:"trailprc,omitempty"`
	Remarks  string `json:"remarks,omitempty"`
}

// ModifyOrderParams carries the order modification arguments. Optional
// fields left empty are not sent.
type ModifyOrderParams struct {
	Exch       string `json:"exch"`
	Norenordno string `json:"norenordno"`
	Tsym       string `json:"tsym"`
	Qty        string `json:"qty,omitempty"`
	Prc        string `json:"prc,omitempty"`
	Prctyp     string `json:"prctyp,omitempty"`
	Ret        string `json:"ret,omitempty"`
	Trgprc     string `json:"trgprc,omitempty"`
	Bpprc      string `json:"bpprc,omitempty"`
	Blprc      string `json:"blprc,omitempty"`
	Trailprc   string `json:"trailprc,omitempty"`
}

// OrderStatusParams identifies a single order for a status lookup.
type OrderStatusParams struct {
	Norenordno string `json:"norenordno"`
	Exch       string `json:"exch"`
}

// QuotesParams identifies an instrument for a quote lookup.
type QuotesParams struct {
	Exch  string `json:"exch"`
	Token string `json:"token"`
}

// HoldingsParams filters the holdings book.
type HoldingsParams struct {
	Actid string `json:"actid,omitempty"`
	Prd   string `json:"prd,omitempty"`
}

// OrderMarginParams carries the margin pre-check arguments.
type OrderMarginParams struct {
	Exch       string `json:"exch"`
	Tsym       string `json:"tsym"`
	Qty        string `json:"qty"`
	Prc        string `json:"prc"`
	Prd        string `json:"prd,omitempty"`
	Trantype   string `json:"trantype"`
	Prctyp     string `json:"prctyp"`
	Trgprc     string `json:"trgprc,omitempty"`
	Blprc      string `json:"blprc,omitempty"`
	Fillshares string `json:"fillshares,omitempty"`
	Norenordno string `json:"norenordno,omitempty"`
}
