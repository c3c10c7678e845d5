package noren

// Endpoint paths under the Noren REST base URL.
const (
	EndpointQuickAuth    = "QuickAuth"
	EndpointSearchScrip  = "SearchScrip"
	EndpointGetQuotes    = "GetQuotes"
	EndpointLimits       = "Limits"
	EndpointPositions    = "PositionBook"
	EndpointHoldings     = "Holdings"
	EndpointWatchlist    = "MWList"
	EndpointMarketWatch  = "MarketWatch"
	EndpointUserDetails  = "UserDetails"
	EndpointPlaceOrder   = "PlaceOrder"
	EndpointModifyOrder  = "ModifyOrder"
	EndpointCancelOrder  = "CancelOrder"
	EndpointOrderStatus  = "SingleOrdStatus"
	EndpointOrderHistory = "SingleOrdHist"
	EndpointOrderBook    = "OrderBook"
	EndpointTradeBook    = "TradeBook"
	EndpointOrderMargin  = "GetOrderMargin"
)
