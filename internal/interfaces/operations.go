package interfaces

import (
	"context"

	"finvasia-agent/internal/noren"
	"finvasia-agent/internal/search"
	"finvasia-agent/internal/types"
)

// Operations is the full set of broker tool operations. Every method
// normalizes to a noren.Response: authentication and transport failures
// come back as degraded Not_Ok responses, broker rejections pass through
// with the broker's own emsg.
type Operations interface {
	PlaceOrder(ctx context.Context, p types.PlaceOrderParams) noren.Response
	ModifyOrder(ctx context.Context, p types.ModifyOrderParams) noren.Response
	CancelOrder(ctx context.Context, norenordno string) noren.Response
	OrderStatus(ctx context.Context, p types.OrderStatusParams) noren.Response
	OrderHistory(ctx context.Context, norenordno string) noren.Response
	OrderBook(ctx context.Context, prd string) noren.Response
	TradeBook(ctx context.Context, actid string) noren.Response
	OrderMargin(ctx context.Context, p types.OrderMarginParams) noren.Response
	Quotes(ctx context.Context, p types.QuotesParams) noren.Response
	Positions(ctx context.Context, actid string) noren.Response
	Holdings(ctx context.Context, p types.HoldingsParams) noren.Response
	Watchlist(ctx context.Context) noren.Response
	Profile(ctx context.Context) noren.Response
	Balance(ctx context.Context) noren.Response
}

// Searcher resolves instrument search queries.
type Searcher interface {
	Search(ctx context.Context, q search.Query) search.Result
}
