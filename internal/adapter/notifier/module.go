package notifier

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/bookmart/orders/internal/config"
)

// Module exposes notifier client implementation to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(
		p.Config.InventoryAddress,
		p.Config.SellerAddress,
		p.Config.EmailAddress,
		p.Config.NotifyTimeout,
		p.Logger,
	)
}
