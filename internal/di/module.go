package di

import (
	"go.uber.org/fx"

	"github.com/bookmart/orders/internal/adapter/notifier"
	"github.com/bookmart/orders/internal/app"
	"github.com/bookmart/orders/internal/config"
	"github.com/bookmart/orders/internal/logger"
	"github.com/bookmart/orders/internal/pkg/auth"
	"github.com/bookmart/orders/internal/server/http/handlers"
	"github.com/bookmart/orders/internal/server/http/middleware"
	"github.com/bookmart/orders/internal/server/http/router"
	"github.com/bookmart/orders/internal/storage/postgres"
	"github.com/bookmart/orders/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		notifier.Module,
		usecase.Module,
		fx.Provide(
			func(f *app.OrdersFacade) handlers.OrdersFacade { return f },
			func(v auth.Verifier) middleware.TokenParser { return v },
			func(s *postgres.Storage) router.HealthChecker { return s },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
