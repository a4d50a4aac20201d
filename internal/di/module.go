package di

import (
	"go.uber.org/fx"

	"github.com/altmarket/storefront/internal/adapter/gateway"
	"github.com/altmarket/storefront/internal/app"
	"github.com/altmarket/storefront/internal/config"
	"github.com/altmarket/storefront/internal/logger"
	"github.com/altmarket/storefront/internal/pkg/auth"
	"github.com/altmarket/storefront/internal/server/http/handlers"
	"github.com/altmarket/storefront/internal/server/http/router"
	"github.com/altmarket/storefront/internal/storage/cache"
	"github.com/altmarket/storefront/internal/storage/postgres"
	"github.com/altmarket/storefront/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		cache.Module,
		gateway.Module,
		usecase.Module,
		fx.Provide(func(f *app.StoreFacade) handlers.StoreFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
