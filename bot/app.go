// Package bot assembles the storefront application: configuration, storage,
// the dialogue engine, and the Telegram routing tables.
package bot

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/elphone/storebot/auth"
	"github.com/elphone/storebot/catalog"
	corebootstrap "github.com/elphone/storebot/core/bootstrap"
	coretelegram "github.com/elphone/storebot/core/telegram"
	"github.com/elphone/storebot/core/telegram/commands"
	"github.com/elphone/storebot/core/telegram/router"
	"github.com/elphone/storebot/core/telegram/state"
	"github.com/elphone/storebot/core/telegram/ui"
	"github.com/elphone/storebot/dialogue"
	"github.com/elphone/storebot/render"
)

// App holds the assembled application components.
type App struct {
	cfg      *Config
	db       *sqlx.DB
	roster   *auth.Roster
	products *catalog.Service
	sessions state.Manager
	engine   *dialogue.Engine
}

// NewApp runs the bootstrap pipeline (logger, database, migrations) and
// wires the domain components.
func NewApp(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bot: nil config provided")
	}

	res, err := corebootstrap.Run(corebootstrap.Options{
		Config:   &cfg.Core,
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	roster := auth.NewRoster(cfg.Core.Telegram.AdminIDs)
	products := catalog.NewService(catalog.NewPostgresRepository(res.DB))
	sessions := state.NewMemoryManager()

	return &App{
		cfg:      cfg,
		db:       res.DB,
		roster:   roster,
		products: products,
		sessions: sessions,
		engine:   dialogue.NewEngine(roster, products, sessions),
	}, nil
}

// TelegramRunOptions builds the routing tables and runtime options for the bot.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	h := &handlers{app: a}

	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.start,
		Description: "شروع و مشاهده فروشگاه",
	})
	reg.RegisterCommand("/addproduct", commands.Command{
		Handler:     h.addProduct,
		Description: "افزودن محصول جدید",
		AdminOnly:   true,
	})
	reg.RegisterCommand("/listproducts", commands.Command{
		Handler:     h.listProducts,
		Description: "لیست محصولات با امکان حذف",
		AdminOnly:   true,
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     h.cancel,
		Description: "لغو عملیات جاری",
	})

	if err := reg.RegisterCallback(render.CallbackShowProducts, h.showProducts); err != nil {
		return coretelegram.RunOptions{}, err
	}
	if err := reg.RegisterCallback(render.CallbackDelete, h.deleteProduct); err != nil {
		return coretelegram.RunOptions{}, err
	}

	var fb ui.FallbackProvider = h
	reg.SetCallbackNotFound(fb.UnknownCallback())

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		IsAdmin:       a.roster.IsAdmin,
		OnAdminReject: h.notAdmin,
	})
	routes = append(routes, router.TextRoutes(fsmAdapter{engine: a.engine}, router.TextOptions{
		UnknownText: fb.UnknownText(),
	})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))

	return coretelegram.RunOptions{
		Config:      &a.cfg.Core,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(&a.cfg.Core, nil),
		Routes:      routes,
	}, nil
}

// Close releases resources held by the app.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
