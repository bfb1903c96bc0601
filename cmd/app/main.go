package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MarioL13/TiendaFinal-sub000/external/midtrans"
	"github.com/MarioL13/TiendaFinal-sub000/external/rabbitmq"
	"github.com/MarioL13/TiendaFinal-sub000/external/resend"
	"github.com/MarioL13/TiendaFinal-sub000/external/smtp"

	"github.com/MarioL13/TiendaFinal-sub000/internal/config"
	"github.com/MarioL13/TiendaFinal-sub000/internal/db"
	"github.com/MarioL13/TiendaFinal-sub000/internal/logging"
	"github.com/MarioL13/TiendaFinal-sub000/internal/middleware"
	"github.com/MarioL13/TiendaFinal-sub000/internal/realtime"
	"github.com/MarioL13/TiendaFinal-sub000/internal/repository"
	"github.com/MarioL13/TiendaFinal-sub000/internal/services"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logging.Setup(cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ======================
	// INFRA
	// ======================
	pool, err := db.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migrate database")
		}
	}

	// ======================
	// EXTERNALS (all optional)
	// ======================
	var mailer services.Mailer
	switch {
	case cfg.ResendAPIKey != "":
		m, err := resend.NewResendMailer(cfg.ResendAPIKey, cfg.MailFrom)
		if err != nil {
			log.Fatal().Err(err).Msg("resend mailer")
		}
		mailer = m
	case cfg.SMTPHost != "":
		m, err := smtp.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
		if err != nil {
			log.Fatal().Err(err).Msg("smtp mailer")
		}
		mailer = m
	default:
		log.Info().Msg("no mail transport configured, confirmation mails disabled")
	}

	var events services.EventPublisher
	if cfg.RabbitURL != "" {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			log.Warn().Err(err).Msg("rabbitmq unavailable, order events disabled")
		} else {
			defer pub.Close()
			events = pub
		}
	}

	var snapClient services.SnapClient
	if sc := midtrans.NewSnapClient(cfg.MidtransServerKey, cfg.MidtransEnv); sc != nil {
		snapClient = sc
	}

	hub := realtime.NewHub(cfg.CORSOrigins)
	tokens := middleware.NewTokens(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)

	// ======================
	// REPOSITORIES
	// ======================
	userRepo := repository.NewUserRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	cardRepo := repository.NewCardRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	cartRepo := repository.NewCartRepository(pool)
	checkoutRepo := repository.NewCheckoutRepository(pool, cfg.CheckoutLockTimeout)
	orderRepo := repository.NewOrderRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	wishlistRepo := repository.NewWishlistRepository(pool)
	eventRepo := repository.NewEventRepository(pool)

	// ======================
	// SERVICES
	// ======================
	authSvc := services.NewAuthService(userRepo)
	productSvc := services.NewProductService(productRepo, categoryRepo)
	cardSvc := services.NewCardService(cardRepo)
	categorySvc := services.NewCategoryService(categoryRepo, productRepo)
	cartSvc := services.NewCartService(cartRepo)
	orderSvc := services.NewOrderService(checkoutRepo, orderRepo)
	orderSvc.Events = events
	orderSvc.Feed = hub
	orderSvc.Mail = mailer
	paymentSvc := services.NewPaymentService(paymentRepo, orderSvc, snapClient, cfg.MidtransServerKey)
	wishlistSvc := services.NewWishlistService(wishlistRepo)
	eventSvc := services.NewEventService(eventRepo)
	exportSvc := services.NewExportService(orderRepo, productRepo, cardRepo)

	// ======================
	// ECHO
	// ======================
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(logging.RequestLogger())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	api := e.Group("/api")

	// ======================
	// ROUTES (ONLY REGISTRATION)
	// ======================
	registerAuthRoutes(api, authSvc, tokens)
	registerUserRoutes(api, authSvc, tokens)
	registerProductRoutes(api, productSvc, tokens)
	registerCardRoutes(api, cardSvc, tokens)
	registerCategoryRoutes(api, categorySvc, tokens)
	registerCartRoutes(api, cartSvc, tokens)
	registerOrderRoutes(api, orderSvc, paymentSvc, hub, tokens)
	registerPaymentRoutes(api, paymentSvc)
	registerWishlistRoutes(api, wishlistSvc, tokens)
	registerEventRoutes(api, eventSvc, tokens)
	registerExportRoutes(api, exportSvc, tokens)

	for _, r := range e.Routes() {
		log.Debug().Str("method", r.Method).Str("path", r.Path).Msg("route")
	}

	// ======================
	// SERVER
	// ======================
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("listening")

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
