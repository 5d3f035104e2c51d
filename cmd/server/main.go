package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental/internal/config"
	"github.com/iliyamo/property-rental/internal/database"
	"github.com/iliyamo/property-rental/internal/handler"
	"github.com/iliyamo/property-rental/internal/middleware"
	"github.com/iliyamo/property-rental/internal/policy"
	"github.com/iliyamo/property-rental/internal/queue"
	"github.com/iliyamo/property-rental/internal/repository"
	"github.com/iliyamo/property-rental/internal/router"
	"github.com/iliyamo/property-rental/internal/utils"
)

func main() {
	// .env is optional; real deployments set variables in the environment.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	properties := repository.NewPropertyRepo(db)
	tenants := repository.NewTenantRepo(db)
	contracts := repository.NewContractRepo(db)
	payments := repository.NewPaymentRepo(db)
	maintenance := repository.NewMaintenanceRepo(db)

	pol := policy.New(properties, tenants)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens)
	propH := handler.NewPropertyHandler(properties)
	tenH := handler.NewTenantHandler(tenants)
	ctH := handler.NewContractHandler(contracts, properties, tenants, pol)
	payH := handler.NewPaymentHandler(payments, contracts, pol)
	mntH := handler.NewMaintenanceHandler(maintenance, contracts, pol)

	e := echo.New()
	e.HideBanner = true
	e.Validator = utils.NewRequestValidator()

	// Distributed rate limiting; degrades to a no-op without Redis.
	rlCfg := config.LoadRateLimitConfig()
	rdb := config.NewRedisClient()
	e.Use(middleware.NewTokenBucket(rlCfg, rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, users, cfg.JWTSecret)
	router.RegisterProperties(e, propH, users, cfg.JWTSecret)
	router.RegisterTenants(e, tenH, users, cfg.JWTSecret)
	router.RegisterContracts(e, ctH, payH, mntH, users, cfg.JWTSecret)

	// Background consumer for contract events; reconnects on its own.
	go func() {
		if err := queue.StartContractConsumer(); err != nil {
			log.Printf("contract consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
