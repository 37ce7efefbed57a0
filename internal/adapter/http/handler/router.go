package handler

import (
	"provider-billing/internal/adapter/http/middleware"
	redisStore "provider-billing/internal/adapter/storage/redis"
	"provider-billing/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	WalletSvc      ports.WalletService
	ChargeSvc      ports.ChargeService
	DepositSvc     ports.DepositService
	AccountSvc     ports.AccountService
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	rules := middleware.DefaultRateLimitRules()
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	walletHandler := NewWalletHandler(deps.WalletSvc)
	chargeHandler := NewChargeHandler(deps.ChargeSvc)
	depositHandler := NewDepositHandler(deps.DepositSvc)
	accountHandler := NewAccountHandler(deps.AccountSvc)

	accounts := v1.Group("/accounts", jwtAuth)
	{
		accounts.POST("", rl("read"), accountHandler.Create)
		accounts.POST("/:id/members", rl("read"), accountHandler.AddTeamMember)
		accounts.GET("/:id/balance", rl("read"), walletHandler.GetBalance)
	}

	charges := v1.Group("/charges", jwtAuth)
	{
		charges.POST("", rl("charges"), chargeHandler.Create)
	}

	deposits := v1.Group("/deposits", jwtAuth)
	{
		deposits.POST("", rl("deposits"), depositHandler.Create)
		deposits.GET("/:id", rl("read"), depositHandler.Get)
		deposits.PATCH("/:id/status", rl("deposits"), depositHandler.SetStatus)
		deposits.PUT("/:id", rl("deposits"), depositHandler.Update)
		deposits.DELETE("/:id", rl("deposits"), depositHandler.Delete)
	}

	phones := v1.Group("/phone-numbers", jwtAuth)
	{
		phones.POST("", rl("read"), accountHandler.RegisterPhoneNumber)
	}

	return r
}
