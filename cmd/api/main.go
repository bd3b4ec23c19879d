package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "shoptobd/api/swagger" // swagger docs
	"shoptobd/internal/config"
	"shoptobd/internal/database"
	"shoptobd/internal/handler"
	"shoptobd/internal/middleware"
	"shoptobd/internal/otp"
	"shoptobd/internal/outbox"
	"shoptobd/internal/repository"
	"shoptobd/internal/security"
	"shoptobd/internal/service"
	"shoptobd/internal/websocket"
	"shoptobd/pkg/kafka"
	"shoptobd/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// @title           ShopToBD Order and Billing API
// @version         1.0
// @description     Orders, invoices, payments, refunds and daily sales reporting.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("database migration failed", zap.Error(err))
	}
	log.Info("connected to PostgreSQL", zap.String("host", cfg.Database.Host), zap.String("db", cfg.Database.DBName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// OTP resend cooldown needs redis; without it codes are still single-use and expire.
	var otpThrottle service.OTPThrottle
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancelPing := context.WithTimeout(ctx, 3*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unavailable, OTP resend cooldown disabled", zap.Error(err))
	} else {
		otpThrottle = otp.NewRedisThrottle(rdb, cfg.Auth.OTPResendCooldown)
	}
	cancelPing()
	defer func() { _ = rdb.Close() }()

	// Repositories
	txManager := repository.NewTransactionManager(db)
	customerRepo := repository.NewCustomerRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	taxRateRepo := repository.NewTaxRateRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	refundRepo := repository.NewRefundRepository(db)
	salesRepo := repository.NewSalesReportRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)

	// Services
	tokens := security.NewJWTIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenExpire)
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)

	rateService := service.NewRateService(taxRateRepo)
	salesService := service.NewSalesService(salesRepo, outboxRepo, txManager)
	orderService := service.NewOrderService(orderRepo, customerRepo, sequenceRepo, paymentRepo, rateService, salesService, auditRepo, outboxRepo, txManager)
	invoiceService := service.NewInvoiceService(invoiceRepo, orderRepo, refundRepo, sequenceRepo, auditRepo, outboxRepo, txManager)
	paymentService := service.NewPaymentService(paymentRepo, invoiceRepo, orderRepo, refundRepo, auditRepo, outboxRepo, txManager)
	refundService := service.NewRefundService(refundRepo, invoiceRepo, orderRepo, salesService, auditRepo, outboxRepo, txManager)
	auditService := service.NewAuditService(auditRepo)
	authService := service.NewAuthService(customerRepo, adminRepo, auditRepo, txManager, hasher, tokens,
		otp.NewLogSender(log), otpThrottle, service.AuthOptions{
			OTPTTL:                 cfg.Auth.OTPTTL,
			AllowAdminSelfRegister: cfg.Auth.AllowAdminSelfRegister,
		})

	if err := authService.BootstrapSuperAdmin(ctx, cfg.Auth.SuperAdminName, cfg.Auth.SuperAdminEmail, cfg.Auth.SuperAdminPassword); err != nil {
		log.Fatal("failed to seed admin roles", zap.Error(err))
	}

	// Event relay
	wsHub := websocket.NewHub(log)
	go wsHub.Run(ctx)

	publishers := []outbox.Publisher{wsHub}
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(cfg.Kafka.Brokers, log)
		if err != nil {
			log.Fatal("kafka producer init failed", zap.Error(err))
		}
		defer func() { _ = producer.Close() }()
		publishers = append(publishers, outbox.NewKafkaPublisher(producer, cfg.Kafka.Topic))
	}
	processor := outbox.NewProcessor(outboxRepo, txManager, outbox.ProcessorConfig{
		PollingInterval: cfg.Outbox.PollingInterval,
		BatchSize:       cfg.Outbox.BatchSize,
		MaxAttempts:     cfg.Outbox.MaxAttempts,
	}, log, publishers...)
	processor.Start(ctx)

	// Router
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logger(log), middleware.Recovery(log))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Request-ID"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, tokens, c)
	})

	api := router.Group("")
	handler.NewAuthHandler(authService, tokens, log).RegisterRoutes(api)
	handler.NewOrderHandler(orderService, tokens, log).RegisterRoutes(api)
	handler.NewInvoiceHandler(invoiceService, tokens, log).RegisterRoutes(api)
	handler.NewPaymentHandler(paymentService, tokens, log).RegisterRoutes(api)
	handler.NewRefundHandler(refundService, tokens, log).RegisterRoutes(api)
	handler.NewSalesHandler(salesService, tokens, log).RegisterRoutes(api)
	handler.NewAuditHandler(auditService, tokens, log).RegisterRoutes(api)
	handler.NewRateHandler(rateService, tokens, log).RegisterRoutes(api)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	processor.Stop()
	log.Info("server exited")
}
