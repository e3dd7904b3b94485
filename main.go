package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/HSouheill/academy_backend/config"
	"github.com/HSouheill/academy_backend/controllers"
	"github.com/HSouheill/academy_backend/logger"
	"github.com/HSouheill/academy_backend/middleware"
	"github.com/HSouheill/academy_backend/repositories"
	"github.com/HSouheill/academy_backend/routes"
	"github.com/HSouheill/academy_backend/services"
	"github.com/HSouheill/academy_backend/websocket"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Env)
	defer logger.Sync()

	// Connect to database
	client := config.ConnectDB(cfg)
	db := client.Database(cfg.DBName)

	// Redis backs the catalog cache, settlement locks and reset codes
	var (
		locker services.Locker    = services.NewLocalLocker()
		cache  services.Cache     = services.NoopCache{}
		codes  services.CodeStore = services.NewLocalCodeStore()
	)
	if rdb := config.ConnectRedis(cfg); rdb != nil {
		locker = services.NewRedisLocker(rdb, 30*time.Second)
		cache = services.NewRedisCache(rdb)
		codes = services.NewRedisCodeStore(rdb)
	}

	// Create WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	mailer := newMailer(cfg)
	notifier := newNotificationService(cfg, db, wsHub, mailer)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	adminRepo := repositories.NewAdminRepository(db)
	courseRepo := repositories.NewCourseRepository(db)
	curriculumRepo := repositories.NewCurriculumRepository(db)
	bookRepo := repositories.NewBookRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	purchaseRepo := repositories.NewPurchaseRepository(db)
	affiliateRepo := repositories.NewAffiliateRepository(db)
	couponRepo := repositories.NewCouponRepository(db)

	// Initialize services
	tokens := middleware.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry)
	policy := services.DefaultCommissionPolicy()

	authService := services.NewAuthService(userRepo, adminRepo, tokens)
	referralService := services.NewReferralService(userRepo, affiliateRepo, policy, notifier, cfg.FrontendURL)
	couponService := services.NewCouponService(couponRepo, courseRepo, bookRepo)
	paymentService := services.NewPaymentService(services.PaymentDeps{
		Users:       userRepo,
		Courses:     courseRepo,
		Books:       bookRepo,
		Payments:    paymentRepo,
		Purchases:   purchaseRepo,
		Referrals:   referralService,
		Coupons:     couponService,
		Provider:    services.NewPaystackService(cfg.PaystackBaseURL, cfg.PaystackSecretKey, cfg.IsDevelopment()),
		Locker:      locker,
		Notifier:    notifier,
		CallbackURL: cfg.PaymentCallbackURL,
		Currency:    cfg.Currency,
	})

	storageService := newStorageService(cfg)

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authService.EnsureSuperAdmin(bootCtx, cfg.SuperAdminEmail, cfg.SuperAdminPassword); err != nil {
		logger.Log.Error("failed to bootstrap super admin", zap.Error(err))
	}
	cancelBoot()

	// Initialize controllers
	ctrl := &routes.Controllers{
		Auth:          controllers.NewAuthController(authService),
		Password:      controllers.NewPasswordController(services.NewPasswordService(userRepo, codes, mailer)),
		User:          controllers.NewUserController(services.NewUserService(userRepo), paymentService),
		Course:        controllers.NewCourseController(services.NewCourseService(courseRepo, curriculumRepo, userRepo, cache)),
		Book:          controllers.NewBookController(services.NewBookService(bookRepo, userRepo)),
		Payment:       controllers.NewPaymentController(paymentService, cfg.PaystackSecretKey),
		Referral:      controllers.NewReferralController(referralService, cfg.MinWithdrawal),
		Withdrawal:    controllers.NewWithdrawalController(services.NewWithdrawalService(userRepo, locker, notifier, cfg.MinWithdrawal)),
		Affiliate:     controllers.NewAffiliateController(services.NewAffiliateService(affiliateRepo, userRepo, policy)),
		Coupon:        controllers.NewCouponController(couponService),
		Ad:            controllers.NewAdController(services.NewAdService(repositories.NewAdRepository(db))),
		Mentorship:    controllers.NewMentorshipController(services.NewMentorshipService(repositories.NewMentorshipRepository(db), userRepo)),
		Upload:        controllers.NewUploadController(storageService),
		Notification:  controllers.NewNotificationController(notifier, wsHub),
		HealthChecker: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(ctx, nil)
		},
	}

	// Create a new Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = controllers.NewValidator()

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.RequestLogger(logger.Log))
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.GlobalCORS(cfg.CORSOrigins, cfg.IsDevelopment()))
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeaders(!cfg.IsDevelopment()))
	e.Use(httpsRedirect())

	routes.SetupRoutes(e, tokens, ctrl)

	// Start server
	go func() {
		logger.Log.Info("starting server", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Log.Error("server shutdown error", zap.Error(err))
	}
	if err := client.Disconnect(ctx); err != nil {
		logger.Log.Error("MongoDB disconnect error", zap.Error(err))
	}
}

// newMailer returns nil when SMTP is not configured
func newMailer(cfg *config.Config) services.Mailer {
	if cfg.SMTPHost == "" {
		logger.Log.Warn("SMTP not configured, email delivery disabled")
		return nil
	}
	return services.NewGomailMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
}

// newNotificationService wires whichever delivery channels are configured
func newNotificationService(cfg *config.Config, db *mongo.Database, hub *websocket.Hub, mailer services.Mailer) *services.NotificationService {
	var pusher services.Pusher
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if app, err := config.InitFirebase(ctx, cfg); err != nil {
		logger.Log.Warn("push notifications disabled", zap.Error(err))
	} else if messagingClient, err := app.Messaging(ctx); err != nil {
		logger.Log.Warn("failed to create FCM client", zap.Error(err))
	} else {
		pusher = services.NewFCMPusher(messagingClient)
	}

	return services.NewNotificationService(repositories.NewNotificationRepository(db), mailer, pusher, hub, cfg.AdminEmail)
}

func newStorageService(cfg *config.Config) *services.StorageService {
	sess, err := config.NewAWSSession(cfg)
	if err != nil {
		logger.Log.Fatal("failed to create AWS session", zap.Error(err))
	}
	return services.NewStorageService(sess, cfg.S3Bucket, cfg.AWSRegion, cfg.S3Endpoint)
}

func httpsRedirect() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("X-Forwarded-Proto") == "http" {
				return c.Redirect(http.StatusMovedPermanently, "https://"+c.Request().Host+c.Request().RequestURI)
			}
			return next(c)
		}
	}
}
