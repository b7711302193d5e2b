package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Mahmoud-Elqalini/CakeOlicious-New/config"
	"github.com/Mahmoud-Elqalini/CakeOlicious-New/handlers"
	"github.com/Mahmoud-Elqalini/CakeOlicious-New/internal/ws"
	"github.com/Mahmoud-Elqalini/CakeOlicious-New/middleware"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func main() {
	cfg := config.LoadConfig()

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := config.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	hub := ws.NewHub()
	go hub.Run()

	app := setupApp(cfg, db, hub)

	if err := os.MkdirAll(filepath.Join(cfg.UploadDir, "products"), 0o755); err != nil {
		log.Fatal("Failed to create upload directory:", err)
	}

	// Start server and listen for shutdown signals
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errGrp, shutdownCtx := errgroup.WithContext(shutdownCtx)

	errGrp.Go(func() error {
		log.Printf("🚀 Server starting on host %s in port %s mode", cfg.HOST, cfg.AppPort)
		return app.Listen(cfg.HOST + ":" + cfg.AppPort)
	})

	errGrp.Go(func() error {
		<-shutdownCtx.Done()
		log.Println("Shutting down server gracefully...")
		return app.ShutdownWithTimeout(20 * time.Second)
	})

	if err := errGrp.Wait(); err != nil {
		log.Fatal("Server error:", err)
	}
	log.Println("Server stopped")
}

// setupApp builds the fiber application with all middleware and routes.
func setupApp(cfg *config.Config, db *gorm.DB, hub *ws.Hub) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "CakeOlicious Backend",
		ServerHeader: "CakeOlicious Server/1.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Default 500 statuscode
			code := fiber.StatusInternalServerError
			msg := "Internal Server Error"

			// Retrieve the custom statuscode if it's a *fiber.Error
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				msg = e.Message
			}

			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": msg,
			})
		},
	})

	middleware.SetupMiddleware(app)

	// Health Check Endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "success",
			"message": "API is healthy",
		})
	})

	// Static hosting for uploaded product images
	app.Static("/uploads", cfg.UploadDir)

	authHandler := handlers.NewAuthHandler(db, hub, cfg.JWTExpiration)
	productHandler := handlers.NewProductHandler(db)
	categoryHandler := handlers.NewCategoryHandler(db)
	cartHandler := handlers.NewCartHandler(db)
	orderHandler := handlers.NewOrderHandler(db, hub)
	paymentHandler := handlers.NewPaymentHandler(db, hub)
	reviewHandler := handlers.NewReviewHandler(db)
	adminHandler := handlers.NewAdminHandler(db, hub)
	uploadHandler := handlers.NewUploadHandler(cfg.UploadDir)

	// Public routes
	app.Post("/signup", authHandler.Signup)
	app.Post("/login", authHandler.Login)
	app.Get("/products", productHandler.GetProducts)
	app.Get("/categories", categoryHandler.GetCategories)
	app.Get("/categories/:id/products", categoryHandler.GetCategoryProducts)

	// Authenticated routes
	auth := middleware.AuthRequired(db)

	app.Post("/logout", auth, authHandler.Logout)
	app.Get("/profile", auth, authHandler.Profile)

	app.Get("/product/:name", auth, productHandler.GetProductDetails)
	app.Post("/product/:name/review", auth, reviewHandler.AddReview)
	app.Delete("/product/:name/review", auth, reviewHandler.DeleteReview)

	app.Post("/cart/add", auth, cartHandler.AddToCart)
	app.Get("/cart", auth, cartHandler.ViewCart)
	app.Post("/cart/update", auth, cartHandler.UpdateQuantity)
	app.Post("/cart/remove", auth, cartHandler.RemoveFromCart)

	app.Post("/checkout", auth, orderHandler.Checkout)
	app.Get("/order/:id", auth, orderHandler.GetOrder)

	app.Post("/payment/create/:order_id", auth, paymentHandler.CreatePayment)
	app.Get("/payment/:id", auth, paymentHandler.GetPayment)

	app.Post("/categories", auth, middleware.AdminOnly(), categoryHandler.CreateCategory)
	app.Post("/upload", auth, middleware.AdminOnly(), uploadHandler.UploadImage)

	// Admin back-office
	admin := app.Group("/admin", auth, middleware.AdminOnly())
	admin.Get("/", adminHandler.Dashboard)
	admin.Get("/dashboard", adminHandler.DashboardStats)

	admin.Get("/products", adminHandler.ManageProducts)
	admin.Post("/product/add", adminHandler.AddProduct)
	admin.Post("/product/update-price/:id", adminHandler.UpdateProductPrice)
	admin.Post("/product/update-discount/:id", adminHandler.UpdateProductDiscount)
	admin.Post("/product/toggle/:id", adminHandler.ToggleProduct)
	admin.Delete("/product/delete/:id", adminHandler.DeleteProduct)

	admin.Get("/orders", adminHandler.ManageOrders)
	admin.Get("/order/:id", adminHandler.GetOrderDetails)
	admin.Post("/order/update-status/:id", adminHandler.UpdateOrderStatus)

	admin.Get("/users", adminHandler.ManageUsers)
	admin.Get("/user/:id", adminHandler.GetUser)
	admin.Put("/user/change-password/:id", adminHandler.ChangeUserPassword)
	admin.Delete("/user/delete/:id", adminHandler.DeleteUser)

	admin.Get("/reviews", adminHandler.ManageReviews)
	admin.Delete("/review/delete/:product_id/:user_id", adminHandler.DeleteReview)

	admin.Get("/live", adminHandler.WebSocketUpgradeMiddleware, adminHandler.Live())

	middleware.SetupErrorHandler(app)

	return app
}
