package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"serveo-backend/internal/audit"
	"serveo-backend/internal/auth"
	"serveo-backend/internal/billing"
	"serveo-backend/internal/catalog"
	"serveo-backend/internal/config"
	"serveo-backend/internal/database"
	"serveo-backend/internal/exchange"
	"serveo-backend/internal/ledger"
	"serveo-backend/internal/loyalty"
	"serveo-backend/internal/models"
	"serveo-backend/internal/orders"
	"serveo-backend/internal/register"
	"serveo-backend/internal/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	refresher := exchange.NewRefresher(database.DB, cfg.ExchangeAPIURL, cfg.BaseCurrency, cfg.RefreshInterval, cfg.FetchTimeout)
	refresher.Start()
	defer refresher.Stop()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	provider := billing.StubProvider{}

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Payment provider webhooks carry their own signature check
	api.Post("/payments/webhook", billing.WebhookHandler(provider))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())
	protected.Put("/auth/me/currency", auth.UpdateCurrencyHandler())

	// Catalog
	protected.Post("/restaurants", auth.RequirePermission(auth.PermManageAccounts), catalog.CreateRestaurantHandler())
	protected.Get("/restaurants", catalog.ListRestaurantsHandler())
	protected.Post("/customers", catalog.CreateCustomerHandler())
	protected.Get("/customers", catalog.ListCustomersHandler())
	protected.Post("/categories", auth.RequirePermission(auth.PermManageAccounts), catalog.CreateCategoryHandler())
	protected.Get("/categories", catalog.ListCategoriesHandler())
	protected.Post("/products", auth.RequirePermission(auth.PermManageAccounts), catalog.CreateProductHandler())
	protected.Put("/products/:id", auth.RequirePermission(auth.PermManageAccounts), catalog.UpdateProductHandler())
	protected.Get("/products", catalog.ListProductsHandler())

	// Orders
	protected.Post("/orders", auth.RequirePermission(auth.PermManageOrders), orders.CreateOrderHandler())
	protected.Get("/orders/:id", orders.GetOrderHandler())
	protected.Put("/orders/:id/status", auth.RequirePermission(auth.PermManageOrders), orders.UpdateStatusHandler())

	// Billing
	protected.Post("/payment-methods", auth.RequirePermission(auth.PermManageAccounts), billing.CreatePaymentMethodHandler())
	protected.Get("/payment-methods", billing.ListPaymentMethodsHandler())
	protected.Delete("/payment-methods/:id", auth.RequirePermission(auth.PermManageAccounts), billing.RetirePaymentMethodHandler())
	protected.Get("/orders/:id/total", billing.ComputeTotalHandler())
	protected.Post("/tax/apply", billing.ApplyTaxHandler())
	protected.Post("/discounts/apply", billing.ApplyDiscountHandler())
	protected.Post("/orders/:id/checkout", auth.RequirePermission(auth.PermProcessPayments), billing.CheckoutHandler(cfg))
	protected.Post("/orders/:id/split-bill", auth.RequirePermission(auth.PermProcessPayments), billing.SplitBillHandler())
	protected.Put("/receipts/:id/print", billing.PrintReceiptHandler())
	protected.Post("/discounts", auth.RequirePermission(auth.PermManageAccounts), billing.CreateDiscountHandler())
	protected.Get("/discounts", billing.ListDiscountsHandler())
	protected.Post("/payments/sync", auth.RequirePermission(auth.PermProcessPayments), billing.SyncOfflinePaymentsHandler())
	protected.Post("/payments/intent", auth.RequirePermission(auth.PermProcessPayments), billing.CreateIntentHandler(provider, cfg))

	// Collections & invoices
	protected.Post("/collections", auth.RequirePermission(auth.PermManageAccounts), ledger.CreateCollectionHandler())
	protected.Get("/collections", ledger.ListCollectionsHandler())
	protected.Get("/collections/summary", ledger.CollectionSummaryHandler())
	protected.Get("/collections/:id", ledger.GetCollectionHandler())
	protected.Post("/collections/:id/payment", auth.RequirePermission(auth.PermManageAccounts), ledger.AddPaymentHandler())
	protected.Post("/invoices", auth.RequirePermission(auth.PermManageAccounts), ledger.CreateInvoiceHandler())
	protected.Get("/invoices", ledger.ListInvoicesHandler())
	protected.Get("/invoices/:id", ledger.GetInvoiceHandler())
	protected.Put("/invoices/:id/mark-paid", auth.RequirePermission(auth.PermManageAccounts), ledger.MarkInvoicePaidHandler())

	// Accounting ledger
	protected.Post("/transactions", auth.RequirePermission(auth.PermManageAccounts), ledger.CreateTransactionHandler())
	protected.Get("/transactions", ledger.ListTransactionsHandler())
	protected.Get("/accounting/summary", ledger.AccountingSummaryHandler())

	// Cash registers
	protected.Post("/registers", auth.RequirePermission(auth.PermManageRegisters), register.CreateRegisterHandler())
	protected.Get("/registers", register.ListRegistersHandler())
	protected.Post("/registers/:id/open", auth.RequirePermission(auth.PermManageRegisters), register.OpenRegisterHandler())
	protected.Post("/registers/:id/adjust", auth.RequirePermission(auth.PermManageRegisters), register.AdjustRegisterHandler())
	protected.Post("/registers/:id/close", auth.RequirePermission(auth.PermManageRegisters), register.CloseRegisterHandler())
	protected.Get("/registers/:id/history", register.RegisterHistoryHandler())

	// Loyalty
	protected.Post("/loyalty/cards", auth.RequirePermission(auth.PermManageLoyalty), loyalty.EnrollHandler())
	protected.Get("/loyalty/cards/:id", loyalty.GetCardHandler())
	protected.Post("/loyalty/cards/:id/earn", auth.RequirePermission(auth.PermManageLoyalty), loyalty.EarnHandler())
	protected.Post("/loyalty/cards/:id/redeem", auth.RequirePermission(auth.PermManageLoyalty), loyalty.RedeemHandler())
	protected.Get("/loyalty/cards/:id/history", loyalty.CardHistoryHandler())

	// E-wallets
	protected.Post("/wallets", auth.RequirePermission(auth.PermManageLoyalty), wallet.CreateWalletHandler())
	protected.Get("/wallets/:id", wallet.GetWalletHandler())
	protected.Post("/wallets/:id/topup", auth.RequirePermission(auth.PermProcessPayments), wallet.TopupHandler())
	protected.Post("/wallets/:id/spend", auth.RequirePermission(auth.PermProcessPayments), wallet.SpendHandler())
	protected.Get("/wallets/:id/history", wallet.WalletHistoryHandler())

	// Exchange rates
	protected.Get("/exchange/rates", exchange.RatesHandler())
	protected.Get("/exchange/convert", exchange.ConvertHandler())
	protected.Post("/exchange/refresh", auth.RequirePermission(auth.PermManageAccounts), exchange.RefreshHandler(refresher))

	// Audit logs
	protected.Get("/audit-logs", auth.RequireRole(models.RoleAdmin, models.RoleManager), audit.ListAuditLogsHandler())

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Println("Shutting down")
		_ = app.Shutdown()
	}()

	log.Println("Server listening on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
