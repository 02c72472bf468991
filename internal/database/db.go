package database

import (
	"log"

	"serveo-backend/internal/config"
	"serveo-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	log.Println("Database connected, migrations complete.")
}

// Migrate runs AutoMigrate for every engine model. Split out so tests can
// run it against their own database handle.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Restaurant{},
		&models.User{},
		&models.RolePermission{},
		&models.AuditLog{},
		&models.ProductCategory{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Discount{},
		&models.TaxRule{},
		&models.PaymentMethod{},
		&models.PaymentTransaction{},
		&models.BillSplit{},
		&models.Receipt{},
		&models.Collection{},
		&models.CollectionPayment{},
		&models.Invoice{},
		&models.Transaction{},
		&models.CashRegister{},
		&models.CashFlow{},
		&models.Customer{},
		&models.LoyaltyCard{},
		&models.LoyaltyPoints{},
		&models.EWallet{},
		&models.EWalletTransaction{},
		&models.ExchangeRate{},
	)
}
