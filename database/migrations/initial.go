package migrations

import (
	"github.com/AkaOko/react-trpo/app/models"
	"github.com/AkaOko/react-trpo/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20250301000000_create_users_table", &CreateUsersTable{})
	migration.Register("20250301000001_create_materials_table", &CreateMaterialsTable{})
	migration.Register("20250301000002_create_products_table", &CreateProductsTable{})
	migration.Register("20250301000003_create_orders_table", &CreateOrdersTable{})
	migration.Register("20250301000004_create_order_items_table", &CreateOrderItemsTable{})
	migration.Register("20250301000005_create_material_requests_table", &CreateMaterialRequestsTable{})
}

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

type CreateMaterialsTable struct{}

func (m *CreateMaterialsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Material{})
}

func (m *CreateMaterialsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("materials")
}

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

type CreateOrdersTable struct{}

func (m *CreateOrdersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{})
}

func (m *CreateOrdersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("orders")
}

// The cascade from orders is declared on Order.Items, so Order is parsed in
// the same call for the constraint to be created.
type CreateOrderItemsTable struct{}

func (m *CreateOrderItemsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderItem{})
}

func (m *CreateOrderItemsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("order_items")
}

type CreateMaterialRequestsTable struct{}

func (m *CreateMaterialRequestsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.MaterialRequest{})
}

func (m *CreateMaterialRequestsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("material_requests")
}
