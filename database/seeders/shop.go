package seeders

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AkaOko/react-trpo/app/models"
	"github.com/AkaOko/react-trpo/pkg/auth"
)

func init() {
	Register("users", seedUsers)
	Register("catalog", seedCatalog)
}

type seedUser struct {
	name, email, password, phone string
	role                         models.Role
}

var demoUsers = []seedUser{
	{"Администратор", "admin@gmail.com", "admin", "+79001234567", models.RoleAdmin},
	{"Иванов Иван Иванович", "worker@gmail.com", "admin", "+79876543210", models.RoleWorker},
	{"Петров Петр Петрович", "petrov@example.com", "admin", "+79876543211", models.RoleWorker},
	{"Анна Смирнова", "anna@example.com", "client123", "+79876543213", models.RoleClient},
	{"Елена Козлова", "elena@example.com", "client123", "+79876543214", models.RoleClient},
	{"Ювелирснаб", "supplier@example.com", "supplier123", "+79876543220", models.RoleSupplier},
	{"Директор", "director@example.com", "director123", "+79876543230", models.RoleDirector},
}

func seedUsers(db *gorm.DB) error {
	for _, u := range demoUsers {
		hash, err := auth.HashPassword(u.password)
		if err != nil {
			return err
		}
		user := models.User{Name: u.name, Email: u.email, Password: hash, Phone: u.phone, Role: u.role}
		if err := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
			Create(&user).Error; err != nil {
			return err
		}
	}
	return nil
}

type seedProduct struct {
	name     string
	typ      models.ProductType
	price    int64
	material string
}

var demoMaterials = map[string]int64{
	"Золото":  5500,
	"Серебро": 90,
	"Платина": 3200,
}

var demoProducts = []seedProduct{
	{"Кольцо «Классика»", models.ProductRing, 25000, "Золото"},
	{"Серьги «Капля»", models.ProductEarrings, 12000, "Серебро"},
	{"Браслет «Нить»", models.ProductBracelet, 18000, "Серебро"},
	{"Подвеска «Сердце»", models.ProductPendant, 9000, "Золото"},
	{"Цепь «Бисмарк»", models.ProductChain, 42000, "Платина"},
	{"Брошь «Стрекоза»", models.ProductBrooch, 15000, "Серебро"},
}

func seedCatalog(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		ids := make(map[string]models.Material, len(demoMaterials))
		for name, perGram := range demoMaterials {
			price := decimal.NewFromInt(perGram)
			m := models.Material{Name: name, PricePerGram: &price, Quantity: 100}
			if err := tx.Where(models.Material{Name: name}).FirstOrCreate(&m).Error; err != nil {
				return err
			}
			ids[name] = m
		}

		for _, p := range demoProducts {
			product := models.Product{
				Name:       p.name,
				Type:       p.typ,
				Price:      decimal.NewFromInt(p.price),
				MaterialID: ids[p.material].ID,
			}
			if err := tx.Where(models.Product{Name: p.name}).FirstOrCreate(&product).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
