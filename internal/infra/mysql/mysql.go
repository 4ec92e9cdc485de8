package mysql

import (
	"shop-service/internal/domain"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

func NewMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: false,
		},
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&domain.Role{},
		&domain.User{},
		&domain.Item{},
		&domain.Cart{},
		&domain.CartLine{},
		&domain.Order{},
		&domain.OrderLine{},
	); err != nil {
		return nil, err
	}

	if err := seedRoles(db); err != nil {
		return nil, err
	}

	return db, nil
}

func seedRoles(db *gorm.DB) error {
	for _, name := range []string{domain.RoleUser, domain.RoleAdmin} {
		role := domain.Role{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&role).Error; err != nil {
			return err
		}
	}
	return nil
}
