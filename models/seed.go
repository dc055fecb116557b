package models

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func unsplash(photo string) (string, []string) {
	base := "https://images.unsplash.com/" + photo
	return base + "?w=400&h=400&fit=crop&crop=center", []string{
		base + "?w=500&h=500&fit=crop&crop=center",
		base + "?w=500&h=500&fit=crop&crop=faces",
		base + "?w=500&h=500&fit=crop&crop=entropy",
	}
}

func catalog() []Product {
	type row struct {
		name, category, photo, description string
		price, rating                      float64
		inStock, featured                  bool
	}
	rows := []row{
		{"Sweet Lime", "citrus", "photo-1582979512210-99b6a53386f9", "Fresh, juicy sweet limes perfect for export", 24.99, 4.8, true, true},
		{"Premium Oranges", "citrus", "photo-1547514701-42782101795e", "Hand-picked Valencia oranges with exceptional sweetness", 19.99, 4.9, true, true},
		{"Tropical Mangoes", "tropical", "photo-1553279768-865429fa0078", "Alphonso mangoes - the king of fruits", 34.99, 4.7, true, false},
		{"Fresh Pineapples", "tropical", "photo-1550258987-190a2d41a8ba", "Golden ripe pineapples with natural sweetness", 29.99, 4.6, true, false},
		{"Seasonal Apples", "seasonal", "photo-1560806887-1e4cd0b6cbd6", "Crisp and fresh seasonal apples", 22.99, 4.5, false, false},
		{"Dragon Fruit", "tropical", "photo-1526318472351-c75fcf070305", "Exotic dragon fruit with unique flavor", 39.99, 4.8, true, true},
	}

	products := make([]Product, 0, len(rows))
	for _, r := range rows {
		image, gallery := unsplash(r.photo)
		products = append(products, Product{
			Name:        r.name,
			Category:    r.category,
			Description: r.description,
			Price:       r.price,
			Image:       image,
			Images:      gallery,
			Rating:      r.rating,
			InStock:     r.inStock,
			Featured:    r.featured,
		})
	}
	return products
}

// Seed creates the admin account if missing and replaces the catalog with
// the default fruit range. Returns the number of products written.
func Seed(db *gorm.DB, adminEmail, adminPassword string) (int, error) {
	if adminPassword == "" {
		return 0, errors.New("seed: admin password is required")
	}

	products := catalog()
	err := db.Transaction(func(tx *gorm.DB) error {
		var admin User
		err := tx.Where("email = ?", adminEmail).First(&admin).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash admin password: %w", err)
			}
			admin = User{
				ID:           uuid.NewString(),
				Email:        adminEmail,
				Name:         "Admin User",
				PasswordHash: string(hash),
				Provider:     "credentials",
				Role:         RoleAdmin,
			}
			if err := tx.Create(&admin).Error; err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
		case err != nil:
			return err
		}

		// Hard delete so re-seeding does not pile up soft-deleted rows.
		if err := tx.Unscoped().Where("1 = 1").Delete(&Product{}).Error; err != nil {
			return fmt.Errorf("clear products: %w", err)
		}
		return tx.Create(&products).Error
	})
	if err != nil {
		return 0, err
	}
	return len(products), nil
}
