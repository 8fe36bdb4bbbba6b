package database

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/quickserve/models"
	"github.com/yeremiapane/quickserve/utils"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Seed is the YAML document loaded by LoadSeed.
type Seed struct {
	Categories []SeedCategory `yaml:"categories"`
	Staff      []SeedStaff    `yaml:"staff"`
}

type SeedCategory struct {
	Name  string     `yaml:"name"`
	Items []SeedItem `yaml:"items"`
}

type SeedItem struct {
	Name        string `yaml:"name"`
	Price       string `yaml:"price"`
	Description string `yaml:"description"`
	Available   *bool  `yaml:"available"`
}

type SeedStaff struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

// SeedResult counts the records created by ApplySeed.
type SeedResult struct {
	Categories int
	Menus      int
	Staff      int
}

func LoadSeed(path string) (*Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(raw)
}

func ParseSeed(raw []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	for _, cat := range seed.Categories {
		if strings.TrimSpace(cat.Name) == "" {
			return nil, fmt.Errorf("seed category without name")
		}
		for _, item := range cat.Items {
			if strings.TrimSpace(item.Name) == "" {
				return nil, fmt.Errorf("seed item without name in category %q", cat.Name)
			}
			price, err := decimal.NewFromString(item.Price)
			if err != nil {
				return nil, fmt.Errorf("seed item %q: invalid price %q", item.Name, item.Price)
			}
			if price.IsNegative() {
				return nil, fmt.Errorf("seed item %q: negative price", item.Name)
			}
		}
	}
	for _, s := range seed.Staff {
		switch s.Role {
		case models.RoleAdmin, models.RoleStaff, models.RoleChef:
		default:
			return nil, fmt.Errorf("seed staff %q: unknown role %q", s.Email, s.Role)
		}
	}
	return &seed, nil
}

// ApplySeed inserts the records that do not exist yet. Existing rows are left
// untouched, so running it twice is harmless.
func ApplySeed(ctx context.Context, db *gorm.DB, seed *Seed) (SeedResult, error) {
	var res SeedResult
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, sc := range seed.Categories {
			category := models.MenuCategory{Name: sc.Name}
			created, err := findOrCreate(tx, &category, "name = ?", sc.Name)
			if err != nil {
				return err
			}
			if created {
				res.Categories++
			}

			for _, si := range sc.Items {
				price, _ := decimal.NewFromString(si.Price)
				available := true
				if si.Available != nil {
					available = *si.Available
				}
				menu := models.Menu{
					CategoryID:  category.ID,
					Name:        si.Name,
					Price:       price,
					Description: si.Description,
					IsAvailable: available,
				}
				created, err := findOrCreate(tx, &menu, "name = ?", si.Name)
				if err != nil {
					return err
				}
				if created {
					res.Menus++
				}
			}
		}

		for _, ss := range seed.Staff {
			email := strings.ToLower(strings.TrimSpace(ss.Email))
			var existing int64
			if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				continue
			}
			hashed, err := bcrypt.GenerateFromPassword([]byte(ss.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			user := models.User{Name: ss.Name, Email: email, Password: string(hashed), Role: ss.Role}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			res.Staff++
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}

	utils.InfoLogger.Printf("Seed applied: %d categories, %d menu items, %d staff", res.Categories, res.Menus, res.Staff)
	return res, nil
}

// findOrCreate loads the first row matching the condition into dest, or
// inserts dest when there is none.
func findOrCreate(tx *gorm.DB, dest interface{}, query string, args ...interface{}) (bool, error) {
	found := tx.Where(query, args...).Limit(1).Find(dest)
	if found.Error != nil {
		return false, found.Error
	}
	if found.RowsAffected > 0 {
		return false, nil
	}
	if err := tx.Create(dest).Error; err != nil {
		return false, err
	}
	return true, nil
}
