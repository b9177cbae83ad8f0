package models

import (
	"regexp"
	"strings"
	"time"
)

type Restaurant struct {
	ID        uint      `json:"_id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Thumbnail string    `json:"thumbnail"`
	Pathname  string    `json:"pathname" gorm:"uniqueIndex;size:191;not null"`
	CreatedAt time.Time `json:"createdAt"`
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// PathnameFor derives the public lookup key of a restaurant: lower case, each
// whitespace run replaced by a hyphen. Punctuation is preserved.
func PathnameFor(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(name), "-")
}

// Provider is a restaurant offering custom burger assembly.
type Provider struct {
	ID          uint         `json:"_id" gorm:"primaryKey"`
	Name        string       `json:"name" gorm:"uniqueIndex;size:191;not null"`
	Image       string       `json:"image"`
	Ingredients []Ingredient `json:"ingredients" gorm:"foreignKey:ProviderID"`
}

type Ingredient struct {
	ID         uint   `json:"-" gorm:"primaryKey"`
	ProviderID uint   `json:"-" gorm:"uniqueIndex:idx_provider_ingredient;not null"`
	Name       string `json:"name" gorm:"uniqueIndex:idx_provider_ingredient;size:191;not null"`
	Price      int    `json:"price"`
}

type Food struct {
	ID          uint   `json:"_id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"index;not null"`
	Category    string `json:"category" gorm:"index"`
	Restaurant  string `json:"restaurant" gorm:"index"`
	Price       int    `json:"price"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

// Review is keyed by food identifier, not by the order it came from.
type Review struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	FoodID    string    `json:"id" gorm:"index;size:64;not null"`
	Review    string    `json:"review"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
}
