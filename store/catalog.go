package store

import (
	"context"
	"fmt"
	"strings"

	"dinedash-server/models"
)

// FoodsPerPage is the page size of the paginated food listing.
const FoodsPerPage = 6

func (s *Store) Foods(ctx context.Context) ([]models.Food, error) {
	var foods []models.Food
	err := s.db.WithContext(ctx).Order("id").Find(&foods).Error
	return foods, err
}

// FoodsPage returns the zero-based page of foods and the total food count.
func (s *Store) FoodsPage(ctx context.Context, page int) ([]models.Food, int64, error) {
	if page < 0 {
		page = 0
	}
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Food{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	if int64(page) > count/FoodsPerPage {
		// past the last page; also keeps the offset below from overflowing
		return []models.Food{}, count, nil
	}
	var foods []models.Food
	err := db.Order("id").Offset(page * FoodsPerPage).Limit(FoodsPerPage).Find(&foods).Error
	return foods, count, err
}

func (s *Store) FoodsByCategory(ctx context.Context, category string) ([]models.Food, error) {
	var foods []models.Food
	err := s.db.WithContext(ctx).Where("category = ?", category).Order("id").Find(&foods).Error
	return foods, err
}

func (s *Store) FoodsByRestaurant(ctx context.Context, restaurant string) ([]models.Food, error) {
	var foods []models.Food
	err := s.db.WithContext(ctx).Where("restaurant = ?", restaurant).Order("id").Find(&foods).Error
	return foods, err
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// SearchFoods matches food names containing term, ignoring case.
func (s *Store) SearchFoods(ctx context.Context, term string) ([]models.Food, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
	var foods []models.Food
	err := s.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? ESCAPE '!'", pattern).
		Order("id").
		Find(&foods).Error
	return foods, err
}

func (s *Store) FoodByID(ctx context.Context, id uint) (*models.Food, error) {
	var f models.Food
	if err := s.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, notFound(err, "food")
	}
	return &f, nil
}

func (s *Store) CreateFood(ctx context.Context, f *models.Food) error {
	return s.db.WithContext(ctx).Create(f).Error
}

func (s *Store) Restaurants(ctx context.Context) ([]models.Restaurant, error) {
	var rs []models.Restaurant
	err := s.db.WithContext(ctx).Order("id").Find(&rs).Error
	return rs, err
}

func (s *Store) RestaurantByPathname(ctx context.Context, pathname string) (*models.Restaurant, error) {
	var r models.Restaurant
	if err := s.db.WithContext(ctx).Where("pathname = ?", pathname).First(&r).Error; err != nil {
		return nil, notFound(err, "restaurant "+pathname)
	}
	return &r, nil
}

func (s *Store) Providers(ctx context.Context) ([]models.Provider, error) {
	var ps []models.Provider
	err := s.db.WithContext(ctx).Preload("Ingredients").Order("id").Find(&ps).Error
	return ps, err
}

func (s *Store) ProviderByName(ctx context.Context, name string) (*models.Provider, error) {
	var p models.Provider
	if err := s.db.WithContext(ctx).Preload("Ingredients").Where("name = ?", name).First(&p).Error; err != nil {
		return nil, notFound(err, "provider "+name)
	}
	return &p, nil
}

func (s *Store) CreateProvider(ctx context.Context, p *models.Provider) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return notFound(err, "provider "+p.Name)
	}
	return nil
}

// UpdateIngredientPrice changes one named ingredient of a provider.
func (s *Store) UpdateIngredientPrice(ctx context.Context, provider, ingredient string, price int) error {
	db := s.db.WithContext(ctx)
	var p models.Provider
	if err := db.Select("id").Where("name = ?", provider).First(&p).Error; err != nil {
		return notFound(err, "provider "+provider)
	}
	res := db.Model(&models.Ingredient{}).
		Where("provider_id = ? AND name = ?", p.ID, ingredient).
		Update("price", price)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := db.Model(&models.Ingredient{}).Where("provider_id = ? AND name = ?", p.ID, ingredient).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("ingredient %s of %s: %w", ingredient, provider, ErrNotFound)
		}
	}
	return nil
}
