package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/gastro-api/models"
	"github.com/yeremiapane/gastro-api/utils"
	"gorm.io/gorm"
)

// MenuService owns collections and products.
type MenuService struct {
	DB *gorm.DB
}

func NewMenuService(db *gorm.DB) *MenuService {
	return &MenuService{DB: db}
}

type CollectionInput struct {
	RestaurantID      *uint
	Title             *string
	FeaturedProductID *uint
}

type ProductInput struct {
	RestaurantID *uint
	CollectionID *uint
	Title        *string
	Description  *string
	UnitPrice    *decimal.Decimal
}

// withProductsCount selects collections together with the number of products in each.
func withProductsCount(db *gorm.DB) *gorm.DB {
	return db.Select("collections.*, (SELECT COUNT(*) FROM products WHERE products.collection_id = collections.id) AS products_count")
}

func (s *MenuService) ListCollections(ctx context.Context, rc RoleContext, restaurant *uint) ([]models.Collection, error) {
	pred := Scope(rc, KindCollections, restaurant)
	collections := []models.Collection{}
	if pred.Empty() {
		return collections, nil
	}
	err := s.DB.WithContext(ctx).Model(&models.Collection{}).
		Scopes(pred.Apply, withProductsCount).
		Order("id").Find(&collections).Error
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return collections, nil
}

func (s *MenuService) GetCollection(ctx context.Context, rc RoleContext, id uint, restaurant *uint) (*models.Collection, error) {
	var c models.Collection
	if err := load(s.DB.WithContext(ctx).Model(&models.Collection{}).Scopes(withProductsCount), &c, id, "collection"); err != nil {
		return nil, err
	}
	if !Scope(rc, KindCollections, restaurant).Allows(c.RestaurantID, nil) {
		return nil, ErrPermissionDenied("you do not have permission to view this collection")
	}
	return &c, nil
}

// featuredProduct checks that a featured product belongs to the collection's restaurant.
func featuredProduct(tx *gorm.DB, restaurantID uint, productID *uint) error {
	if productID == nil {
		return nil
	}
	var p models.Product
	if err := load(tx, &p, *productID, "product"); err != nil {
		if KindOf(err) == KindNotFound {
			return ErrValidation("no product with the given id was found")
		}
		return err
	}
	if p.RestaurantID != restaurantID {
		return ErrValidation("featured product must belong to restaurant %d", restaurantID)
	}
	return nil
}

func (s *MenuService) CreateCollection(ctx context.Context, rc RoleContext, in CollectionInput) (*models.Collection, error) {
	restaurantID, err := mutationRestaurant(rc, in.RestaurantID)
	if err != nil {
		return nil, err
	}
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, ErrValidation("title is required")
	}

	c := models.Collection{RestaurantID: restaurantID, Title: strings.TrimSpace(*in.Title), FeaturedProductID: in.FeaturedProductID}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &models.Restaurant{}, restaurantID, "restaurant"); err != nil {
			return err
		}
		if err := featuredProduct(tx, restaurantID, in.FeaturedProductID); err != nil {
			return err
		}
		if err := tx.Create(&c).Error; err != nil {
			return fmt.Errorf("create collection: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.WithFields(logrus.Fields{"restaurant_id": c.RestaurantID, "collection_id": c.ID}).Info("collection created")
	return &c, nil
}

func (s *MenuService) UpdateCollection(ctx context.Context, rc RoleContext, id uint, in CollectionInput) (*models.Collection, error) {
	var c models.Collection
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := load(tx, &c, id, "collection"); err != nil {
			return err
		}
		if err := AuthorizeMutation(rc, c.RestaurantID); err != nil {
			return err
		}
		if in.RestaurantID != nil && *in.RestaurantID != c.RestaurantID {
			return ErrValidation("a collection cannot move between restaurants")
		}
		if in.Title != nil {
			if strings.TrimSpace(*in.Title) == "" {
				return ErrValidation("title is required")
			}
			c.Title = strings.TrimSpace(*in.Title)
		}
		if in.FeaturedProductID != nil {
			if err := featuredProduct(tx, c.RestaurantID, in.FeaturedProductID); err != nil {
				return err
			}
			c.FeaturedProductID = in.FeaturedProductID
		}
		return tx.Model(&c).Select("title", "featured_product_id").Updates(&c).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetCollection(ctx, rc, c.ID, nil)
}

func (s *MenuService) DeleteCollection(ctx context.Context, rc RoleContext, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Collection
		if err := load(tx, &c, id, "collection"); err != nil {
			return err
		}
		if err := AuthorizeMutation(rc, c.RestaurantID); err != nil {
			return err
		}
		n, err := count(tx, &models.Product{}, "collection_id = ?", c.ID)
		if err != nil {
			return fmt.Errorf("count collection products: %w", err)
		}
		if n > 0 {
			return ErrConflict("collection cannot be deleted because it includes %d product(s)", n)
		}
		if err := tx.Delete(&c).Error; err != nil {
			return fmt.Errorf("delete collection: %w", err)
		}
		utils.InfoLogger.WithFields(logrus.Fields{"collection_id": c.ID}).Info("collection deleted")
		return nil
	})
}

func (s *MenuService) ListProducts(ctx context.Context, rc RoleContext, restaurant *uint, collection *uint) ([]models.Product, error) {
	pred := Scope(rc, KindProducts, restaurant)
	products := []models.Product{}
	if pred.Empty() {
		return products, nil
	}
	q := s.DB.WithContext(ctx).Scopes(pred.Apply)
	if collection != nil {
		q = q.Where("collection_id = ?", *collection)
	}
	if err := q.Order("title, id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *MenuService) GetProduct(ctx context.Context, rc RoleContext, id uint, restaurant *uint) (*models.Product, error) {
	var p models.Product
	if err := load(s.DB.WithContext(ctx), &p, id, "product"); err != nil {
		return nil, err
	}
	if !Scope(rc, KindProducts, restaurant).Allows(p.RestaurantID, nil) {
		return nil, ErrPermissionDenied("you do not have permission to view this product")
	}
	return &p, nil
}

// productCollection checks that the collection exists in the product's restaurant.
func productCollection(tx *gorm.DB, restaurantID, collectionID uint) error {
	var c models.Collection
	if err := load(tx, &c, collectionID, "collection"); err != nil {
		if KindOf(err) == KindNotFound {
			return ErrValidation("no collection with the given id was found")
		}
		return err
	}
	if c.RestaurantID != restaurantID {
		return ErrValidation("collection %d does not belong to restaurant %d", collectionID, restaurantID)
	}
	return nil
}

func validPrice(p decimal.Decimal) error {
	if !p.IsPositive() {
		return ErrValidation("unit_price must be greater than zero")
	}
	if !p.Equal(p.Round(2)) {
		return ErrValidation("unit_price cannot have more than two decimal places")
	}
	return nil
}

func (s *MenuService) CreateProduct(ctx context.Context, rc RoleContext, in ProductInput) (*models.Product, error) {
	restaurantID, err := mutationRestaurant(rc, in.RestaurantID)
	if err != nil {
		return nil, err
	}
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, ErrValidation("title is required")
	}
	if in.CollectionID == nil {
		return nil, ErrValidation("collection is required")
	}
	if in.UnitPrice == nil {
		return nil, ErrValidation("unit_price is required")
	}
	if err := validPrice(*in.UnitPrice); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(*in.Title)
	p := models.Product{
		RestaurantID: restaurantID,
		CollectionID: *in.CollectionID,
		Title:        title,
		Slug:         slug.Make(title),
		UnitPrice:    *in.UnitPrice,
	}
	if in.Description != nil {
		p.Description = *in.Description
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := productCollection(tx, restaurantID, p.CollectionID); err != nil {
			return err
		}
		if err := tx.Create(&p).Error; err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.WithFields(logrus.Fields{
		"restaurant_id": p.RestaurantID,
		"product_id":    p.ID,
		"slug":          p.Slug,
	}).Info("product created")
	return &p, nil
}

func (s *MenuService) UpdateProduct(ctx context.Context, rc RoleContext, id uint, in ProductInput) (*models.Product, error) {
	var p models.Product
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := load(tx, &p, id, "product"); err != nil {
			return err
		}
		if err := AuthorizeMutation(rc, p.RestaurantID); err != nil {
			return err
		}
		if in.RestaurantID != nil && *in.RestaurantID != p.RestaurantID {
			return ErrValidation("a product cannot move between restaurants")
		}
		if in.Title != nil {
			title := strings.TrimSpace(*in.Title)
			if title == "" {
				return ErrValidation("title is required")
			}
			p.Title = title
			p.Slug = slug.Make(title)
		}
		if in.Description != nil {
			p.Description = *in.Description
		}
		if in.UnitPrice != nil {
			if err := validPrice(*in.UnitPrice); err != nil {
				return err
			}
			p.UnitPrice = *in.UnitPrice
		}
		if in.CollectionID != nil && *in.CollectionID != p.CollectionID {
			if err := productCollection(tx, p.RestaurantID, *in.CollectionID); err != nil {
				return err
			}
			p.CollectionID = *in.CollectionID
		}
		if err := tx.Omit("Collection").Save(&p).Error; err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProduct refuses while order items reference the product. Featured
// references and cart lines are cleared in the same transaction.
func (s *MenuService) DeleteProduct(ctx context.Context, rc RoleContext, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Product
		if err := load(tx, &p, id, "product"); err != nil {
			return err
		}
		if err := AuthorizeMutation(rc, p.RestaurantID); err != nil {
			return err
		}
		n, err := count(tx, &models.OrderItem{}, "product_id = ?", p.ID)
		if err != nil {
			return fmt.Errorf("count order items: %w", err)
		}
		if n > 0 {
			return ErrConflict("product cannot be deleted because it is associated with %d order item(s)", n)
		}

		if err := tx.Model(&models.Collection{}).Where("featured_product_id = ?", p.ID).
			Update("featured_product_id", nil).Error; err != nil {
			return fmt.Errorf("clear featured product: %w", err)
		}
		if err := tx.Where("product_id = ?", p.ID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("delete cart items: %w", err)
		}
		if err := tx.Delete(&p).Error; err != nil {
			return fmt.Errorf("delete product: %w", err)
		}
		utils.InfoLogger.WithFields(logrus.Fields{"product_id": p.ID}).Info("product deleted")
		return nil
	})
}
