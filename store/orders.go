package store

import (
	"context"
	"fmt"
	"time"

	"dinedash-server/models"
	"dinedash-server/statemachine"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewObjectID returns a fresh 24-character hex identifier, used for orders
// and gateway transaction ids.
func NewObjectID() string {
	return primitive.NewObjectID().Hex()
}

// prepareOrder assigns the order id when missing, gives every line a fresh
// id (the client's one moves to FoodID) and starts it at placed.
func prepareOrder(o *models.Order) {
	if o.ID == "" {
		o.ID = NewObjectID()
	}
	for _, items := range [][]models.LineItem{o.CartFood, o.Burger} {
		for i := range items {
			if items[i].FoodID == "" {
				items[i].FoodID = items[i].ID
			}
			items[i].ID = uuid.NewString()
			items[i].Status = models.StatusPlaced
			items[i].RiderMarker = ""
			items[i].Reviewed = false
		}
	}
	o.PackItems()
}

func insertOrder(tx *gorm.DB, o *models.Order) error {
	if err := tx.Omit("Items").Create(o).Error; err != nil {
		return notFound(err, "order "+o.ID)
	}
	if len(o.Items) == 0 {
		return nil
	}
	if err := tx.Create(&o.Items).Error; err != nil {
		return notFound(err, "line items of order "+o.ID)
	}
	return nil
}

// CreateOrder persists a cash-on-delivery order as sent by the client.
// Totals are trusted; no stock check is made.
func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	prepareOrder(o)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return insertOrder(tx, o)
	})
}

// CreatePendingOrder stages o under the client's correlation string and
// allocates the gateway transaction id.
func (s *Store) CreatePendingOrder(ctx context.Context, correlation string, o models.Order) (*models.PendingOrder, error) {
	p := &models.PendingOrder{
		Correlation:   correlation,
		TransactionID: NewObjectID(),
		Payload:       o,
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, notFound(err, "pending order "+correlation)
	}
	return p, nil
}

// PromotePendingOrder copies the staged order into orders. tranID narrows
// the lookup when given. Promoting twice returns the already created order.
// The pending row is kept.
func (s *Store) PromotePendingOrder(ctx context.Context, correlation, tranID string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("correlation = ?", correlation)
		if tranID != "" {
			q = q.Where("transaction_id = ?", tranID)
		}
		var p models.PendingOrder
		if err := q.Clauses(clause.Locking{Strength: "UPDATE"}).Order("id desc").First(&p).Error; err != nil {
			return notFound(err, "pending order "+correlation)
		}

		if p.PromotedAt != nil {
			return loadOrder(tx, p.Payload.ID, &order)
		}

		// the staged payload keeps the client's ids; promote a copy
		order = p.Payload
		order.CartFood = append([]models.LineItem(nil), p.Payload.CartFood...)
		order.Burger = append([]models.LineItem(nil), p.Payload.Burger...)
		prepareOrder(&order)
		if err := insertOrder(tx, &order); err != nil {
			return err
		}

		now := time.Now()
		p.Payload.ID = order.ID
		p.PromotedAt = &now
		return tx.Save(&p).Error
	})
	if err != nil {
		return nil, err
	}
	order.UnpackItems()
	return &order, nil
}

func loadOrder(tx *gorm.DB, id string, dest *models.Order) error {
	if err := tx.Preload("Items").Where("id = ?", id).First(dest).Error; err != nil {
		return notFound(err, "order "+id)
	}
	return nil
}

func (s *Store) OrderByID(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	if err := loadOrder(s.db.WithContext(ctx), id, &o); err != nil {
		return nil, err
	}
	o.UnpackItems()
	return &o, nil
}

// OrdersByEmail lists a customer's orders, newest sort key first.
func (s *Store) OrdersByEmail(ctx context.Context, email string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("email = ?", email).
		Order("sequence desc").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].UnpackItems()
	}
	return orders, nil
}

// LineItemsFor lists the items of one kind owned by a restaurant or
// provider, joined with the customer fields of their orders.
func (s *Store) LineItemsFor(ctx context.Context, owner string, kind models.LineKind) ([]models.Delivery, error) {
	var out []models.Delivery
	err := s.deliveries(ctx).
		Where("line_items.restaurant = ? AND line_items.kind = ?", owner, kind).
		Order("orders.sequence desc").
		Scan(&out).Error
	return out, err
}

// TransitionLineItem moves one item to `to` if actor may do so from its
// current status. The precondition is part of the UPDATE, so concurrent
// callers cannot both succeed.
func (s *Store) TransitionLineItem(ctx context.Context, id string, kind models.LineKind, actor models.UserRole, to models.LineStatus) error {
	froms := statemachine.SourcesFor(to, actor)
	if len(froms) == 0 {
		return fmt.Errorf("%w: %q cannot move items to %q", ErrInvalidTransition, actor, to)
	}

	db := s.db.WithContext(ctx)
	q := db.Model(&models.LineItem{}).
		Where("id = ? AND kind = ? AND status IN ?", id, kind, froms)
	if to == models.StatusOutForDelivery {
		// a rider must hold the item before the restaurant hands it off
		q = q.Where("rider_marker LIKE ?", models.AcceptedMarker("%"))
	}
	res := q.Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	return explainTransition(db, id, kind, actor, to)
}

// explainTransition runs after a conditional update matched nothing and
// reports why.
func explainTransition(tx *gorm.DB, id string, kind models.LineKind, actor models.UserRole, to models.LineStatus) error {
	item, err := findLineItem(tx, id, kind)
	if err != nil {
		return err
	}
	if err := statemachine.CanTransition(item.Status, to, actor); err != nil {
		return &TransitionError{ItemID: id, Current: item.Status, Err: err}
	}
	if to == models.StatusOutForDelivery && !models.IsClaimed(item.RiderMarker) {
		return fmt.Errorf("%s item %s: %w", kind, id, ErrNoRider)
	}
	return fmt.Errorf("line item %s changed concurrently: %w", id, ErrConflict)
}

func findLineItem(tx *gorm.DB, id string, kind models.LineKind) (*models.LineItem, error) {
	var item models.LineItem
	if err := tx.Where("id = ? AND kind = ?", id, kind).First(&item).Error; err != nil {
		return nil, notFound(err, fmt.Sprintf("%s item %s", kind, id))
	}
	return &item, nil
}

// RevenueFor sums the completed items of owner, regular and custom
// separately. Prices that do not parse are skipped.
func (s *Store) RevenueFor(ctx context.Context, owner string) (models.Revenue, error) {
	var items []models.LineItem
	err := s.db.WithContext(ctx).
		Select("kind", "total_price").
		Where("restaurant = ? AND status = ?", owner, models.StatusCompleted).
		Find(&items).Error
	if err != nil {
		return models.Revenue{}, err
	}

	var rev models.Revenue
	for _, it := range items {
		n, err := it.TotalPrice.Int()
		if err != nil {
			continue
		}
		switch it.Kind {
		case models.KindRegular:
			rev.RegularTotal += n
		case models.KindCustom:
			rev.CustomTotal += n
		}
	}
	rev.GrandTotal = rev.RegularTotal + rev.CustomTotal
	return rev, nil
}
