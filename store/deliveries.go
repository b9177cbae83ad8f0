package store

import (
	"context"
	"fmt"

	"dinedash-server/models"
	"dinedash-server/statemachine"

	"gorm.io/gorm"
)

const deliveryColumns = "line_items.*, orders.name AS customer_name, orders.phone AS phone, " +
	"orders.address AS address, orders.region AS region, orders.payment_method AS payment_method"

func (s *Store) deliveries(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&models.LineItem{}).
		Select(deliveryColumns).
		Joins("JOIN orders ON orders.id = line_items.order_id")
}

// IncomingDeliveries lists cooking items in region that no rider has
// claimed yet, oldest first.
func (s *Store) IncomingDeliveries(ctx context.Context, region string) ([]models.Delivery, error) {
	var out []models.Delivery
	err := s.deliveries(ctx).
		Where("orders.region = ? AND line_items.status = ? AND line_items.rider_marker = ?",
			region, models.StatusCooking, "").
		Order("orders.sequence asc").
		Scan(&out).Error
	return out, err
}

// AcceptedDeliveries lists the items rider has claimed but not delivered.
func (s *Store) AcceptedDeliveries(ctx context.Context, rider string) ([]models.Delivery, error) {
	return s.byMarker(ctx, models.AcceptedMarker(rider))
}

// DeliveredDeliveries lists the items rider has completed.
func (s *Store) DeliveredDeliveries(ctx context.Context, rider string) ([]models.Delivery, error) {
	return s.byMarker(ctx, models.DeliveredMarker(rider))
}

func (s *Store) byMarker(ctx context.Context, marker string) ([]models.Delivery, error) {
	var out []models.Delivery
	err := s.deliveries(ctx).
		Where("line_items.rider_marker = ?", marker).
		Order("orders.sequence desc").
		Scan(&out).Error
	return out, err
}

// AcceptDelivery claims a cooking, unclaimed item for rider. Of several
// concurrent claims exactly one succeeds; the others get ErrAlreadyClaimed.
func (s *Store) AcceptDelivery(ctx context.Context, id string, kind models.LineKind, rider string) error {
	db := s.db.WithContext(ctx)
	res := db.Model(&models.LineItem{}).
		Where("id = ? AND kind = ? AND status = ? AND rider_marker = ?", id, kind, models.StatusCooking, "").
		Update("rider_marker", models.AcceptedMarker(rider))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	item, err := findLineItem(db, id, kind)
	if err != nil {
		return err
	}
	if item.RiderMarker != "" {
		return fmt.Errorf("%s item %s is %q: %w", kind, id, item.RiderMarker, ErrAlreadyClaimed)
	}
	return &TransitionError{
		ItemID:  id,
		Current: item.Status,
		Err:     fmt.Errorf("%w: only %q items can be claimed", ErrInvalidTransition, models.StatusCooking),
	}
}

// CompleteDelivery marks rider's item completed and credits the rider with
// one delivery and the flat fee, in one transaction.
func (s *Store) CompleteDelivery(ctx context.Context, id string, kind models.LineKind, rider string) (*models.Rider, error) {
	var credited models.Rider
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.LineItem{}).
			Where("id = ? AND kind = ? AND status = ? AND rider_marker = ?",
				id, kind, models.StatusOutForDelivery, models.AcceptedMarker(rider)).
			Updates(map[string]any{
				"status":       models.StatusCompleted,
				"rider_marker": models.DeliveredMarker(rider),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return explainCompletion(tx, id, kind, rider)
		}

		res = tx.Model(&models.Rider{}).
			Where("name = ?", rider).
			Updates(map[string]any{
				"delivered": gorm.Expr("delivered + ?", 1),
				"earned":    gorm.Expr("earned + ?", models.RiderFlatFee),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("rider %q: %w", rider, ErrNotFound)
		}
		return tx.Where("name = ?", rider).First(&credited).Error
	})
	if err != nil {
		return nil, err
	}
	return &credited, nil
}

func explainCompletion(tx *gorm.DB, id string, kind models.LineKind, rider string) error {
	item, err := findLineItem(tx, id, kind)
	if err != nil {
		return err
	}
	if item.RiderMarker != models.AcceptedMarker(rider) {
		return fmt.Errorf("%s item %s is %q: %w", kind, id, item.RiderMarker, ErrNotAssigned)
	}
	if err := statemachine.CanTransition(item.Status, models.StatusCompleted, models.RoleRider); err != nil {
		return &TransitionError{ItemID: id, Current: item.Status, Err: err}
	}
	return fmt.Errorf("line item %s changed concurrently: %w", id, ErrConflict)
}
