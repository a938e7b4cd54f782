package repositories

import (
	"HillsideClinic/cache"
	"HillsideClinic/database"
	"HillsideClinic/models"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
)

type OrderRepository struct {
	cache *cache.Cache
}

func NewOrderRepository(cache *cache.Cache) *OrderRepository {
	return &OrderRepository{cache: cache}
}

// CreateBatchCommitted inserts a batch of orders with their billings, bumps
// the visit's outstanding-order count, and commits the status transition, all
// in one transaction. billings pairs with orders by index; a nil entry means
// the order already carries its billing, as emergency accrual does. A lost
// compare-and-set rolls the whole batch back, so a retry after refresh starts
// from a clean slate.
func (r *OrderRepository) CreateBatchCommitted(ctx context.Context, visit *models.Visit, to string, billings []*models.Billing, orders []models.VisitOrder) error {
	delta := models.PendingOrderDelta(orders)
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range orders {
			if i < len(billings) && billings[i] != nil {
				var nextID string
				if err := tx.Raw("SELECT 'B-' || LPAD(nextval('billing_id_seq')::TEXT, 6, '0')").Scan(&nextID).Error; err != nil {
					return fmt.Errorf("failed to obtain next sequence value: %w", err)
				}
				billings[i].BillingID = nextID
				for j := range billings[i].Services {
					billings[i].Services[j].BillingID = nextID
				}
				if err := tx.Create(billings[i]).Error; err != nil {
					return fmt.Errorf("failed to create billing: %w", err)
				}
				orders[i].BillingID = nextID
			}
			orders[i].VisitID = visit.ID
			if err := tx.Create(&orders[i]).Error; err != nil {
				return fmt.Errorf("failed to create order: %w", err)
			}
		}

		updates := map[string]interface{}{
			"status":  to,
			"version": visit.Version + 1,
		}
		if delta > 0 {
			updates["pending_order_count"] = gorm.Expr("pending_order_count + ?", delta)
		}
		result := tx.Model(&models.Visit{}).
			Where("id = ? AND version = ?", visit.ID, visit.Version).
			Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("failed to commit visit status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return models.ErrConcurrentModification
		}
		return nil
	})
	if err != nil {
		return err
	}
	visit.Status = to
	visit.Version++
	visit.PendingOrderCount += delta
	if err := r.cache.DeleteAll(ctx, "billings_cache"); err != nil {
		log.Printf("Failed to invalidate billings cache: %v", err)
	}
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id uint) (*models.VisitOrder, error) {
	var order models.VisitOrder
	err := database.DB.WithContext(ctx).First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

// ListByDepartment returns a department's work queue, oldest first.
func (r *OrderRepository) ListByDepartment(ctx context.Context, department, status string) ([]models.VisitOrder, error) {
	query := database.DB.WithContext(ctx).Where("department = ?", department)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var orders []models.VisitOrder
	if err := query.Order("created_at ASC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// Release moves an order into the department's in-progress queue. The billing
// gate is checked by the service before this is called.
func (r *OrderRepository) Release(ctx context.Context, orderID uint) error {
	result := database.DB.WithContext(ctx).Model(&models.VisitOrder{}).
		Where("id = ? AND status = ?", orderID, models.OrderAwaitingPayment).
		Update("status", models.OrderInProgress)
	if result.Error != nil {
		return fmt.Errorf("failed to release order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrConcurrentModification
	}
	return nil
}

// Complete marks the order done and decrements the visit's outstanding-order
// count transactionally. Returns the number of orders still outstanding.
func (r *OrderRepository) Complete(ctx context.Context, orderID uint, resultRef string) (int, error) {
	var remaining int
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var order models.VisitOrder
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			return fmt.Errorf("failed to load order: %w", err)
		}

		now := time.Now()
		result := tx.Model(&models.VisitOrder{}).
			Where("id = ? AND status = ?", orderID, models.OrderInProgress).
			Updates(map[string]interface{}{
				"status":       models.OrderCompleted,
				"result_ref":   resultRef,
				"completed_at": now,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to complete order: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return models.ErrConcurrentModification
		}

		if order.CountsTowardResults() {
			if err := tx.Model(&models.Visit{}).Where("id = ? AND pending_order_count > 0", order.VisitID).
				Update("pending_order_count", gorm.Expr("pending_order_count - 1")).Error; err != nil {
				return fmt.Errorf("failed to decrement pending order count: %w", err)
			}
		}

		var visit models.Visit
		if err := tx.Select("pending_order_count").First(&visit, "id = ?", order.VisitID).Error; err != nil {
			return fmt.Errorf("failed to read pending order count: %w", err)
		}
		remaining = visit.PendingOrderCount
		return nil
	})
	if err != nil {
		return 0, err
	}
	return remaining, nil
}

// CountForVisit returns total and completed diagnostic orders for a visit,
// backing the derived percentage-complete read.
func (r *OrderRepository) CountForVisit(ctx context.Context, visitID string) (total int64, completed int64, err error) {
	diagnostic := []string{models.DeptLab, models.DeptRadiology}
	if err = database.DB.WithContext(ctx).Model(&models.VisitOrder{}).
		Where("visit_id = ? AND department IN ?", visitID, diagnostic).
		Count(&total).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count orders: %w", err)
	}
	if err = database.DB.WithContext(ctx).Model(&models.VisitOrder{}).
		Where("visit_id = ? AND department IN ? AND status = ?", visitID, diagnostic, models.OrderCompleted).
		Count(&completed).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count completed orders: %w", err)
	}
	return total, completed, nil
}
