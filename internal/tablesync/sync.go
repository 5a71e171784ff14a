// Package tablesync derives a dining table's status from the orders
// attached to it. A table's status is never set directly by order flow;
// it is always the result of Reconcile after an order mutation.
package tablesync

import (
	"context"

	"foodflow/internal/common/logger"
	"foodflow/internal/domain"
	"foodflow/internal/eventbus"
	"foodflow/internal/repository"
)

type SynchronizerInterface interface {
	Reconcile(ctx context.Context, tableID *int64) error
}

type Synchronizer struct {
	orders repository.OrderRepositoryInterface
	tables repository.TableRepositoryInterface
	bus    *eventbus.Bus
	lg     *logger.Logger
}

func New(orders repository.OrderRepositoryInterface, tables repository.TableRepositoryInterface, bus *eventbus.Bus, lg *logger.Logger) *Synchronizer {
	return &Synchronizer{orders: orders, tables: tables, bus: bus, lg: lg}
}

// Decide maps an order aggregate onto the table status it implies.
func Decide(snap domain.TableSnapshot) domain.TableStatus {
	switch {
	case snap.UnpaidOpen <= 0:
		return domain.TableOpen
	case snap.BillingCandidates > 0:
		return domain.TableBilling
	default:
		return domain.TableOccupied
	}
}

// Reconcile recomputes the table's status and persists it only when it
// changed, emitting table_status_changed with the updated record. A nil
// or non-positive table reference is a walk-in order and a no-op.
func (s *Synchronizer) Reconcile(ctx context.Context, tableID *int64) error {
	if tableID == nil || *tableID <= 0 {
		return nil
	}

	snap, err := s.orders.WorkflowSnapshot(ctx, *tableID)
	if err != nil {
		return err
	}
	next := Decide(snap)

	table, found, err := s.tables.FindByID(ctx, *tableID)
	if err != nil {
		return err
	}
	if !found || table.Status == next {
		return nil
	}

	updated, err := s.tables.UpdateStatus(ctx, *tableID, next)
	if err != nil {
		return err
	}
	if s.lg != nil {
		s.lg.Debug("table_reconciled", map[string]any{
			"table_id": *tableID, "from": string(table.Status), "to": string(next),
		})
	}
	s.bus.Publish(domain.EventTableStatusChanged, map[string]any{"table": updated})
	return nil
}
