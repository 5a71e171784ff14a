package service

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"foodflow/internal/common/logger"
	"foodflow/internal/domain"
	"foodflow/internal/eventbus"
	"foodflow/internal/repository"
)

type TableService struct {
	orders repository.OrderRepositoryInterface
	tables repository.TableRepositoryInterface
	bus    *eventbus.Bus
	lg     *logger.Logger
}

func NewTableService(repo *repository.Repository, bus *eventbus.Bus, lg *logger.Logger) *TableService {
	return &TableService{orders: repo.Orders, tables: repo.Tables, bus: bus, lg: lg}
}

func (s *TableService) List(ctx context.Context) ([]domain.DiningTable, error) {
	return s.tables.ListAll(ctx)
}

func (s *TableService) Get(ctx context.Context, id int64) (domain.DiningTable, error) {
	t, found, err := s.tables.FindByID(ctx, id)
	if err != nil {
		return domain.DiningTable{}, err
	}
	if !found {
		return domain.DiningTable{}, domain.ErrNotFound
	}
	return t, nil
}

func (s *TableService) Create(ctx context.Context, req domain.CreateTableRequest) (domain.DiningTable, error) {
	if len(req.TableName) > 100 {
		return domain.DiningTable{}, domain.NewValidationError("table_name must be 100 characters or less")
	}
	return s.tables.Create(ctx, domain.DiningTable{
		Name:      req.TableName,
		Status:    domain.NormalizeTableStatus(req.Status),
		CreatedAt: time.Now().UTC(),
	})
}

// UpdateStatus is the administrative override: the one path that sets a
// table status directly. Closing is refused while unpaid open orders
// remain attached.
func (s *TableService) UpdateStatus(ctx context.Context, id int64, status string) (domain.DiningTable, error) {
	_, found, err := s.tables.FindByID(ctx, id)
	if err != nil {
		return domain.DiningTable{}, err
	}
	if !found {
		return domain.DiningTable{}, domain.ErrNotFound
	}

	if !domain.ValidTableStatus(status) {
		return domain.DiningTable{}, domain.NewValidationError("invalid table status")
	}
	next := domain.NormalizeTableStatus(status)

	if next == domain.TableClosed {
		snap, err := s.orders.WorkflowSnapshot(ctx, id)
		if err != nil {
			return domain.DiningTable{}, domain.AtStage("tables.status.snapshot", err)
		}
		if snap.UnpaidOpen > 0 {
			return domain.DiningTable{}, errors.Wrap(domain.ErrConflict, "cannot close table with active unpaid orders")
		}
	}

	updated, err := s.tables.UpdateStatus(ctx, id, next)
	if err != nil {
		return domain.DiningTable{}, domain.AtStage("tables.status", err)
	}
	s.bus.Publish(domain.EventTableStatusChanged, map[string]any{"table": updated})
	return updated, nil
}

func (s *TableService) Remove(ctx context.Context, id int64) (int64, error) {
	_, found, err := s.tables.FindByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, domain.ErrNotFound
	}

	snap, err := s.orders.WorkflowSnapshot(ctx, id)
	if err != nil {
		return 0, domain.AtStage("tables.remove.snapshot", err)
	}
	if snap.UnpaidOpen > 0 {
		return 0, errors.Wrap(domain.ErrConflict, "cannot drop table with active unpaid orders")
	}

	deleted, err := s.tables.Remove(ctx, id)
	if err != nil {
		return 0, domain.AtStage("tables.remove", err)
	}
	s.bus.Publish(domain.EventTableDeleted, map[string]any{"table_id": id})
	s.lg.Info("table_deleted", map[string]any{"table_id": id})
	return deleted, nil
}
