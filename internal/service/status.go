package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Xlizer1/janah-server-sub000/internal/logging"
	"github.com/Xlizer1/janah-server-sub000/internal/models"
	"github.com/Xlizer1/janah-server-sub000/internal/notify"
)

// transitions is the allowed next-status set per current status. Forward
// progression only, plus cancellation from any non-terminal state.
// delivered and cancelled are terminal.
var transitions = map[string][]string{
	models.StatusPending:     {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed:   {models.StatusPreparing, models.StatusCancelled},
	models.StatusPreparing:   {models.StatusReadyToShip, models.StatusCancelled},
	models.StatusReadyToShip: {models.StatusShipped, models.StatusCancelled},
	models.StatusShipped:     {models.StatusDelivered, models.StatusCancelled},
	models.StatusDelivered:   {},
	models.StatusCancelled:   {},
}

func canTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ApplyTransition moves the order to newStatus, stamps the matching milestone,
// and appends one history row, all in one transaction. The customer
// notification goes out after the commit and is best-effort.
func (s *OrderService) ApplyTransition(ctx context.Context, orderID uint, newStatus string, actorID uint, notes string) (*models.Order, error) {
	l := logging.FromContext(ctx).With("op", "order.transition", "order_id", orderID)

	if !models.IsValidStatus(newStatus) {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, newStatus)
	}

	order, err := s.Repo.GetOrder(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get order: %w", ErrDatabase, err)
	}

	if order.Status == newStatus {
		return nil, fmt.Errorf("%w: order is already %s", ErrBusinessLogic, newStatus)
	}
	if !canTransition(order.Status, newStatus) {
		return nil, fmt.Errorf("%w: cannot transition from %s to %s", ErrBusinessLogic, order.Status, newStatus)
	}

	oldStatus := order.Status
	order.Status = newStatus

	now := time.Now().UTC()
	switch newStatus {
	case models.StatusConfirmed:
		order.ConfirmedAt = &now
		order.ConfirmedBy = &actorID
	case models.StatusShipped:
		order.ShippedAt = &now
		order.ShippedBy = &actorID
	case models.StatusDelivered:
		order.DeliveredAt = &now
		order.DeliveredBy = &actorID
	}

	if notes != "" {
		order.AdminNotes = notes
	}

	hist := &models.OrderStatusHistory{
		OrderID:   order.ID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		ChangedBy: actorID,
		Notes:     notes,
	}

	if err := s.Repo.UpdateStatus(ctx, order, hist); err != nil {
		return nil, fmt.Errorf("%w: update status: %w", ErrDatabase, err)
	}
	order.History = append(order.History, *hist)

	l.Info("status changed", "order_number", order.OrderNumber, "old_status", oldStatus, "new_status", newStatus, "changed_by", actorID)

	s.dispatchNotification(ctx, order)

	return order, nil
}

// CancelOrder is a thin wrapper over ApplyTransition with its own pre-guards.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uint, actorID uint, reason string) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get order: %w", ErrDatabase, err)
	}

	if order.Status == models.StatusCancelled {
		return nil, fmt.Errorf("%w: order is already cancelled", ErrBusinessLogic)
	}
	if order.Status == models.StatusDelivered {
		return nil, fmt.Errorf("%w: cannot cancel a delivered order", ErrBusinessLogic)
	}

	return s.ApplyTransition(ctx, orderID, models.StatusCancelled, actorID, reason)
}

// dispatchNotification publishes the status event for the customer. A failure
// here is logged and never affects the committed transition.
func (s *OrderService) dispatchNotification(ctx context.Context, order *models.Order) {
	if s.Dispatcher == nil {
		return
	}

	nctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	event := notify.NewEvent(order.CustomerPhone, order.OrderNumber, order.Status)
	if err := s.Dispatcher.Notify(nctx, event); err != nil {
		logging.FromContext(ctx).Error("notification dispatch failed",
			"order_number", order.OrderNumber, "status", order.Status, "error", err)
	}
}
