package models_test

import (
	"testing"
	"time"

	"storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder_ApplyStatus_StampsDeliveredOnlyOnDelivered(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, status := range []models.OrderStatus{models.StatusProcessing, models.StatusShipped, models.StatusCancelled, models.StatusPending} {
		order := &models.Order{Status: models.StatusPending}
		order.ApplyStatus(status, now)
		assert.Equal(t, status, order.Status)
		assert.Nil(t, order.DeliveredAt, "status %s must not stamp delivery", status)
	}

	order := &models.Order{Status: models.StatusShipped}
	order.ApplyStatus(models.StatusDelivered, now)
	require.NotNil(t, order.DeliveredAt)
	assert.Equal(t, now, *order.DeliveredAt)
}

func TestOrder_ApplyStatus_KeepsExistingDeliveredAt(t *testing.T) {
	delivered := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	order := &models.Order{Status: models.StatusDelivered, DeliveredAt: &delivered}

	order.ApplyStatus(models.StatusCancelled, time.Now())

	require.NotNil(t, order.DeliveredAt)
	assert.Equal(t, delivered, *order.DeliveredAt)
}

func TestLifecycle_Strict(t *testing.T) {
	lc := models.Lifecycle{Strict: true}

	tests := []struct {
		from, to models.OrderStatus
		ok       bool
	}{
		{models.StatusPending, models.StatusProcessing, true},
		{models.StatusProcessing, models.StatusShipped, true},
		{models.StatusShipped, models.StatusDelivered, true},
		{models.StatusPending, models.StatusShipped, true},
		{models.StatusPending, models.StatusCancelled, true},
		{models.StatusShipped, models.StatusCancelled, true},
		{models.StatusShipped, models.StatusProcessing, false},
		{models.StatusPending, models.StatusPending, false},
		{models.StatusDelivered, models.StatusCancelled, false},
		{models.StatusCancelled, models.StatusPending, false},
		{models.StatusPending, models.OrderStatus("Lost"), false},
	}

	for _, tt := range tests {
		err := lc.Check(tt.from, tt.to)
		if tt.ok {
			assert.NoError(t, err, "%s -> %s", tt.from, tt.to)
		} else {
			assert.Error(t, err, "%s -> %s", tt.from, tt.to)
		}
	}
}

func TestLifecycle_Permissive(t *testing.T) {
	lc := models.Lifecycle{}

	assert.NoError(t, lc.Check(models.StatusDelivered, models.StatusPending))
	assert.NoError(t, lc.Check(models.StatusCancelled, models.StatusShipped))
	assert.ErrorIs(t, lc.Check(models.StatusPending, "shipped"), models.ErrInvalidStatus)
}
