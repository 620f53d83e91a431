package messaging

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sales-reporter/backend/internal/domain/entity"
	domainerror "github.com/sales-reporter/backend/internal/domain/error"
)

func sampleReport() *entity.SalesReport {
	return &entity.SalesReport{
		Date:             time.Date(2025, 1, 25, 0, 0, 0, 0, time.UTC),
		TotalSalesAmount: decimal.NewFromInt(1200),
		PerItemSalesSummary: []entity.ItemSalesSummary{
			{SKU: "ITEM001", TotalQuantitySold: 5},
			{SKU: "ITEM002", TotalQuantitySold: 3},
		},
	}
}

func TestPublisher_ChannelUnavailable(t *testing.T) {
	broker := NewBroker(testConfig(), nil, nil)
	publisher := NewPublisher(broker)

	assert.NotPanics(t, func() {
		assert.NoError(t, publisher.Publish(context.Background(), sampleReport()))
	})
}

func TestPublisher_Publish(t *testing.T) {
	broker := NewBroker(testConfig(), nil, nil)
	ch := newFakeChannel()
	broker.publishCh = ch

	fixed := time.Date(2025, 1, 26, 1, 0, 0, 0, time.UTC)
	publisher := NewPublisher(broker)
	publisher.now = func() time.Time { return fixed }

	require.NoError(t, publisher.Publish(context.Background(), sampleReport()))

	require.Len(t, ch.published, 1)
	msg := ch.published[0]
	assert.Equal(t, DefaultQueueName, ch.routingKey)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, "utf-8", msg.ContentEncoding)
	assert.Empty(t, msg.Expiration)
	assert.NotEmpty(t, msg.MessageId)
	assert.Equal(t, fixed, msg.Timestamp)
	assert.JSONEq(t,
		`{"date":"2025-01-25T00:00:00.000Z","totalSalesAmount":1200,"perItemSalesSummary":[{"sku":"ITEM001","totalQuantitySold":5},{"sku":"ITEM002","totalQuantitySold":3}]}`,
		string(msg.Body),
	)
}

func TestPublisher_PublishErrors(t *testing.T) {
	t.Run("closed channel is treated as unavailable", func(t *testing.T) {
		broker := NewBroker(testConfig(), nil, nil)
		ch := newFakeChannel()
		ch.publishErr = fmt.Errorf("publish: %w", amqp.ErrClosed)
		broker.publishCh = ch

		assert.NoError(t, NewPublisher(broker).Publish(context.Background(), sampleReport()))
	})

	t.Run("broker error is reported", func(t *testing.T) {
		broker := NewBroker(testConfig(), nil, nil)
		ch := newFakeChannel()
		ch.publishErr = errors.New("frame too large")
		broker.publishCh = ch

		err := NewPublisher(broker).Publish(context.Background(), sampleReport())
		require.Error(t, err)
		assert.True(t, errors.Is(err, domainerror.ErrReportPublishFailed))

		var rptErr *domainerror.ReportError
		require.True(t, errors.As(err, &rptErr))
		assert.Equal(t, domainerror.ErrCodeReportPublishFailed, rptErr.Code)
	})
}
