package orders

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/3marnadates-alt/3marna.art/domain/order"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any) {}
func (m *mockLogger) Info(_ string, _ ...any)  {}
func (m *mockLogger) Warn(_ string, _ ...any)  {}
func (m *mockLogger) Error(_ string, _ ...any) {}
func (m *mockLogger) With(_ ...any) types.Logger {
	return m
}
func (m *mockLogger) WithModule(_ string) types.Logger {
	return m
}
func (m *mockLogger) WithError(_ error) types.Logger {
	return m
}

func TestModule_HandleOrderPlaced(t *testing.T) {
	ctx := context.Background()
	m := NewModule(filepath.Join(t.TempDir(), "orders.db"), &mockLogger{})

	assert.False(t, m.Health(ctx).Healthy)
	require.NoError(t, m.Start(ctx))
	defer m.Stop(ctx)
	assert.True(t, m.Health(ctx).Healthy)

	data, err := json.Marshal(testEvent("52817", time.Now()))
	require.NoError(t, err)

	require.NoError(t, m.handleOrderPlaced(ctx, &mono.Msg{Data: data}))
	// Redelivery is ignored.
	require.NoError(t, m.handleOrderPlaced(ctx, &mono.Msg{Data: data}))

	page, err := m.Repository().List(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	rec, err := m.Repository().FindByNumber(ctx, "52817")
	require.NoError(t, err)
	assert.Equal(t, "الإسكندرية", rec.City)
	assert.Equal(t, float64(90), rec.DeliveryFee)
}

func TestModule_HandleOrderPlaced_NumberCollision(t *testing.T) {
	ctx := context.Background()
	m := NewModule(filepath.Join(t.TempDir(), "orders.db"), &mockLogger{})
	require.NoError(t, m.Start(ctx))
	defer m.Stop(ctx)

	first := testEvent("52817", time.Now().Add(-time.Minute))
	first.ID = "0b8f7c1e-5a9d-4f2e-8c3b-1d6e4a2f9b70"
	second := testEvent("52817", time.Now())
	second.ID = "9c2e4d6f-1b3a-4e5c-8d7f-0a1b2c3d4e5f"
	second.Customer.Name = "منى"
	second.Quote.FinalTotal = 245

	for _, e := range []order.OrderPlacedEvent{first, second} {
		data, err := json.Marshal(e)
		require.NoError(t, err)
		require.NoError(t, m.handleOrderPlaced(ctx, &mono.Msg{Data: data}))
	}

	page, err := m.Repository().List(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
}

func TestModule_HandleOrderPlaced_BadPayload(t *testing.T) {
	ctx := context.Background()
	m := NewModule(filepath.Join(t.TempDir(), "orders.db"), &mockLogger{})
	require.NoError(t, m.Start(ctx))
	defer m.Stop(ctx)

	assert.NoError(t, m.handleOrderPlaced(ctx, &mono.Msg{Data: []byte("not json")}))
}

func TestModule_HandleOrderPlaced_NotStarted(t *testing.T) {
	m := NewModule("", &mockLogger{})
	data, err := json.Marshal(testEvent("52817", time.Now()))
	require.NoError(t, err)

	assert.Error(t, m.handleOrderPlaced(context.Background(), &mono.Msg{Data: data}))
	assert.Equal(t, "orders", m.Name())
}
