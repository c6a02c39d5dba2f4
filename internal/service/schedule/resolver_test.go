package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/logger"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/ptr"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

var (
	monday  = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	tuesday = monday.AddDate(0, 0, 1)
	sunday  = monday.AddDate(0, 0, 6)
)

func seededResolver(capacity int) (*memory.Store, *Resolver) {
	store := memory.NewStore()
	memory.Seed(store)
	return store, NewResolver(store.Schedule(), capacity, logger.Nop())
}

func TestResolveDay(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(s *memory.Store)
		date      time.Time
		wantOpen  bool
		wantHours string
		wantCap   int
	}{
		{
			name:      "weekly default with default capacity",
			date:      monday,
			wantOpen:  true,
			wantHours: "08:00-17:00",
			wantCap:   2,
		},
		{
			name:    "closed weekday",
			date:    sunday,
			wantCap: 0,
		},
		{
			name: "override closes an open weekday",
			setup: func(s *memory.Store) {
				s.SetOverride(domain.CalendarOverrideEntry{Date: tuesday, IsOpen: false})
				s.SetCapacityPlan(tuesday, 5)
			},
			date:    tuesday,
			wantCap: 0,
		},
		{
			name: "override opens a closed weekday",
			setup: func(s *memory.Store) {
				s.SetOverride(domain.CalendarOverrideEntry{
					Date:      sunday,
					IsOpen:    true,
					OpenTime:  ptr.Ptr(types.MustFromString("09:00")),
					CloseTime: ptr.Ptr(types.MustFromString("12:00")),
				})
			},
			date:      sunday,
			wantOpen:  true,
			wantHours: "09:00-12:00",
			wantCap:   2,
		},
		{
			name: "capacity plan applies to weekly hours",
			setup: func(s *memory.Store) {
				s.SetCapacityPlan(monday, 4)
			},
			date:      monday,
			wantOpen:  true,
			wantHours: "08:00-17:00",
			wantCap:   4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, resolver := seededResolver(2)
			if tt.setup != nil {
				tt.setup(store)
			}

			day, err := resolver.ResolveDay(context.Background(), tt.date)
			require.NoError(t, err)

			assert.Equal(t, tt.wantOpen, day.IsOpen)
			assert.Equal(t, tt.wantCap, day.EffectiveCapacity)
			if !tt.wantOpen {
				assert.Nil(t, day.OpenTime)
				assert.Nil(t, day.CloseTime)
				return
			}
			require.NotNil(t, day.OpenTime)
			require.NotNil(t, day.CloseTime)
			assert.Equal(t, tt.wantHours, day.OpenTime.String()+"-"+day.CloseTime.String())
		})
	}
}

func TestResolveDay_MissingWeekdayIsClosed(t *testing.T) {
	resolver := NewResolver(memory.NewStore().Schedule(), 3, logger.Nop())

	day, err := resolver.ResolveDay(context.Background(), monday)
	require.NoError(t, err)
	assert.False(t, day.IsOpen)
	assert.Zero(t, day.EffectiveCapacity)
}

func TestResolveDay_TruncatesTimeOfDay(t *testing.T) {
	_, resolver := seededResolver(1)

	day, err := resolver.ResolveDay(context.Background(), monday.Add(15*time.Hour+30*time.Minute))
	require.NoError(t, err)
	assert.True(t, day.Date.Equal(monday))
}
