package capacity

import (
	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

// Ledger занятость блоков сетки одного дня
// Для каждого блока [start, start+30) хранит число занимающих вместимость записей,
// пересекающих этот блок. Одни и те же проверки используются при бронировании,
// одобрении, переносе и построении списка свободных слотов.
type Ledger struct {
	day          *domain.ClinicDaySnapshot
	grid         []types.TimeString
	index        map[types.TimeString]int
	usage        []int
	appointments []*domain.Appointment
}

// NewLedger строит занятость дня по записям
// Записи других дат и не занимающие вместимость статусы игнорируются
func NewLedger(day *domain.ClinicDaySnapshot, appointments []*domain.Appointment) *Ledger {
	grid := day.Grid()

	l := &Ledger{
		day:          day,
		grid:         grid,
		index:        make(map[types.TimeString]int, len(grid)),
		usage:        make([]int, len(grid)),
		appointments: make([]*domain.Appointment, 0, len(appointments)),
	}
	for i, block := range grid {
		l.index[block] = i
	}

	for _, a := range appointments {
		if !a.CountsTowardCapacity() || !domain.SameDate(a.Date, day.Date) {
			continue
		}
		l.appointments = append(l.appointments, a)
		for i, block := range grid {
			if overlapsBlock(a.TimeSlot, block) {
				l.usage[i]++
			}
		}
	}

	return l
}

// Grid сетка дня
func (l *Ledger) Grid() []types.TimeString {
	return l.grid
}

// Capacity эффективная вместимость дня
func (l *Ledger) Capacity() int {
	return l.day.EffectiveCapacity
}

// Usage число записей, занимающих блок (0 для времени вне сетки)
func (l *Ledger) Usage(block types.TimeString) int {
	i, ok := l.index[block]
	if !ok {
		return 0
	}
	return l.usage[i]
}

// CanFit проверяет, что blocks последовательных блоков начиная со start свободны
// Останавливается на первом блоке вне сетки или заполненном до вместимости
// и возвращает его в CapacityError.FullAt.
// excludeID исключает запись из подсчета (одобрение и перенос самой записи)
func (l *Ledger) CanFit(start types.TimeString, blocks int, excludeID *int64) error {
	first, ok := l.index[start]
	if !ok {
		return domain.NewCapacityError(start)
	}
	if blocks < 1 {
		blocks = 1
	}

	excluded := l.find(excludeID)

	for k := 0; k < blocks; k++ {
		i := first + k
		if i >= len(l.grid) {
			return domain.NewCapacityError(blockAt(start, k))
		}
		if l.usageExcluding(i, excluded) >= l.day.EffectiveCapacity {
			return domain.NewCapacityError(l.grid[i])
		}
	}

	return nil
}

// Remaining свободные места в самом загруженном из blocks блоков начиная со start
// 0, если диапазон не помещается в сетку
func (l *Ledger) Remaining(start types.TimeString, blocks int, excludeID *int64) int {
	first, ok := l.index[start]
	if !ok {
		return 0
	}
	if blocks < 1 {
		blocks = 1
	}
	if first+blocks > len(l.grid) {
		return 0
	}

	excluded := l.find(excludeID)

	remaining := l.day.EffectiveCapacity
	for i := first; i < first+blocks; i++ {
		free := l.day.EffectiveCapacity - l.usageExcluding(i, excluded)
		if free < remaining {
			remaining = free
		}
	}
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (l *Ledger) find(id *int64) *domain.Appointment {
	if id == nil {
		return nil
	}
	for _, a := range l.appointments {
		if a.ID == *id {
			return a
		}
	}
	return nil
}

func (l *Ledger) usageExcluding(i int, excluded *domain.Appointment) int {
	used := l.usage[i]
	if excluded != nil && overlapsBlock(excluded.TimeSlot, l.grid[i]) {
		used--
	}
	return used
}

func overlapsBlock(slot types.TimeRange, block types.TimeString) bool {
	end, err := block.AddMinutes(domain.BlockMinutes)
	if err != nil {
		end = types.TimeString("23:59")
	}
	return slot.Overlaps(types.TimeRange{Start: block, End: end})
}

// blockAt время k-го блока от start (для FullAt за пределами сетки)
func blockAt(start types.TimeString, k int) types.TimeString {
	t, err := start.AddMinutes(k * domain.BlockMinutes)
	if err != nil {
		return start
	}
	return t
}
