package refund

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// FeePolicy комиссия за позднюю отмену (внутри дедлайна)
// hoursBefore - сколько часов оставалось до начала приема в момент отмены
type FeePolicy interface {
	Fee(original float64, hoursBefore float64) float64
	Name() string
}

// NoFee поздняя отмена без комиссии
type NoFee struct{}

func (NoFee) Fee(float64, float64) float64 { return 0 }
func (NoFee) Name() string                { return "none" }

// FlatFee фиксированная комиссия
type FlatFee struct {
	Amount float64
}

func (p FlatFee) Fee(float64, float64) float64 { return p.Amount }
func (p FlatFee) Name() string                { return "flat" }

// ProportionalFee доля от оплаченной суммы (Rate в диапазоне 0..1)
type ProportionalFee struct {
	Rate float64
}

func (p ProportionalFee) Fee(original float64, _ float64) float64 {
	return original * p.Rate
}
func (p ProportionalFee) Name() string { return "proportional" }

// Tier ступень: отмена менее чем за WithinHours часов - доля Rate
type Tier struct {
	WithinHours float64
	Rate        float64
}

// TieredFee доля зависит от того, насколько поздно отменили
// Применяется ступень с наименьшим WithinHours, покрывающим hoursBefore
type TieredFee struct {
	Tiers []Tier
}

func (p TieredFee) Fee(original float64, hoursBefore float64) float64 {
	tiers := make([]Tier, len(p.Tiers))
	copy(tiers, p.Tiers)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].WithinHours < tiers[j].WithinHours })

	for _, t := range tiers {
		if hoursBefore < t.WithinHours {
			return original * t.Rate
		}
	}
	return 0
}
func (p TieredFee) Name() string { return "tiered" }

// NewPolicy создает политику по имени из конфигурации
func NewPolicy(name string, amount, rate float64, tiers []Tier) (FeePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return NoFee{}, nil
	case "flat":
		return FlatFee{Amount: amount}, nil
	case "proportional":
		if rate < 0 || rate > 1 {
			return nil, fmt.Errorf("%w: rate %v out of [0,1]", ErrInvalidPolicy, rate)
		}
		return ProportionalFee{Rate: rate}, nil
	case "tiered":
		if len(tiers) == 0 {
			return nil, fmt.Errorf("%w: tiered policy needs at least one tier", ErrInvalidPolicy)
		}
		return TieredFee{Tiers: tiers}, nil
	}
	return nil, fmt.Errorf("%w: unknown policy %q", ErrInvalidPolicy, name)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
