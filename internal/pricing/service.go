package pricing

import (
	"context"

	"github.com/johnkommas/corgres/internal/allocation"
	"github.com/johnkommas/corgres/internal/freight"
	"github.com/johnkommas/corgres/internal/markup"
	"github.com/johnkommas/corgres/internal/tariffs"
	"github.com/johnkommas/corgres/pkg/config"
	pkgerrors "github.com/johnkommas/corgres/pkg/errors"
	"github.com/shopspring/decimal"
)

// Service is the sole public pricing entry point. It is stateless; each
// call prices one request against the tariff snapshot current at entry.
type Service interface {
	Price(ctx context.Context, req Request) (*Result, error)
}

type snapshotter interface {
	Snapshot() *tariffs.Set
}

type service struct {
	store      snapshotter
	allocator  allocation.Allocator
	calculator freight.Calculator
	chain      markup.Chain

	defaultKgPerM2 float64
}

// NewService wires the pricing pipeline.
func NewService(store snapshotter, alloc allocation.Allocator, calc freight.Calculator, cfg config.PricingConfig) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "pricing service requires a tariff store")
	}
	if alloc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "pricing service requires an allocator")
	}
	if calc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "pricing service requires a freight calculator")
	}
	return &service{
		store:          store,
		allocator:      alloc,
		calculator:     calc,
		chain:          markup.NewChain(cfg.StageAMarkup, cfg.StageBMarkup),
		defaultKgPerM2: cfg.DefaultKgPerM2,
	}, nil
}

func (s *service) Price(ctx context.Context, req Request) (*Result, error) {
	rules := s.store.Snapshot()

	items, err := s.prepareItems(req)
	if err != nil {
		return nil, err
	}

	costPerM2, err := markup.Normalize(markup.CostInput{
		CostPerM2:     req.CostPerM2,
		CostPerUnit:   req.CostPerUnit,
		AreaM2PerUnit: req.CostAreaM2PerUnit,
	})
	if err != nil {
		return nil, err
	}

	manifest, err := s.allocator.Allocate(items, rules)
	if err != nil {
		return nil, err
	}

	var totalAreaM2 float64
	for _, item := range items {
		totalAreaM2 += item.TotalAreaM2()
	}

	breakdown, err := s.calculator.Compute(manifest, rules, freight.Options{
		Origin:           tariffs.NormalizeOrigin(req.Origin),
		Destination:      tariffs.NormalizeZone(req.Destination),
		Mode:             req.Mode,
		ManualFreightEUR: req.ManualFreightEUR,
		TotalAreaM2:      totalAreaM2,
	})
	if err != nil {
		return nil, err
	}

	return s.assemble(req, manifest, breakdown, costPerM2, totalAreaM2)
}

// prepareItems validates the cargo lines and fills derived unit figures:
// weight from area and the kg-per-m2 factor, volume from area and slab
// thickness.
func (s *service) prepareItems(req Request) ([]allocation.ShipmentItem, error) {
	if len(req.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipment has no items")
	}

	kgPerM2 := req.KgPerM2
	if kgPerM2 == 0 {
		kgPerM2 = s.defaultKgPerM2
	}
	if kgPerM2 <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "kg-per-m2 factor must be positive")
	}

	items := make([]allocation.ShipmentItem, len(req.Items))
	copy(items, req.Items)
	for i := range items {
		item := &items[i]
		if item.Quantity <= 0 {
			return nil, itemErr(item.ID, "quantity must be positive")
		}
		if item.AreaM2PerUnit <= 0 {
			return nil, itemErr(item.ID, "area per unit must be positive")
		}
		if item.ThicknessMM <= 0 {
			return nil, itemErr(item.ID, "thickness must be positive")
		}
		if item.UnitWeightKg < 0 || item.UnitVolumeM3 < 0 {
			return nil, itemErr(item.ID, "unit weight and volume must not be negative")
		}
		if item.UnitWeightKg == 0 {
			item.UnitWeightKg = item.AreaM2PerUnit * kgPerM2
		}
		if item.UnitVolumeM3 == 0 {
			item.UnitVolumeM3 = item.AreaM2PerUnit * item.ThicknessMM / 1000.0
		}
	}
	return items, nil
}

func itemErr(id, msg string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, msg).
		WithDetails(map[string]any{"item_id": id})
}

func (s *service) assemble(req Request, manifest *allocation.Manifest, breakdown *freight.CostBreakdown, costPerM2 decimal.Decimal, totalAreaM2 float64) (*Result, error) {
	area := decimal.NewFromFloat(totalAreaM2)
	goodsCost := costPerM2.Mul(area)

	// Retail prices always price the pallet handling in; the include
	// flag moves only the reported total.
	landedTotal := goodsCost.Add(breakdown.LogisticsEUR(true))
	landedPerM2 := landedTotal.Div(area)

	primary, err := markup.MarginRule{Margin: req.Margin}.Apply(landedPerM2)
	if err != nil {
		return nil, err
	}
	alternative, steps := s.chain.Apply(costPerM2)

	result := &Result{
		Manifest:              manifest,
		Breakdown:             breakdown,
		TotalAreaM2:           totalAreaM2,
		GoodsCostEUR:          goodsCost,
		TotalCostEUR:          goodsCost.Add(breakdown.LogisticsEUR(req.IncludePalletCost)),
		LandedCostPerM2:       landedPerM2,
		PrimaryPricePerM2:     primary,
		AlternativePricePerM2: alternative,
		AlternativeSteps:      steps,
		Margin:                req.Margin,
		MarkupEquivalent:      markup.MarkupEquivalent(landedPerM2, primary),
	}
	if req.IncludePalletCost {
		result.PalletCostEUR = breakdown.PalletCostEUR
	}
	return result, nil
}
