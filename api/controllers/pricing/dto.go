package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/johnkommas/corgres/api/validators"
	"github.com/johnkommas/corgres/internal/allocation"
	pricingsvc "github.com/johnkommas/corgres/internal/pricing"
	"github.com/johnkommas/corgres/pkg/enums"
	pkgerrors "github.com/johnkommas/corgres/pkg/errors"
	"github.com/johnkommas/corgres/pkg/types"
)

type quoteRequest struct {
	Items       []quoteItemPayload `json:"items" validate:"required,min=1,dive"`
	Origin      string             `json:"origin" validate:"required"`
	Destination string             `json:"destination" validate:"required"`
	Mode        string             `json:"mode" validate:"omitempty,oneof=road groupage"`

	ManualFreightEUR *decimal.Decimal `json:"manual_freight_eur"`

	CostPerM2         *decimal.Decimal `json:"cost_per_m2"`
	CostPerUnit       *decimal.Decimal `json:"cost_per_unit"`
	CostAreaM2PerUnit float64          `json:"cost_area_m2_per_unit" validate:"omitempty,gt=0"`

	KgPerM2           float64         `json:"kg_per_m2" validate:"omitempty,gt=0"`
	Margin            decimal.Decimal `json:"margin" validate:"required"`
	IncludePalletCost bool            `json:"include_pallet_cost"`
}

type quoteItemPayload struct {
	ID            string  `json:"id"`
	Description   string  `json:"description"`
	Material      string  `json:"material" validate:"required,oneof=ceramic porcelain marble granite quartz"`
	ThicknessMM   float64 `json:"thickness_mm" validate:"required,gt=0"`
	Quantity      int     `json:"quantity" validate:"required,min=1"`
	UnitWeightKg  float64 `json:"unit_weight_kg" validate:"omitempty,gt=0"`
	UnitVolumeM3  float64 `json:"unit_volume_m3" validate:"omitempty,gt=0"`
	AreaM2PerUnit float64 `json:"area_m2_per_unit" validate:"required,gt=0"`
}

func (q quoteRequest) toInput() (pricingsvc.Request, error) {
	mode, err := parseMode(q.Mode)
	if err != nil {
		return pricingsvc.Request{}, err
	}

	items := make([]allocation.ShipmentItem, 0, len(q.Items))
	for i, payload := range q.Items {
		material, err := parseMaterial(payload.Material)
		if err != nil {
			return pricingsvc.Request{}, err
		}
		items = append(items, allocation.ShipmentItem{
			ID:            itemID(payload.ID, i),
			Description:   validators.SanitizeString(payload.Description, 256),
			Material:      material,
			ThicknessMM:   payload.ThicknessMM,
			Quantity:      payload.Quantity,
			UnitWeightKg:  payload.UnitWeightKg,
			UnitVolumeM3:  payload.UnitVolumeM3,
			AreaM2PerUnit: payload.AreaM2PerUnit,
		})
	}

	return pricingsvc.Request{
		Items:             items,
		Origin:            q.Origin,
		Destination:       q.Destination,
		Mode:              mode,
		ManualFreightEUR:  q.ManualFreightEUR,
		CostPerM2:         q.CostPerM2,
		CostPerUnit:       q.CostPerUnit,
		CostAreaM2PerUnit: q.CostAreaM2PerUnit,
		KgPerM2:           q.KgPerM2,
		Margin:            q.Margin,
		IncludePalletCost: q.IncludePalletCost,
	}, nil
}

type quoteResponse struct {
	QuoteID  string           `json:"quote_id"`
	Manifest manifestResponse `json:"manifest"`
	Weights  weightsResponse  `json:"weights"`
	Cost     costResponse     `json:"cost"`
	Pricing  pricingResponse  `json:"pricing"`
}

type manifestResponse struct {
	PalletCount int              `json:"pallet_count"`
	Pallets     []palletResponse `json:"pallets"`
}

type palletResponse struct {
	Type        string               `json:"type"`
	Mixed       bool                 `json:"mixed"`
	WeightKg    float64              `json:"weight_kg"`
	VolumeM3    float64              `json:"volume_m3"`
	Assignments []assignmentResponse `json:"assignments"`
}

type assignmentResponse struct {
	ItemID   string `json:"item_id"`
	Material string `json:"material"`
	Quantity int    `json:"quantity"`
}

type weightsResponse struct {
	GoodsKg      float64 `json:"goods_kg"`
	TareKg       float64 `json:"tare_kg"`
	ChargeableKg float64 `json:"chargeable_kg"`
	TotalAreaM2  float64 `json:"total_area_m2"`
}

type costResponse struct {
	GoodsEUR      string         `json:"goods_eur"`
	FreightEUR    string         `json:"freight_eur"`
	SurchargeEUR  string         `json:"surcharge_eur"`
	ExtrasEUR     string         `json:"extras_eur"`
	PalletCostEUR string         `json:"pallet_cost_eur"`
	TotalEUR      string         `json:"total_eur"`
	Lines         []lineResponse `json:"lines"`
}

type lineResponse struct {
	Code      string `json:"code"`
	Label     string `json:"label"`
	AmountEUR string `json:"amount_eur"`
}

type pricingResponse struct {
	LandedCostPerM2       string         `json:"landed_cost_per_m2"`
	PrimaryPricePerM2     string         `json:"primary_price_per_m2"`
	AlternativePricePerM2 string         `json:"alternative_price_per_m2"`
	AlternativeSteps      []stepResponse `json:"alternative_steps"`
	Margin                string         `json:"margin"`
	MarkupEquivalent      string         `json:"markup_equivalent"`
}

type stepResponse struct {
	Name       string `json:"name"`
	ValuePerM2 string `json:"value_per_m2"`
}

func newQuoteResponse(quoteID string, result *pricingsvc.Result) quoteResponse {
	return quoteResponse{
		QuoteID:  quoteID,
		Manifest: newManifestResponse(result.Manifest),
		Weights: weightsResponse{
			GoodsKg:      result.Breakdown.GoodsWeightKg,
			TareKg:       result.Breakdown.TareWeightKg,
			ChargeableKg: result.Breakdown.ChargeableKg,
			TotalAreaM2:  result.TotalAreaM2,
		},
		Cost:    newCostResponse(result),
		Pricing: newPricingResponse(result),
	}
}

func newManifestResponse(manifest *allocation.Manifest) manifestResponse {
	pallets := make([]palletResponse, 0, manifest.Count())
	for _, p := range manifest.Pallets {
		assignments := make([]assignmentResponse, 0, len(p.Assignments))
		for _, a := range p.Assignments {
			assignments = append(assignments, assignmentResponse{
				ItemID:   a.ItemID,
				Material: a.Material.String(),
				Quantity: a.Quantity,
			})
		}
		pallets = append(pallets, palletResponse{
			Type:        p.Type.String(),
			Mixed:       p.Mixed(),
			WeightKg:    p.WeightKg,
			VolumeM3:    p.VolumeM3,
			Assignments: assignments,
		})
	}
	return manifestResponse{PalletCount: manifest.Count(), Pallets: pallets}
}

func newCostResponse(result *pricingsvc.Result) costResponse {
	lines := make([]lineResponse, 0, len(result.Breakdown.Lines))
	for _, line := range result.Breakdown.Lines {
		lines = append(lines, lineResponse{
			Code:      line.Code,
			Label:     line.Label,
			AmountEUR: types.FormatAmount(line.AmountEUR),
		})
	}
	return costResponse{
		GoodsEUR:      types.FormatAmount(result.GoodsCostEUR),
		FreightEUR:    types.FormatAmount(result.Breakdown.FreightEUR),
		SurchargeEUR:  types.FormatAmount(result.Breakdown.SurchargeEUR),
		ExtrasEUR:     types.FormatAmount(result.Breakdown.ExtrasEUR),
		PalletCostEUR: types.FormatAmount(result.PalletCostEUR),
		TotalEUR:      types.FormatAmount(result.TotalCostEUR),
		Lines:         lines,
	}
}

func newPricingResponse(result *pricingsvc.Result) pricingResponse {
	steps := make([]stepResponse, 0, len(result.AlternativeSteps))
	for _, step := range result.AlternativeSteps {
		steps = append(steps, stepResponse{
			Name:       step.Name,
			ValuePerM2: types.FormatAmount(step.Value),
		})
	}
	return pricingResponse{
		LandedCostPerM2:       types.FormatAmount(result.LandedCostPerM2),
		PrimaryPricePerM2:     types.FormatAmount(result.PrimaryPricePerM2),
		AlternativePricePerM2: types.FormatAmount(result.AlternativePricePerM2),
		AlternativeSteps:      steps,
		Margin:                types.FormatRate(result.Margin),
		MarkupEquivalent:      types.FormatRate(result.MarkupEquivalent),
	}
}

func parseMaterial(raw string) (enums.MaterialClass, error) {
	material, err := enums.ParseMaterialClass(raw)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid material class")
	}
	return material, nil
}
