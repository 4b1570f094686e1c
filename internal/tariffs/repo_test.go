package tariffs

import (
	"context"
	"testing"

	"github.com/johnkommas/corgres/pkg/enums"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	err = conn.AutoMigrate(
		&originRow{}, &freightBandRow{}, &groupageBandRow{},
		&destinationRow{}, &palletRow{}, &materialRuleRow{},
	)
	if err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func TestRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	original := fixtureSet()
	if err := repo.Save(ctx, original); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := Validate(loaded); err != nil {
		t.Fatalf("loaded set should validate: %v", err)
	}

	es, err := loaded.Origin("ES")
	if err != nil {
		t.Fatalf("ES origin lost in round trip: %v", err)
	}
	if es.Mode != RateModeBands || !es.GroupageEligible {
		t.Fatalf("ES rule mangled: %+v", es)
	}
	if len(es.Bands) != 3 {
		t.Fatalf("expected 3 ES bands, got %d", len(es.Bands))
	}
	if es.DefaultEURPerKg == nil || !es.DefaultEURPerKg.Equal(*original.Origins["ES"].DefaultEURPerKg) {
		t.Fatalf("ES default rate mangled: %+v", es.DefaultEURPerKg)
	}

	pl, err := loaded.Origin("PL")
	if err != nil {
		t.Fatalf("PL origin lost in round trip: %v", err)
	}
	if pl.Mode != RateModeManual || len(pl.Bands) != 0 {
		t.Fatalf("PL rule mangled: %+v", pl)
	}

	crete, err := loaded.Destination("GR-crete")
	if err != nil {
		t.Fatalf("crete lost in round trip: %v", err)
	}
	if !crete.Island || !crete.SurchargeEURPerKg.Equal(original.Destinations["GR-crete"].SurchargeEURPerKg) {
		t.Fatalf("crete rule mangled: %+v", crete)
	}

	eu, err := loaded.Pallet(enums.PalletTypeEU)
	if err != nil {
		t.Fatalf("eu pallet lost in round trip: %v", err)
	}
	if eu.MaxWeightKg != 1200 || !eu.HandlingCostEUR.Equal(original.Pallets[enums.PalletTypeEU].HandlingCostEUR) {
		t.Fatalf("eu pallet mangled: %+v", eu)
	}

	ceramic, err := loaded.Material(enums.MaterialCeramic)
	if err != nil {
		t.Fatalf("ceramic rule lost in round trip: %v", err)
	}
	if !ceramic.Mixable || ceramic.EUMaxThicknessMM == nil || *ceramic.EUMaxThicknessMM != 14 {
		t.Fatalf("ceramic rule mangled: %+v", ceramic)
	}

	if len(loaded.Groupage) != len(original.Groupage) {
		t.Fatalf("groupage bands lost: %d != %d", len(loaded.Groupage), len(original.Groupage))
	}
}

func TestRepositorySaveReplacesPrevious(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	if err := repo.Save(ctx, fixtureSet()); err != nil {
		t.Fatalf("first save: %v", err)
	}

	smaller := fixtureSet()
	delete(smaller.Origins, "IT")
	if err := repo.Save(ctx, smaller); err != nil {
		t.Fatalf("second save: %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := loaded.Origin("IT"); err == nil {
		t.Fatal("IT origin should be gone after replacement save")
	}
	if len(loaded.Origins) != 2 {
		t.Fatalf("expected 2 origins, got %d", len(loaded.Origins))
	}
}
