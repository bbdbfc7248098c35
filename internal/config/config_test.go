package config

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"campaign-sim/internal/campaign"
)

const schemaPath = "../../schemas/campaign.cue"

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestLoadConfig_Valid(t *testing.T) {
	cfg, err := Load("testdata/valid.yaml", schemaPath)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if len(cfg.UFOTypes) != 3 || cfg.UFOTypes[1].Name != "fighter" {
		t.Fatalf("unexpected ufo types: %+v", cfg.UFOTypes)
	}
	if cfg.Installations[1].AlienInterest != 2.5 {
		t.Fatalf("unexpected installation weight: %+v", cfg.Installations[1])
	}
	lo, hi, err := cfg.Descent()
	if err != nil || lo != time.Hour || hi != 3*time.Hour {
		t.Fatalf("descent = %s..%s (%v)", lo, hi, err)
	}
}

func TestLoadConfig_SchemaRejects(t *testing.T) {
	for _, name := range []string{"testdata/bad_latitude.yaml", "testdata/no_ufo_types.yaml"} {
		if _, err := Load(name, schemaPath); err == nil {
			t.Fatalf("%s: expected schema error", name)
		}
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := Load("testdata/nope.yaml", schemaPath); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestBuildCampaign(t *testing.T) {
	cfg, err := Load("testdata/valid.yaml", schemaPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c, err := cfg.Build("", discard(), nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if c.ID != "campaign-01" {
		t.Fatalf("id = %q", c.ID)
	}
	want := time.Date(2084, time.March, 1, 0, 0, 0, 0, time.UTC)
	if !c.Now().Equal(want) {
		t.Fatalf("start = %s, want %s", c.Now(), want)
	}
	if len(c.Bases) != 2 || len(c.Installations) != 2 || len(c.Aircraft) != 3 {
		t.Fatalf("registries not populated: %d bases, %d installations, %d aircraft",
			len(c.Bases), len(c.Installations), len(c.Aircraft))
	}
	a := c.Aircraft[0]
	if a.Homebase != c.Bases[0] || a.Pos != c.Bases[0].Pos || a.FuelKM != a.RangeKM {
		t.Fatalf("aircraft not stationed at its homebase: %+v", a)
	}
	if got := c.Interest.Value(campaign.InterestRecon); got != 1.0 {
		t.Fatalf("recon interest = %v", got)
	}
	alpha := c.Bases[0]
	if !alpha.CommandCentre || alpha.Hangars != 3 || alpha.QuartersCapacity() != 20 || alpha.Employees != 12 {
		t.Fatalf("alpha layout: cc=%v hangars=%d quarters=%d employees=%d",
			alpha.CommandCentre, alpha.Hangars, alpha.QuartersCapacity(), alpha.Employees)
	}
	// entrance, command centre, three hangars and the quarters
	if len(alpha.Buildings) != 6 {
		t.Fatalf("alpha buildings = %d, want 6", len(alpha.Buildings))
	}
	if c.Credits != 500000 || c.BaseCost != 100000 {
		t.Fatalf("credits = %d base cost = %d", c.Credits, c.BaseCost)
	}
}

func TestBuildCampaign_UnknownHomebase(t *testing.T) {
	cfg, err := Load("testdata/unknown_homebase.yaml", schemaPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := cfg.Build("x", discard(), nil); err == nil {
		t.Fatalf("expected unknown homebase error")
	}
}

func TestLoadRuntime_Env(t *testing.T) {
	t.Setenv("CLUSTER_ID", "campaign-42")
	t.Setenv("TICK_INTERVAL", "250ms")
	t.Setenv("GREPTIMEDB_ENDPOINT", "greptime:4001")

	rt := LoadRuntime(NewViper())
	if rt.ClusterID != "campaign-42" || rt.Tick != 250*time.Millisecond || rt.GreptimeHost != "greptime:4001" {
		t.Fatalf("env not applied: %+v", rt)
	}
	if rt.GreptimeDB != "public" || rt.TimeScale != 3600 || rt.AdminAddr != ":8080" {
		t.Fatalf("defaults not applied: %+v", rt)
	}
}
