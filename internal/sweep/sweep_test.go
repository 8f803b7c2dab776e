package sweep

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/nodefield/internal/field"
)

func TestGridPoints(t *testing.T) {
	g := NewGrid(
		Axis{Name: LinkDistance, Values: []float64{100, 200, 300}},
		Axis{Name: AreaPerParticle, Values: []float64{5000, 10000}},
	)
	pts := g.Points()
	if len(pts) != 6 {
		t.Fatalf("got %d points, want 6", len(pts))
	}
	if pts[0][LinkDistance] != 100 || pts[0][AreaPerParticle] != 5000 {
		t.Errorf("first point = %v", pts[0])
	}
	if pts[1][LinkDistance] != 100 || pts[1][AreaPerParticle] != 10000 {
		t.Errorf("last axis should vary fastest, got %v", pts[1])
	}
	if pts[5][LinkDistance] != 300 || pts[5][AreaPerParticle] != 10000 {
		t.Errorf("last point = %v", pts[5])
	}

	if n := len(NewGrid().Points()); n != 1 {
		t.Errorf("empty grid has %d points, want 1", n)
	}
}

func TestApply(t *testing.T) {
	p, err := Apply(field.DefaultParams(), Point{LinkDistance: 150, MaxParticles: 20})
	if err != nil {
		t.Fatal(err)
	}
	if p.LinkDistance != 150 || p.MaxParticles != 20 {
		t.Errorf("Apply = %+v", p)
	}

	if _, err := Apply(field.DefaultParams(), Point{"gravity": 1}); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
	if _, err := Apply(field.DefaultParams(), Point{LinkDistance: -1}); !errors.Is(err, field.ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams, got %v", err)
	}
}

func TestEnsembleRun(t *testing.T) {
	e := &Ensemble{
		Base:      field.DefaultParams(),
		Width:     800,
		Height:    600,
		Ticks:     20,
		Seeds:     2,
		SeedStart: 11,
		Workers:   2,
	}
	pts := NewGrid(Axis{Name: LinkDistance, Values: []float64{100, 300}}).Points()

	runs, err := e.Run(context.Background(), pts)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 4 {
		t.Fatalf("got %d runs, want 4", len(runs))
	}
	for i, r := range runs {
		if r.Index != i/2 || r.Seed != 11+uint64(i%2) {
			t.Errorf("run %d = index %d seed %d", i, r.Index, r.Seed)
		}
	}

	// same seed, same positions: a longer reach can only add links
	for s := 0; s < 2; s++ {
		short, long := runs[s].Metrics["links_per_frame"], runs[2+s].Metrics["links_per_frame"]
		if short > long {
			t.Errorf("seed %d: %.1f links at 100 > %.1f at 300", s, short, long)
		}
	}

	again, err := e.Run(context.Background(), pts)
	if err != nil {
		t.Fatal(err)
	}
	if again[3].Metrics["links_per_frame"] != runs[3].Metrics["links_per_frame"] {
		t.Error("runs are not reproducible")
	}

	scores := Aggregate(runs, "links_per_frame")
	if len(scores) != 2 || scores[0].Runs != 2 {
		t.Fatalf("scores = %+v", scores)
	}
	best, ok := Best(scores, 1e9)
	if !ok || best.Index != 1 {
		t.Errorf("Best(huge) = %+v, want index 1", best)
	}
	best, _ = Best(scores, -1)
	if best.Index != 0 {
		t.Errorf("Best(-1) = %+v, want index 0", best)
	}
}

func TestEnsembleCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := &Ensemble{Base: field.DefaultParams(), Width: 100, Height: 100, Ticks: 5}
	if _, err := e.Run(ctx, NewGrid().Points()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestEnsembleRejectsBadPointUpFront(t *testing.T) {
	e := &Ensemble{Base: field.DefaultParams(), Width: 100, Height: 100, Ticks: 5, Seeds: 2}
	points := []Point{{"link_distance": 120}, {"gravity": 1}}
	runs, err := e.Run(context.Background(), points)
	if !errors.Is(err, ErrUnknownParam) {
		t.Fatalf("expected ErrUnknownParam, got %v", err)
	}
	if runs != nil {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestBestEmpty(t *testing.T) {
	if _, ok := Best(nil, 0); ok {
		t.Error("Best(nil) reported a score")
	}
}
