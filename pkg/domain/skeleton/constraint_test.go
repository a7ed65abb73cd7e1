// 指示: miu200521358
package skeleton

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/miu200521358/mu_humanoid/pkg/shared/base/merr"
)

func TestGateDriverIsThresholdGated(t *testing.T) {
	driver := NewGateDriver("BendIndex.L", 0.7, 0.3)
	tests := []struct {
		value float64
		want  float64
	}{
		{value: 0.2, want: 0},
		{value: 0.7, want: 0},
		{value: 0.775, want: 0.25},
		{value: 0.85, want: 0.5},
		{value: 1.0, want: 1},
		{value: 1.5, want: 1},
	}
	for _, tt := range tests {
		got, err := driver.Evaluate(tt.value)
		if err != nil {
			t.Fatalf("evaluate failed: %v", err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("gate mismatch: value=%f got=%f want=%f", tt.value, got, tt.want)
		}
	}
}

func TestGateDriverIsMonotonic(t *testing.T) {
	driver := NewGateDriver("BendMiddle.R", 0.4, 0.3)
	prev := -1.0
	for s := 0.0; s <= 1.2; s += 0.01 {
		got, err := driver.Evaluate(s)
		if err != nil {
			t.Fatalf("evaluate failed: %v", err)
		}
		if got < prev {
			t.Fatalf("gate should not decrease: s=%f got=%f prev=%f", s, got, prev)
		}
		prev = got
	}
}

func TestDriverEvaluateReportsBrokenExpression(t *testing.T) {
	driver := &Driver{Expression: "min(scale,", SourceBone: "Bend", SourceChannel: ChannelScaleY}
	_, err := driver.Evaluate(1)
	if merr.ExtractErrorID(err) != "21007" {
		t.Fatalf("expected error id 21007, got %s", merr.ExtractErrorID(err))
	}
}

func TestTransformDerivedAngleUsesMultiple(t *testing.T) {
	c := NewTransformConstraint("BendThumb.L", AxisX, Range{Min: -1, Max: 1}, Range{Min: -3, Max: 3}, MixBefore)
	c.Driver = NewGateDriver("BendThumb.L", 0.4, 0.3)

	if c.Multiple() != 3 {
		t.Fatalf("multiple mismatch: %f", c.Multiple())
	}
	control := 0.5
	atThreshold, err := c.DerivedAngle(control, 0.4)
	if err != nil {
		t.Fatalf("derive failed: %v", err)
	}
	if atThreshold != 0 {
		t.Fatalf("derived angle at threshold should be zero: %f", atThreshold)
	}
	full, err := c.DerivedAngle(control, 0.4+0.3)
	if err != nil {
		t.Fatalf("derive failed: %v", err)
	}
	if math.Abs(full-3*control) > 1e-9 {
		t.Fatalf("derived angle at full gate mismatch: got=%f want=%f", full, 3*control)
	}
	half, _ := c.DerivedAngle(control, 0.55)
	if math.Abs(half-1.5*control) > 1e-9 {
		t.Fatalf("derived angle should interpolate: got=%f", half)
	}
}

func TestConstraintSourcesIncludeDriverAndPole(t *testing.T) {
	c := NewIKConstraint("LegIK.L", "LegPole.L", -math.Pi/2, 2)
	c.Driver = NewGateDriver("LegIK.L", 0, 1)
	if diff := cmp.Diff([]string{"LegIK.L", "LegPole.L"}, c.Sources()); diff != "" {
		t.Fatalf("sources mismatch (-want +got):\n%s", diff)
	}
}

func TestLockMaskFreeRotationAxes(t *testing.T) {
	mask := LockScale.With(RotationLock(AxisY)).With(RotationLock(AxisZ))
	if diff := cmp.Diff([]Axis{AxisX}, mask.FreeRotationAxes()); diff != "" {
		t.Fatalf("free axes mismatch (-want +got):\n%s", diff)
	}
	if got := mask.String(); got != "loc:--- rot:-YZ scale:XYZ" {
		t.Fatalf("string mismatch: %s", got)
	}
	if mask.Without(LockScale).Has(LockScaleX) {
		t.Fatalf("scale lock should be removed")
	}
}

func TestDependencyGraphSortsSourcesFirst(t *testing.T) {
	g := NewDependencyGraph()
	g.AddEdge("Spread.L", "BendIndex.L", ConstraintNameTransformation)
	g.AddEdge("BendIndex.L", "index_proximal.L", ConstraintNameCopyRotation)
	g.AddEdge("BendIndex.L", "index_intermediate.L", ConstraintNameCopyRotation)
	g.AddEdge("BendIndex.L", "index_intermediate.L", ConstraintNameCopyRotation)

	if len(g.Edges()) != 3 {
		t.Fatalf("duplicate edge should be ignored: %d", len(g.Edges()))
	}
	order, err := g.TopologicalOrder()
	if err != nil {
		t.Fatalf("sort failed: %v", err)
	}
	position := map[string]int{}
	for i, name := range order {
		position[name] = i
	}
	for _, edge := range g.Edges() {
		if position[edge.Source] >= position[edge.Owner] {
			t.Fatalf("source should precede owner: %+v order=%v", edge, order)
		}
	}
	if diff := cmp.Diff([]string{"index_proximal.L", "index_intermediate.L"}, g.Dependents("BendIndex.L")); diff != "" {
		t.Fatalf("dependents mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Spread.L"}, g.Dependencies("BendIndex.L")); diff != "" {
		t.Fatalf("dependencies mismatch (-want +got):\n%s", diff)
	}
}

func TestDependencyGraphReportsCycle(t *testing.T) {
	g := NewDependencyGraph()
	g.AddEdge("a", "b", "c1")
	g.AddEdge("b", "a", "c2")
	_, err := g.TopologicalOrder()
	if merr.ExtractErrorID(err) != "21008" {
		t.Fatalf("expected error id 21008, got %s", merr.ExtractErrorID(err))
	}
}
