package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/grit/internal/core/domain"
	"go.trai.ch/zerr"
)

func names(targets []domain.Target) []string {
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		out = append(out, t.Name)
	}
	return out
}

func mustTable(t *testing.T, targets ...domain.Target) *domain.Table {
	t.Helper()
	tbl := domain.NewTable()
	for i := range targets {
		require.NoError(t, tbl.AddTarget(&targets[i]))
	}
	return tbl
}

func TestTable_AddTarget(t *testing.T) {
	tbl := domain.NewTable()
	target := domain.Target{Name: "clean"}

	if err := tbl.AddTarget(&target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := tbl.AddTarget(&target)
	if err == nil {
		t.Fatal("expected error when adding duplicate target, got nil")
	}
	zErr, ok := err.(*zerr.Error)
	if !ok {
		t.Fatalf("expected *zerr.Error, got %T", err)
	}
	if name, ok := zErr.Metadata()["target"].(string); !ok || name != "clean" {
		t.Errorf("expected metadata target=clean, got %v", zErr.Metadata()["target"])
	}
}

func TestTable_AddTarget_InvalidName(t *testing.T) {
	for _, name := range []string{"", " ", "-leading", "has space"} {
		t.Run(name, func(t *testing.T) {
			tbl := domain.NewTable()
			err := tbl.AddTarget(&domain.Target{Name: name})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid target name")
			require.ErrorIs(t, err, domain.ErrInvalidTargetName)
		})
	}
}

func TestTable_AddTarget_CopiesSlices(t *testing.T) {
	deps := []string{"a"}
	tbl := domain.NewTable()
	require.NoError(t, tbl.AddTarget(&domain.Target{Name: "b", Prerequisites: deps}))

	deps[0] = "mutated"

	got, ok := tbl.Get("b")
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, got.Prerequisites)
}

func TestTable_Default(t *testing.T) {
	tbl := domain.NewTable()
	assert.Empty(t, tbl.Default())

	tbl = mustTable(t,
		domain.Target{Name: "all"},
		domain.Target{Name: "clean"},
	)
	assert.Equal(t, "all", tbl.Default())

	tbl.SetDefault("clean")
	assert.Equal(t, "clean", tbl.Default())
}

func TestTable_Targets_DeclarationOrder(t *testing.T) {
	tbl := mustTable(t,
		domain.Target{Name: "zeta"},
		domain.Target{Name: "alpha"},
		domain.Target{Name: "mid"},
	)

	var got []string
	for target := range tbl.Targets() {
		got = append(got, target.Name)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, got)
	assert.Equal(t, 3, tbl.Len())
}

func TestTable_Validate_MissingPrerequisite(t *testing.T) {
	tbl := mustTable(t, domain.Target{Name: "all", Prerequisites: []string{"missing"}})

	err := tbl.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing prerequisite")
	require.ErrorIs(t, err, domain.ErrMissingPrerequisite)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	assert.Equal(t, "missing", zErr.Metadata()["prerequisite"])
}

func TestTable_Validate_Cycle(t *testing.T) {
	tbl := mustTable(t,
		domain.Target{Name: "A", Prerequisites: []string{"B"}},
		domain.Target{Name: "B", Prerequisites: []string{"C"}},
		domain.Target{Name: "C", Prerequisites: []string{"A"}},
	)

	err := tbl.Validate()
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrCyclicDependency)

	var cycleErr *domain.CycleError
	require.True(t, errors.As(err, &cycleErr))
	assert.Equal(t, "A -> B -> C -> A", cycleErr.Cycle())
	assert.Equal(t, "A -> B -> C -> A", cycleErr.Metadata()["cycle"])
}

func TestTable_Validate_SelfCycle(t *testing.T) {
	tbl := mustTable(t, domain.Target{Name: "loop", Prerequisites: []string{"loop"}})

	err := tbl.Validate()
	require.ErrorIs(t, err, domain.ErrCyclicDependency)
	assert.Contains(t, err.Error(), "loop -> loop")
}

func TestTable_Validate_UnknownDefault(t *testing.T) {
	tbl := mustTable(t, domain.Target{Name: "clean"})
	tbl.SetDefault("all")

	err := tbl.Validate()
	require.ErrorIs(t, err, domain.ErrUnknownTarget)
}

func TestTable_Plan_Chain(t *testing.T) {
	// A -> B -> C
	tbl := mustTable(t,
		domain.Target{Name: "A", Prerequisites: []string{"B"}},
		domain.Target{Name: "B", Prerequisites: []string{"C"}},
		domain.Target{Name: "C"},
	)
	require.NoError(t, tbl.Validate())

	plan, err := tbl.Plan("A")
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B", "A"}, names(plan))
}

func TestTable_Plan_Diamond(t *testing.T) {
	// A depends on B and C, both depend on D.
	tbl := mustTable(t,
		domain.Target{Name: "A", Prerequisites: []string{"B", "C"}},
		domain.Target{Name: "B", Prerequisites: []string{"D"}},
		domain.Target{Name: "C", Prerequisites: []string{"D"}},
		domain.Target{Name: "D"},
	)
	require.NoError(t, tbl.Validate())

	plan, err := tbl.Plan("A")
	require.NoError(t, err)
	assert.Equal(t, []string{"D", "B", "C", "A"}, names(plan))
}

func TestTable_Plan_DeclaredOrder(t *testing.T) {
	tbl := mustTable(t,
		domain.Target{Name: "all", Prerequisites: []string{"clean", "release"}},
		domain.Target{Name: "release"},
		domain.Target{Name: "clean"},
	)

	plan, err := tbl.Plan("all")
	require.NoError(t, err)
	assert.Equal(t, []string{"clean", "release", "all"}, names(plan))
}

func TestTable_Plan_SharedMemoAcrossRequests(t *testing.T) {
	tbl := mustTable(t,
		domain.Target{Name: "all", Prerequisites: []string{"clean", "release"}},
		domain.Target{Name: "clean"},
		domain.Target{Name: "release"},
	)

	plan, err := tbl.Plan("all", "release", "clean")
	require.NoError(t, err)
	assert.Equal(t, []string{"clean", "release", "all"}, names(plan))
}

func TestTable_Plan_UnknownTarget(t *testing.T) {
	tbl := mustTable(t, domain.Target{Name: "clean"})

	plan, err := tbl.Plan("clean", "bogus")
	require.ErrorIs(t, err, domain.ErrUnknownTarget)
	assert.Nil(t, plan)

	var unknown *domain.UnknownTargetError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "bogus", unknown.Name)
}

func TestTable_Plan_CycleWithoutValidate(t *testing.T) {
	tbl := mustTable(t,
		domain.Target{Name: "A", Prerequisites: []string{"B"}},
		domain.Target{Name: "B", Prerequisites: []string{"A"}},
	)

	_, err := tbl.Plan("A")
	require.ErrorIs(t, err, domain.ErrCyclicDependency)
}

func TestTable_Plan_DanglingWithoutValidate(t *testing.T) {
	tbl := mustTable(t, domain.Target{Name: "A", Prerequisites: []string{"ghost"}})

	_, err := tbl.Plan("A")
	require.ErrorIs(t, err, domain.ErrUnknownTarget)
}
