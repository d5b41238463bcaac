package ranking

import (
	"bytes"
	"strings"
	"testing"

	"github.com/agenthands/netrepair/internal/core/encoder"
	"github.com/agenthands/netrepair/internal/core/model"
	apperrors "github.com/agenthands/netrepair/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectBest_DominantCandidate(t *testing.T) {
	pool := []model.CostVector{
		{10, 100, 1000, 5, 7, 9, 11},
		{12, 150, 1200, 6, 9, 10, 13},
		{1, 1, 1, 1, 1, 1, 1},
		{11, 120, 1100, 8, 8, 12, 12},
	}

	best, scores, err := SelectBest(pool, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, best)
	require.Len(t, scores, 4)
	for i, s := range scores {
		assert.Equal(t, i, s.Index)
		if i != best {
			assert.Less(t, scores[best].Total, s.Total)
		}
	}
}

func TestSelectBest_ConstantSlotsIgnored(t *testing.T) {
	pool := []model.CostVector{
		{5, 0, 0, 21, 0, 0, 0},
		{3, 0, 0, 21, 0, 0, 0},
		{4, 0, 0, 21, 0, 0, 0},
	}

	best, scores, err := SelectBest(pool, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, best)
	assert.InDelta(t, -1.0, scores[1].ZScores[0], 1e-12)
	assert.Equal(t, 0.0, scores[1].ZScores[3])
}

func TestSelectBest_TiesGoToFirst(t *testing.T) {
	pool := []model.CostVector{{3, 1}, {1, 1}, {1, 1}}
	best, scores, err := SelectBest(pool, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, best)
	assert.Equal(t, scores[1].Total, scores[2].Total)
}

func TestSelectBest_SingleCandidate(t *testing.T) {
	best, scores, err := SelectBest([]model.CostVector{{3, 1}}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, best)
	assert.Equal(t, 0.0, scores[0].Total)
}

func TestSelectBest_EmptyPool(t *testing.T) {
	_, _, err := SelectBest(nil, DefaultOptions())
	assert.ErrorIs(t, err, apperrors.ErrInsufficientSignal)
}

func TestDescribe(t *testing.T) {
	s, err := Describe([]model.CostVector{{2}, {4}, {6}})
	require.NoError(t, err)
	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 4.0, s.Means[0], 1e-12)
	assert.InDelta(t, 2.0, s.StdDevs[0], 1e-12)
	assert.Equal(t, 0.0, s.StdDevs[1])
}

func TestCosts(t *testing.T) {
	pool := Costs([]*model.Candidate{{Costs: model.CostVector{1}}, {Costs: model.CostVector{2}}})
	assert.Equal(t, []model.CostVector{{1}, {2}}, pool)
}

func TestSynthesizeWeightedObjective(t *testing.T) {
	pool := []model.CostVector{
		{2, 0, 0, 21, 0, 0, 0},
		{4, 0, 0, 0, 0, 0, 0},
	}

	obj, err := SynthesizeWeightedObjective(pool, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3}, obj.Rules)

	want := encoder.ObjectiveMarker + "\n" +
		"cost0(X) :- repairCost(0,C), X=1000*C.\n" +
		"diff0(D) :- cost0(X), D=X-3000.\n" +
		"zScore0(Z) :- diff0(D), Z=D/14.\n\n" +
		"cost3(X) :- repairCost(3,C), X=1000*C.\n" +
		"diff3(D) :- cost3(X), D=X-10500.\n" +
		"zScore3(Z) :- diff3(D), Z=D/148.\n\n" +
		"totalCost0(X) :- zScore0(A), zScore3(B), X=A+B.\n\n" +
		"totalCost(X) :- totalCost0(X).\n\n" +
		"#minimize{C : totalCost(C)}.\n\n" +
		encoder.Projection(encoder.Clingo, false)
	assert.Equal(t, want, obj.Program)
}

func TestSynthesizeWeightedObjective_Chain(t *testing.T) {
	pool := []model.CostVector{
		{2, 10, 0, 21, 3, 0, 0},
		{4, 0, 0, 0, 1, 0, 0},
		{6, 5, 0, 21, 2, 0, 0},
	}

	opts := DefaultOptions()
	opts.Dialect = encoder.Gringo3
	obj, err := SynthesizeWeightedObjective(pool, opts)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 3, 4}, obj.Rules)

	assert.Contains(t, obj.Program, "totalCost0(X) :- zScore0(A), zScore1(B), X=A+B.\n")
	assert.Contains(t, obj.Program, "totalCost1(X) :- totalCost0(A), zScore3(B), X=A+B.\n")
	assert.Contains(t, obj.Program, "totalCost2(X) :- totalCost1(A), zScore4(B), X=A+B.\n")
	assert.Contains(t, obj.Program, "totalCost(X) :- totalCost2(X).\n")
	assert.Contains(t, obj.Program, "#minimize[totalCost(C)=C].")
	assert.True(t, strings.HasSuffix(obj.Program, "#hide.\n#show activates(X,Y).\n#show inhibits(X,Y).\n"))
}

func TestSynthesizeWeightedObjective_InsufficientSignal(t *testing.T) {
	pool := []model.CostVector{{2}, {4}}
	_, err := SynthesizeWeightedObjective(pool, DefaultOptions())
	assert.ErrorIs(t, err, apperrors.ErrInsufficientSignal)

	_, err = SynthesizeWeightedObjective(nil, DefaultOptions())
	assert.ErrorIs(t, err, apperrors.ErrInsufficientSignal)
}

func TestWriteSummary(t *testing.T) {
	pool := []model.CostVector{{2}, {4}}
	s, err := Describe(pool)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, s, 0, pool))
	assert.Contains(t, buf.String(), "rule 0 (edit distance): 3\n")
	assert.Contains(t, buf.String(), "Repair: 0\nCost of rules: [2 0 0 0 0 0 0]\n")
}
