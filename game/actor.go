package game

import (
	"fmt"
	"github.com/sw965/omw/mathx/randx"
	"github.com/sw965/omw/slicesx"
	"maps"
	"math"
	"math/rand/v2"
	"slices"
)

// Policy assigns a non-negative weight to each legal move.
// The weights need not sum to 1; selection normalizes them.
//
// Policyは、各合法手に非負の重みを割り当てます。
// 重みの合計は1である必要はなく、選択時に正規化されます。
type Policy[M comparable] map[M]float32

func (p Policy[M]) ValidateForLegalMoves(legalMoves []M, checkUnique bool) error {
	if checkUnique {
		if !slicesx.IsUnique(legalMoves) {
			return fmt.Errorf("legalMoves contains duplicates")
		}
	}

	if len(legalMoves) == 0 {
		return fmt.Errorf("legalMoves must not be empty")
	}

	if len(p) != len(legalMoves) {
		return fmt.Errorf("policy size (%d) does not match legal moves count (%d)", len(p), len(legalMoves))
	}

	var sum float32
	for _, m := range legalMoves {
		v, ok := p[m]
		if !ok {
			return fmt.Errorf("policy is missing probability for move: %v", m)
		}

		if v < 0 || math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return fmt.Errorf("invalid probability value %f for move: %v", v, m)
		}
		sum += v
	}

	if sum == 0 {
		return fmt.Errorf("sum of policy probabilities is zero")
	}
	return nil
}

type SelectFunc[M comparable] func(Policy[M], *rand.Rand) (M, error)

func MaxSelectFunc[M comparable](policy Policy[M], rng *rand.Rand) (M, error) {
	keys := slices.Collect(maps.Keys(policy))
	if len(keys) == 0 {
		var zero M
		return zero, fmt.Errorf("policy must not be empty")
	}

	max := policy[keys[0]]
	// capの確保をする。
	moves := []M{keys[0]}

	for _, k := range keys[1:] {
		v := policy[k]
		switch {
		case v > max:
			max = v
			moves = []M{k}
		case v == max:
			moves = append(moves, k)
		}
	}

	move, err := randx.Choice(moves, rng)
	if err != nil {
		var zero M
		return zero, err
	}
	return move, nil
}

func WeightedRandomSelectFunc[M comparable](policy Policy[M], rng *rand.Rand) (M, error) {
	n := len(policy)
	moves := make([]M, 0, n)
	ws := make([]float32, 0, n)
	for m, p := range policy {
		moves = append(moves, m)
		ws = append(ws, p)
	}

	idx, err := randx.IndexByWeights(ws, rng)
	if err != nil {
		var zero M
		return zero, err
	}
	return moves[idx], nil
}
