// Package solitaire provides utilities to run playouts of single-player
// stochastic games. Policy consistency validation is centralized in
// Engine.Playouts.
//
// Package solitaire は一人用の確率ゲームのプレイアウト実行ユーティリティを提供します。
// Policy の整合性チェックは Engine.Playouts に集約されています。
package solitaire

import (
	"errors"
	"fmt"
	"github.com/sw965/omw/parallel"
	"github.com/sw965/shutbox/game"
	"math/rand/v2"
)

var (
	ErrNilLogicFunc  = errors.New("Logicエラー: フィールドの関数がnilです")
	ErrNilEngineFunc = errors.New("Engineエラー: フィールドの関数がnilです")
	ErrNilActorFunc  = errors.New("Actorエラー: フィールドの関数がnilです")

	ErrEmptyLegalMoves = errors.New("legalMovesエラー: 要素数が0です")
	ErrNoRngs          = errors.New("rngsエラー: 要素数が0です")
)

type LegalMovesFunc[S any, M comparable] func(S) []M
type MoveFunc[S any, M comparable] func(S, M) (S, error)

// ChanceFunc resolves the game's random event (e.g. a dice roll)
// between two decisions.
//
// ChanceFuncは、手番と手番の間に起こるゲームの確率的イベント（サイコロ等）を解決します。
type ChanceFunc[S any] func(S, *rand.Rand) (S, error)

type Logic[S any, M comparable] struct {
	LegalMovesFunc LegalMovesFunc[S, M]
	MoveFunc       MoveFunc[S, M]
	ChanceFunc     ChanceFunc[S]
}

func (l Logic[S, M]) Validate() error {
	if l.LegalMovesFunc == nil {
		return fmt.Errorf("%w: LegalMovesFunc", ErrNilLogicFunc)
	}
	if l.MoveFunc == nil {
		return fmt.Errorf("%w: MoveFunc", ErrNilLogicFunc)
	}
	if l.ChanceFunc == nil {
		return fmt.Errorf("%w: ChanceFunc", ErrNilLogicFunc)
	}
	return nil
}

type PolicyFunc[S any, M comparable] func(S, []M) (game.Policy[M], error)

func UniformPolicyFunc[S any, M comparable](state S, legalMoves []M) (game.Policy[M], error) {
	n := len(legalMoves)
	if n == 0 {
		return nil, ErrEmptyLegalMoves
	}

	p := 1.0 / float32(n)
	policy := game.Policy[M]{}
	for _, m := range legalMoves {
		policy[m] = p
	}
	return policy, nil
}

type Actor[S any, M comparable] struct {
	Name       string
	PolicyFunc PolicyFunc[S, M]
	SelectFunc game.SelectFunc[M]
}

func (a Actor[S, M]) Validate() error {
	if a.PolicyFunc == nil {
		return fmt.Errorf("%w: PolicyFunc", ErrNilActorFunc)
	}
	if a.SelectFunc == nil {
		return fmt.Errorf("%w: SelectFunc", ErrNilActorFunc)
	}
	return nil
}

type IsEndFunc[S any] func(S) (bool, error)

type Engine[S any, M comparable] struct {
	Logic     Logic[S, M]
	IsEndFunc IsEndFunc[S]
}

func (e Engine[S, M]) Validate() error {
	if err := e.Logic.Validate(); err != nil {
		return err
	}

	if e.IsEndFunc == nil {
		return fmt.Errorf("%w: IsEndFunc", ErrNilEngineFunc)
	}
	return nil
}

// Playout runs a single game from init to a terminal state.
// Validation of the engine and the actor is the caller's concern;
// Playouts does both.
//
// Playoutは、initから終局状態まで1ゲームを実行します。
// EngineとActorの検証は呼び出し側の責務です。Playoutsは両方を行います。
func (e Engine[S, M]) Playout(init S, actor Actor[S, M], rng *rand.Rand) (S, error) {
	state := init
	for {
		isEnd, err := e.IsEndFunc(state)
		if err != nil {
			var zero S
			return zero, err
		}

		if isEnd {
			break
		}

		legalMoves := e.Logic.LegalMovesFunc(state)
		// policy.ValidateForLegalMovesでもlegalMovesの空チェックをするが、PolicyFuncを安全に呼ぶ為に、ここでもチェックする
		if len(legalMoves) == 0 {
			var zero S
			return zero, ErrEmptyLegalMoves
		}

		policy, err := actor.PolicyFunc(state, legalMoves)
		if err != nil {
			var zero S
			return zero, err
		}

		// legalMovesがユニークならば、policyは合法手のみを持つ事が保障される
		// 一手毎に、legalMovesがユニークであるかをチェックするのは、計算コストの観点から見送る
		err = policy.ValidateForLegalMoves(legalMoves, false)
		if err != nil {
			var zero S
			return zero, err
		}

		move, err := actor.SelectFunc(policy, rng)
		if err != nil {
			var zero S
			return zero, err
		}

		state, err = e.Logic.MoveFunc(state, move)
		if err != nil {
			var zero S
			return zero, err
		}

		state, err = e.Logic.ChanceFunc(state, rng)
		if err != nil {
			var zero S
			return zero, err
		}
	}
	return state, nil
}

// Playouts runs each init to completion and returns the final states.
// Games are distributed over len(rngs) workers; a single rng runs the
// games sequentially in order.
//
// Playoutsは、各initを終局まで実行し、最終状態を返します。
// ゲームはlen(rngs)個のワーカーに分配されます。rngが1つの場合は順番に逐次実行されます。
func (e Engine[S, M]) Playouts(inits []S, actor Actor[S, M], rngs []*rand.Rand) ([]S, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	if err := actor.Validate(); err != nil {
		return nil, err
	}

	n := len(inits)
	p := len(rngs)
	if p == 0 {
		return nil, ErrNoRngs
	}
	finals := make([]S, n)

	err := parallel.For(n, p, func(workerId, idx int) error {
		final, err := e.Playout(inits[idx], actor, rngs[workerId])
		if err != nil {
			return err
		}
		finals[idx] = final
		return nil
	})
	return finals, err
}
