// Package shutbox implements the dice game "Shut the Box" on the 1..9
// board, with digital scoring.
//
// Package shutboxは、1..9のボードで遊ぶダイスゲーム「シャット・ザ・ボックス」を実装します。
// スコアは残った数字を昇順に並べて連結した整数（デジタルスコア）です。
package shutbox

import (
	"fmt"
	"math/bits"
	"math/rand/v2"

	"github.com/sw965/shutbox/game"
	"github.com/sw965/shutbox/game/solitaire"
)

const (
	MinDigit = 1
	MaxDigit = 9

	DiceSides = 6
)

// Digits is a set of standing digits, one bit per digit 1..9.
//
// Digitsは立っている数字の集合で、1..9の各数字を1ビットで表します。
type Digits uint16

// NewDigits builds a set from the given digits.
// Digits outside 1..9 are rejected.
//
// NewDigitsは、与えられた数字から集合を作ります。1..9以外の数字はエラーになります。
func NewDigits(ds ...int) (Digits, error) {
	var digits Digits
	for _, d := range ds {
		if d < MinDigit || d > MaxDigit {
			return 0, fmt.Errorf("digit must be in %d..%d, got %d", MinDigit, MaxDigit, d)
		}
		digits |= 1 << d
	}
	return digits, nil
}

// FullDigits returns the starting board, all of 1..9 standing.
//
// FullDigitsは、1..9が全て立っている初期ボードを返します。
func FullDigits() Digits {
	var digits Digits
	for d := MinDigit; d <= MaxDigit; d++ {
		digits |= 1 << d
	}
	return digits
}

func (digits Digits) Has(d int) bool {
	return digits&(1<<d) != 0
}

func (digits Digits) Count() int {
	return bits.OnesCount16(uint16(digits))
}

func (digits Digits) Sum() int {
	t := 0
	for d := MinDigit; d <= MaxDigit; d++ {
		if digits.Has(d) {
			t += d
		}
	}
	return t
}

func (digits Digits) Contains(sub Digits) bool {
	return digits&sub == sub
}

func (digits Digits) Remove(sub Digits) Digits {
	return digits &^ sub
}

// Slice returns the standing digits in ascending order.
//
// Sliceは、立っている数字を昇順で返します。
func (digits Digits) Slice() []int {
	ds := make([]int, 0, digits.Count())
	for d := MinDigit; d <= MaxDigit; d++ {
		if digits.Has(d) {
			ds = append(ds, d)
		}
	}
	return ds
}

// Score is the digital score: the standing digits in ascending order,
// concatenated positionally in base 10. The empty set scores 0 (a win).
// {2,5,9} scores 259, the full board scores 123456789.
//
// Scoreはデジタルスコアです。立っている数字を昇順に並べ、10進数として桁連結します。
// 空集合は0（勝利）です。{2,5,9}は259、フルボードは123456789になります。
func (digits Digits) Score() int {
	t := 0
	for d := MinDigit; d <= MaxDigit; d++ {
		if digits.Has(d) {
			t = t*10 + d
		}
	}
	return t
}

func (digits Digits) String() string {
	return fmt.Sprintf("%v", digits.Slice())
}

// Roll is the sum of two dice, 2..12.
type Roll int

func NewRoll(rng *rand.Rand) Roll {
	return Roll(rng.IntN(DiceSides) + rng.IntN(DiceSides) + 2)
}

// Moves returns every subset of available whose digits sum to the roll.
// An empty result means the game is stuck. Two dice sum to 2..12, so a
// roll below 2 never has a legal move. The enumeration order is
// deterministic: submasks in descending numeric order, which for
// subsets of equal size is the descending-digit lexicographic order.
//
// Movesは、合計がロールと一致するavailableの全ての部分集合を返します。
// 結果が空ならば、手詰まり（stuck）です。2つのサイコロの合計は2..12である為、
// 2未満のロールに合法手は存在しません。列挙順は決定的で、
// サブマスクの数値降順です。同じ要素数の部分集合同士では、数字の降順辞書式順序と一致します。
func Moves(available Digits, roll Roll) []Digits {
	target := int(roll)
	moves := []Digits{}
	if target < 2 {
		return moves
	}
	for s := uint16(available); s > 0; s = (s - 1) & uint16(available) {
		sub := Digits(s)
		if sub.Sum() == target {
			moves = append(moves, sub)
		}
	}
	return moves
}

// State holds the standing digits and the roll to be played.
//
// Stateは、立っている数字と、これから消化するロールを保持します。
type State struct {
	Board Digits
	Roll  Roll
}

// NewInitState creates a fresh game: full board, first roll done.
//
// NewInitStateは、新しいゲームを作成します。フルボードで、最初のロールは済んでいます。
func NewInitState(rng *rand.Rand) State {
	return State{
		Board: FullDigits(),
		Roll:  NewRoll(rng),
	}
}

func LegalMoves(state State) []Digits {
	return Moves(state.Board, state.Roll)
}

// MoveFunc knocks the chosen digits down. The move must be a non-empty
// subset of the board summing exactly to the roll.
//
// MoveFuncは、選ばれた数字を倒します。
// 手はボードの空でない部分集合で、合計がロールと一致している必要があります。
func MoveFunc(state State, move Digits) (State, error) {
	if move == 0 {
		return State{}, fmt.Errorf("move must not be empty")
	}

	if !state.Board.Contains(move) {
		return State{}, fmt.Errorf("move %v is not a subset of the board %v", move, state.Board)
	}

	if move.Sum() != int(state.Roll) {
		return State{}, fmt.Errorf("move %v sums to %d, roll is %d", move, move.Sum(), state.Roll)
	}

	next := state
	next.Board = state.Board.Remove(move)
	return next, nil
}

func ChanceFunc(state State, rng *rand.Rand) (State, error) {
	next := state
	next.Roll = NewRoll(rng)
	return next, nil
}

// IsEnd reports a terminal state: the board is empty (shut the box),
// or no subset of the board sums to the roll (stuck).
//
// IsEndは終局状態を判定します。ボードが空（勝利）か、
// ロールと一致する部分集合が存在しない（手詰まり）場合に終局です。
func IsEnd(state State) (bool, error) {
	if state.Board == 0 {
		return true, nil
	}
	return len(Moves(state.Board, state.Roll)) == 0, nil
}

// NewLogic creates the Logic instance for Shut the Box.
//
// NewLogicは、シャット・ザ・ボックスのLogicインスタンスを作成します。
func NewLogic() solitaire.Logic[State, Digits] {
	return solitaire.Logic[State, Digits]{
		LegalMovesFunc: LegalMoves,
		MoveFunc:       MoveFunc,
		ChanceFunc:     ChanceFunc,
	}
}

func NewEngine() solitaire.Engine[State, Digits] {
	return solitaire.Engine[State, Digits]{
		Logic:     NewLogic(),
		IsEndFunc: IsEnd,
	}
}

// HeuristicPolicyFunc puts all weight on one move: among the legal
// moves it keeps only those of minimum size, then picks the one whose
// descending digit sequence is lexicographically greatest. For digit
// sets of equal size that order equals the numeric order of the masks
// (the highest differing digit decides).
//
// HeuristicPolicyFuncは、1つの手に全ての重みを置きます。
// 合法手の中から最小の要素数の手に絞り、その中で数字の降順列が辞書式順序で最大の手を選びます。
// 同じ要素数の集合同士では、その順序はマスクの数値順と一致します（最上位の異なる数字で決まる）。
func HeuristicPolicyFunc(state State, legalMoves []Digits) (game.Policy[Digits], error) {
	if len(legalMoves) == 0 {
		return nil, solitaire.ErrEmptyLegalMoves
	}

	best := legalMoves[0]
	for _, m := range legalMoves[1:] {
		c := m.Count()
		bc := best.Count()
		switch {
		case c < bc:
			best = m
		case c == bc && m > best:
			best = m
		}
	}

	policy := game.Policy[Digits]{}
	for _, m := range legalMoves {
		policy[m] = 0.0
	}
	policy[best] = 1.0
	return policy, nil
}

// NewHeuristicActor plays the minimize-size-then-maximize-digits chooser.
//
// NewHeuristicActorは、要素数最小・数字最大のヒューリスティックで指すActorを返します。
func NewHeuristicActor() solitaire.Actor[State, Digits] {
	return solitaire.Actor[State, Digits]{
		Name:       "heur",
		PolicyFunc: HeuristicPolicyFunc,
		SelectFunc: game.MaxSelectFunc[Digits],
	}
}

// NewRandomActor picks uniformly among the legal moves.
//
// NewRandomActorは、合法手の中から一様ランダムに指すActorを返します。
func NewRandomActor() solitaire.Actor[State, Digits] {
	return solitaire.Actor[State, Digits]{
		Name:       "random",
		PolicyFunc: solitaire.UniformPolicyFunc[State, Digits],
		SelectFunc: game.WeightedRandomSelectFunc[Digits],
	}
}
