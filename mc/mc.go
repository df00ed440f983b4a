// Package mc runs Monte Carlo trials of Shut the Box and aggregates
// the scores into summary statistics and a log-scale histogram.
//
// Package mcは、シャット・ザ・ボックスのモンテカルロ試行を実行し、
// スコアを要約統計量と対数スケールのヒストグラムに集計します。
package mc

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/sw965/shutbox"
	"github.com/sw965/shutbox/game/solitaire"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrUnknownChooser = errors.New("Chooserエラー: 未知のチューザーです")
	ErrInvalidConfig  = errors.New("Configエラー: 不正な設定です")
)

// Chooser is the closed set of move-selection policies.
//
// Chooserは、手の選択ポリシーの閉じた集合です。
type Chooser int

const (
	ChooserHeuristic Chooser = iota
	ChooserRandom
)

func ParseChooser(name string) (Chooser, error) {
	switch name {
	case "heur":
		return ChooserHeuristic, nil
	case "random":
		return ChooserRandom, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownChooser, name)
	}
}

func (c Chooser) String() string {
	switch c {
	case ChooserHeuristic:
		return "heur"
	case ChooserRandom:
		return "random"
	default:
		return fmt.Sprintf("Chooser(%d)", int(c))
	}
}

func (c Chooser) NewActor() (solitaire.Actor[shutbox.State, shutbox.Digits], error) {
	switch c {
	case ChooserHeuristic:
		return shutbox.NewHeuristicActor(), nil
	case ChooserRandom:
		return shutbox.NewRandomActor(), nil
	default:
		return solitaire.Actor[shutbox.State, shutbox.Digits]{}, fmt.Errorf("%w: %d", ErrUnknownChooser, int(c))
	}
}

type Config struct {
	NumGames      int
	Chooser       Chooser
	ShowHistogram bool
}

func (c Config) Validate() error {
	if c.NumGames < 1 {
		return fmt.Errorf("%w: NumGamesは1以上である必要があります。入力値: %d", ErrInvalidConfig, c.NumGames)
	}

	if _, err := c.Chooser.NewActor(); err != nil {
		return err
	}
	return nil
}

// Bins is the number of histogram buckets. Scores are binned by
// floor(Bins * log10(score+1) / 9).
const Bins = 20

// Histogram counts scores per logarithmic bucket. An index that falls
// past the last bucket is clamped onto it; on the 1..9 board the
// largest reachable index is 17 (score 123456789), so the clamp never
// fires in play.
//
// Histogramは、対数バケット毎のスコアの出現回数です。
// 末尾を超えるインデックスは末尾バケットに丸められます。
// 1..9のボードでは到達可能な最大インデックスは17（スコア123456789）である為、
// プレイ中にこの丸めが発動する事はありません。
type Histogram [Bins]int

func BinIndex(score int) int {
	b := int(math.Floor(Bins * math.Log10(float64(score)+1.0) / 9.0))
	if b >= Bins {
		b = Bins - 1
	}
	return b
}

func (h *Histogram) Add(score int) {
	h[BinIndex(score)]++
}

func (h Histogram) Total() int {
	t := 0
	for _, count := range h {
		t += count
	}
	return t
}

// Summary is the result of one Monte Carlo run.
//
// Summaryは、1回のモンテカルロ実行の結果です。
type Summary struct {
	NumGames  int
	Wins      int
	Min       int
	Max       int
	Mean      float64
	Histogram Histogram
}

// Report returns the four summary lines. The mean is rendered as a
// plain decimal, never in scientific notation.
//
// Reportは、4行の要約を返します。平均値は常に通常の10進表記で、
// 指数表記にはなりません。
func (s Summary) Report() []string {
	return []string{
		fmt.Sprintf("wins %d", s.Wins),
		fmt.Sprintf("min %d", s.Min),
		fmt.Sprintf("max %d", s.Max),
		fmt.Sprintf("mean %s", strconv.FormatFloat(s.Mean, 'f', -1, 64)),
	}
}

// HistogramLines renders buckets 1..Bins-1, one line per bucket:
// the bucket's lower-bound magnitude 10^((b-1)/Bins) and a bar of
// 10*count*Bins/NumGames asterisks (integer division). Bucket 0 is
// skipped; it holds the wins and near-wins and would dwarf the rest.
//
// HistogramLinesは、バケット1..Bins-1を1行ずつ描画します。
// 各行はバケットの下限値10^((b-1)/Bins)と、10*count*Bins/NumGames個（整数除算）の
// アスタリスクのバーです。バケット0は勝利・準勝利が集中する為、表示しません。
func (s Summary) HistogramLines() []string {
	lines := make([]string, 0, Bins-1)
	for b := 1; b < Bins; b++ {
		lower := math.Pow(10.0, float64(b-1)/float64(Bins))
		n := 10 * s.Histogram[b] * Bins / s.NumGames
		lines = append(lines, fmt.Sprintf("%3.2f %s", lower, strings.Repeat("*", n)))
	}
	return lines
}

// Run plays conf.NumGames independent games with the configured
// chooser and tabulates wins, extrema, mean and the histogram.
// Games are distributed over len(rngs) workers; pass a single rng for
// a sequential run.
//
// Runは、設定されたチューザーでconf.NumGames回の独立したゲームをプレイし、
// 勝利数・最小値・最大値・平均値・ヒストグラムを集計します。
// ゲームはlen(rngs)個のワーカーに分配されます。逐次実行したい場合はrngを1つ渡して下さい。
func Run(conf Config, rngs []*rand.Rand) (Summary, error) {
	if err := conf.Validate(); err != nil {
		return Summary{}, err
	}

	if len(rngs) == 0 {
		return Summary{}, solitaire.ErrNoRngs
	}

	actor, err := conf.Chooser.NewActor()
	if err != nil {
		return Summary{}, err
	}

	engine := shutbox.NewEngine()

	inits := make([]shutbox.State, conf.NumGames)
	for i := range inits {
		inits[i] = shutbox.NewInitState(rngs[0])
	}

	finals, err := engine.Playouts(inits, actor, rngs)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{NumGames: conf.NumGames}
	scores := make([]float64, len(finals))
	for i, final := range finals {
		score := final.Board.Score()
		scores[i] = float64(score)
		if score == 0 {
			summary.Wins++
		}
		summary.Histogram.Add(score)
	}

	summary.Min = int(floats.Min(scores))
	summary.Max = int(floats.Max(scores))
	summary.Mean = stat.Mean(scores, nil)
	return summary, nil
}
