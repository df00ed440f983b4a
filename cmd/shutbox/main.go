package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"github.com/seehuhn/mt19937"
	"github.com/sw965/shutbox/mc"
)

func main() {
	var ngames int
	flag.IntVar(&ngames, "ngames", 10000, "number of games for MC play")
	flag.IntVar(&ngames, "n", 10000, "number of games for MC play (shorthand)")

	var chooserName string
	flag.StringVar(&chooserName, "chooser", "heur", "chooser for moves (heur|random)")
	flag.StringVar(&chooserName, "c", "heur", "chooser for moves (shorthand)")

	var graph bool
	flag.BoolVar(&graph, "graph", false, "show histogram")
	flag.BoolVar(&graph, "g", false, "show histogram (shorthand)")

	flag.Parse()

	chooser, err := mc.ParseChooser(chooserName)
	if err != nil {
		log.Fatalf("チューザーの解析に失敗しました: %v", err)
	}

	conf := mc.Config{
		NumGames:      ngames,
		Chooser:       chooser,
		ShowHistogram: graph,
	}

	src := mt19937.New()
	src.Seed(time.Now().UnixNano())
	rng := rand.New(src)

	summary, err := mc.Run(conf, []*rand.Rand{rng})
	if err != nil {
		log.Fatalf("モンテカルロ実行に失敗しました: %v", err)
	}

	for _, line := range summary.Report() {
		fmt.Println(line)
	}

	if conf.ShowHistogram {
		for _, line := range summary.HistogramLines() {
			fmt.Println(line)
		}
	}
}
