package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// puzzlesGenerated counts generation calls by outcome (ok, empty).
	puzzlesGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crossword_puzzles_generated_total",
		Help: "Puzzle generation calls by result",
	}, []string{"result"})

	generateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "crossword_generate_duration_seconds",
		Help:    "Time spent laying out a puzzle",
		Buckets: prometheus.ExponentialBuckets(0.00005, 2, 12), // 50µs to ~100ms
	})

	wordsPlaced = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "crossword_words_placed",
		Help:    "Words placed per generated puzzle",
		Buckets: []float64{1, 2, 4, 6, 8, 10, 12, 15},
	})

	wordsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crossword_words_dropped_total",
		Help: "Concepts left out because no legal crossing existed",
	})

	// movesTotal counts player moves by result (correct, wrong, erase, rejected).
	movesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crossword_moves_total",
		Help: "Player moves by result",
	}, []string{"result"})

	sseClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "crossword_sse_clients",
		Help: "Connected event stream clients",
	})
)

func observeGeneration(rec *PuzzleRecord, elapsed time.Duration) {
	generateDuration.Observe(elapsed.Seconds())
	if rec == nil {
		puzzlesGenerated.WithLabelValues("empty").Inc()
		return
	}
	puzzlesGenerated.WithLabelValues("ok").Inc()
	wordsPlaced.Observe(float64(len(rec.Puzzle.Words)))
	wordsDropped.Add(float64(rec.Dropped()))
}

func observeMove(res MoveResult, err error) {
	switch {
	case err != nil:
		movesTotal.WithLabelValues("rejected").Inc()
	case res.Value == "":
		movesTotal.WithLabelValues("erase").Inc()
	case res.Correct:
		movesTotal.WithLabelValues("correct").Inc()
	default:
		movesTotal.WithLabelValues("wrong").Inc()
	}
}
