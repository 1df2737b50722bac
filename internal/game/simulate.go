package game

import "sort"

// Stats summarizes many simulated games.
type Stats struct {
	Games  int
	Wins   int
	Fish   int
	Rolls  int
	Scores map[int8]int
}

// MeanScore averages the scores of non-fish games.
func (s Stats) MeanScore() float64 {
	total, n := 0, 0
	for score, count := range s.Scores {
		if score == FishScore {
			continue
		}
		total += int(score) * count
		n += count
	}
	if n == 0 {
		return 0
	}
	return float64(total) / float64(n)
}

// SortedScores lists the observed scores in ascending order.
func (s Stats) SortedScores() []int8 {
	out := make([]int8, 0, len(s.Scores))
	for score := range s.Scores {
		out = append(out, score)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Simulate plays one full game per seed in [from, from+games) and tallies the
// outcomes. It exists to validate the keep-threshold heuristic empirically.
func Simulate(from uint64, games int) Stats {
	stats := Stats{Scores: map[int8]int{}}
	for i := 0; i < games; i++ {
		e := NewSeeded(from + uint64(i))
		for e.DiceLeft() > 0 {
			e.Roll()
			stats.Rolls++
		}
		res := e.Result()
		stats.Games++
		stats.Scores[e.Score()]++
		switch res.Kind {
		case Won:
			stats.Wins++
		case Fish:
			stats.Fish++
		}
	}
	return stats
}
