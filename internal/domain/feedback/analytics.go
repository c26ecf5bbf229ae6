package feedback

import (
	"fmt"
	"math"
	"sort"
)

const (
	topLimit      = 5
	worstLimit    = 5
	worstMinTotal = 3
	recentLimit   = 10
	bucketWidth   = 10
)

// ComputeStats derives satisfaction statistics from the full log.
// Ties in satisfaction rate keep the order in which beverages first appear.
func ComputeStats(log Log) Statistics {
	stats := Statistics{
		TopBeverages:    []BeverageRating{},
		WorstBeverages:  []BeverageRating{},
		RecentFeedbacks: []Record{},
	}
	if len(log) == 0 {
		return stats
	}

	stats.Total = len(log)
	for _, rec := range log {
		if rec.Liked {
			stats.Satisfied++
		} else {
			stats.Dissatisfied++
		}
	}
	stats.SatisfactionRate = percent(stats.Satisfied, stats.Total)

	ratings := rateBeverages(log)

	top := append([]BeverageRating(nil), ratings...)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].SatisfactionRate > top[j].SatisfactionRate
	})
	if len(top) > topLimit {
		top = top[:topLimit]
	}
	stats.TopBeverages = top

	worst := make([]BeverageRating, 0, len(ratings))
	for _, r := range ratings {
		if r.Total >= worstMinTotal {
			worst = append(worst, r)
		}
	}
	sort.SliceStable(worst, func(i, j int) bool {
		return worst[i].SatisfactionRate < worst[j].SatisfactionRate
	})
	if len(worst) > worstLimit {
		worst = worst[:worstLimit]
	}
	stats.WorstBeverages = worst

	stats.RecentFeedbacks = recent(log, recentLimit)
	return stats
}

func rateBeverages(log Log) []BeverageRating {
	index := make(map[string]int)
	ratings := make([]BeverageRating, 0)
	for _, rec := range log {
		pos, ok := index[rec.RecommendedBeverage]
		if !ok {
			pos = len(ratings)
			index[rec.RecommendedBeverage] = pos
			ratings = append(ratings, BeverageRating{Name: rec.RecommendedBeverage})
		}
		r := &ratings[pos]
		r.Total++
		if rec.Liked {
			r.Likes++
		} else {
			r.Dislikes++
		}
	}
	for i := range ratings {
		ratings[i].SatisfactionRate = percent(ratings[i].Likes, ratings[i].Total)
	}
	return ratings
}

func recent(log Log, limit int) []Record {
	n := len(log)
	if n > limit {
		n = limit
	}
	out := make([]Record, 0, n)
	for i := len(log) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, log[i])
	}
	return out
}

// MinePatterns groups disliked records by weather, mood and 10°C temperature
// bucket, most frequent first.
func MinePatterns(log Log) []DislikePattern {
	index := make(map[string]int)
	patterns := make([]DislikePattern, 0)
	for _, rec := range log {
		if rec.Liked {
			continue
		}
		bucket := TemperatureBucket(rec.Temperature)
		key := fmt.Sprintf("%s_%s_%d", rec.Weather, rec.Mood, bucket)
		pos, ok := index[key]
		if !ok {
			pos = len(patterns)
			index[key] = pos
			patterns = append(patterns, DislikePattern{
				Weather:           rec.Weather,
				Mood:              rec.Mood,
				TemperatureBucket: bucket,
				TempRange:         fmt.Sprintf("%d-%d°C", bucket, bucket+bucketWidth),
				DislikedBeverages: []string{},
			})
		}
		p := &patterns[pos]
		p.DislikedBeverages = append(p.DislikedBeverages, rec.RecommendedBeverage)
		p.Count++
	}
	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].Count > patterns[j].Count
	})
	return patterns
}

// TemperatureBucket returns the lower bound of the 10-degree band holding t.
func TemperatureBucket(t float64) int {
	return int(math.Floor(t/bucketWidth)) * bucketWidth
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*100*100) / 100
}
