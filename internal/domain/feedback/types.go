package feedback

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/brew-advisor/pkg/util"
)

// MaxRecords bounds the feedback log; older entries are evicted first.
const MaxRecords = 1000

// Record is one immutable feedback entry.
type Record struct {
	ID                  string  `json:"id"`
	Timestamp           string  `json:"timestamp"`
	RecommendedBeverage string  `json:"recommended_beverage"`
	Weather             string  `json:"weather"`
	Mood                string  `json:"mood"`
	Temperature         float64 `json:"temperature"`
	Humidity            float64 `json:"humidity"`
	Liked               bool    `json:"liked"`
	Comment             string  `json:"comment"`
}

// Log is the feedback history in arrival order.
type Log []Record

// Document is the persisted layout shared by the file and snapshot formats.
type Document struct {
	Feedbacks Log `json:"feedbacks"`
}

// BeverageRating aggregates the verdicts recorded for one beverage.
type BeverageRating struct {
	Name             string  `json:"name"`
	Likes            int     `json:"likes"`
	Dislikes         int     `json:"dislikes"`
	Total            int     `json:"total"`
	SatisfactionRate float64 `json:"satisfactionRate"`
}

// Statistics summarises the whole log.
type Statistics struct {
	Total            int              `json:"total"`
	Satisfied        int              `json:"satisfied"`
	Dissatisfied     int              `json:"dissatisfied"`
	SatisfactionRate float64          `json:"satisfactionRate"`
	TopBeverages     []BeverageRating `json:"topBeverages"`
	WorstBeverages   []BeverageRating `json:"worstBeverages"`
	RecentFeedbacks  []Record         `json:"recentFeedbacks"`
}

// DislikePattern is a recurring set of conditions under which users disliked
// the recommendation.
type DislikePattern struct {
	Weather           string   `json:"weather"`
	Mood              string   `json:"mood"`
	TemperatureBucket int      `json:"temperatureBucket"`
	TempRange         string   `json:"tempRange"`
	DislikedBeverages []string `json:"dislikedBeverages"`
	Count             int      `json:"count"`
}

// SubmitRequest is the payload accepted when a user rates a recommendation.
type SubmitRequest struct {
	RecommendedBeverage string  `json:"recommended_beverage"`
	Weather             string  `json:"weather"`
	Mood                string  `json:"mood"`
	Temperature         float64 `json:"temperature"`
	Humidity            float64 `json:"humidity"`
	Liked               *bool   `json:"liked"`
	Comment             string  `json:"comment"`
}

// SubmitResponse acknowledges a stored record.
type SubmitResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	FeedbackID string `json:"feedback_id"`
}

// Report bundles statistics and mined patterns for the stats endpoint.
type Report struct {
	Statistics          Statistics       `json:"statistics"`
	ImprovementPatterns []DislikePattern `json:"improvement_patterns"`
	Message             string           `json:"message"`
}

// Snapshot is the exported analytics bundle.
type Snapshot struct {
	GeneratedAt         string           `json:"generated_at"`
	Statistics          Statistics       `json:"statistics"`
	ImprovementPatterns []DislikePattern `json:"improvement_patterns"`
	Feedbacks           Log              `json:"feedbacks"`
}

// ExportResponse points at the uploaded snapshot.
type ExportResponse struct {
	Key     string `json:"key"`
	Records int    `json:"records"`
}

// Stamp assigns a fresh time-ordered ID and timestamp to rec.
func Stamp(rec Record, now time.Time) (Record, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Record{}, fmt.Errorf("generate feedback id: %w", err)
	}
	rec.ID = id.String()
	rec.Timestamp = util.FormatTimestamp(now)
	return rec, nil
}

// Cap keeps the newest MaxRecords entries of log.
func Cap(log Log) Log {
	if len(log) <= MaxRecords {
		return log
	}
	trimmed := make(Log, MaxRecords)
	copy(trimmed, log[len(log)-MaxRecords:])
	return trimmed
}
