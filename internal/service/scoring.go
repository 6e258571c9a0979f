package service

import (
	"github.com/godilite/assessment-server/internal/assessment"
)

// Aggregate computes an assessment result from its questions and responses.
//
// Ratings are averaged on their raw values. Questions on different scales are
// not rescaled to a common range, so a 2 on a 2-point scale and a 2 on a 5-point
// scale count the same. Responses to questions outside the list are ignored.
// Breakdown entries follow the order in which competencies first appear.
func Aggregate(questions []assessment.Question, responses []assessment.Response) assessment.Result {
	type bucket struct {
		breakdown assessment.CompetencyBreakdown
		sum       int
		answered  int
	}

	competencyOf := make(map[string]string, len(questions))
	buckets := make(map[string]*bucket)
	order := make([]string, 0)

	for _, q := range questions {
		competencyOf[q.ID] = q.CompetencyID
		b, ok := buckets[q.CompetencyID]
		if !ok {
			b = &bucket{breakdown: assessment.CompetencyBreakdown{
				CompetencyID:   q.CompetencyID,
				CompetencyName: q.CompetencyName,
			}}
			buckets[q.CompetencyID] = b
			order = append(order, q.CompetencyID)
		}
		b.breakdown.TotalQuestions++
	}

	var (
		total    int
		answered int
		seen     = make(map[string]bool, len(responses))
	)
	for _, r := range responses {
		cid, ok := competencyOf[r.QuestionID]
		if !ok || seen[r.QuestionID] {
			continue
		}
		seen[r.QuestionID] = true

		total += r.Rating
		answered++

		b := buckets[cid]
		b.sum += r.Rating
		b.answered++
	}

	result := assessment.Result{
		AnsweredCount:       answered,
		TotalQuestions:      len(questions),
		CompetencyBreakdown: make([]assessment.CompetencyBreakdown, 0, len(order)),
	}
	if answered > 0 {
		result.AverageScore = float64(total) / float64(answered)
	}

	for _, cid := range order {
		b := buckets[cid]
		if b.answered > 0 {
			b.breakdown.AverageScore = float64(b.sum) / float64(b.answered)
		}
		result.CompetencyBreakdown = append(result.CompetencyBreakdown, b.breakdown)
	}
	return result
}
