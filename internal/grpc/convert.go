package grpc

import (
	pb "github.com/godilite/assessment-server/api/v1"
	"github.com/godilite/assessment-server/internal/assessment"
	"github.com/godilite/assessment-server/internal/ratingscale"
)

func toPBCompetencies(in []assessment.Competency) []pb.Competency {
	out := make([]pb.Competency, len(in))
	for i, c := range in {
		out[i] = pb.Competency{ID: c.ID, Name: c.Name, Description: c.Description, Type: c.Type}
	}
	return out
}

func fromPBCompetencies(in []pb.Competency) []assessment.Competency {
	out := make([]assessment.Competency, len(in))
	for i, c := range in {
		out[i] = assessment.Competency{ID: c.ID, Name: c.Name, Description: c.Description, Type: c.Type}
	}
	return out
}

func toPBAssessment(a assessment.Assessment) *pb.Assessment {
	questions := make([]pb.Question, len(a.Questions))
	for i, q := range a.Questions {
		questions[i] = pb.Question{
			ID:                   q.ID,
			CompetencyID:         q.CompetencyID,
			CompetencyName:       q.CompetencyName,
			Statement:            q.Statement,
			RatingOptions:        map[string]string(q.RatingOptions),
			Examples:             q.Examples,
			ProficiencyLevelName: q.ProficiencyLevelName,
		}
	}
	return &pb.Assessment{ID: a.ID, Questions: questions, Status: string(a.Status)}
}

func fromPBAssessment(a *pb.Assessment) (assessment.Assessment, error) {
	status, err := assessment.ParseStatus(a.Status)
	if err != nil {
		return assessment.Assessment{}, err
	}
	questions := make([]assessment.Question, len(a.Questions))
	for i, q := range a.Questions {
		questions[i] = assessment.Question{
			ID:                   q.ID,
			CompetencyID:         q.CompetencyID,
			CompetencyName:       q.CompetencyName,
			Statement:            q.Statement,
			RatingOptions:        ratingscale.Persisted(q.RatingOptions),
			Examples:             q.Examples,
			ProficiencyLevelName: q.ProficiencyLevelName,
		}
	}
	return assessment.Assessment{ID: a.ID, Questions: questions, Status: status}, nil
}

func toPBResult(r assessment.Result) *pb.AssessmentResult {
	breakdown := make([]pb.CompetencyBreakdown, len(r.CompetencyBreakdown))
	for i, b := range r.CompetencyBreakdown {
		breakdown[i] = pb.CompetencyBreakdown(b)
	}
	return &pb.AssessmentResult{
		AverageScore:        r.AverageScore,
		AnsweredCount:       r.AnsweredCount,
		TotalQuestions:      r.TotalQuestions,
		CompetencyBreakdown: breakdown,
	}
}

func fromPBResult(r *pb.AssessmentResult) assessment.Result {
	breakdown := make([]assessment.CompetencyBreakdown, len(r.CompetencyBreakdown))
	for i, b := range r.CompetencyBreakdown {
		breakdown[i] = assessment.CompetencyBreakdown(b)
	}
	return assessment.Result{
		AverageScore:        r.AverageScore,
		AnsweredCount:       r.AnsweredCount,
		TotalQuestions:      r.TotalQuestions,
		CompetencyBreakdown: breakdown,
	}
}

func toPBSummaries(in []assessment.Summary) []pb.AssessmentSummary {
	out := make([]pb.AssessmentSummary, len(in))
	for i, s := range in {
		out[i] = pb.AssessmentSummary{
			ID:             s.ID,
			Status:         string(s.Status),
			StartedAt:      s.StartedAt,
			AnsweredCount:  s.AnsweredCount,
			TotalQuestions: s.TotalQuestions,
			AverageScore:   s.AverageScore,
		}
	}
	return out
}

func fromPBSummaries(in []pb.AssessmentSummary) []assessment.Summary {
	out := make([]assessment.Summary, len(in))
	for i, s := range in {
		out[i] = assessment.Summary{
			ID:             s.ID,
			Status:         assessment.Status(s.Status),
			StartedAt:      s.StartedAt,
			AnsweredCount:  s.AnsweredCount,
			TotalQuestions: s.TotalQuestions,
			AverageScore:   s.AverageScore,
		}
	}
	return out
}
