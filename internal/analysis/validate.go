package analysis

import "fmt"

// SchemaValidationError means a provider returned a syntactically valid
// object whose values violate the field contract (range or enum).
// Out-of-range values are rejected, never clamped.
type SchemaValidationError struct {
	Field  string
	Reason string
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("schema validation: %s: %s", e.Field, e.Reason)
}

func checkScore(field string, v int) error {
	if v < 0 || v > 100 {
		return &SchemaValidationError{
			Field:  field,
			Reason: fmt.Sprintf("score %d outside 0-100", v),
		}
	}
	return nil
}

func (a SkillAssessment) Validate() error {
	if a.Skill == "" {
		return &SchemaValidationError{Field: "skill", Reason: "empty skill name"}
	}
	if !skillLevels[a.Level] {
		return &SchemaValidationError{
			Field:  "level",
			Reason: fmt.Sprintf("unrecognized skill level %q", a.Level),
		}
	}
	return checkScore("confidence_score", a.ConfidenceScore)
}

func (qa QuestionAnswer) Validate() error {
	if qa.Question == "" {
		return &SchemaValidationError{Field: "question", Reason: "empty question"}
	}
	if !grades[qa.Grade] {
		return &SchemaValidationError{
			Field:  "grade",
			Reason: fmt.Sprintf("unrecognized grade %q", qa.Grade),
		}
	}
	return checkScore("score", qa.Score)
}

func (in InterviewInsights) Validate() error {
	scores := []struct {
		field string
		value int
	}{
		{"overall_score", in.OverallScore},
		{"communication_score", in.CommunicationScore},
		{"technical_depth_score", in.TechnicalDepthScore},
		{"problem_solving_score", in.ProblemSolvingScore},
		{"confidence_score", in.ConfidenceScore},
	}
	for _, s := range scores {
		if err := checkScore(s.field, s.value); err != nil {
			return err
		}
	}
	if in.HiringRecommendation == "" {
		return &SchemaValidationError{Field: "hiring_recommendation", Reason: "missing hiring recommendation"}
	}
	return nil
}
