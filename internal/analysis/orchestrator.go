package analysis

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/transcriptlens/api/internal/llm"
	"github.com/transcriptlens/api/internal/transcript"
)

// MaxSkills bounds how many skills one request may ask to assess.
const MaxSkills = 20

// Request carries the caller-supplied context for an interview
// analysis. The HTTP boundary validates it before any provider call.
type Request struct {
	Skills      []string `json:"skills_to_assess"`
	JobRole     string   `json:"job_role"`
	CompanyName string   `json:"company_name"`
	Provider    string   `json:"ai_provider"`
}

func (r Request) Validate() error {
	if len(r.Skills) == 0 {
		return fmt.Errorf("at least one skill to assess is required")
	}
	if len(r.Skills) > MaxSkills {
		return fmt.Errorf("at most %d skills may be assessed per request, got %d", MaxSkills, len(r.Skills))
	}
	for i, s := range r.Skills {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("skill %d is empty", i)
		}
	}
	return nil
}

// Orchestrator fans out the four extraction passes (skills, Q&A,
// insights, summary) over one assembled transcript. The passes are
// independent so they run concurrently; the first failure cancels the
// in-flight siblings and fails the whole analysis. There is no
// "analysis with a missing section" success state.
type Orchestrator struct {
	gateway llm.Gateway
	model   string
}

func NewOrchestrator(gw llm.Gateway, model string) *Orchestrator {
	return &Orchestrator{gateway: gw, model: model}
}

type skillsPayload struct {
	Assessments []SkillAssessment `json:"assessments"`
}

type qaPayload struct {
	Exchanges []QuestionAnswer `json:"exchanges"`
}

type summaryPayload struct {
	ExecutiveSummary string `json:"executive_summary"`
}

// Analyze runs all four passes and assembles the terminal Result.
func (o *Orchestrator) Analyze(ctx context.Context, tr transcript.Transcript, req Request) (*Result, error) {
	var (
		skills   skillsPayload
		qa       qaPayload
		insights InterviewInsights
		summary  summaryPayload
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := o.gateway.Extract(ctx, llm.ExtractRequest{
			Provider:   req.Provider,
			Model:      o.model,
			SchemaName: "skill_assessments",
			System:     systemContext(req),
			Prompt:     skillPrompt(tr.Text, req),
			Target:     &skills,
		}); err != nil {
			return err
		}
		for _, a := range skills.Assessments {
			if err := a.Validate(); err != nil {
				return err
			}
		}
		return nil
	})

	g.Go(func() error {
		if err := o.gateway.Extract(ctx, llm.ExtractRequest{
			Provider:   req.Provider,
			Model:      o.model,
			SchemaName: "question_answers",
			System:     systemContext(req),
			Prompt:     qaPrompt(tr.Text, req),
			Target:     &qa,
		}); err != nil {
			return err
		}
		for _, x := range qa.Exchanges {
			if err := x.Validate(); err != nil {
				return err
			}
		}
		return nil
	})

	g.Go(func() error {
		if err := o.gateway.Extract(ctx, llm.ExtractRequest{
			Provider:   req.Provider,
			Model:      o.model,
			SchemaName: "interview_insights",
			System:     systemContext(req),
			Prompt:     insightsPrompt(tr.Text, req),
			Target:     &insights,
		}); err != nil {
			return err
		}
		return insights.Validate()
	})

	g.Go(func() error {
		if err := o.gateway.Extract(ctx, llm.ExtractRequest{
			Provider:   req.Provider,
			Model:      o.model,
			SchemaName: "executive_summary",
			System:     systemContext(req),
			Prompt:     summaryPrompt(tr.Text, req),
			Target:     &summary,
		}); err != nil {
			return err
		}
		if strings.TrimSpace(summary.ExecutiveSummary) == "" {
			return &SchemaValidationError{Field: "executive_summary", Reason: "empty summary"}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// The returned skill list is authoritative: no deduplication and no
	// truncation against the requested set. Partial coverage is a valid
	// analysis outcome.
	return &Result{
		RawTranscript:       tr.Text,
		Skills:              skills.Assessments,
		QuestionsAndAnswers: qa.Exchanges,
		Insights:            insights,
		Summary:             summary.ExecutiveSummary,
		Provider:            req.Provider,
		ChunkCount:          tr.ChunkCount,
	}, nil
}

func systemContext(req Request) string {
	var sb strings.Builder
	sb.WriteString("You are an expert technical interviewer evaluating an interview transcript.")
	if req.JobRole != "" {
		fmt.Fprintf(&sb, " The candidate interviewed for the role of %s.", req.JobRole)
	}
	if req.CompanyName != "" {
		fmt.Fprintf(&sb, " The hiring company is %s.", req.CompanyName)
	}
	return sb.String()
}

func skillPrompt(text string, req Request) string {
	return fmt.Sprintf(`Assess the candidate's demonstrated proficiency in each of the following skills: %s.

For every skill return one assessment with:
- "level": one of "Not Demonstrated", "Beginner", "Intermediate", "Advanced", "Expert"
- "confidence_score": integer 0-100 expressing how confident the assessment is, consistent with the level
- "evidence": concrete moments from the transcript supporting the level
- "recommendations": how the candidate could improve

Transcript:
%s`, strings.Join(req.Skills, ", "), text)
}

func qaPrompt(text string, _ Request) string {
	return fmt.Sprintf(`Identify every distinct question/answer exchange in the interview transcript. For each exchange return the question, the candidate's answer (paraphrased from the transcript), a "grade" that is one of "Poor", "Below Average", "Average", "Good", "Excellent", an integer "score" 0-100 consistent with the grade, feedback, the key points the answer covered, and areas for improvement.

Transcript:
%s`, text)
}

func insightsPrompt(text string, _ Request) string {
	return fmt.Sprintf(`Evaluate the interview as a whole. Return integer scores 0-100 for overall performance, communication, technical depth, problem solving and confidence, plus strengths, weaknesses, notable achievements, red flags, a hiring recommendation and suggested next steps.

Transcript:
%s`, text)
}

func summaryPrompt(text string, req Request) string {
	return fmt.Sprintf(`Write a concise executive summary of the candidate's interview performance for the hiring team, covering skill coverage (%s), answer quality and overall impression.

Transcript:
%s`, strings.Join(req.Skills, ", "), text)
}
