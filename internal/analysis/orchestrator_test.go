package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/transcriptlens/api/internal/llm"
	"github.com/transcriptlens/api/internal/transcript"
)

// fakeGateway implements llm.Gateway filling extraction targets with
// canned payloads keyed by schema name.
type fakeGateway struct {
	mu       sync.Mutex
	calls    []string
	failOn   string
	failWith error
}

func (f *fakeGateway) Provider(name string) (llm.Provider, error) { return nil, nil }

func (f *fakeGateway) Format(_ context.Context, req llm.FormatRequest) (*llm.FormatResult, error) {
	return &llm.FormatResult{Text: "formatted", Provider: req.Provider}, nil
}

func (f *fakeGateway) Extract(_ context.Context, req llm.ExtractRequest) error {
	f.mu.Lock()
	f.calls = append(f.calls, req.SchemaName)
	f.mu.Unlock()

	if f.failOn == req.SchemaName {
		return f.failWith
	}

	switch target := req.Target.(type) {
	case *skillsPayload:
		target.Assessments = []SkillAssessment{
			{Skill: "Python", Level: LevelAdvanced, ConfidenceScore: 85, Evidence: "e"},
			{Skill: "Communication", Level: LevelIntermediate, ConfidenceScore: 70, Evidence: "e"},
		}
	case *qaPayload:
		target.Exchanges = []QuestionAnswer{
			{Question: "q1", Answer: "a1", Grade: GradeGood, Score: 75},
			{Question: "q2", Answer: "a2", Grade: GradeAverage, Score: 55},
		}
	case *InterviewInsights:
		*target = InterviewInsights{
			OverallScore: 70, CommunicationScore: 75, TechnicalDepthScore: 65,
			ProblemSolvingScore: 68, ConfidenceScore: 72,
			HiringRecommendation: "Hire",
		}
	case *summaryPayload:
		target.ExecutiveSummary = "Solid candidate."
	}
	return nil
}

func (f *fakeGateway) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testTranscript() transcript.Transcript {
	return transcript.Transcript{Text: "interviewer: q1 candidate: a1 interviewer: q2 candidate: a2", ChunkCount: 3}
}

func testRequest() Request {
	return Request{
		Skills:      []string{"Python", "Communication"},
		JobRole:     "Backend Engineer",
		CompanyName: "Acme",
		Provider:    "openai",
	}
}

func TestOrchestrator_AssemblesResult(t *testing.T) {
	gw := &fakeGateway{}
	o := NewOrchestrator(gw, "gpt-4o")

	res, err := o.Analyze(context.Background(), testTranscript(), testRequest())
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	if len(res.Skills) != 2 {
		t.Errorf("expected 2 skill assessments, got %d", len(res.Skills))
	}
	if len(res.QuestionsAndAnswers) != 2 {
		t.Errorf("expected 2 exchanges, got %d", len(res.QuestionsAndAnswers))
	}
	if res.Insights.OverallScore != 70 {
		t.Errorf("overall score = %d", res.Insights.OverallScore)
	}
	if res.Summary != "Solid candidate." {
		t.Errorf("summary = %q", res.Summary)
	}
	if res.Provider != "openai" {
		t.Errorf("provider = %q", res.Provider)
	}
	if res.ChunkCount != 3 {
		t.Errorf("chunk count = %d", res.ChunkCount)
	}
	if gw.callCount() != 4 {
		t.Errorf("expected 4 extraction passes, got %d", gw.callCount())
	}
}

func TestOrchestrator_AnyPassFailureFailsAnalysis(t *testing.T) {
	for _, schema := range []string{"skill_assessments", "question_answers", "interview_insights", "executive_summary"} {
		t.Run(schema, func(t *testing.T) {
			gw := &fakeGateway{failOn: schema, failWith: errors.New("provider exploded")}
			o := NewOrchestrator(gw, "gpt-4o")

			res, err := o.Analyze(context.Background(), testTranscript(), testRequest())
			if err == nil {
				t.Fatal("expected failure")
			}
			if res != nil {
				t.Error("partial result returned alongside error")
			}
		})
	}
}

func TestOrchestrator_RejectsOutOfRangeProviderOutput(t *testing.T) {
	gw := &badScoreGateway{}
	o := NewOrchestrator(gw, "gpt-4o")

	_, err := o.Analyze(context.Background(), testTranscript(), testRequest())
	var schemaErr *SchemaValidationError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaValidationError, got %v", err)
	}
}

// badScoreGateway returns a syntactically valid skill assessment with a
// confidence score outside 0-100.
type badScoreGateway struct {
	fakeGateway
}

func (b *badScoreGateway) Extract(ctx context.Context, req llm.ExtractRequest) error {
	if target, ok := req.Target.(*skillsPayload); ok {
		target.Assessments = []SkillAssessment{
			{Skill: "Python", Level: LevelExpert, ConfidenceScore: 180},
		}
		return nil
	}
	return b.fakeGateway.Extract(ctx, req)
}
