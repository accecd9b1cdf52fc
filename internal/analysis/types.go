package analysis

// SkillLevel is the fixed ordinal proficiency scale.
type SkillLevel string

const (
	LevelNotDemonstrated SkillLevel = "Not Demonstrated"
	LevelBeginner        SkillLevel = "Beginner"
	LevelIntermediate    SkillLevel = "Intermediate"
	LevelAdvanced        SkillLevel = "Advanced"
	LevelExpert          SkillLevel = "Expert"
)

var skillLevels = map[SkillLevel]bool{
	LevelNotDemonstrated: true,
	LevelBeginner:        true,
	LevelIntermediate:    true,
	LevelAdvanced:        true,
	LevelExpert:          true,
}

// Grade is the fixed ordinal rubric for answer quality.
type Grade string

const (
	GradePoor         Grade = "Poor"
	GradeBelowAverage Grade = "Below Average"
	GradeAverage      Grade = "Average"
	GradeGood         Grade = "Good"
	GradeExcellent    Grade = "Excellent"
)

var grades = map[Grade]bool{
	GradePoor:         true,
	GradeBelowAverage: true,
	GradeAverage:      true,
	GradeGood:         true,
	GradeExcellent:    true,
}

// SkillAssessment is a scored, evidenced judgment of one named skill.
type SkillAssessment struct {
	Skill           string     `json:"skill"`
	Level           SkillLevel `json:"level"`
	ConfidenceScore int        `json:"confidence_score"`
	Evidence        string     `json:"evidence"`
	Recommendations string     `json:"recommendations"`
}

// QuestionAnswer is one extracted and graded interview exchange. The
// question and answer are derived from the transcript, not quoted
// verbatim.
type QuestionAnswer struct {
	Question            string   `json:"question"`
	Answer              string   `json:"answer"`
	Grade               Grade    `json:"grade"`
	Score               int      `json:"score"`
	Feedback            string   `json:"feedback"`
	KeyPointsCovered    []string `json:"key_points_covered"`
	AreasForImprovement []string `json:"areas_for_improvement"`
}

// InterviewInsights is the whole-interview aggregate judgment.
type InterviewInsights struct {
	OverallScore         int      `json:"overall_score"`
	CommunicationScore   int      `json:"communication_score"`
	TechnicalDepthScore  int      `json:"technical_depth_score"`
	ProblemSolvingScore  int      `json:"problem_solving_score"`
	ConfidenceScore      int      `json:"confidence_score"`
	Strengths            []string `json:"strengths"`
	Weaknesses           []string `json:"weaknesses"`
	Achievements         []string `json:"achievements"`
	RedFlags             []string `json:"red_flags"`
	HiringRecommendation string   `json:"hiring_recommendation"`
	NextSteps            string   `json:"next_steps"`
}

// Result is the terminal analysis artifact. It is fully populated
// before being returned and never mutated afterwards.
type Result struct {
	RawTranscript       string            `json:"raw_transcript"`
	Skills              []SkillAssessment `json:"skill_assessments"`
	QuestionsAndAnswers []QuestionAnswer  `json:"questions_and_answers"`
	Insights            InterviewInsights `json:"insights"`
	Summary             string            `json:"executive_summary"`
	Provider            string            `json:"ai_provider"`
	ChunkCount          int               `json:"file_chunks"`
}
