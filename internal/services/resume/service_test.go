package resume

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/resume-optimizer/internal/llm"
	"github.com/magabrotheeeer/resume-optimizer/internal/models"
)

type CompleterMock struct {
	mock.Mock
}

func (m *CompleterMock) Complete(ctx context.Context, params llm.CompletionParams) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func analyzeReq() models.AnalyzeRequest {
	return models.AnalyzeRequest{CV: "my resume text", JD: "job description", Lang: "en"}
}

const fullAnalysisJSON = `{
	"ats_score": 72.5,
	"missing_keywords": ["kw1", "kw2", "kw3", "kw4", "kw5", "kw6", "kw7"],
	"weak_sentences": [
		{"sentence": "did stuff", "rewrite": "delivered stuff"},
		{"sentence": "helped team", "rewrite": "led team"}
	],
	"summary": "- fit is decent",
	"optimized_cv": "rewritten resume"
}`

func TestService_Analyze_Full(t *testing.T) {
	completer := new(CompleterMock)
	completer.On("Complete", mock.Anything, mock.MatchedBy(func(p llm.CompletionParams) bool {
		return p.MaxTokens == analyzeMaxTokensFull
	})).Return(fullAnalysisJSON, nil).Once()

	svc := New(newNoopLogger(), completer)
	result, err := svc.Analyze(context.Background(), analyzeReq(), false)
	require.NoError(t, err)

	assert.InDelta(t, 72.5, result.ATSScore, 0.01)
	assert.Len(t, result.MissingKeywords, 7)
	assert.Len(t, result.WeakSentences, 2)
	assert.Equal(t, "rewritten resume", result.OptimizedCV)
	completer.AssertExpectations(t)
}

func TestService_Analyze_PreviewTruncation(t *testing.T) {
	completer := new(CompleterMock)
	completer.On("Complete", mock.Anything, mock.MatchedBy(func(p llm.CompletionParams) bool {
		return p.MaxTokens == analyzeMaxTokensPreview
	})).Return(fullAnalysisJSON, nil).Once()

	svc := New(newNoopLogger(), completer)
	result, err := svc.Analyze(context.Background(), analyzeReq(), true)
	require.NoError(t, err)

	assert.Len(t, result.MissingKeywords, previewKeywordLimit)
	assert.Len(t, result.WeakSentences, previewWeakSentenceLimit)
	assert.Empty(t, result.OptimizedCV, "preview must not expose the rewritten resume")
	completer.AssertExpectations(t)
}

func TestService_Analyze_SalvagesFencedJSON(t *testing.T) {
	fenced := "```json\n{\"ats_score\": 50, \"summary\": \"ok\"}\n```"

	completer := new(CompleterMock)
	completer.On("Complete", mock.Anything, mock.Anything).Return(fenced, nil).Once()

	svc := New(newNoopLogger(), completer)
	result, err := svc.Analyze(context.Background(), analyzeReq(), false)
	require.NoError(t, err)

	assert.InDelta(t, 50, result.ATSScore, 0.01)
	assert.Equal(t, "ok", result.Summary)
	assert.NotNil(t, result.MissingKeywords)
	assert.NotNil(t, result.WeakSentences)
}

func TestService_Analyze_BadModelOutput(t *testing.T) {
	completer := new(CompleterMock)
	completer.On("Complete", mock.Anything, mock.Anything).Return("sorry, cannot help", nil).Once()

	svc := New(newNoopLogger(), completer)
	_, err := svc.Analyze(context.Background(), analyzeReq(), false)
	assert.ErrorIs(t, err, ErrBadModelOutput)
}

func TestService_Analyze_CompleterError(t *testing.T) {
	apiErr := &llm.APIError{StatusCode: 429, Body: "rate limited upstream"}

	completer := new(CompleterMock)
	completer.On("Complete", mock.Anything, mock.Anything).Return("", apiErr).Once()

	svc := New(newNoopLogger(), completer)
	_, err := svc.Analyze(context.Background(), analyzeReq(), false)

	var got *llm.APIError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, 429, got.StatusCode)
}

func testProfile() *models.Profile {
	end := "2023-01"
	return &models.Profile{
		FullName: "  Jane Roe ",
		Title:    "Data Analyst",
		Email:    "jane@x.com",
		Skills:   []string{"SQL", " Python ", ""},
		Experience: []models.Experience{
			{Company: "Acme", Position: "Analyst", Start: "2021-02", End: &end, Location: "Berlin"},
			{Company: "Beta", Position: "Intern", Start: "2020-06", End: nil},
		},
		Education: []models.Education{{School: "TU", Degree: "BSc", Start: "2016", End: "2020"}},
		Languages: []models.LanguageSkill{{Name: "English", Level: "C1"}, {Name: "", Level: "A1"}},
	}
}

const generatedCVJSON = `{
	"cv_data": {
		"basics": {"fullName": "Totally Different Person", "email": "attacker@x.com"},
		"summary": "- strong analyst",
		"skills": [{"name": "SQL", "level": ""}, {"name": "dbt", "level": ""}],
		"experience": [
			{"company": "Fabricated Corp", "position": "CTO", "start": "1999", "highlights": ["built dashboards", "automated reports"]},
			{"company": "Also Fake", "position": "CEO", "start": "1998", "highlights": ["shipped models"]}
		],
		"meta": {"accent": "#FF0000", "includePhoto": true, "lang": "xx"}
	}
}`

func TestService_Generate_KeepsProfileSkeleton(t *testing.T) {
	completer := new(CompleterMock)
	completer.On("Complete", mock.Anything, mock.MatchedBy(func(p llm.CompletionParams) bool {
		return p.MaxTokens == generateMaxTokensFull
	})).Return(generatedCVJSON, nil).Once()

	svc := New(newNoopLogger(), completer)
	result, err := svc.Generate(context.Background(), models.GenerateRequest{Profile: testProfile(), Lang: "tr"}, false)
	require.NoError(t, err)
	require.NotNil(t, result.CVData)
	cv := result.CVData

	// контактный блок и каркас опыта — только из профиля
	assert.Equal(t, "Jane Roe", cv.Basics.FullName)
	assert.Equal(t, "jane@x.com", cv.Basics.Email)
	require.Len(t, cv.Experience, 2)
	assert.Equal(t, "Acme", cv.Experience[0].Company)
	assert.Equal(t, "Analyst", cv.Experience[0].Position)
	assert.Equal(t, "2021-02", cv.Experience[0].Start)
	require.NotNil(t, cv.Experience[0].End)
	assert.Equal(t, "2023-01", *cv.Experience[0].End)
	assert.Nil(t, cv.Experience[1].End)

	// сгенерированные поля — от модели
	assert.Equal(t, "- strong analyst", cv.Summary)
	assert.Equal(t, []string{"built dashboards", "automated reports"}, cv.Experience[0].Highlights)
	assert.Equal(t, []string{"shipped models"}, cv.Experience[1].Highlights)
	require.Len(t, cv.Skills, 2)
	assert.Equal(t, "dbt", cv.Skills[1].Name)

	// оформление не доверяется модели
	assert.Equal(t, defaultAccent, cv.Meta.Accent)
	assert.False(t, cv.Meta.IncludePhoto)
	assert.Equal(t, "tr", cv.Meta.Lang)

	assert.False(t, result.Preview)
	completer.AssertExpectations(t)
}

func TestService_Generate_FallbackToProfileSkills(t *testing.T) {
	completer := new(CompleterMock)
	completer.On("Complete", mock.Anything, mock.MatchedBy(func(p llm.CompletionParams) bool {
		return p.MaxTokens == generateMaxTokensPreview
	})).Return(`{"cv_data": {"summary": "- ok"}}`, nil).Once()

	svc := New(newNoopLogger(), completer)
	result, err := svc.Generate(context.Background(), models.GenerateRequest{Profile: testProfile(), Preview: true}, true)
	require.NoError(t, err)
	cv := result.CVData

	require.Len(t, cv.Skills, 2)
	assert.Equal(t, "SQL", cv.Skills[0].Name)
	assert.Equal(t, "Python", cv.Skills[1].Name)
	require.Len(t, cv.Experience, 2)
	assert.NotNil(t, cv.Experience[0].Highlights)
	assert.Equal(t, "en", cv.Meta.Lang, "unknown language falls back to English")
	assert.True(t, result.Preview)
}

func TestService_Generate_BadModelOutput(t *testing.T) {
	completer := new(CompleterMock)
	completer.On("Complete", mock.Anything, mock.Anything).Return("no json here", nil).Once()

	svc := New(newNoopLogger(), completer)
	_, err := svc.Generate(context.Background(), models.GenerateRequest{Profile: testProfile()}, false)
	assert.ErrorIs(t, err, ErrBadModelOutput)
}

func TestLangCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"en", "en"},
		{" TR ", "tr"},
		{"zh", "zh"},
		{"", "en"},
		{"de", "en"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, langCode(tt.in), "lang %q", tt.in)
	}
	assert.Equal(t, "Chinese (Simplified)", langName("zh"))
	assert.Equal(t, "English", langName("xx"))
}
