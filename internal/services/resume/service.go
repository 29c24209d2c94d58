// Package resume реализует бизнес-логику работы с резюме: анализ против
// описания вакансии и генерацию данных резюме из структурированного
// профиля. Сервис собирает промпты, вызывает LLM-клиент и нормализует
// ответ модели под строгую схему.
package resume

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/resume-optimizer/internal/lib/jsonx"
	"github.com/magabrotheeeer/resume-optimizer/internal/llm"
	"github.com/magabrotheeeer/resume-optimizer/internal/models"
)

// Бюджеты ответа модели по операции и уровню обслуживания.
const (
	analyzeMaxTokensPreview  = 650
	analyzeMaxTokensFull     = 1800
	generateMaxTokensPreview = 1100
	generateMaxTokensFull    = 2200
)

const (
	previewKeywordLimit      = 5
	previewWeakSentenceLimit = 1
	maxProfileLinks          = 6
	defaultAccent            = "#6366F1"
)

// ErrBadModelOutput — модель не вернула валидный JSON даже после
// попытки извлечь объект из текста.
var ErrBadModelOutput = errors.New("model did not return valid JSON")

// Completer описывает клиент текстовой генерации.
type Completer interface {
	Complete(ctx context.Context, params llm.CompletionParams) (string, error)
}

// Service — сервис анализа и генерации резюме.
type Service struct {
	log *slog.Logger
	llm Completer
}

// New создаёт сервис поверх LLM-клиента.
func New(log *slog.Logger, completer Completer) *Service {
	return &Service{
		log: log,
		llm: completer,
	}
}

// Analyze сравнивает резюме с описанием вакансии.
//
// Флаг preview — фактический уровень обслуживания, уже разрешённый
// шлюзом доступа, а не пожелание клиента. На уровне preview результат
// усечён: не больше пяти ключевых слов, одно слабое предложение и без
// переписанного резюме.
func (s *Service) Analyze(ctx context.Context, req models.AnalyzeRequest, preview bool) (*models.AnalysisResult, error) {
	const op = "services.resume.Analyze"

	code := langCode(req.Lang)
	outLang := langName(code)

	params := llm.CompletionParams{
		System:    analyzeSystemPrompt(outLang),
		MaxTokens: analyzeMaxTokensFull,
	}
	if preview {
		params.User = analyzePreviewPrompt(outLang, req.CV, req.JD)
		params.MaxTokens = analyzeMaxTokensPreview
	} else {
		params.User = analyzeFullPrompt(outLang, req.CV, req.JD)
	}

	out, err := s.llm.Complete(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var result models.AnalysisResult
	if err := jsonx.Extract(out, &result); err != nil {
		s.log.Warn("unparseable model output",
			slog.String("op", op),
			slog.Int("output_len", len(out)))
		return nil, fmt.Errorf("%s: %w", op, ErrBadModelOutput)
	}

	if result.MissingKeywords == nil {
		result.MissingKeywords = []string{}
	}
	if result.WeakSentences == nil {
		result.WeakSentences = []models.WeakSentence{}
	}

	if preview {
		if len(result.MissingKeywords) > previewKeywordLimit {
			result.MissingKeywords = result.MissingKeywords[:previewKeywordLimit]
		}
		if len(result.WeakSentences) > previewWeakSentenceLimit {
			result.WeakSentences = result.WeakSentences[:previewWeakSentenceLimit]
		}
		result.OptimizedCV = ""
	}

	return &result, nil
}

// promptProfile — структурированный вход генерации, встраиваемый в промпт.
type promptProfile struct {
	Basics       models.Basics          `json:"basics"`
	Skills       []string               `json:"skills"`
	Experience   []models.Experience    `json:"exp"`
	Projects     []models.Project       `json:"projects"`
	Education    []models.Education     `json:"edu"`
	Certificates []string               `json:"certificates"`
	Languages    []models.LanguageSkill `json:"languages"`
	JD           string                 `json:"jd"`
}

// Generate строит данные резюме из профиля пользователя.
//
// Модель дополняет только summary, навыки и highlights ролей; контактный
// блок, компании, должности и даты всегда берутся из профиля и ответом
// модели не перезаписываются.
func (s *Service) Generate(ctx context.Context, req models.GenerateRequest, preview bool) (*models.GenerateResult, error) {
	const op = "services.resume.Generate"

	code := langCode(req.Lang)
	outLang := langName(code)

	basics := basicsFromProfile(req.Profile)
	input := promptProfile{
		Basics:       basics,
		Skills:       trimStrings(req.Profile.Skills),
		Experience:   req.Profile.Experience,
		Projects:     req.Profile.Projects,
		Education:    req.Profile.Education,
		Certificates: trimStrings(req.Profile.Certificates),
		Languages:    req.Profile.Languages,
		JD:           strings.TrimSpace(req.JD),
	}

	profileJSON, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	params := llm.CompletionParams{
		System:    generateSystemPrompt(outLang),
		User:      generateUserPrompt(preview, outLang, string(profileJSON)),
		MaxTokens: generateMaxTokensFull,
	}
	if preview {
		params.MaxTokens = generateMaxTokensPreview
	}

	out, err := s.llm.Complete(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var envelope struct {
		CVData *models.CVData `json:"cv_data"`
	}
	if err := jsonx.Extract(out, &envelope); err != nil {
		s.log.Warn("unparseable model output",
			slog.String("op", op),
			slog.Int("output_len", len(out)))
		return nil, fmt.Errorf("%s: %w", op, ErrBadModelOutput)
	}

	cv := mergeGenerated(req.Profile, basics, envelope.CVData, code)
	return &models.GenerateResult{CVData: cv, Preview: preview}, nil
}

// mergeGenerated накладывает ответ модели на каркас из профиля.
// Сгенерированные поля берутся у модели, всё остальное — из профиля.
func mergeGenerated(p *models.Profile, basics models.Basics, generated *models.CVData, langCode string) *models.CVData {
	cv := &models.CVData{
		Basics:       basics,
		Projects:     p.Projects,
		Education:    p.Education,
		Certificates: trimStrings(p.Certificates),
		Languages:    nonEmptyLanguages(p.Languages),
		Meta: models.Meta{
			Accent:       defaultAccent,
			IncludePhoto: false,
			Lang:         langCode,
		},
	}

	if generated != nil {
		cv.Summary = generated.Summary
	}
	if generated != nil && len(generated.Skills) > 0 {
		cv.Skills = generated.Skills
	} else {
		cv.Skills = skillsFromNames(p.Skills)
	}

	cv.Experience = make([]models.Experience, len(p.Experience))
	for i, e := range p.Experience {
		merged := models.Experience{
			Company:    strings.TrimSpace(e.Company),
			Position:   strings.TrimSpace(e.Position),
			Start:      strings.TrimSpace(e.Start),
			End:        e.End,
			Location:   strings.TrimSpace(e.Location),
			Highlights: e.Highlights,
		}
		if generated != nil && i < len(generated.Experience) && len(generated.Experience[i].Highlights) > 0 {
			merged.Highlights = generated.Experience[i].Highlights
		}
		if merged.Highlights == nil {
			merged.Highlights = []string{}
		}
		cv.Experience[i] = merged
	}

	return cv
}

func basicsFromProfile(p *models.Profile) models.Basics {
	links := p.Links
	if len(links) > maxProfileLinks {
		links = links[:maxProfileLinks]
	}
	if links == nil {
		links = []models.Link{}
	}
	return models.Basics{
		FullName: strings.TrimSpace(p.FullName),
		Title:    strings.TrimSpace(p.Title),
		Location: strings.TrimSpace(p.Location),
		Phone:    strings.TrimSpace(p.Phone),
		Email:    strings.TrimSpace(p.Email),
		Links:    links,
		PhotoURL: "",
	}
}

func skillsFromNames(names []string) []models.Skill {
	skills := make([]models.Skill, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		skills = append(skills, models.Skill{Name: name})
	}
	return skills
}

func nonEmptyLanguages(langs []models.LanguageSkill) []models.LanguageSkill {
	out := make([]models.LanguageSkill, 0, len(langs))
	for _, l := range langs {
		name := strings.TrimSpace(l.Name)
		if name == "" {
			continue
		}
		out = append(out, models.LanguageSkill{Name: name, Level: strings.TrimSpace(l.Level)})
	}
	return out
}

func trimStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
