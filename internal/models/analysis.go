package models

// AnalyzeRequest — запрос на анализ резюме против описания вакансии.
type AnalyzeRequest struct {
	CV      string `json:"cv" validate:"required"`
	JD      string `json:"jd" validate:"required"`
	Preview bool   `json:"preview"`
	Lang    string `json:"lang"`
}

// WeakSentence — слабое предложение из резюме и его усиленный вариант.
type WeakSentence struct {
	Sentence string `json:"sentence"`
	Rewrite  string `json:"rewrite"`
}

// AnalysisResult — структурированный результат анализа.
// OptimizedCV заполняется только на полном уровне обслуживания.
type AnalysisResult struct {
	ATSScore        float64        `json:"ats_score"`
	MissingKeywords []string       `json:"missing_keywords"`
	WeakSentences   []WeakSentence `json:"weak_sentences"`
	Summary         string         `json:"summary"`
	OptimizedCV     string         `json:"optimized_cv,omitempty"`
}

// GenerateRequest — запрос на генерацию резюме из структурированного профиля.
type GenerateRequest struct {
	Profile *Profile `json:"profile" validate:"required"`
	Preview bool     `json:"preview"`
	Lang    string   `json:"lang"`
	JD      string   `json:"jd"`
}

// GenerateResult — ответ генерации: данные резюме и фактический уровень.
type GenerateResult struct {
	CVData  *CVData `json:"cv_data"`
	Preview bool    `json:"preview"`
}
