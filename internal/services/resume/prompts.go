package resume

import (
	"fmt"
	"strings"
)

// langNames — поддерживаемые языки вывода. Неизвестный код откатывается
// к английскому.
var langNames = map[string]string{
	"en": "English",
	"tr": "Turkish",
	"es": "Spanish",
	"ru": "Russian",
	"fr": "French",
	"ar": "Arabic",
	"zh": "Chinese (Simplified)",
}

// langCode нормализует код языка запроса.
func langCode(lang string) string {
	code := strings.ToLower(strings.TrimSpace(lang))
	if _, ok := langNames[code]; !ok {
		return "en"
	}
	return code
}

func langName(code string) string {
	if name, ok := langNames[code]; ok {
		return name
	}
	return "English"
}

func analyzeSystemPrompt(outLang string) string {
	return strings.TrimSpace(fmt.Sprintf(`
You are an ATS resume analyzer.
Return ONLY valid JSON. No markdown. No extra text.
CRITICAL: All output VALUES MUST be written ONLY in %s. Do not mix languages.
This includes: missing_keywords items, weak_sentences.sentence and weak_sentences.rewrite, summary, and optimized_cv.
Do not add any extra keys.
`, outLang))
}

func analyzePreviewPrompt(outLang, cv, jd string) string {
	return strings.TrimSpace(fmt.Sprintf(`
Return JSON in this exact schema:

{
  "ats_score": number,
  "missing_keywords": string[],
  "weak_sentences": [{"sentence": string, "rewrite": string}],
  "summary": string
}

REQUIREMENTS:
- missing_keywords MUST include exactly 5 items (unique, role-relevant) and MUST be written in %[1]s.
- weak_sentences MUST include exactly 1 item (pick a real sentence from RESUME). Both sentence and rewrite MUST be in %[1]s.
- summary MUST be 4-6 bullet lines in %[1]s.
- Do NOT add extra keys. Do NOT add optimized_cv.
- Do NOT mix languages.
- Proper nouns / technical terms (SQL, GA4, React, AWS, Git, etc.) may stay as-is.
Return ONLY valid JSON.

RESUME:
%[2]s

JOB DESCRIPTION:
%[3]s
`, outLang, cv, jd))
}

func analyzeFullPrompt(outLang, cv, jd string) string {
	return strings.TrimSpace(fmt.Sprintf(`
Analyze the resume vs job description and return JSON in this exact schema:

{
  "ats_score": number,
  "missing_keywords": string[],
  "weak_sentences": [{"sentence": string, "rewrite": string}],
  "optimized_cv": string,
  "summary": string
}

HARD REQUIREMENTS (do NOT be brief):
- missing_keywords MUST include 25-40 items (unique, role-relevant) and MUST be written in %[1]s.
- weak_sentences MUST include 12-18 items (each from the resume text, with a stronger rewrite). Both sentence and rewrite MUST be in %[1]s.
- summary MUST be detailed (8-14 bullet lines) in %[1]s covering:
  1) overall fit diagnosis
  2) top 5 missing skills/keywords to add
  3) biggest ATS/format risks
  4) top 5 rewrite themes (impact/metrics/ownership)
- optimized_cv MUST be a complete rewritten resume (ATS-friendly, bullet-based, achievement-focused, aligned to JD) and MUST be written in %[1]s.
- Keep claims truthful. Do not invent employers, degrees, titles, or metrics.
- Proper nouns / technical terms (SQL, GA4, React, AWS, Git, etc.) may stay as-is.
- Do NOT mix languages.

JSON STRICTNESS:
- KEYS must remain exactly: ats_score, missing_keywords, weak_sentences, optimized_cv, summary.
- Do NOT translate keys.
- No extra keys. No comments. No code fences.

Return ONLY valid JSON.

RESUME:
%[2]s

JOB DESCRIPTION:
%[3]s
`, outLang, cv, jd))
}

func generateSystemPrompt(outLang string) string {
	return strings.TrimSpace(fmt.Sprintf(`
You are ResumeAI.
Return ONLY valid JSON. No markdown. No extra text.
CRITICAL: All output VALUES MUST be ONLY in %s. Do not mix languages.
Do not invent employers, degrees, titles, dates, or metrics. If metrics are missing, write impact without numbers.
Do not add extra keys beyond the required schema.
`, outLang))
}

func generateUserPrompt(preview bool, outLang, profileJSON string) string {
	summaryBullets := "5-7"
	skillCount := "18-28"
	highlightCount := "6-8"
	if preview {
		summaryBullets = "3-4"
		skillCount = "10-14"
		highlightCount = "3-4"
	}

	return strings.TrimSpace(fmt.Sprintf(`
Create a strong ATS-friendly resume content based on the structured profile.
Return JSON with this exact schema:

{
  "cv_data": {
    "basics": {
      "fullName": string,
      "title": string,
      "location": string,
      "phone": string,
      "email": string,
      "links": [{"label": string, "url": string}],
      "photoUrl": string
    },
    "summary": string,
    "skills": [{"name": string, "level": string}],
    "experience": [{
      "company": string,
      "position": string,
      "start": string,
      "end": string|null,
      "location": string,
      "highlights": string[]
    }],
    "projects": [{
      "name": string,
      "tech": string[],
      "highlights": string[]
    }],
    "education": [{
      "school": string,
      "degree": string,
      "start": string,
      "end": string
    }],
    "certificates": string[],
    "languages": [{"name": string, "level": string}],
    "meta": { "accent": string, "includePhoto": boolean, "lang": string }
  }
}

HARD REQUIREMENTS:
- summary MUST be %[1]s bullets (each bullet a single line starting with "- ").
- skills MUST contain %[2]s relevant items (2-4 words max each). Use level as "".
- For each experience role, highlights MUST contain %[3]s bullets.
- Bullets must be strong: Action + Tool/Process + Scope + Outcome (no fake numbers).
- If a JD is provided, tailor summary/skills/highlights toward it.
- Keep company/position/start/end/location as provided. Do not change them.
- Output language: %[4]s. Proper nouns/tech terms (SQL, GA4, React, AWS, Git...) can stay as-is.

INPUT PROFILE (structured):
%[5]s

Return ONLY valid JSON.
`, summaryBullets, skillCount, highlightCount, outLang, profileJSON))
}
