package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/resume-optimizer/internal/models"
)

func testCV() *models.CVData {
	end := "2023-01"
	return &models.CVData{
		Basics: models.Basics{
			FullName: "Jane Roe",
			Title:    "Data Analyst",
			Location: "Berlin",
			Email:    "jane@x.com",
			Links:    []models.Link{{Label: "GitHub", URL: "https://github.com/janeroe"}},
		},
		Summary: "- builds reporting pipelines\n- owns dashboard stack",
		Skills:  []models.Skill{{Name: "SQL"}, {Name: "Python", Level: "advanced"}},
		Experience: []models.Experience{
			{Company: "Acme", Position: "Analyst", Start: "2021-02", End: &end, Location: "Berlin",
				Highlights: []string{"migrated reporting to dbt", "cut refresh time"}},
			{Company: "Beta", Position: "Intern", Start: "2020-06", End: nil},
		},
		Projects:     []models.Project{{Name: "etl-kit", Tech: []string{"Go", "Postgres"}, Highlights: []string{"open source ETL helpers"}}},
		Education:    []models.Education{{School: "TU", Degree: "BSc", Start: "2016", End: "2020"}},
		Certificates: []string{"GA4 Certified"},
		Languages:    []models.LanguageSkill{{Name: "English", Level: "C1"}},
		Meta:         models.Meta{Accent: "#6366F1", Lang: "en"},
	}
}

func TestRenderer_Render_Modes(t *testing.T) {
	r := NewRenderer()

	for _, mode := range []string{ModeDesign, ModeATS, "unknown"} {
		t.Run(mode, func(t *testing.T) {
			out, err := r.Render(testCV(), mode)
			require.NoError(t, err)
			require.NotEmpty(t, out)
			assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")), "output must be a PDF document")
		})
	}
}

func TestRenderer_Render_MinimalCV(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render(&models.CVData{Basics: models.Basics{FullName: "X"}}, ModeATS)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestParseAccent(t *testing.T) {
	assert.Equal(t, [3]int{99, 102, 241}, parseAccent("#6366F1"))
	assert.Equal(t, [3]int{255, 0, 0}, parseAccent("FF0000"))
	assert.Equal(t, defaultAccent, parseAccent("nope"))
	assert.Equal(t, defaultAccent, parseAccent(""))
	assert.Equal(t, defaultAccent, parseAccent("#12345"))
}
