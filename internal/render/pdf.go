// Package render строит PDF-документ резюме из структуры CVData.
// Поддерживаются два макета: design с акцентным цветом и ats —
// максимально простой, дружественный к парсерам систем отбора.
package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/magabrotheeeer/resume-optimizer/internal/models"
)

// Режимы макета.
const (
	ModeDesign = "design"
	ModeATS    = "ats"
)

var (
	colorText      = [3]int{33, 37, 41}
	colorMuted     = [3]int{108, 117, 125}
	colorRule      = [3]int{222, 226, 230}
	defaultAccent  = [3]int{99, 102, 241}
	atsSectionGapY = 4.0
)

// Renderer превращает данные резюме в PDF.
type Renderer struct{}

// NewRenderer создаёт рендерер.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render строит документ в заданном режиме. Неизвестный режим
// трактуется как design.
func (r *Renderer) Render(cv *models.CVData, mode string) ([]byte, error) {
	const op = "render.Render"

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if mode == ModeATS {
		r.renderATS(pdf, tr, cv)
	} else {
		r.renderDesign(pdf, tr, cv)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf.Bytes(), nil
}

// renderDesign — макет с акцентной полосой и цветными заголовками секций.
func (r *Renderer) renderDesign(pdf *fpdf.Fpdf, tr func(string) string, cv *models.CVData) {
	accent := parseAccent(cv.Meta.Accent)

	pdf.SetMargins(18, 16, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()

	// акцентная полоса сверху
	pdf.SetFillColor(accent[0], accent[1], accent[2])
	pdf.Rect(0, 0, pageWidth, 5, "F")
	pdf.SetY(14)

	// шапка
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(colorText[0], colorText[1], colorText[2])
	pdf.CellFormat(0, 10, tr(cv.Basics.FullName), "", 1, "L", false, 0, "")

	if cv.Basics.Title != "" {
		pdf.SetFont("Helvetica", "", 13)
		pdf.SetTextColor(accent[0], accent[1], accent[2])
		pdf.CellFormat(0, 7, tr(cv.Basics.Title), "", 1, "L", false, 0, "")
	}

	if contact := contactLine(cv.Basics); contact != "" {
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(colorMuted[0], colorMuted[1], colorMuted[2])
		pdf.CellFormat(0, 5, tr(contact), "", 1, "L", false, 0, "")
	}
	for _, link := range cv.Basics.Links {
		if link.URL == "" {
			continue
		}
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(colorMuted[0], colorMuted[1], colorMuted[2])
		label := link.URL
		if link.Label != "" {
			label = link.Label + ": " + link.URL
		}
		pdf.CellFormat(0, 5, tr(label), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	section := func(title string) {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetTextColor(accent[0], accent[1], accent[2])
		pdf.CellFormat(0, 7, tr(strings.ToUpper(title)), "", 1, "L", false, 0, "")
		pdf.SetDrawColor(accent[0], accent[1], accent[2])
		pdf.SetLineWidth(0.4)
		pdf.Line(18, pdf.GetY(), pageWidth-18, pdf.GetY())
		pdf.Ln(2)
	}

	r.writeBody(pdf, tr, cv, section)
}

// renderATS — плоский макет: один шрифт, широкие поля, без графики.
func (r *Renderer) renderATS(pdf *fpdf.Fpdf, tr func(string) string, cv *models.CVData) {
	pdf.SetMargins(25, 25, 25)
	pdf.SetAutoPageBreak(true, 25)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 9, tr(cv.Basics.FullName), "", 1, "L", false, 0, "")

	if cv.Basics.Title != "" {
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 6, tr(cv.Basics.Title), "", 1, "L", false, 0, "")
	}
	if contact := contactLine(cv.Basics); contact != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 5, tr(contact), "", 1, "L", false, 0, "")
	}
	for _, link := range cv.Basics.Links {
		if link.URL == "" {
			continue
		}
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 5, tr(link.URL), "", 1, "L", false, 0, "")
	}
	pdf.Ln(atsSectionGapY)

	section := func(title string) {
		pdf.Ln(atsSectionGapY)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(0, 7, tr(strings.ToUpper(title)), "", 1, "L", false, 0, "")
		pdf.SetDrawColor(colorRule[0], colorRule[1], colorRule[2])
		pdf.SetLineWidth(0.2)
		pdf.Line(25, pdf.GetY(), pageWidth-25, pdf.GetY())
		pdf.Ln(2)
	}

	r.writeBody(pdf, tr, cv, section)
}

// writeBody пишет содержательные секции, общие для обоих макетов.
func (r *Renderer) writeBody(pdf *fpdf.Fpdf, tr func(string) string, cv *models.CVData, section func(string)) {
	if strings.TrimSpace(cv.Summary) != "" {
		section("Summary")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(colorText[0], colorText[1], colorText[2])
		for _, line := range summaryLines(cv.Summary) {
			pdf.MultiCell(0, 5, tr(line), "", "L", false)
		}
	}

	if len(cv.Skills) > 0 {
		section("Skills")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(colorText[0], colorText[1], colorText[2])
		pdf.MultiCell(0, 5, tr(skillsLine(cv.Skills)), "", "L", false)
	}

	if len(cv.Experience) > 0 {
		section("Experience")
		for _, exp := range cv.Experience {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.SetTextColor(colorText[0], colorText[1], colorText[2])
			title := exp.Position
			if exp.Company != "" {
				title = exp.Position + " - " + exp.Company
			}
			pdf.CellFormat(0, 6, tr(title), "", 1, "L", false, 0, "")

			meta := periodLine(exp.Start, exp.End)
			if exp.Location != "" {
				meta = meta + "  |  " + exp.Location
			}
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetTextColor(colorMuted[0], colorMuted[1], colorMuted[2])
			pdf.CellFormat(0, 5, tr(meta), "", 1, "L", false, 0, "")

			pdf.SetFont("Helvetica", "", 10)
			pdf.SetTextColor(colorText[0], colorText[1], colorText[2])
			for _, h := range exp.Highlights {
				pdf.SetX(pdf.GetX() + 3)
				pdf.MultiCell(0, 5, tr("- "+strings.TrimPrefix(strings.TrimSpace(h), "- ")), "", "L", false)
			}
			pdf.Ln(2)
		}
	}

	if len(cv.Projects) > 0 {
		section("Projects")
		for _, p := range cv.Projects {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.SetTextColor(colorText[0], colorText[1], colorText[2])
			name := p.Name
			if len(p.Tech) > 0 {
				name = name + " (" + strings.Join(p.Tech, ", ") + ")"
			}
			pdf.CellFormat(0, 6, tr(name), "", 1, "L", false, 0, "")

			pdf.SetFont("Helvetica", "", 10)
			for _, h := range p.Highlights {
				pdf.SetX(pdf.GetX() + 3)
				pdf.MultiCell(0, 5, tr("- "+strings.TrimPrefix(strings.TrimSpace(h), "- ")), "", "L", false)
			}
			pdf.Ln(1)
		}
	}

	if len(cv.Education) > 0 {
		section("Education")
		for _, edu := range cv.Education {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.SetTextColor(colorText[0], colorText[1], colorText[2])
			pdf.CellFormat(0, 6, tr(edu.Degree+" - "+edu.School), "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetTextColor(colorMuted[0], colorMuted[1], colorMuted[2])
			pdf.CellFormat(0, 5, tr(edu.Start+" - "+edu.End), "", 1, "L", false, 0, "")
		}
	}

	if len(cv.Certificates) > 0 {
		section("Certificates")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(colorText[0], colorText[1], colorText[2])
		for _, c := range cv.Certificates {
			pdf.CellFormat(0, 5, tr("- "+c), "", 1, "L", false, 0, "")
		}
	}

	if len(cv.Languages) > 0 {
		section("Languages")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(colorText[0], colorText[1], colorText[2])
		parts := make([]string, 0, len(cv.Languages))
		for _, l := range cv.Languages {
			if l.Level != "" {
				parts = append(parts, l.Name+" ("+l.Level+")")
			} else {
				parts = append(parts, l.Name)
			}
		}
		pdf.MultiCell(0, 5, tr(strings.Join(parts, ", ")), "", "L", false)
	}
}

// parseAccent разбирает цвет вида "#RRGGBB"; порченое значение
// заменяется цветом по умолчанию.
func parseAccent(hex string) [3]int {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return defaultAccent
	}
	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return defaultAccent
	}
	return [3]int{int(val >> 16 & 0xFF), int(val >> 8 & 0xFF), int(val & 0xFF)}
}

func contactLine(b models.Basics) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{b.Location, b.Phone, b.Email} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, "  |  ")
}

func summaryLines(summary string) []string {
	raw := strings.Split(summary, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

func skillsLine(skills []models.Skill) string {
	parts := make([]string, 0, len(skills))
	for _, s := range skills {
		if s.Name == "" {
			continue
		}
		if s.Level != "" {
			parts = append(parts, s.Name+" ("+s.Level+")")
		} else {
			parts = append(parts, s.Name)
		}
	}
	return strings.Join(parts, " * ")
}

func periodLine(start string, end *string) string {
	if end == nil || strings.TrimSpace(*end) == "" {
		return start + " - Present"
	}
	return start + " - " + *end
}
