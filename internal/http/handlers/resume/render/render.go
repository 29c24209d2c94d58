// Package render реализует HTTP-обработчик выгрузки резюме в PDF.
// Модель здесь не вызывается: рендер детерминирован и квотой не облагается.
package render

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	chirender "github.com/go-chi/render"

	"github.com/magabrotheeeer/resume-optimizer/internal/http/response"
	"github.com/magabrotheeeer/resume-optimizer/internal/lib/sl"
	"github.com/magabrotheeeer/resume-optimizer/internal/models"
	pdfrender "github.com/magabrotheeeer/resume-optimizer/internal/render"
)

// Renderer строит PDF из данных резюме.
type Renderer interface {
	Render(cv *models.CVData, mode string) ([]byte, error)
}

// Handler отдаёт PDF-документ резюме.
type Handler struct {
	log      *slog.Logger
	renderer Renderer
}

// New создаёт обработчик рендера.
func New(log *slog.Logger, renderer Renderer) *Handler {
	return &Handler{log: log, renderer: renderer}
}

type request struct {
	CVData *models.CVData `json:"cv_data"`
}

// ServeHTTP godoc
// @Summary Выгрузить резюме в PDF
// @Description Строит PDF из cv_data. Параметр mode выбирает макет: design (с акцентным цветом) или ats (плоский); по умолчанию design.
// @Tags Resume
// @Accept json
// @Produce application/pdf
// @Param mode query string false "Макет: design или ats" Enums(design, ats)
// @Param request body request true "Данные резюме"
// @Success 200 {file} binary "PDF-документ"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или пустые данные"
// @Failure 500 {object} response.ErrorResponse "Сбой рендера"
// @Router /resume/render [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.resume.render"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		chirender.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if req.CVData == nil {
		log.Error("cv_data is missing in request")
		w.WriteHeader(http.StatusBadRequest)
		chirender.JSON(w, r, response.Error("cv_data required"))
		return
	}

	mode := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("mode")))
	if mode != pdfrender.ModeATS {
		mode = pdfrender.ModeDesign
	}

	pdf, err := h.renderer.Render(req.CVData, mode)
	if err != nil {
		log.Error("failed to render pdf", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		chirender.JSON(w, r, response.Error("failed to render pdf"))
		return
	}

	log.Info("resume rendered", slog.String("mode", mode), slog.Int("size_bytes", len(pdf)))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="resume.pdf"`)
	_, _ = w.Write(pdf)
}
