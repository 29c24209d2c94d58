// Package confirm реализует HTTP-обработчик подтверждения покупки.
//
// Покупатель указывает email (и опционально номер заказа); при
// подтверждённой оплате обработчик выпускает сессионный токен и ставит
// его HttpOnly-cookie. Фронтенд токен не читает — его предъявляет
// браузер при запросах генерации.
package confirm

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/resume-optimizer/internal/config"
	"github.com/magabrotheeeer/resume-optimizer/internal/http/response"
	"github.com/magabrotheeeer/resume-optimizer/internal/lib/sl"
	sessionservice "github.com/magabrotheeeer/resume-optimizer/internal/services/session"
)

// Service описывает подтверждение оплаты и выпуск токена.
type Service interface {
	Confirm(ctx context.Context, email, orderID string) (string, error)
}

// Handler выпускает сессионные cookie по подтверждённой оплате.
type Handler struct {
	log     *slog.Logger
	service Service
	session config.Session
	env     string
}

// New создаёт обработчик подтверждения.
func New(log *slog.Logger, service Service, session config.Session, env string) *Handler {
	return &Handler{
		log:     log,
		service: service,
		session: session,
		env:     env,
	}
}

type request struct {
	Email   string `json:"email"`
	OrderID string `json:"order_id"`
}

// credentials принимает email и номер заказа из query-параметров либо из
// JSON-тела; query имеет приоритет.
func credentials(r *http.Request) request {
	req := request{
		Email:   strings.TrimSpace(r.URL.Query().Get("email")),
		OrderID: strings.TrimSpace(r.URL.Query().Get("order_id")),
	}
	if req.Email != "" {
		return req
	}

	var body request
	if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
		req.Email = strings.TrimSpace(body.Email)
		if req.OrderID == "" {
			req.OrderID = strings.TrimSpace(body.OrderID)
		}
	}
	return req
}

// ServeHTTP godoc
// @Summary Подтвердить покупку и открыть сессию
// @Description Проверяет оплату по email (и опционально по номеру заказа), выпускает сессионный токен и ставит его HttpOnly-cookie сроком на год.
// @Tags Session
// @Accept json
// @Produce json
// @Param email query string false "Email покупателя (или в JSON-теле)"
// @Param order_id query string false "Номер заказа"
// @Success 200 {object} response.OKResponse "Сессия открыта, cookie установлена"
// @Failure 400 {object} response.ErrorResponse "Email не передан"
// @Failure 401 {object} response.ErrorResponse "Оплата не найдена или заказ не распознан"
// @Failure 500 {object} response.ErrorResponse "Секрет не сконфигурирован или сбой хранилища"
// @Router /session/confirm [get]
// @Router /session/confirm [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.confirm"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if h.session.Secret == "" {
		log.Error("session secret is not configured")
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("app secret missing"))
		return
	}

	req := credentials(r)
	if req.Email == "" {
		log.Error("email is missing in request")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("email required"))
		return
	}

	token, err := h.service.Confirm(r.Context(), req.Email, req.OrderID)
	switch {
	case errors.Is(err, sessionservice.ErrOrderMismatch):
		log.Warn("order mapped to another identity", slog.String("order_id", req.OrderID))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("order not recognized"))
		return
	case errors.Is(err, sessionservice.ErrNotPaid):
		log.Info("confirm attempt for unpaid identity")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("not paid"))
		return
	case err != nil:
		log.Error("failed to confirm purchase", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to confirm purchase"))
		return
	}

	cookie := &http.Cookie{
		Name:     h.session.CookieName,
		Value:    url.QueryEscape(token),
		Path:     "/",
		MaxAge:   int(h.session.TokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.env == "prod",
	}
	if h.session.CookieDomain != "" {
		cookie.Domain = h.session.CookieDomain
	}
	http.SetCookie(w, cookie)

	log.Info("session opened")
	render.JSON(w, r, response.OK())
}
