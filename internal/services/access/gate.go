// Package access реализует шлюз допуска запросов генерации: определение
// идентичности клиента, разрешение уровня обслуживания по сессионному
// токену и проверку квоты в общем rate limiter.
package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/magabrotheeeer/resume-optimizer/internal/config"
	"github.com/magabrotheeeer/resume-optimizer/internal/lib/identity"
	"github.com/magabrotheeeer/resume-optimizer/internal/lib/sl"
	"github.com/magabrotheeeer/resume-optimizer/internal/models"
	"github.com/magabrotheeeer/resume-optimizer/internal/storage/repository"
)

// ErrRateLimited — квота пары (идентичность, уровень) исчерпана.
var ErrRateLimited = errors.New("too many requests")

// TokenVerifier проверяет сессионный токен и возвращает хеш идентичности.
type TokenVerifier interface {
	Verify(token string, now time.Time) (string, error)
}

// RevocationChecker сообщает, отозвана ли идентичность возвратом платежа.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, identityHash string) (bool, error)
}

// Limiter считает запросы в окне по ключу.
type Limiter interface {
	Allow(ctx context.Context, key string, maxRequests int, window time.Duration) (bool, time.Time, error)
}

// Decision — результат разрешения запроса шлюзом.
type Decision struct {
	ClientID     string      // адрес клиента, ключ rate limiter
	IdentityHash string      // хеш идентичности из токена, пустой без валидного токена
	Tier         models.Tier // фактический уровень обслуживания
}

// Gate — точка композиции контроля доступа.
type Gate struct {
	log        *slog.Logger
	tokens     TokenVerifier
	ledger     RevocationChecker
	limiter    Limiter
	limits     config.RateLimits
	cookieName string
}

// New создаёт шлюз с заданными лимитами уровней.
func New(log *slog.Logger, tokens TokenVerifier, ledger RevocationChecker, limiter Limiter, limits config.RateLimits, cookieName string) *Gate {
	return &Gate{
		log:        log,
		tokens:     tokens,
		ledger:     ledger,
		limiter:    limiter,
		limits:     limits,
		cookieName: cookieName,
	}
}

// Resolve определяет идентичность клиента и уровень обслуживания.
//
// Уровень full выдаётся только при валидном неотозванном токене и
// отсутствии явного запроса preview. Любой сбой проверки — отсутствующий
// или испорченный токен, истёкшая подпись, ошибка хранилища при проверке
// отзыва — принудительно понижает уровень до preview, никогда наоборот.
func (g *Gate) Resolve(r *http.Request, requestedPreview bool) Decision {
	const op = "services.access.Resolve"

	d := Decision{
		ClientID: identity.ClientAddr(r),
		Tier:     models.TierPreview,
	}

	hash, ok := g.sessionIdentity(r)
	if !ok {
		return d
	}
	d.IdentityHash = hash
	if !requestedPreview {
		d.Tier = models.TierFull
	}

	g.log.Debug("request resolved",
		slog.String("op", op),
		slog.String("client_id", d.ClientID),
		slog.String("tier", d.Tier.String()))
	return d
}

// Unlocked сообщает, действителен ли сессионный токен запроса.
// Используется эндпоинтом статуса сессии.
func (g *Gate) Unlocked(r *http.Request) bool {
	_, ok := g.sessionIdentity(r)
	return ok
}

// Admit проверяет квоту для принятого решения. При отказе возвращает
// ErrRateLimited и время до сброса окна (не меньше секунды).
// Ошибка хранилища не превращается в допуск.
func (g *Gate) Admit(ctx context.Context, d Decision) (time.Duration, error) {
	const op = "services.access.Admit"

	limit := g.limits.Preview
	if d.Tier == models.TierFull {
		limit = g.limits.Full
	}

	key := repository.CounterKey(d.Tier.String(), d.ClientID)
	admitted, resetAt, err := g.limiter.Allow(ctx, key, limit.MaxRequests, limit.Window)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if !admitted {
		retryAfter := time.Until(resetAt)
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return retryAfter, ErrRateLimited
	}
	return 0, nil
}

// sessionIdentity извлекает и проверяет токен из cookie запроса.
func (g *Gate) sessionIdentity(r *http.Request) (string, bool) {
	const op = "services.access.sessionIdentity"

	cookie, err := r.Cookie(g.cookieName)
	if err != nil {
		return "", false
	}
	token, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return "", false
	}

	hash, err := g.tokens.Verify(token, time.Now())
	if err != nil {
		return "", false
	}

	revoked, err := g.ledger.IsRevoked(r.Context(), hash)
	if err != nil {
		// хранилище недоступно: считаем права неподтверждёнными
		g.log.Error("revocation check failed", slog.String("op", op), sl.Err(err))
		return "", false
	}
	if revoked {
		return "", false
	}
	return hash, true
}
