package session

import (
	"net/http"
	"time"
)

// CookieName имя cookie с сессионным токеном.
const CookieName = "session"

// Cookie собирает сессионную cookie. HttpOnly и SameSite=Lax выставляются
// всегда; Secure — только когда запрос пришёл по TLS (напрямую или через
// терминирующий прокси). MaxAge задаётся только при remember: без него
// cookie живёт до закрытия браузера.
func Cookie(token string, remember, secure bool, rememberTTL time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
	if remember {
		c.MaxAge = int(rememberTTL.Seconds())
	}
	return c
}

// ExpiredCookie возвращает cookie, затирающую сессию при выходе.
func ExpiredCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		MaxAge:   -1,
	}
}

// IsSecureRequest определяет, обслуживается ли запрос по HTTPS,
// в том числе за TLS-терминирующим прокси.
func IsSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return r.Header.Get("X-Forwarded-Proto") == "https"
}
