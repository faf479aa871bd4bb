package middleware

import (
	"net/http"
	"net/url"
	"path"
	"strings"

	"boty-storefront/internal/auth"
	"boty-storefront/internal/metrics"
	"boty-storefront/internal/model"
)

const (
	AdminUIPrefix  = "/admin"
	AdminAPIPrefix = "/api/admin"
	AdminLoginPage = "/admin/login"
	AdminLoginAPI  = "/api/admin/auth/login"

	unauthorizedMessage = "No autorizado."
	maxNextLength       = 2048
)

type Surface string

const (
	SurfaceNone Surface = "none"
	SurfaceUI   Surface = "ui"
	SurfaceAPI  Surface = "api"
)

// Decision is the outcome of the guard for one request.
type Decision struct {
	Surface Surface
	Outcome string
	Claims  model.AdminClaims
}

// RouteGuard keeps anonymous callers out of the admin surfaces. API paths
// get a 401 JSON body; UI paths are redirected to the login page with the
// original path in ?next=.
type RouteGuard struct {
	verifier auth.Verifier
	public   map[string]struct{}
}

func NewRouteGuard(verifier auth.Verifier) *RouteGuard {
	return &RouteGuard{
		verifier: verifier,
		public: map[string]struct{}{
			AdminLoginPage: {},
			AdminLoginAPI:  {},
		},
	}
}

// underPrefix matches prefix itself or prefix followed by a segment, so
// /administrator is not under /admin.
func underPrefix(p string, prefix string) bool {
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}

func surfaceOf(p string) Surface {
	switch {
	case underPrefix(p, AdminAPIPrefix):
		return SurfaceAPI
	case underPrefix(p, AdminUIPrefix):
		return SurfaceUI
	default:
		return SurfaceNone
	}
}

// classify looks at both the raw and the cleaned path so dot segments can
// neither smuggle a request out of nor into a protected prefix.
func classify(raw string) (Surface, bool) {
	cleaned := path.Clean("/" + raw)

	surface := surfaceOf(raw)
	if s := surfaceOf(cleaned); s == SurfaceAPI || surface == SurfaceNone {
		surface = s
	}
	if surface == SurfaceNone {
		return SurfaceNone, false
	}

	trimmed := raw
	if len(trimmed) > 1 {
		trimmed = strings.TrimSuffix(trimmed, "/")
	}
	return surface, trimmed == cleaned
}

func isPrefetch(r *http.Request) bool {
	if r.Header.Get("Next-Router-Prefetch") != "" {
		return true
	}
	for _, h := range []string{"Purpose", "Sec-Purpose", "X-Purpose", "X-Moz"} {
		if strings.Contains(strings.ToLower(r.Header.Get(h)), "prefetch") {
			return true
		}
	}
	return false
}

// SanitizeNext returns next when it is a same-origin relative path and ""
// otherwise.
func SanitizeNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || len(next) > maxNextLength {
		return ""
	}
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return ""
	}

	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" || u.Scheme != "" {
		return ""
	}
	if u.Path == AdminLoginPage {
		return ""
	}
	return next
}

// LoginRedirectURL is the login page with next attached when it is safe.
func LoginRedirectURL(next string) string {
	if next = SanitizeNext(next); next == "" {
		return AdminLoginPage
	}
	return AdminLoginPage + "?" + url.Values{"next": {next}}.Encode()
}

// Decide evaluates r without writing a response. Claims are set only on
// the allow outcome.
func (g *RouteGuard) Decide(r *http.Request) Decision {
	surface, canonical := classify(r.URL.Path)
	if surface == SurfaceNone {
		return Decision{Surface: SurfaceNone, Outcome: metrics.DecisionIgnore}
	}

	if canonical {
		p := r.URL.Path
		if len(p) > 1 {
			p = strings.TrimSuffix(p, "/")
		}
		if _, ok := g.public[p]; ok {
			return Decision{Surface: surface, Outcome: metrics.DecisionPublic}
		}
	}

	if isPrefetch(r) {
		return Decision{Surface: surface, Outcome: metrics.DecisionPrefetch}
	}

	if claims, ok := auth.AdminFromRequest(g.verifier, r); ok {
		return Decision{Surface: surface, Outcome: metrics.DecisionAllow, Claims: claims}
	}

	if surface == SurfaceAPI {
		return Decision{Surface: surface, Outcome: metrics.DecisionDeny}
	}
	return Decision{Surface: surface, Outcome: metrics.DecisionRedirect}
}

func (g *RouteGuard) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision := g.Decide(r)
		metrics.GuardDecisionsTotal.WithLabelValues(string(decision.Surface), decision.Outcome).Inc()

		switch decision.Outcome {
		case metrics.DecisionDeny:
			writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", unauthorizedMessage)
			return
		case metrics.DecisionRedirect:
			http.Redirect(w, r, LoginRedirectURL(r.URL.Path), http.StatusTemporaryRedirect)
			return
		case metrics.DecisionAllow:
			r = r.WithContext(withAdmin(r.Context(), decision.Claims))
		}

		next.ServeHTTP(w, r)
	})
}
