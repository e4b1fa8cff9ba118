// internal/httpserver/server.go
//
// HTTP server wiring for the BrainBurst play server.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     request logging).
//   - Public endpoints: "/", "/health", "/games".
//   - Session endpoints (optional auth): mounted under /sessions.
//   - Daily catalog sessions and leaderboard: mounted under /daily.
//   - Bearer/cookie JWT verification and the anonymous player cookie.
//
// Notes:
//   - Tokens are issued elsewhere; this server only verifies them with
//     JWT_SECRET. Without a secret every player is anonymous.
//   - Sessions belong to the player that created them; other players get 404.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/brainburst/apps/go-server/internal/daily"
	"github.com/robalobadob/brainburst/apps/go-server/internal/game"
	"github.com/robalobadob/brainburst/apps/go-server/internal/hints"
	"github.com/robalobadob/brainburst/apps/go-server/internal/store"
)

const (
	anonCookieName = "bb_anon"
	authCookieName = "bb_token"
)

// Options configures a Server.
type Options struct {
	JWTSecret    string
	ClientOrigin string
	// Secure marks cookies Secure/SameSite=None (production behind HTTPS).
	Secure bool
	// Now is the clock used for completion dates; nil means time.Now.
	Now func() time.Time
}

// Server bundles the router and its collaborators.
type Server struct {
	r       *chi.Mux
	reg     *game.Registry
	store   store.Store
	hints   *hints.Service
	results *daily.Store
	opts    Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(reg *game.Registry, st store.Store, hs *hints.Service, results *daily.Store, opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	s := &Server{r: chi.NewRouter(), reg: reg, store: st, hints: hs, results: results, opts: opts}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(requestLogger)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(cors(opts.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"brainburst-go","endpoints":["/health","/games","/sessions","/daily/sessions","/daily/leaderboard"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/games", s.handleGames)

	s.mountSessions(s.r.With(s.withOptionalAuth()))
	s.mountDaily(s.r.With(s.withOptionalAuth()))

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})
	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger logs one line per request with zerolog.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("took", time.Since(start)).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("http")
	})
}

// ------------------------------- auth ---------------------------------------

type ctxUserKey struct{}

// authUser is placed into request context by withOptionalAuth.
type authUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// withOptionalAuth decorates requests with user context if a valid JWT is present.
func (s *Server) withOptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if u := s.verify(bearerOrCookie(r)); u != nil {
				r = r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) verify(tok string) *authUser {
	if tok == "" || s.opts.JWTSecret == "" {
		return nil
	}
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.opts.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		log.Debug().Err(err).Msg("ignoring invalid token")
		return nil
	}
	id, _ := claims["id"].(string)
	if id == "" {
		id, _ = claims["sub"].(string)
	}
	if id == "" {
		return nil
	}
	username, _ := claims["username"].(string)
	return &authUser{ID: id, Username: username}
}

// playerID returns the authenticated user ID, or the anonymous cookie ID
// (set on first use).
func (s *Server) playerID(w http.ResponseWriter, r *http.Request) string {
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		return me.ID
	}
	return s.ensureAnonID(w, r)
}

func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := "anon-" + uuid.NewString()
	sameSite := http.SameSiteLaxMode
	if s.opts.Secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     anonCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: sameSite,
		Expires:  time.Now().Add(180 * 24 * time.Hour),
	})
	return id
}

func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(authCookieName); err == nil {
		return c.Value
	}
	return ""
}

// ------------------------------ helpers -------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ------------------------------- games --------------------------------------

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	out := make([]game.Info, 0, len(s.reg.Types()))
	for _, t := range s.reg.Types() {
		e, err := s.reg.Get(t)
		if err != nil {
			continue
		}
		out = append(out, e.Info())
	}
	writeJSON(w, http.StatusOK, map[string]any{"games": out})
}
