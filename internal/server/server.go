// Package server is the HTTP transport in front of the router. It turns an
// *http.Request into a request.Request, binds the session cookie, and renders
// the returned response as HTML or as the JSON envelope.
package server

import (
	"net/http"
	"net/netip"
	"strings"

	"filippo.io/csrf"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"forum/internal/logger"
	"forum/internal/metrics"
	"forum/internal/request"
	"forum/internal/response"
	"forum/internal/router"
	"forum/internal/session"
)

const apiPrefix = "/api"

type Options struct {
	CookieSecure bool
	CORSOrigins  []string
	LoginRate    rate.Limit
	LoginBurst   int
	// TrustedProxies may set X-Forwarded-For and X-Real-IP. Empty means the
	// client IP is always the connection's remote address.
	TrustedProxies []netip.Prefix
}

type Server struct {
	router   *router.Router
	sessions *session.Store
	cookie   session.CookieOptions
	views    *views
	limiter  *loginLimiter
	proxies  []netip.Prefix
	handler  http.Handler
}

func New(r *router.Router, sessions *session.Store, log zerolog.Logger, opts Options) (*Server, error) {
	v, err := loadViews()
	if err != nil {
		return nil, err
	}
	if opts.LoginRate <= 0 {
		opts.LoginRate = rate.Inf
	}
	if opts.LoginBurst <= 0 {
		opts.LoginBurst = 1
	}
	s := &Server{
		router:   r,
		sessions: sessions,
		cookie:   session.CookieOptions{Secure: opts.CookieSecure},
		views:    v,
		limiter:  newLoginLimiter(opts.LoginRate, opts.LoginBurst),
		proxies:  opts.TrustedProxies,
	}
	s.handler = logger.Requests(log)(metrics.InstrumentHandler(s.routes(opts.CORSOrigins)))
	return s, nil
}

func (s *Server) routes(origins []string) http.Handler {
	api := withCORS(origins, http.StripPrefix(apiPrefix, s.dispatch(true)))

	m := mux.NewRouter()
	m.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	m.Handle(apiPrefix, api)
	m.PathPrefix(apiPrefix + "/").Handler(api)
	// CSRF protection for HTML pages (not applied to API routes)
	m.PathPrefix("/").Handler(csrf.New().Handler(s.dispatch(false)))
	return m
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) dispatch(api bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		asJSON := api || wantsJSON(r)
		log := zerolog.Ctx(r.Context())

		req, err := parseRequest(r)
		if err != nil {
			log.Warn().Err(err).Msg("unreadable request body")
			res := response.New()
			res.Fail(http.StatusBadRequest, "Invalid request body!")
			s.write(w, r, res, asJSON)
			return
		}

		if ip := clientIP(r, s.proxies); isLogin(req.Method(), req.Path()) && !s.limiter.allow(ip) {
			log.Warn().Str("client_ip", ip).Msg("login rate limit exceeded")
			res := response.New()
			res.Fail(http.StatusTooManyRequests, "Too many login attempts!")
			s.write(w, r, res, asJSON)
			return
		}

		sess, err := s.bindSession(w, req)
		if err != nil {
			log.Error().Err(err).Msg("create session")
			res := response.New()
			res.Fail(http.StatusInternalServerError, "Internal server error!")
			s.write(w, r, res, asJSON)
			return
		}

		res := s.router.Dispatch(r.Context(), req, response.New(), sess)
		s.write(w, r, res, asJSON)
	})
}

// bindSession resolves the session named by the inbound cookie, or starts a new
// one and issues its cookie when the cookie is missing, unknown or expired.
func (s *Server) bindSession(w http.ResponseWriter, req *request.Request) (*session.Session, error) {
	if id, ok := req.Cookie(session.CookieName); ok {
		if sess, ok := s.sessions.Get(id); ok {
			s.sessions.Touch(sess)
			return sess, nil
		}
	}
	sess, err := s.sessions.Create()
	if err != nil {
		return nil, err
	}
	session.SetCookie(w, sess.ID(), s.cookie)
	return sess, nil
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, res *response.Response, asJSON bool) {
	if id := res.SessionID(); id != "" {
		session.SetCookie(w, id, s.cookie)
	}
	if asJSON {
		if err := res.WriteJSON(w); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("write json response")
		}
		return
	}
	res.CopyHeader(w)
	if res.Redirect() != "" && res.StatusCode() == http.StatusOK {
		http.Redirect(w, r, res.Redirect(), http.StatusSeeOther)
		return
	}
	s.views.render(w, r, res)
}

func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

func isLogin(method, path string) bool {
	return method == http.MethodPost && strings.Trim(path, "/") == "auth/login"
}

func withCORS(allowedOrigins []string, h http.Handler) http.Handler {
	middleware := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type", "Accept", logger.RequestIDHeader},
		ExposedHeaders:   []string{logger.RequestIDHeader},
		AllowCredentials: true, // Required for cookie-based sessions
	})
	return middleware.Handler(h)
}
