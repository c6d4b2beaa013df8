package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/blog-lite/internal/handlers"
	"github.com/thereayou/blog-lite/internal/middleware"
	"github.com/thereayou/blog-lite/internal/session"
)

// formOverhead is the room left for the text fields of a multipart upload.
const formOverhead = 64 << 10

type Handlers struct {
	Render *handlers.Renderer
	Pages  *handlers.PageHandler
	Auth   *handlers.AuthHandler
	Users  *handlers.UserHandler
	Posts  *handlers.PostHandler
	Feed   *handlers.FeedHandler
}

type Middlewares struct {
	Sessions  *session.Manager
	Users     middleware.UserResolver
	Logger    *slog.Logger
	BodyLimit int64
	StaticDir string
}

type access int

const (
	public access = iota
	anonymousOnly
	loginRequired
)

type route struct {
	method  string
	path    string
	access  access
	handler gin.HandlerFunc
}

func pageRoutes(h Handlers) []route {
	return []route{
		{http.MethodGet, "/", public, h.Pages.Home},
		{http.MethodGet, "/home", public, h.Pages.Home},
		{http.MethodGet, "/about", public, h.Pages.About},

		{http.MethodGet, "/register", anonymousOnly, h.Auth.RegisterPage},
		{http.MethodPost, "/register", anonymousOnly, h.Auth.Register},
		{http.MethodGet, "/login", anonymousOnly, h.Auth.LoginPage},
		{http.MethodPost, "/login", anonymousOnly, h.Auth.Login},
		{http.MethodGet, "/logout", public, h.Auth.Logout},

		{http.MethodGet, "/account", loginRequired, h.Users.Account},
		{http.MethodPost, "/account", loginRequired, h.Users.UpdateAccount},

		{http.MethodGet, "/post/new", loginRequired, h.Posts.NewPost},
		{http.MethodPost, "/post/new", loginRequired, h.Posts.CreatePost},
	}
}

func Endpoints(r *gin.Engine, mw Middlewares, h Handlers) {
	r.Use(
		middleware.RequestLogger(mw.Logger),
		middleware.Recovery(mw.Logger, func(c *gin.Context) { h.Render.InternalError(c, nil) }),
	)

	r.Static("/static", mw.StaticDir)

	// live feed, no session needed
	r.GET("/feed/ws", h.Feed.Feed)

	pages := r.Group("/",
		middleware.BodyLimit(mw.BodyLimit),
		middleware.LoadSession(mw.Sessions, mw.Users, mw.Logger),
		middleware.CSRF(mw.Sessions),
	)
	guards := map[access]gin.HandlerFunc{
		anonymousOnly: middleware.AnonymousOnly(),
		loginRequired: middleware.LoginRequired(mw.Sessions, mw.Logger),
	}
	for _, rt := range pageRoutes(h) {
		chain := []gin.HandlerFunc{rt.handler}
		if guard, ok := guards[rt.access]; ok {
			chain = append([]gin.HandlerFunc{guard}, chain...)
		}
		pages.Handle(rt.method, rt.path, chain...)
	}

	r.NoRoute(
		middleware.LoadSession(mw.Sessions, mw.Users, mw.Logger),
		h.Render.NotFound,
	)
}
