package routes

import (
	"log"

	"devconnect/internal/config"
	"devconnect/internal/database"
	"devconnect/internal/delivery/http/handler"
	"devconnect/internal/delivery/http/middleware"
	"devconnect/internal/infrastructure/cache"
	"devconnect/internal/infrastructure/github"
	"devconnect/internal/pkg/jwt"
	"devconnect/internal/repository"
	ucauth "devconnect/internal/usecase/auth"
	ucpost "devconnect/internal/usecase/post"
	ucprofile "devconnect/internal/usecase/profile"
	"devconnect/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Deps struct {
	Config config.Config
	DB     database.DB
	Cache  *cache.Redis
	Hub    *ws.Hub
	Logger *log.Logger
}

func Register(app *fiber.App, d Deps) {
	if app == nil {
		return
	}

	handler.NewHealthHandler().RegisterRoutes(app)

	jwtSvc := jwt.NewHMACService(d.Config.JWT.Secret, d.Config.JWT.ExpiresIn)
	authMw := middleware.NewAuthMiddleware(jwtSvc)

	userRepo := repository.NewPostgresUserRepository(d.DB)
	profileRepo := repository.NewPostgresProfileRepository(d.DB)
	postRepo := repository.NewPostgresPostRepository(d.DB)

	gh := github.NewClient(d.Config.GitHub.APIBaseURL, d.Config.GitHub.Token, d.Logger)

	authUC := ucauth.NewService(userRepo, jwtSvc)
	profileUC := ucprofile.NewService(profileRepo, userRepo, gh, d.Cache, d.Logger)
	postUC := ucpost.NewService(postRepo, userRepo, d.Hub)

	api := app.Group("/api")

	handler.NewUserHandler(authUC).RegisterRoutes(api.Group("/users"))

	authHandler := handler.NewAuthHandler(authUC)
	authHandler.RegisterPublicRoutes(api.Group("/auth"))
	authHandler.RegisterProtectedRoutes(api.Group("/auth", authMw.Middleware()))

	// Public profile routes must be registered before the guarded group:
	// the group's middleware is mounted on the /profile prefix and would
	// otherwise run for them too.
	profileHandler := handler.NewProfileHandler(profileUC)
	profileHandler.RegisterPublicRoutes(api.Group("/profile"))
	profileHandler.RegisterProtectedRoutes(api.Group("/profile", authMw.Middleware()))

	handler.NewPostHandler(postUC).RegisterRoutes(api.Group("/posts", authMw.Middleware()))

	if d.Hub != nil {
		app.Get("/ws/feed", ws.NewHandler(d.Hub, d.Logger).HandleFeedWS)
	}
}
