package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	fbauth "firebase.google.com/go/v4/auth"

	httpapi "github.com/lifetribe/goals-backend/internal/api/http"
	apimw "github.com/lifetribe/goals-backend/internal/api/http/middleware"
	"github.com/lifetribe/goals-backend/internal/auth"
	authmw "github.com/lifetribe/goals-backend/internal/auth/middleware"
	goalshttp "github.com/lifetribe/goals-backend/internal/goals/http"
	"github.com/lifetribe/goals-backend/internal/goals/service"
	"github.com/lifetribe/goals-backend/internal/users"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	DB          *pgxpool.Pool
	Redis       *redis.Client
	AuthClient  *fbauth.Client
	Goals       *service.GoalService
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(apimw.RequestIDMiddleware())
	r.Use(apimw.RateLimit(rate.Limit(20), 40))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")

	if dep.AuthClient != nil {
		api.Use(authmw.OptionalFirebaseAuth(dep.AuthClient))
	} else {
		// no firebase credentials: trust X-User-Id, dev only
		api.Use(auth.OptionalUser())
	}
	api.Use(auth.WithUser(users.NewRepo(dep.DB)))

	goalsGroup := api.Group("/goals")
	goalshttp.NewHandler(dep.Goals).Register(goalsGroup)

	return r
}
