package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/storefront/internal/advisor"
	advisordomain "github.com/smallbiznis/storefront/internal/advisor/domain"
	"github.com/smallbiznis/storefront/internal/audit"
	auditdomain "github.com/smallbiznis/storefront/internal/audit/domain"
	"github.com/smallbiznis/storefront/internal/authorization"
	"github.com/smallbiznis/storefront/internal/businessmode"
	modedomain "github.com/smallbiznis/storefront/internal/businessmode/domain"
	"github.com/smallbiznis/storefront/internal/config"
	"github.com/smallbiznis/storefront/internal/identity"
	identitydomain "github.com/smallbiznis/storefront/internal/identity/domain"
	"github.com/smallbiznis/storefront/internal/identity/session"
	"github.com/smallbiznis/storefront/internal/observability"
	obsmiddleware "github.com/smallbiznis/storefront/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/storefront/internal/observability/metrics"
	obstracing "github.com/smallbiznis/storefront/internal/observability/tracing"
	"github.com/smallbiznis/storefront/internal/ratelimit"
	"github.com/smallbiznis/storefront/internal/transition"
	transitiondomain "github.com/smallbiznis/storefront/internal/transition/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	config.Module,
	fx.Provide(registerGin),
	authorization.Module,
	audit.Module,
	identity.Module,
	businessmode.Module,
	advisor.Module,
	transition.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config) *gin.Engine {
	return NewEngine(obsCfg)
}

func run(lc fx.Lifecycle, r *gin.Engine) {
	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	db             *gorm.DB
	log            *zap.Logger
	sessions       *session.Manager
	genID          *snowflake.Node
	identitySvc    identitydomain.Service
	modeSvc        modedomain.Service
	advisorSvc     advisordomain.Service
	transitionSvc  transitiondomain.Service
	auditSvc       auditdomain.Service
	authzSvc       authorization.Service
	advisorLimiter *ratelimit.AdvisorLimiter
	obsMetrics     *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	DB            *gorm.DB
	Log           *zap.Logger
	Sessions      *session.Manager
	GenID         *snowflake.Node
	IdentitySvc   identitydomain.Service
	ModeSvc       modedomain.Service
	AdvisorSvc    advisordomain.Service
	TransitionSvc transitiondomain.Service
	AuditSvc      auditdomain.Service
	AuthzSvc      authorization.Service

	AdvisorLimiter *ratelimit.AdvisorLimiter `optional:"true"`
	ObsMetrics     *obsmetrics.Metrics       `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		db:             p.DB,
		log:            p.Log.Named("http.server"),
		sessions:       p.Sessions,
		genID:          p.GenID,
		identitySvc:    p.IdentitySvc,
		modeSvc:        p.ModeSvc,
		advisorSvc:     p.AdvisorSvc,
		transitionSvc:  p.TransitionSvc,
		auditSvc:       p.AuditSvc,
		authzSvc:       p.AuthzSvc,
		advisorLimiter: p.AdvisorLimiter,
		obsMetrics:     p.ObsMetrics,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")
	auth.Use(s.ActorContext())

	auth.GET("/me", s.Me)
	auth.POST("/logout", s.Logout)
	auth.POST("/demo/role", s.RequireAuth(), s.SwitchDemoRole)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.ActorContext())

	// -------- Business mode --------
	api.GET("/mode", s.GetMode)
	api.PUT("/mode", s.RequireAuth(), s.PutMode)
	api.DELETE("/mode", s.RequireAuth(), s.ClearMode)
	api.POST("/mode/select", s.RequireAuth(), s.SelectMode)

	// -------- Advisor --------
	api.POST("/advisor/usage", s.AdvisorUsage)
	api.POST("/advisor/intent", s.AdvisorRateLimit(), s.AdvisorIntent)

	// -------- Route gate --------
	api.GET("/gate/evaluate", s.EvaluateGate)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin")

	admin.Use(s.ActorContext())
	admin.Use(s.RequireAuth())
	admin.Use(s.RequireAdminArea())

	admin.GET("/audit", s.AuthorizeAction(authorization.ObjectAuditLog, authorization.ActionAuditLogView), s.ListAuditLogs)
}
