package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/lernora/lernora/internal/auth"
	authdomain "github.com/lernora/lernora/internal/auth/domain"
	"github.com/lernora/lernora/internal/auth/session"
	"github.com/lernora/lernora/internal/authorization"
	"github.com/lernora/lernora/internal/balance"
	balancedomain "github.com/lernora/lernora/internal/balance/domain"
	"github.com/lernora/lernora/internal/config"
	"github.com/lernora/lernora/internal/course"
	coursedomain "github.com/lernora/lernora/internal/course/domain"
	"github.com/lernora/lernora/internal/enrollment"
	enrollmentdomain "github.com/lernora/lernora/internal/enrollment/domain"
	"github.com/lernora/lernora/internal/group"
	groupdomain "github.com/lernora/lernora/internal/group/domain"
	"github.com/lernora/lernora/internal/observability"
	obsmiddleware "github.com/lernora/lernora/internal/observability/logger"
	obsmetrics "github.com/lernora/lernora/internal/observability/metrics"
	obstracing "github.com/lernora/lernora/internal/observability/tracing"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	authorization.Module,
	auth.Module,
	balance.Module,
	course.Module,
	group.Module,
	enrollment.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

// NewEngine builds the gin engine with the shared middleware chain. Domain
// routes are registered by NewServer.
func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
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
	engine        *gin.Engine
	cfg           config.Config
	db            *gorm.DB
	genID         *snowflake.Node
	sessions      *session.Manager
	authsvc       authdomain.Service
	authzSvc      authorization.Service
	balanceSvc    balancedomain.Service
	courseSvc     coursedomain.Service
	groupSvc      groupdomain.Service
	enrollmentSvc enrollmentdomain.Service
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	DB            *gorm.DB
	GenID         *snowflake.Node
	Sessions      *session.Manager
	Authsvc       authdomain.Service
	AuthzSvc      authorization.Service
	BalanceSvc    balancedomain.Service
	CourseSvc     coursedomain.Service
	GroupSvc      groupdomain.Service
	EnrollmentSvc enrollmentdomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		db:            p.DB,
		genID:         p.GenID,
		sessions:      p.Sessions,
		authsvc:       p.Authsvc,
		authzSvc:      p.AuthzSvc,
		balanceSvc:    p.BalanceSvc,
		courseSvc:     p.CourseSvc,
		groupSvc:      p.GroupSvc,
		enrollmentSvc: p.EnrollmentSvc,
	}

	s.registerAuthRoutes()
	s.registerAPIRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/register", s.Register)
	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/v1", s.AuthRequired())

	// -------- Courses --------
	api.GET("/courses", s.authorize(authorization.ObjectCourse, authorization.ActionView), s.ListCourses)
	api.POST("/courses", s.authorize(authorization.ObjectCourse, authorization.ActionCreate), s.CreateCourse)
	api.GET("/courses/:course_id", s.authorize(authorization.ObjectCourse, authorization.ActionView), s.GetCourseByID)
	api.PATCH("/courses/:course_id", s.authorize(authorization.ObjectCourse, authorization.ActionUpdate), s.UpdateCourse)
	api.DELETE("/courses/:course_id", s.authorize(authorization.ObjectCourse, authorization.ActionDelete), s.DeleteCourse)

	// -------- Purchase --------
	api.POST("/courses/:course_id/pay", s.authorize(authorization.ObjectCourse, authorization.ActionPurchase), s.PayCourse)

	// -------- Lessons --------
	// Content is gated twice: role check plus an active subscription for
	// non-staff users.
	api.GET("/courses/:course_id/lessons", s.authorize(authorization.ObjectLesson, authorization.ActionView), s.RequireSubscription(), s.ListLessons)
	api.POST("/courses/:course_id/lessons", s.authorize(authorization.ObjectLesson, authorization.ActionCreate), s.CreateLesson)
	api.PATCH("/courses/:course_id/lessons/:lesson_id", s.authorize(authorization.ObjectLesson, authorization.ActionUpdate), s.UpdateLesson)
	api.DELETE("/courses/:course_id/lessons/:lesson_id", s.authorize(authorization.ObjectLesson, authorization.ActionDelete), s.DeleteLesson)

	// -------- Groups --------
	// Same double gate as lessons: group rosters are course content.
	api.GET("/courses/:course_id/groups", s.authorize(authorization.ObjectGroup, authorization.ActionView), s.RequireSubscription(), s.ListGroups)
	api.POST("/courses/:course_id/groups", s.authorize(authorization.ObjectGroup, authorization.ActionCreate), s.CreateGroup)
	api.DELETE("/courses/:course_id/groups/:group_id", s.authorize(authorization.ObjectGroup, authorization.ActionDelete), s.DeleteGroup)

	// -------- Me --------
	api.GET("/me/balance", s.GetMyBalance)
	api.GET("/me/subscriptions", s.ListMySubscriptions)

	// -------- Balances (staff) --------
	api.POST("/balances/:user_id/credit", s.authorize(authorization.ObjectBalance, authorization.ActionBalanceCredit), s.CreditBalance)
}
