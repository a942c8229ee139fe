package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	"github.com/wonder-codes/Placement-Portal-Project/internal/auth"
	"github.com/wonder-codes/Placement-Portal-Project/internal/controller/application"
	"github.com/wonder-codes/Placement-Portal-Project/internal/controller/company"
	"github.com/wonder-codes/Placement-Portal-Project/internal/controller/file"
	"github.com/wonder-codes/Placement-Portal-Project/internal/controller/job"
	"github.com/wonder-codes/Placement-Portal-Project/internal/controller/notification"
	"github.com/wonder-codes/Placement-Portal-Project/internal/controller/student"
	"github.com/wonder-codes/Placement-Portal-Project/internal/controller/tpo"
	"github.com/wonder-codes/Placement-Portal-Project/internal/middleware"
	"github.com/wonder-codes/Placement-Portal-Project/internal/model"

	// Init swagger doc
	_ "github.com/wonder-codes/Placement-Portal-Project/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes will register each http endpoint routes to bound PortalServer instance
func (s *PortalServer) RegisterRoutes() http.Handler {
	r := gin.Default()

	allowOriginsStr := os.Getenv("ALLOW_ORIGIN")
	allowOrigins := strings.Split(allowOriginsStr, ",")

	lAuth := auth.NewLocalAuthHandler(s.DB)
	applicationCtl := application.NewApplicationController(s.DB, s.Effects)
	jobCtl := job.NewJobController(s.DB)
	companyCtl := company.NewCompanyController(s.DB)
	studentCtl := student.NewStudentController(s.DB)
	tpoCtl := tpo.NewTPOController(s.DB, s.Effects, s.Broadcaster)
	notificationCtl := notification.NewNotificationController(s.DB)
	fileCtl := file.NewFileController(s.DB)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.EnvRateLimitMiddleware())

	r.GET("/", s.helloHandler)
	r.GET("/health", s.healthHandler)
	v1 := r.Group("/api/v1")
	{
		authRoute := v1.Group("/auth")
		{
			authRoute.POST("login", lAuth.LoginHandler)
			authRoute.POST("register", lAuth.RegisterHandler)
		}

		needAuth := v1.Group("")
		{
			needAuth.Use(middleware.RequireAuth(s.DB))

			fileRoute := needAuth.Group("/file")
			{
				fileRoute.GET(":id", fileCtl.GetFile)
			}

			notificationRoute := needAuth.Group("/notifications")
			{
				notificationRoute.GET("", notificationCtl.ListHandler)
				notificationRoute.PUT(":id/read", notificationCtl.MarkReadHandler)
				notificationRoute.PUT("read-all", notificationCtl.MarkAllReadHandler)
				notificationRoute.POST("bulk", middleware.CheckRole(model.RoleTPO), notificationCtl.BulkHandler)
			}

			companyRoute := needAuth.Group("/companies")
			{
				companyRoute.GET("", companyCtl.ListHandler)
				companyRoute.GET("my", middleware.CheckRole(model.RoleRecruiter), companyCtl.GetMineHandler)
				companyRoute.GET(":id", companyCtl.GetHandler)
				companyRoute.POST("", middleware.CheckRole(model.RoleRecruiter, model.RoleTPO), companyCtl.RegisterHandler)
				companyRoute.PUT(":id", middleware.CheckRole(model.RoleRecruiter, model.RoleTPO), companyCtl.UpdateHandler)
				companyRoute.PUT(":id/activate", middleware.CheckRole(model.RoleTPO), companyCtl.ActivateHandler)
				companyRoute.DELETE(":id", middleware.CheckRole(model.RoleTPO), companyCtl.DeactivateHandler)
			}

			jobRoute := needAuth.Group("/jobs")
			{
				jobRoute.GET("", jobCtl.ListOpenHandler)
				jobRoute.GET("my", middleware.CheckRole(model.RoleRecruiter), jobCtl.ListMineHandler)
				jobRoute.GET("pending", middleware.CheckRole(model.RoleTPO), jobCtl.ListPendingHandler)
				jobRoute.GET(":id", jobCtl.GetHandler)
				jobRoute.POST("", middleware.CheckRole(model.RoleRecruiter), jobCtl.CreateHandler)
				jobRoute.PUT(":id", middleware.CheckRole(model.RoleRecruiter, model.RoleTPO), jobCtl.UpdateHandler)
				jobRoute.PUT(":id/submit", middleware.CheckRole(model.RoleRecruiter), jobCtl.SubmitHandler)
				jobRoute.PUT(":id/review", middleware.CheckRole(model.RoleTPO), jobCtl.ReviewHandler)
				jobRoute.PUT(":id/close", middleware.CheckRole(model.RoleRecruiter, model.RoleTPO), jobCtl.CloseHandler)
			}

			applicationRoute := needAuth.Group("/applications")
			{
				applicationRoute.POST("", middleware.CheckRole(model.RoleStudent), applicationCtl.ApplyHandler)
				applicationRoute.GET("my", middleware.CheckRole(model.RoleStudent), applicationCtl.GetMyApplications)
				applicationRoute.GET("job/:jobId", middleware.CheckRole(model.RoleRecruiter, model.RoleTPO), applicationCtl.GetJobApplications)
				applicationRoute.PUT(":id/status", middleware.CheckRole(model.RoleRecruiter, model.RoleTPO), applicationCtl.UpdateStatusHandler)
				applicationRoute.PUT(":id/respond", middleware.CheckRole(model.RoleStudent), applicationCtl.RespondHandler)
			}

			studentRoute := needAuth.Group("/students")
			{
				// Recruiters browse the candidate pool through the same directory the TPO uses
				studentRoute.GET("", middleware.CheckRole(model.RoleRecruiter, model.RoleTPO), tpoCtl.ListStudentsHandler)

				studentRoute.Use(middleware.CheckRole(model.RoleStudent))
				studentRoute.GET("me", studentCtl.GetMyProfile)
				studentRoute.PUT("me", studentCtl.UpdateMyProfile)
				studentRoute.POST("me/resume", middleware.SizeLimit(student.MaxResumeSize), studentCtl.UploadResume)
			}

			tpoRoute := needAuth.Group("/tpo")
			{
				tpoRoute.Use(middleware.CheckRole(model.RoleTPO))
				tpoRoute.GET("students", tpoCtl.ListStudentsHandler)
				tpoRoute.PUT("students/:id/verify", tpoCtl.VerifyStudentHandler)
				tpoRoute.PUT("students/:id/placement", tpoCtl.OverridePlacementHandler)
				tpoRoute.GET("placements/feed", tpoCtl.PlacementsFeedHandler)
				tpoRoute.GET("analytics", tpoCtl.AnalyticsHandler)
			}
		}
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func (s *PortalServer) helloHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Placement Portal API"})
}

func (s *PortalServer) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
