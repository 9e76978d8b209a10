package app

import (
	"campus_backend/docs"
	"campus_backend/internal/middleware"
	"campus_backend/internal/model"
	"campus_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
	}

	authorized := router.Group("/api")
	authorized.Use(middleware.AuthMiddleware())
	{
		authorized.GET("/auth/profile", c.auth.Profile)
		authorized.GET("/assessments/:id", c.assessment.Get)
		authorized.GET("/batches/:batchId/assessments", c.assessment.ListByBatch)
		authorized.GET("/batches/:batchId/assignments", c.assignment.ListByBatch)
		authorized.GET("/courses/:courseId/skills", c.skill.ListCourseSkills)

		student := authorized.Group("/student")
		student.Use(middleware.RoleMiddleware(model.Student))
		{
			student.POST("/assessments/:id/attempts", c.attempt.Start)
			student.GET("/attempts", c.attempt.ListMine)
			student.GET("/attempts/:id", c.attempt.Get)
			student.PUT("/attempts/:id/answers", c.attempt.SaveAnswer)
			student.POST("/attempts/:id/submit", c.attempt.Submit)
			student.GET("/skills", c.skill.MyProfile)
			student.GET("/assessments/:id/skill-impacts", c.results.MySkillImpacts)
			student.POST("/assignments/:id/submissions", c.assignment.Submit)
		}

		faculty := authorized.Group("/faculty")
		faculty.Use(middleware.RoleMiddleware(model.Faculty))
		{
			faculty.POST("/assessments", c.assessment.Create)
			faculty.GET("/assessments", c.assessment.ListMine)
			faculty.PUT("/assessments/:id", c.assessment.Update)
			faculty.DELETE("/assessments/:id", c.assessment.Delete)
			faculty.POST("/assessments/:id/publish", c.assessment.Publish)
			faculty.POST("/assessments/:id/questions", c.assessment.AddQuestion)
			faculty.PUT("/assessments/:id/questions/:questionId", c.assessment.UpdateQuestion)
			faculty.DELETE("/assessments/:id/questions/:questionId", c.assessment.DeleteQuestion)
			faculty.POST("/assessments/:id/import-from-bank", c.bank.ImportFromBank)
			faculty.GET("/assessments/:id/summary", c.results.Summary)
			faculty.GET("/assessments/:id/results", c.results.StudentResults)

			faculty.POST("/question-banks/import", c.bank.ImportText)
			faculty.GET("/question-banks", c.bank.List)
			faculty.GET("/question-banks/:id", c.bank.Get)
			faculty.DELETE("/question-banks/:id", c.bank.Delete)

			faculty.POST("/courses/:courseId/skills/sync", c.skill.SyncCourse)
			faculty.POST("/skill-mappings", c.skill.CreateMapping)
			faculty.GET("/skill-mappings", c.skill.ListMappings)
			faculty.DELETE("/skill-mappings/:id", c.skill.DeleteMapping)

			faculty.POST("/assignments", c.assignment.Create)
			faculty.GET("/assignments/:id/submissions", c.assignment.ListSubmissions)
			faculty.POST("/submissions/:id/grade", c.assignment.Grade)
		}
	}
}
