package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolms/internal/app/controllers"
	"github.com/yigit/schoolms/internal/app/models/dto"
	"github.com/yigit/schoolms/internal/middleware"
)

// Controllers groups every handler mounted by SetupRouter
type Controllers struct {
	Auth      *controllers.AuthController
	Health    *controllers.HealthController
	Courses   *controllers.CourseController
	Lecturers *controllers.LecturerController
	Subjects  *controllers.SubjectController
	Students  *controllers.StudentController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")

	// --- Public routes ---
	api.GET("/health", c.Health.Health)
	api.POST("/login/", c.Auth.Login)

	// --- Authenticated routes ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	courses := authenticated.Group("/courses")
	{
		courses.GET("/", c.Courses.ListCourses)
		courses.POST("/", c.Courses.CreateCourse)
		courses.GET("/:id/", c.Courses.GetCourse)
		courses.PUT("/:id/", c.Courses.UpdateCourse)
		courses.PATCH("/:id/", c.Courses.UpdateCourse)
		courses.DELETE("/:id/", c.Courses.DeleteCourse)
	}

	lecturers := authenticated.Group("/lecturers")
	{
		lecturers.GET("/", c.Lecturers.ListLecturers)
		lecturers.POST("/", c.Lecturers.CreateLecturer)
		lecturers.GET("/:id/", c.Lecturers.GetLecturer)
		lecturers.PUT("/:id/", c.Lecturers.UpdateLecturer)
		lecturers.PATCH("/:id/", c.Lecturers.UpdateLecturer)
		lecturers.DELETE("/:id/", c.Lecturers.DeleteLecturer)
	}

	subjects := authenticated.Group("/subjects")
	{
		subjects.GET("/", c.Subjects.ListSubjects)
		subjects.POST("/", c.Subjects.CreateSubject)
		subjects.GET("/:id/", c.Subjects.GetSubject)
		subjects.PUT("/:id/", c.Subjects.UpdateSubject)
		subjects.PATCH("/:id/", c.Subjects.UpdateSubject)
		subjects.DELETE("/:id/", c.Subjects.DeleteSubject)
	}

	students := authenticated.Group("/students")
	{
		students.GET("/", c.Students.ListStudents)
		students.POST("/", c.Students.CreateStudent)
		students.GET("/:id/", c.Students.GetStudent)
		students.PUT("/:id/", c.Students.UpdateStudent)
		students.PATCH("/:id/", c.Students.UpdateStudent)
		students.DELETE("/:id/", c.Students.DeleteStudent)
	}

	router.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Not found.")))
	})
}
