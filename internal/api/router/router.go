package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"school-sms/backend/config"
	"school-sms/backend/internal/api/handler"
	"school-sms/backend/internal/api/middleware"
	"school-sms/backend/pkg/jwt"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1（全部需要认证）──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr))
	{
		// 教师模块
		teachers := v1.Group("/teachers")
		{
			teachers.GET("", h.Teacher.ListTeachers)
			teachers.GET("/:id", h.Teacher.GetTeacher)
			teachers.POST("", middleware.RoleAuth("admin"), h.Teacher.CreateTeacher)
		}

		// 课表模块
		timetables := v1.Group("/timetables")
		{
			timetables.GET("", h.Timetable.ListTimetables)
			timetables.GET("/class/:className", h.Timetable.ListByClass)
			timetables.GET("/teacher/:teacherId", h.Timetable.ListByTeacher)
			timetables.GET("/day/:day", h.Timetable.ListByDay)
			timetables.GET("/:id", h.Timetable.GetTimetable)
			timetables.POST("", middleware.RoleAuth("admin"), h.Timetable.CreateTimetable)
			timetables.PUT("/:id", middleware.RoleAuth("admin"), h.Timetable.UpdateTimetable)
			timetables.DELETE("/:id", middleware.RoleAuth("admin"), h.Timetable.DeleteTimetable)
			timetables.POST("/check-conflicts", middleware.RoleAuth("admin"), h.Timetable.CheckConflicts)
		}

		// 导出模块
		export := v1.Group("/export")
		{
			export.GET("/timetables/excel", middleware.RoleAuth("admin", "teacher"), h.Export.ExportExcel)
			export.GET("/timetables/ics", h.Export.ExportICS)
		}
	}

	return r
}
