package rest

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter собирает gin.Engine со всеми маршрутами API
func NewRouter(d Deps) *gin.Engine {
	h := newHandler(d)
	registerValidators()

	r := gin.New()
	r.Use(recovery(d.Logger))
	r.Use(requestID())
	r.Use(accessLog(d.Logger))
	r.Use(cors.New(corsConfig(d.CORSOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// токен живого канала передаётся в query, а не в заголовке
	r.GET("/ws/notifications", h.LiveNotifications)

	authorized := r.Group("", requireAuth(d.Verifier))

	tutorias := authorized.Group("/tutorias")
	{
		tutorias.POST("", h.CreateBooking)
		tutorias.GET("", h.ListBookings)
		tutorias.GET("/calendar", h.Calendar)
		tutorias.GET("/estudiante/:id", h.ListBookingsByStudent)
		tutorias.GET("/profesor/:id", h.ListBookingsByProfessor)
		tutorias.PATCH("/reschedule/:id", h.RescheduleBooking)
		tutorias.GET("/:id", h.GetBooking)
		tutorias.DELETE("/:id", h.CancelBooking)
	}

	disponibilidad := authorized.Group("/disponibilidad")
	{
		disponibilidad.POST("", h.CreateWindow)
		disponibilidad.PUT("/:id", h.UpdateWindow)
		disponibilidad.DELETE("/:id", h.DeleteWindow)
		disponibilidad.GET("/:id", h.ListWindowsByProfessor)

		pair := disponibilidad.Group("/asignatura/:subject/profesor/:professor")
		pair.GET("", h.ListWindowsByPair)
		pair.GET("/libres", h.FreeSlots)
		pair.GET("/dias", h.Weekdays)
		pair.GET("/dias_libres", h.FreeDates)
	}

	asignaturas := authorized.Group("/asignaturas")
	{
		asignaturas.GET("/profesor/:id", h.SubjectsOfProfessor)
		asignaturas.GET("/:id/profesores", h.ProfessorsOfSubject)
		asignaturas.POST("/:id/profesores", h.AssignProfessor)
		asignaturas.DELETE("/:id/profesores/:professor", h.UnassignProfessor)
	}

	notifications := authorized.Group("/notifications")
	{
		notifications.GET("/user/:id", h.ListNotifications)
		notifications.PATCH("/user/:id/read_all", h.MarkAllNotificationsRead)
		notifications.PATCH("/:id/read", h.MarkNotificationRead)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
