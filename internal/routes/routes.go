package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	"github.com/BruksfildServices01/studio-scheduler/internal/config"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/account"
	domainInst "github.com/BruksfildServices01/studio-scheduler/internal/domain/instrument"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/lock"
	domainMeeting "github.com/BruksfildServices01/studio-scheduler/internal/domain/meeting"
	domainRes "github.com/BruksfildServices01/studio-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/studio-scheduler/internal/handlers"
	"github.com/BruksfildServices01/studio-scheduler/internal/middleware"
	"github.com/BruksfildServices01/studio-scheduler/internal/usecase/auth"
	"github.com/BruksfildServices01/studio-scheduler/internal/usecase/feed"
	ucInstrument "github.com/BruksfildServices01/studio-scheduler/internal/usecase/instrument"
	ucMeeting "github.com/BruksfildServices01/studio-scheduler/internal/usecase/meeting"
	ucReservation "github.com/BruksfildServices01/studio-scheduler/internal/usecase/reservation"
)

// Dependencies reúne a infraestrutura escolhida pelo main (postgres ou memória).
type Dependencies struct {
	Config *config.Config

	Users        account.Repository
	Instruments  domainInst.Repository
	Reservations domainRes.Repository
	Meetings     domainMeeting.Repository
	AuditStore   audit.Store

	Locks    lock.Manager
	Denylist account.Denylist
	Catalog  domainInst.Cache
	// Images nil desliga upload de imagem
	Images domainInst.ImageStore

	Audit  *audit.Dispatcher
	Tokens *auth.Tokens
	// Register é compartilhado com o bootstrap do admin
	Register *auth.Register
}

func RegisterRoutes(r *gin.Engine, deps Dependencies) {
	cfg := deps.Config

	// ======================================================
	// USE CASES - AUTH
	// ======================================================
	loginUC := auth.NewLogin(deps.Users, deps.Tokens, deps.Audit)
	logoutUC := auth.NewLogout(deps.Denylist, deps.Audit)
	meUC := auth.NewMe(deps.Users)
	authenticateUC := auth.NewAuthenticate(deps.Tokens, deps.Denylist)

	// ======================================================
	// USE CASES - CATALOG
	// ======================================================
	listInstrumentsUC := ucInstrument.NewListInstruments(deps.Instruments, deps.Catalog, cfg.CatalogCacheTTL)
	createInstrumentUC := ucInstrument.NewCreateInstrument(deps.Instruments, deps.Catalog, deps.Images, deps.Audit)
	updateInstrumentUC := ucInstrument.NewUpdateInstrument(deps.Instruments, deps.Catalog, deps.Images, deps.Audit)
	deleteInstrumentUC := ucInstrument.NewDeleteInstrument(deps.Instruments, deps.Locks, deps.Catalog, deps.Images, deps.Audit)

	// ======================================================
	// USE CASES - RESERVATIONS
	// ======================================================
	reserveUC := ucReservation.NewReserve(deps.Reservations, deps.Locks, deps.Audit)
	returnUC := ucReservation.NewReturnReservation(deps.Reservations, deps.Locks, deps.Audit)
	deleteReservationUC := ucReservation.NewDeleteReservation(deps.Reservations, deps.Locks, deps.Audit)
	listReservationsUC := ucReservation.NewListReservations(deps.Reservations)

	// ======================================================
	// USE CASES - MEETINGS
	// ======================================================
	listMeetingsUC := ucMeeting.NewListMeetings(deps.Meetings, cfg.MeetingCapacity)
	createMeetingUC := ucMeeting.NewCreateMeeting(deps.Meetings, deps.Locks, deps.Audit)
	joinMeetingUC := ucMeeting.NewJoinMeeting(deps.Meetings, deps.Locks, deps.Audit, cfg.MeetingCapacity)
	quitMeetingUC := ucMeeting.NewQuitMeeting(deps.Meetings, deps.Locks, deps.Audit)
	updateMeetingStatusUC := ucMeeting.NewUpdateMeetingStatus(deps.Meetings, deps.Locks, deps.Audit)
	deleteMeetingUC := ucMeeting.NewDeleteMeeting(deps.Meetings, deps.Locks, deps.Audit)
	roomAvailabilityUC := ucMeeting.NewRoomAvailability(deps.Meetings, domainMeeting.OpeningHours{
		Opens:  cfg.StudioOpens,
		Closes: cfg.StudioCloses,
	})

	buildFeedUC := feed.NewBuildFeed(listReservationsUC, listMeetingsUC, cfg.Timezone)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(deps.Register, loginUC, logoutUC, meUC)

	instrumentHandler := handlers.NewInstrumentHandler(
		listInstrumentsUC,
		createInstrumentUC,
		updateInstrumentUC,
		deleteInstrumentUC,
		reserveUC,
	)

	reservationHandler := handlers.NewReservationHandler(
		listReservationsUC,
		returnUC,
		deleteReservationUC,
	)

	meetingHandler := handlers.NewMeetingHandler(
		listMeetingsUC,
		createMeetingUC,
		joinMeetingUC,
		quitMeetingUC,
		updateMeetingStatusUC,
		deleteMeetingUC,
		roomAvailabilityUC,
	)

	calendarHandler := handlers.NewCalendarHandler(buildFeedUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(deps.AuditStore, cfg.Timezone)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		// ------------------------------
		// API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(authenticateUC))
		{
			secured.GET("/me", authHandler.Me)
			secured.POST("/logout", authHandler.Logout)

			// INSTRUMENTS
			secured.GET("/instruments", instrumentHandler.List)
			secured.POST("/instruments", instrumentHandler.Create)
			secured.GET("/instruments/:id", instrumentHandler.Get)
			secured.PUT("/instruments/:id", instrumentHandler.Update)
			secured.DELETE("/instruments/:id", instrumentHandler.Delete)
			secured.POST("/instruments/:id/reserve", instrumentHandler.Reserve)

			// RESERVATIONS
			secured.GET("/reservations/my", reservationHandler.Mine)
			secured.GET("/reservations", reservationHandler.All)
			secured.POST("/reservations/:id/return", reservationHandler.Return)
			secured.DELETE("/reservations/:id", reservationHandler.Delete)

			// MEETINGS
			secured.GET("/meetings", meetingHandler.List)
			secured.GET("/meetings/my", meetingHandler.Mine)
			secured.GET("/meetings/available", meetingHandler.Available)
			secured.POST("/meetings", meetingHandler.Create)
			secured.POST("/meetings/:id/join", meetingHandler.Join)
			secured.POST("/meetings/:id/quit", meetingHandler.Quit)
			secured.PATCH("/meetings/:id/status", meetingHandler.UpdateStatus)
			secured.DELETE("/meetings/:id", meetingHandler.Delete)

			// ROOMS / CALENDAR
			secured.GET("/rooms/:room/availability", meetingHandler.RoomAvailability)
			secured.GET("/calendar", calendarHandler.Feed)

			// AUDIT
			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
