package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"library-api/internal/config"
	"library-api/internal/handler"
	"library-api/internal/middleware"
	"library-api/internal/model"
)

func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	authEventHandler *handler.AuthEventHandler,
	bookHandler *handler.BookHandler,
	circulationHandler *handler.CirculationHandler,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/auth", func(auth chi.Router) {
		auth.Post("/login", authHandler.Login)
		auth.Post("/register", authHandler.Register)
		auth.Post("/forgot-password", authHandler.ForgotPassword)
		auth.Post("/reset-password", authHandler.ResetPassword)
		auth.Get("/public-key", authHandler.PublicKey)
		auth.With(authMiddleware.RequireAuth).Get("/me", authHandler.Me)
		auth.With(authMiddleware.RequireAuth).Post("/logout", authHandler.Logout)
	})

	r.Route("/admin", func(admin chi.Router) {
		admin.Use(authMiddleware.RequireAuth)

		admin.With(authMiddleware.RequireRoles(model.RoleAdmin)).Post("/users", userHandler.Create)
		admin.With(authMiddleware.RequireRoles(model.RoleAdmin, model.RoleLibrarian)).Get("/users", userHandler.List)
		admin.With(authMiddleware.RequireRoles(model.RoleAdmin, model.RoleLibrarian)).Get("/users/{id}", userHandler.Get)
		admin.With(authMiddleware.RequireRoles(model.RoleAdmin)).Patch("/users/{id}", userHandler.Update)
		admin.With(authMiddleware.RequireRoles(model.RoleAdmin)).Delete("/users/{id}", userHandler.Delete)
		admin.With(authMiddleware.RequireRoles(model.RoleAdmin)).Get("/auth-events", authEventHandler.List)
	})

	staffOnly := []string{model.RoleAdmin, model.RoleLibrarian}

	r.Route("/books", func(books chi.Router) {
		books.Use(authMiddleware.RequireAuth)

		books.Get("/", bookHandler.List)
		books.Get("/{id}", bookHandler.Get)
		books.With(authMiddleware.RequireRoles(staffOnly...)).Post("/", bookHandler.Create)
		books.With(authMiddleware.RequireRoles(staffOnly...)).Put("/{id}", bookHandler.Update)
		books.With(authMiddleware.RequireRoles(staffOnly...)).Delete("/{id}", bookHandler.Delete)
	})

	r.Route("/members", func(members chi.Router) {
		members.Use(authMiddleware.RequireAuth)

		members.Get("/", circulationHandler.ListMembers)
		members.Get("/{id}", circulationHandler.GetMember)
		members.With(authMiddleware.RequireRoles(staffOnly...)).Post("/", circulationHandler.CreateMember)
		members.With(authMiddleware.RequireRoles(staffOnly...)).Put("/{id}", circulationHandler.UpdateMember)
		members.With(authMiddleware.RequireRoles(staffOnly...)).Delete("/{id}", circulationHandler.DeleteMember)
	})

	r.Route("/staff", func(staff chi.Router) {
		staff.Use(authMiddleware.RequireAuth)
		staff.Use(authMiddleware.RequireRoles(staffOnly...))

		staff.Get("/", circulationHandler.ListStaff)
		staff.Get("/{id}", circulationHandler.GetStaff)
		staff.Post("/", circulationHandler.CreateStaff)
		staff.Put("/{id}", circulationHandler.UpdateStaff)
		staff.Delete("/{id}", circulationHandler.DeleteStaff)
	})

	r.Route("/transactions", func(transactions chi.Router) {
		transactions.Use(authMiddleware.RequireAuth)

		transactions.Get("/", circulationHandler.ListTransactions)
		transactions.Get("/{id}", circulationHandler.GetTransaction)
		transactions.With(authMiddleware.RequireRoles(staffOnly...)).Post("/", circulationHandler.CreateTransaction)
		transactions.With(authMiddleware.RequireRoles(staffOnly...)).Put("/{id}", circulationHandler.UpdateTransaction)
		transactions.With(authMiddleware.RequireRoles(staffOnly...)).Delete("/{id}", circulationHandler.DeleteTransaction)
	})

	r.Route("/reservations", func(reservations chi.Router) {
		reservations.Use(authMiddleware.RequireAuth)

		reservations.Get("/", circulationHandler.ListReservations)
		reservations.Get("/{id}", circulationHandler.GetReservation)
		reservations.Post("/", circulationHandler.CreateReservation)
		reservations.With(authMiddleware.RequireRoles(staffOnly...)).Put("/{id}", circulationHandler.UpdateReservation)
		reservations.With(authMiddleware.RequireRoles(staffOnly...)).Delete("/{id}", circulationHandler.DeleteReservation)
	})

	r.Route("/fines", func(fines chi.Router) {
		fines.Use(authMiddleware.RequireAuth)

		fines.Get("/", circulationHandler.ListFines)
		fines.Get("/{id}", circulationHandler.GetFine)
		fines.With(authMiddleware.RequireRoles(staffOnly...)).Post("/", circulationHandler.CreateFine)
		fines.With(authMiddleware.RequireRoles(staffOnly...)).Put("/{id}", circulationHandler.UpdateFine)
		fines.With(authMiddleware.RequireRoles(staffOnly...)).Delete("/{id}", circulationHandler.DeleteFine)
	})

	return r
}
