package routes

import (
	"easymoves/auth"
	"easymoves/cart"
	"easymoves/classes"
	"easymoves/middleware"
	"easymoves/models"
	"easymoves/pay"
	"easymoves/ratelim"
	"easymoves/users"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, h *auth.Handler, rl *ratelim.RateLimiter) {
	router.POST("/jwt", rl.Limit(h.IssueToken))
}

func AddUserRoutes(router *httprouter.Router, h *users.Handler, g *middleware.Guard) {
	router.POST("/user", h.RegisterUser)
	router.GET("/user", h.GetUsers)
	router.GET("/user/level", h.GetLevel)
	router.GET("/instructor", h.ListInstructors)

	router.GET("/user/level/:email",
		middleware.Chain(
			g.Authenticate,
			middleware.RequireSelf("email"),
		)(h.GetOwnLevel),
	)

	router.PATCH("/admin/changeRole",
		middleware.Chain(
			g.Authenticate,
			g.RequireRole(models.RoleAdmin),
		)(h.ChangeRole),
	)

	router.GET("/admin/stats/:email",
		middleware.Chain(
			g.Authenticate,
			g.RequireRole(models.RoleAdmin),
			middleware.RequireSelf("email"),
		)(h.AdminStats),
	)
}

func AddClassRoutes(router *httprouter.Router, h *classes.Handler, g *middleware.Guard) {
	router.GET("/classes", h.ListApproved)
	router.GET("/classes/popular", h.ListPopular)

	router.POST("/instructor/addClass",
		middleware.Chain(
			g.Authenticate,
			g.RequireRole(models.RoleInstructor),
		)(h.AddClass),
	)

	router.PATCH("/instructor/updateClass/:id",
		middleware.Chain(
			g.Authenticate,
			g.RequireRole(models.RoleInstructor),
		)(h.UpdateClass),
	)

	router.GET("/instructor/stats/:email",
		middleware.Chain(
			g.Authenticate,
			g.RequireRole(models.RoleInstructor),
			middleware.RequireSelf("email"),
		)(h.InstructorStats),
	)

	router.PATCH("/class/takeAction",
		middleware.Chain(
			g.Authenticate,
			g.RequireRole(models.RoleAdmin),
		)(h.TakeAction),
	)

	router.PATCH("/class/feedback/:id",
		middleware.Chain(
			g.Authenticate,
			g.RequireRole(models.RoleAdmin),
		)(h.SetFeedback),
	)
}

func AddCartRoutes(router *httprouter.Router, h *cart.Handler, g *middleware.Guard) {
	router.POST("/user/addClass",
		middleware.Chain(
			g.Authenticate,
			g.RequireRole(models.RoleUser),
		)(h.AddToCart),
	)

	router.DELETE("/selectedClass/:id",
		middleware.Chain(
			g.Authenticate,
			g.RequireRole(models.RoleUser),
		)(h.RemoveFromCart),
	)

	router.GET("/user/stats/:email",
		middleware.Chain(
			g.Authenticate,
			g.RequireRole(models.RoleUser),
			middleware.RequireSelf("email"),
		)(h.UserStats),
	)
}

func AddPayRoutes(router *httprouter.Router, h *pay.Handler, g *middleware.Guard, rl *ratelim.RateLimiter, idem pay.IdempotencyStore) {
	router.POST("/create-payment-intent",
		middleware.Chain(
			rl.Limit,
			g.Authenticate,
			g.RequireRole(models.RoleUser),
		)(h.CreatePaymentIntent),
	)

	router.POST("/user/payments",
		middleware.Chain(
			rl.Limit,
			g.Authenticate,
			g.RequireRole(models.RoleUser),
			pay.Idempotent(idem),
		)(h.SettlePayment),
	)

	router.GET("/user/payments/:id/receipt",
		middleware.Chain(
			g.Authenticate,
			g.RequireRole(models.RoleUser),
		)(h.PaymentReceipt),
	)
}
