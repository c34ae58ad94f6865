package api

import (
	"barefoot/internal/entity"
	"barefoot/internal/guard"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册 /api/v1 下的所有路由及其访问策略
func (h *HTTPHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	v1 := r.Group("/api/v1")
	v1.Use(h.LanguageMiddleware())

	authGroup := v1.Group("/auth")
	authGroup.POST("/signup", h.Signup)
	authGroup.POST("/login", h.Login)
	authGroup.POST("/logout", h.Guard(), h.Logout)
	authGroup.GET("/verification", h.Guard(), h.VerifyEmail)
	authGroup.POST("/forgot-password", h.ForgotPassword)
	authGroup.PATCH("/reset-password", h.Guard(h.loadCurrentUser()), h.ResetPassword)
	authGroup.GET("/:provider", h.OAuthStart)
	authGroup.GET("/:provider/callback", h.OAuthCallback)

	users := v1.Group("/users")
	users.PATCH("/setroles", h.Guard(superAdminOnly), h.SetRoles)
	users.PATCH("/assign/manager", h.Guard(superAdminOnly), h.AssignManager)
	users.GET("/view", h.Guard(superAdminOnly), h.ListUsers)
	users.GET("/view-profile", h.Guard(), h.ViewProfile)
	users.PATCH("/edit-profile", h.Guard(), h.EditProfile)
	users.PATCH("/edit-profile-image", h.Guard(), h.EditProfileImage)

	trips := v1.Group("/trips")
	trips.POST("/one-way", h.Guard(requesterOnly, guard.RequireVerified(), h.loadCurrentUser(), h.requireManagerAssigned()), h.CreateTrip(entity.TripOneWay))
	trips.POST("/return", h.Guard(requesterOnly, guard.RequireVerified(), h.loadCurrentUser(), h.requireManagerAssigned()), h.CreateTrip(entity.TripReturn))
	trips.POST("/multi-city", h.Guard(requesterOnly, guard.RequireVerified(), h.loadCurrentUser(), h.requireManagerAssigned()), h.CreateTrip(entity.TripMultiCity))
	trips.GET("/view", h.Guard(), h.ListOwnTrips)
	trips.GET("/view-pending", h.Guard(managerOnly), h.ListPendingTrips)
	trips.GET("/:requestId/view", h.Guard(h.loadTrip(), guard.Any(tripOwner(), tripManager())), h.ViewTrip)
	trips.PATCH("/:requestId/edit", h.Guard(requesterOnly, h.loadTrip(), tripOwner()), h.EditTrip)
	trips.PATCH("/:requestId/approve", h.Guard(managerOnly, h.loadTrip(), tripManager()), h.DecideTrip(entity.TripApproved))
	trips.PATCH("/:requestId/reject", h.Guard(managerOnly, h.loadTrip(), tripManager()), h.DecideTrip(entity.TripRejected))
	trips.PUT("/:requestId/confirm", h.Guard(managerOnly, h.loadTrip(), tripManager()), h.DecideTrip(entity.TripConfirmed))

	facilities := v1.Group("/facilities")
	facilities.GET("", h.Guard(), h.ListFacilities)
	facilities.POST("", h.Guard(facilityAdmins), h.CreateFacility)
	facilities.POST("/book", h.Guard(requesterOnly, guard.RequireVerified()), h.BookRoom)
	facilities.GET("/:facilityId", h.Guard(h.loadFacility()), h.ViewFacility)
	facilities.POST("/:facilityId/rooms", h.Guard(facilityAdmins, h.loadFacility()), h.CreateRoom)
	facilities.PATCH("/:facilityId/like", h.Guard(h.loadFacility(), h.notAlreadyReacted(entity.ReactionLike)), h.ReactToFacility(entity.ReactionLike))
	facilities.PATCH("/:facilityId/unlike", h.Guard(h.loadFacility(), h.notAlreadyReacted(entity.ReactionUnlike)), h.ReactToFacility(entity.ReactionUnlike))
	facilities.PATCH("/:facilityId/rate", h.Guard(guard.RequireVerified(), h.loadFacility()), h.RateFacility)
	facilities.POST("/:facilityId/feedback", h.Guard(requesterOnly, guard.RequireVerified(), h.loadFacility()), h.LeaveFeedback)
	facilities.GET("/:facilityId/feedback", h.Guard(h.loadFacility()), h.ListFeedback)
}
