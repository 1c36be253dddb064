package main

import (
	"log"
	"net/http"

	"rbs/src/db"
	"rbs/src/middlewares"
	"rbs/src/services"
	"rbs/src/types"

	"github.com/gin-gonic/gin"
)

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/bookings", func(ctx *gin.Context) {
			svc := services.NewBookingService(db.GetDb())
			bookings, err := svc.GetBookings()
			if err != nil {
				log.Printf("Error listing bookings: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "something went wrong"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/bookings/count", func(ctx *gin.Context) {
			svc := services.NewBookingService(db.GetDb())
			counts, err := svc.CountsByStatus()
			if err != nil {
				log.Printf("Error counting bookings: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "something went wrong"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": counts})
		}).
		GET("/booking/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			svc := services.NewBookingService(db.GetDb())
			booking, err := svc.GetBooking(params.ID)
			if err != nil {
				ctx.JSON(types.ErrorStatus(err), gin.H{"message": types.ErrorMessage(err)})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		POST("/booking", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			svc := services.NewBookingService(db.GetDb())
			booking, err := svc.CreateBooking(&body, userId)
			if err != nil {
				log.Printf("Error creating booking: %s\n", err.Error())
				ctx.JSON(types.ErrorStatus(err), gin.H{"message": types.ErrorMessage(err)})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": booking})
		}).
		PATCH("/booking/:id/status", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			var body types.UpdateBookingStatusRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			role := types.UserRole(ctx.GetString("role"))
			svc := services.NewBookingService(db.GetDb())
			booking, err := svc.UpdateStatus(params.ID, body.NewStatus, userId, role)
			if err != nil {
				log.Printf("Error updating booking [%d] status: %s\n", params.ID, err.Error())
				ctx.JSON(types.ErrorStatus(err), gin.H{"message": types.ErrorMessage(err)})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		POST("/booking/checkin", func(ctx *gin.Context) {
			var body types.CheckInRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			svc := services.NewBookingService(db.GetDb())
			booking, err := svc.CheckIn(body.Reference)
			if err != nil {
				ctx.JSON(types.ErrorStatus(err), gin.H{"message": types.ErrorMessage(err)})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		DELETE("/booking/:id",
			middlewares.RequireRole(types.ROLE_ADMIN, types.ROLE_MANAGER),
			func(ctx *gin.Context) {
				var params types.SimpleRequestParams
				if err := ctx.ShouldBindUri(&params); err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
					return
				}
				svc := services.NewBookingService(db.GetDb())
				if err := svc.DeleteBooking(params.ID); err != nil {
					ctx.JSON(types.ErrorStatus(err), gin.H{"message": types.ErrorMessage(err)})
					return
				}
				ctx.Status(http.StatusOK)
			})
	return g
}
