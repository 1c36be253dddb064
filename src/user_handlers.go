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

func userHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/users/me", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			svc := services.NewUserService(db.GetDb())
			user, err := svc.FindByID(userId)
			if err != nil {
				ctx.JSON(types.ErrorStatus(err), gin.H{"message": types.ErrorMessage(err)})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": user})
		}).
		GET("/users",
			middlewares.RequireRole(types.ROLE_ADMIN, types.ROLE_MANAGER),
			func(ctx *gin.Context) {
				svc := services.NewUserService(db.GetDb())
				users, err := svc.ListUsers()
				if err != nil {
					log.Printf("Error listing users: %s\n", err.Error())
					ctx.JSON(http.StatusInternalServerError, gin.H{"message": "something went wrong"})
					return
				}
				ctx.JSON(http.StatusOK, gin.H{"data": users, "count": len(users)})
			}).
		PUT("/users/:id/role",
			middlewares.RequireRole(types.ROLE_ADMIN),
			func(ctx *gin.Context) {
				var params types.SimpleRequestParams
				if err := ctx.ShouldBindUri(&params); err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
					return
				}
				var body types.UpdateRoleRequestBody
				if err := ctx.ShouldBindJSON(&body); err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
					return
				}
				svc := services.NewUserService(db.GetDb())
				user, err := svc.UpdateRole(params.ID, body.Role)
				if err != nil {
					ctx.JSON(types.ErrorStatus(err), gin.H{"message": types.ErrorMessage(err)})
					return
				}
				ctx.JSON(http.StatusOK, gin.H{"data": user})
			})
	return g
}
