package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"rbs/src/db"
	"rbs/src/lib"
	"rbs/src/middlewares"
	"rbs/src/services"
	"rbs/src/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

func roomHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	admin := g.Group("/rooms")
	admin.Use(middlewares.RequireRole(types.ROLE_ADMIN, types.ROLE_MANAGER))

	g.
		GET("/rooms", func(ctx *gin.Context) {
			svc := services.NewRoomService(db.GetDb())
			rooms, err := svc.ListRooms()
			if err != nil {
				log.Printf("Error listing rooms: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "something went wrong"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": rooms, "count": len(rooms)})
		}).
		GET("/rooms/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			svc := services.NewRoomService(db.GetDb())
			room, err := svc.GetRoom(params.ID)
			if err != nil {
				ctx.JSON(types.ErrorStatus(err), gin.H{"message": types.ErrorMessage(err)})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": room})
		})

	admin.
		POST("", func(ctx *gin.Context) {
			var body types.CreateRoomRequestBody
			if err := ctx.ShouldBind(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			if raw := ctx.PostForm("amenities"); raw != "" {
				if err := json.Unmarshal([]byte(raw), &body.Amenities); err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"message": "amenities must be a JSON array of {name, icon}"})
					return
				}
			}
			imageKey := uploadRoomImage(ctx, body.Name)
			svc := services.NewRoomService(db.GetDb())
			room, err := svc.CreateRoom(&body, imageKey)
			if err != nil {
				ctx.JSON(types.ErrorStatus(err), gin.H{"message": types.ErrorMessage(err)})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": room})
		}).
		PUT("/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			var body types.UpdateRoomRequestBody
			var imageKey *string
			if strings.HasPrefix(ctx.ContentType(), "multipart/") {
				bindRoomForm(ctx, &body)
				name := ""
				if body.Name != nil {
					name = *body.Name
				}
				imageKey = uploadRoomImage(ctx, name)
			} else if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			svc := services.NewRoomService(db.GetDb())
			room, err := svc.UpdateRoom(params.ID, &body, imageKey)
			if err != nil {
				ctx.JSON(types.ErrorStatus(err), gin.H{"message": types.ErrorMessage(err)})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": room})
		}).
		DELETE("/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			svc := services.NewRoomService(db.GetDb())
			if err := svc.DeleteRoom(params.ID); err != nil {
				ctx.JSON(types.ErrorStatus(err), gin.H{"message": types.ErrorMessage(err)})
				return
			}
			ctx.Status(http.StatusOK)
		})
	return g
}

// uploadRoomImage stores an attached image in the assets bucket and
// returns its key; a request without a file returns nil.
func uploadRoomImage(ctx *gin.Context, name string) *string {
	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		return nil
	}
	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("Could not open uploaded file: %s\n", err.Error())
		return nil
	}
	defer file.Close()
	if name == "" {
		name = fileHeader.Filename
	}
	key := fmt.Sprintf("rooms/%s-%s.jpeg", slug.Make(name), uuid.NewString()[:8])
	uploaded, err := lib.S3UploadRoomImage(key, file, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		log.Printf("Error uploading room image: %s\n", err.Error())
		return nil
	}
	return uploaded
}

func bindRoomForm(ctx *gin.Context, body *types.UpdateRoomRequestBody) {
	if v := ctx.PostForm("name"); v != "" {
		body.Name = &v
	}
	if v := ctx.PostForm("type"); v != "" {
		rt := types.RoomType(v)
		body.Type = &rt
	}
	if v := ctx.PostForm("capacity"); v != "" {
		if capacity, err := strconv.Atoi(v); err == nil {
			body.Capacity = &capacity
		}
	}
	if v := ctx.PostForm("description"); v != "" {
		body.Description = &v
	}
	if raw := ctx.PostForm("amenities"); raw != "" {
		var amenities []types.Amenity
		if err := json.Unmarshal([]byte(raw), &amenities); err == nil {
			body.Amenities = &amenities
		}
	}
}
