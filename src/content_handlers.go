package main

import (
	"errors"
	"log"
	"net/http"

	"rbs/src/db"
	"rbs/src/middlewares"
	"rbs/src/models"
	"rbs/src/types"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// FAQ and static-page administration. Simple enough that handlers talk
// to storage directly.
func contentHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/faqs", func(ctx *gin.Context) {
			var faqs []models.FAQ
			db := db.GetDb()
			if err := db.Order("position asc, id asc").Find(&faqs).Error; err != nil {
				log.Printf("Error listing faqs: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "something went wrong"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": faqs})
		}).
		GET("/pages/:slug", func(ctx *gin.Context) {
			var page models.Page
			db := db.GetDb()
			if err := db.Where(&models.Page{Slug: ctx.Param("slug")}).First(&page).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"message": "page not found"})
					return
				}
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "something went wrong"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": page})
		})

	admin := g.Group("")
	admin.Use(middlewares.RequireRole(types.ROLE_ADMIN, types.ROLE_MANAGER))
	admin.
		POST("/faqs", func(ctx *gin.Context) {
			var body types.CreateFAQRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			faq := models.FAQ{Question: body.Question, Answer: body.Answer, Position: body.Position}
			db := db.GetDb()
			if err := db.Create(&faq).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "something went wrong"})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": faq})
		}).
		PUT("/faqs/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			var body types.CreateFAQRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			db := db.GetDb()
			res := db.Model(&models.FAQ{}).Where("id = ?", params.ID).Updates(&models.FAQ{
				Question: body.Question,
				Answer:   body.Answer,
				Position: body.Position,
			})
			if res.Error != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "something went wrong"})
				return
			}
			if res.RowsAffected == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"message": "faq not found"})
				return
			}
			ctx.Status(http.StatusOK)
		}).
		DELETE("/faqs/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			db := db.GetDb()
			res := db.Delete(&models.FAQ{}, params.ID)
			if res.Error != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "something went wrong"})
				return
			}
			if res.RowsAffected == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"message": "faq not found"})
				return
			}
			ctx.Status(http.StatusOK)
		}).
		POST("/pages", func(ctx *gin.Context) {
			var body types.CreatePageRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			page := models.Page{
				Slug:  slug.Make(body.Title),
				Title: body.Title,
				Body:  body.Body,
			}
			db := db.GetDb()
			if err := db.Create(&page).Error; err != nil {
				ctx.JSON(http.StatusConflict, gin.H{"message": "a page with this title already exists"})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": page})
		}).
		PUT("/pages/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			var body types.CreatePageRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			db := db.GetDb()
			res := db.Model(&models.Page{}).Where("id = ?", params.ID).Updates(&models.Page{
				Slug:  slug.Make(body.Title),
				Title: body.Title,
				Body:  body.Body,
			})
			if res.Error != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "something went wrong"})
				return
			}
			if res.RowsAffected == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"message": "page not found"})
				return
			}
			ctx.Status(http.StatusOK)
		}).
		DELETE("/pages/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			db := db.GetDb()
			res := db.Delete(&models.Page{}, params.ID)
			if res.Error != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "something went wrong"})
				return
			}
			if res.RowsAffected == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"message": "page not found"})
				return
			}
			ctx.Status(http.StatusOK)
		})
	return g
}
