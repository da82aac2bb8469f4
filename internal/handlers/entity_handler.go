package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/eventhub/internal/helpers"
	"github.com/joshua-takyi/eventhub/internal/models"
	"github.com/joshua-takyi/eventhub/internal/services"
)

// Store and sanitizer failures are attached with c.Error and rendered by
// middleware.ErrorHandler.

func CreateEntity[T models.Record](es *services.EntityService[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rec T
		if err := c.ShouldBindJSON(&rec); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		id, err := es.Create(c.Request.Context(), rec)
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusCreated, helpers.CreatedResponse{
			Message: es.Entity().Name + " created",
			ID:      id,
		})
	}
}

func ListEntities[T models.Record](es *services.EntityService[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		docs, err := es.List(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, docs)
	}
}

func UpdateEntity[T models.Record](es *services.EntityService[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		if err := es.Update(c.Request.Context(), id, body); err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusOK, helpers.MessageResponse{Message: es.Entity().Name + " updated"})
	}
}

func DeleteEntity[T models.Record](es *services.EntityService[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := es.Delete(c.Request.Context(), c.Param("id")); err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, helpers.MessageResponse{Message: es.Entity().Name + " deleted"})
	}
}
