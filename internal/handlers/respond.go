package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type dataEnvelope struct {
	Data interface{} `json:"data"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dataEnvelope{Data: data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dataEnvelope{Data: data})
}
