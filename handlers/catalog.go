package handlers

import (
	"net/http"

	"leadtime-prediction-api/services"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	svc *services.PredictionService
}

func NewCatalogHandler(svc *services.PredictionService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func (h *CatalogHandler) ListSuppliers(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ListSuppliers())
}

func (h *CatalogHandler) ListSites(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ListSites())
}
