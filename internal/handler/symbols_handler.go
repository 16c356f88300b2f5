package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"plan-intervention-api/internal/application"
)

// SymbolsHandler endpoints du catalogue de symboles
type SymbolsHandler struct {
	symboles application.SymbolsService
}

// NewSymbolsHandler crée le handler
func NewSymbolsHandler(symboles application.SymbolsService) *SymbolsHandler {
	return &SymbolsHandler{symboles: symboles}
}

// ListCatalog GET /symbols - groupes intégrés + symboles personnalisés.
// Si la lecture des personnalisés échoue, les intégrés sont quand même
// servis avec un avertissement: le placement doit rester possible.
func (h *SymbolsHandler) ListCatalog(c *gin.Context) {
	catalogue, err := h.symboles.ListCatalog(c.Request.Context(), tenantID(c))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"catalogue":     catalogue,
			"avertissement": "symboles personnalisés indisponibles: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"catalogue": catalogue})
}

// CreateCustom POST /symbols - crée un symbole personnalisé
func (h *SymbolsHandler) CreateCustom(c *gin.Context) {
	var req application.CustomSymbolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "JSON invalide: " + err.Error(),
		})
		return
	}

	symbole, err := h.symboles.CreateCustom(c.Request.Context(), tenantID(c), &req)
	if err != nil {
		repondErreur(c, err)
		return
	}
	c.JSON(http.StatusCreated, symbole)
}

// UpdateCustom PUT /symbols/:id - met à jour un symbole personnalisé
func (h *SymbolsHandler) UpdateCustom(c *gin.Context) {
	var req application.CustomSymbolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "JSON invalide: " + err.Error(),
		})
		return
	}

	symbole, err := h.symboles.UpdateCustom(c.Request.Context(), tenantID(c), c.Param("id"), &req)
	if err != nil {
		repondErreur(c, err)
		return
	}
	c.JSON(http.StatusOK, symbole)
}

// DeleteCustom DELETE /symbols/:id - retire un symbole du catalogue.
// Les enregistrements déjà placés restent intacts: leur visuel est figé.
func (h *SymbolsHandler) DeleteCustom(c *gin.Context) {
	if err := h.symboles.DeleteCustom(c.Request.Context(), tenantID(c), c.Param("id")); err != nil {
		repondErreur(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
