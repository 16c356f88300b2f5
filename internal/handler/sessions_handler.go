package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"plan-intervention-api/internal/application"
)

// SessionsHandler endpoints des sessions d'édition de plans
type SessionsHandler struct {
	editor *application.EditorService
}

// NewSessionsHandler crée le handler
func NewSessionsHandler(editor *application.EditorService) *SessionsHandler {
	return &SessionsHandler{editor: editor}
}

type openSessionRequest struct {
	PlanID string `json:"plan_id"`
}

// OpenSession POST /sessions - ouvre une session, vide ou depuis un plan.
// Un échec d'hydratation n'empêche pas l'ouverture: la session reste en
// attente de chargement et peut être réhydratée.
func (h *SessionsHandler) OpenSession(c *gin.Context) {
	var req openSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "JSON invalide: " + err.Error(),
		})
		return
	}

	vue, err := h.editor.Open(c.Request.Context(), tenantID(c), req.PlanID)
	if err != nil {
		c.JSON(http.StatusCreated, gin.H{
			"session":       vue,
			"avertissement": "le chargement du plan a échoué, réessayez l'hydratation: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": vue})
}

// GetSession GET /sessions/:id - état machine et liste d'affichage
func (h *SessionsHandler) GetSession(c *gin.Context) {
	vue, err := h.editor.View(c.Param("id"))
	if err != nil {
		repondErreur(c, err)
		return
	}
	c.JSON(http.StatusOK, vue)
}

// Rehydrate POST /sessions/:id/hydrate - retente le chargement du plan
func (h *SessionsHandler) Rehydrate(c *gin.Context) {
	vue, err := h.editor.Rehydrate(c.Request.Context(), c.Param("id"))
	if err != nil {
		repondErreur(c, err)
		return
	}
	c.JSON(http.StatusOK, vue)
}

// PlaceSymbol POST /sessions/:id/symbols - place un symbole du catalogue
func (h *SessionsHandler) PlaceSymbol(c *gin.Context) {
	var req application.PlaceSymbolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "JSON invalide: " + err.Error(),
		})
		return
	}

	rec, err := h.editor.PlaceSymbol(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		repondErreur(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"record_id": rec.ID})
}

// DrawShape POST /sessions/:id/shapes - ajoute une forme dessinée
func (h *SessionsHandler) DrawShape(c *gin.Context) {
	var req application.DrawShapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "JSON invalide: " + err.Error(),
		})
		return
	}

	rec, err := h.editor.DrawShape(c.Param("id"), &req)
	if err != nil {
		repondErreur(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"record_id": rec.ID})
}

// RemoveRecord DELETE /sessions/:id/records/:recordId - retire une couche.
// Toujours 200: la suppression est idempotente au niveau du store.
func (h *SessionsHandler) RemoveRecord(c *gin.Context) {
	retire, err := h.editor.RemoveRecord(c.Param("id"), c.Param("recordId"))
	if err != nil {
		repondErreur(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": retire})
}

type setCentreRequest struct {
	CentreLat float64 `json:"centre_lat"`
	CentreLng float64 `json:"centre_lng"`
}

// SetCentre PUT /sessions/:id/centre - recadre le plan
func (h *SessionsHandler) SetCentre(c *gin.Context) {
	var req setCentreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "JSON invalide: " + err.Error(),
		})
		return
	}

	if err := h.editor.SetCentre(c.Param("id"), req.CentreLat, req.CentreLng); err != nil {
		repondErreur(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type saveSessionRequest struct {
	Nom string `json:"nom"`
}

// SaveSession POST /sessions/:id/save - sérialise et pousse vers la passerelle
func (h *SessionsHandler) SaveSession(c *gin.Context) {
	var req saveSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "JSON invalide: " + err.Error(),
		})
		return
	}

	planID, err := h.editor.Save(c.Request.Context(), c.Param("id"), req.Nom)
	if err != nil {
		repondErreur(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan_id": planID})
}

// RenderPass POST /sessions/:id/reconcile - passe de réconciliation explicite
func (h *SessionsHandler) RenderPass(c *gin.Context) {
	vue, err := h.editor.RenderPass(c.Param("id"))
	if err != nil {
		repondErreur(c, err)
		return
	}
	c.JSON(http.StatusOK, vue)
}

// CloseSession DELETE /sessions/:id - ferme et abandonne le non-sauvegardé
func (h *SessionsHandler) CloseSession(c *gin.Context) {
	if err := h.editor.Close(c.Param("id")); err != nil {
		repondErreur(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "closed"})
}
