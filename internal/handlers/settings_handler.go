package handlers

import (
	"net/http"

	"gscore/internal/models"
	"gscore/internal/services"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	markupService services.MarkupService
}

func NewSettingsHandler(markupService services.MarkupService) *SettingsHandler {
	return &SettingsHandler{markupService: markupService}
}

// GetRegionalMarkups returns the stored markup tables as editable text,
// one "region percent" line per entry.
func (h *SettingsHandler) GetRegionalMarkups(c *gin.Context) {
	zipText, err := h.markupService.TableText(models.OptionRegionalMarkupsZip)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load markup settings"})
		return
	}
	stateText, err := h.markupService.TableText(models.OptionRegionalMarkupsState)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load markup settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"zip_text": zipText, "state_text": stateText})
}

// SaveRegionalMarkups stores the posted tables. Lines that do not parse
// are dropped silently; the sanitized text is echoed back.
func (h *SettingsHandler) SaveRegionalMarkups(c *gin.Context) {
	var req struct {
		ZipText   string `json:"zip_text"`
		StateText string `json:"state_text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.markupService.SaveTables(req.ZipText, req.StateText); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save markup settings"})
		return
	}

	zipText, err := h.markupService.TableText(models.OptionRegionalMarkupsZip)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load markup settings"})
		return
	}
	stateText, err := h.markupService.TableText(models.OptionRegionalMarkupsState)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load markup settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"zip_text": zipText, "state_text": stateText})
}
