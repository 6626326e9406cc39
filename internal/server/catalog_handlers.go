package server

import (
	"net/http"

	"trialbook/internal/database"
	"trialbook/internal/resource"

	"github.com/gin-gonic/gin"
)

func (s *Server) listKillersHandler(c *gin.Context) {
	killers, err := s.cc.ListKillers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list killers: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, killers)
}

func (s *Server) listSurvivorsHandler(c *gin.Context) {
	survivors, err := s.cc.ListSurvivors(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list survivors: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, survivors)
}

func (s *Server) listItemsHandler(c *gin.Context) {
	items, err := s.cc.ListItems(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list items: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) listAddonsHandler(c *gin.Context) {
	addons, err := s.cc.ListAddons(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list addons: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, addons)
}

// listPerksHandler accepts an optional ?role=killer|survivor filter.
func (s *Server) listPerksHandler(c *gin.Context) {
	perks, err := s.cc.ListPerks(c.Request.Context(), c.Query("role"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to list perks: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, perks)
}

func (s *Server) listOfferingsHandler(c *gin.Context) {
	offerings, err := s.cc.ListOfferings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list offerings: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, offerings)
}

func (s *Server) listRealmsHandler(c *gin.Context) {
	realms, err := s.cc.ListRealms(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list realms: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, realms)
}

var validIconCategories = map[string]resource.IconCategory{
	"killers":   resource.KillerIcons,
	"survivors": resource.SurvivorIcons,
	"items":     resource.ItemIcons,
	"addons":    resource.AddonIcons,
	"perks":     resource.PerkIcons,
	"offerings": resource.OfferingIcons,
	"maps":      resource.MapIcons,
}

func (s *Server) iconHandler(c *gin.Context) {
	category, ok := validIconCategories[c.Param("category")]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown icon category"})
		return
	}

	url, err := s.cc.GetIconURL(c.Request.Context(), category, c.Param("name"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve icon: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (s *Server) replaceCatalogHandler(c *gin.Context) {
	var catalog database.Catalog
	if err := c.ShouldBindJSON(&catalog); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.cc.ReplaceCatalog(c.Request.Context(), &catalog); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to replace catalog: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Catalog replaced"})
}
