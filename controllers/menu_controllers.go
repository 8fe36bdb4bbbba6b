package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/quickserve/models"
	"github.com/yeremiapane/quickserve/services"
	"github.com/yeremiapane/quickserve/utils"
)

type MenuController struct {
	Menu *services.MenuService
}

func NewMenuController(menu *services.MenuService) *MenuController {
	return &MenuController{Menu: menu}
}

// GetAllMenus -> customers see available items; ?all=true includes sold out ones
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	onlyAvailable := c.Query("all") != "true"

	menus, err := mc.Menu.ListMenu(c.Request.Context(), onlyAvailable)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menus", menus)
}

// GetMenuByID
func (mc *MenuController) GetMenuByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("menu_id"), 10, 32)
	if err != nil || id == 0 {
		utils.RespondServiceError(c, models.NewValidationError("menu_id", "must be a positive integer"))
		return
	}

	menu, err := mc.Menu.GetMenuItem(c.Request.Context(), uint(id))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu detail", menu)
}
