package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tableside/restaurant-order/models"
	"github.com/tableside/restaurant-order/realtime"
	"github.com/tableside/restaurant-order/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetCustomerMenus -> the customer-facing listing: hidden items are
// excluded, everything else (incl. soldout, which renders disabled)
// appears, ordered by name.
func (mc *MenuController) GetCustomerMenus(c *gin.Context) {
	var menus []models.Menu
	if err := mc.DB.Where("status != ?", models.MenuStatusHidden).
		Order("name ASC").
		Find(&menus).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menus", menus)
}

// GetAllMenus -> the staff listing, no status filter
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	var menus []models.Menu
	if err := mc.DB.Order("name ASC").Find(&menus).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menus", menus)
}

// GetMenuByID
func (mc *MenuController) GetMenuByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("menu_id"))

	var menu models.Menu
	if err := mc.DB.First(&menu, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu detail", menu)
}

// parseMenuForm validates the shared create/update form fields.
func parseMenuForm(c *gin.Context) (name string, price float64, status string, addOns []models.AddOn, err error) {
	name = c.PostForm("name")
	if name == "" {
		return "", 0, "", nil, errors.New("name is required")
	}

	price, err = strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil || price < 0 {
		return "", 0, "", nil, errors.New("invalid price")
	}

	status = c.PostForm("status")
	if status == "" {
		status = models.MenuStatusActive
	}
	if !models.IsValidMenuStatus(status) {
		return "", 0, "", nil, fmt.Errorf("invalid status %q", status)
	}

	if raw := c.PostForm("add_ons"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &addOns); err != nil {
			return "", 0, "", nil, errors.New("invalid add_ons format")
		}
		seen := make(map[string]bool)
		for _, a := range addOns {
			if a.Name == "" || a.Price < 0 {
				return "", 0, "", nil, errors.New("add-ons need a name and a non-negative price")
			}
			if seen[a.Name] {
				return "", 0, "", nil, fmt.Errorf("duplicate add-on %q", a.Name)
			}
			seen[a.Name] = true
		}
	}

	return name, price, status, addOns, nil
}

// saveImage stores an uploaded image and returns its retrieval URL.
func (mc *MenuController) saveImage(c *gin.Context) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		// no upload at all is fine
		return "", nil
	}

	uploadDir := "public/uploads/menu_images"
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", errors.New("error creating upload directory")
	}

	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), file.Filename)
	if err := c.SaveUploadedFile(file, uploadDir+"/"+filename); err != nil {
		return "", errors.New("error saving image")
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return fmt.Sprintf("%s/uploads/menu_images/%s", baseURL, filename), nil
}

// CreateMenu -> staff create, multipart form with optional image
func (mc *MenuController) CreateMenu(c *gin.Context) {
	c.Request.ParseMultipartForm(10 << 20)

	name, price, status, addOns, err := parseMenuForm(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	imageUrl, err := mc.saveImage(c)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	menu := models.Menu{
		Name:     name,
		Price:    price,
		Status:   status,
		ImageUrl: imageUrl,
	}
	if err := menu.SetAddOns(addOns); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := mc.DB.Create(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	mc.publishSnapshot()
	utils.RespondJSON(c, http.StatusCreated, "Menu created", menu)
}

// UpdateMenu -> staff edit; existing carts keep their snapshots
func (mc *MenuController) UpdateMenu(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("menu_id"))

	var menu models.Menu
	if err := mc.DB.First(&menu, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu not found"))
		return
	}

	c.Request.ParseMultipartForm(10 << 20)

	name, price, status, addOns, err := parseMenuForm(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	imageUrl, err := mc.saveImage(c)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	menu.Name = name
	menu.Price = price
	menu.Status = status
	if imageUrl != "" {
		menu.ImageUrl = imageUrl
	}
	if err := menu.SetAddOns(addOns); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := mc.DB.Save(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	mc.publishSnapshot()
	utils.RespondJSON(c, http.StatusOK, "Menu updated", menu)
}

// DeleteMenu. Orders are untouched: their lines carry frozen copies.
func (mc *MenuController) DeleteMenu(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("menu_id"))

	if err := mc.DB.Delete(&models.Menu{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	mc.publishSnapshot()
	utils.RespondJSON(c, http.StatusOK, "Menu deleted", gin.H{"menu_id": id})
}

func (mc *MenuController) publishSnapshot() {
	var menus []models.Menu
	if err := mc.DB.Order("name ASC").Find(&menus).Error; err != nil {
		utils.ErrorLogger.Printf("Error loading menus snapshot: %v", err)
		return
	}
	realtime.PublishMenus(menus)
}
