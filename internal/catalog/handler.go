package catalog

import (
	"serveo-backend/internal/database"
	"serveo-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateRestaurantRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type CreateCustomerRequest struct {
	RestaurantID uint   `json:"restaurant_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
}

type CreateCategoryRequest struct {
	RestaurantID uint   `json:"restaurant_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
}

type ProductRequest struct {
	RestaurantID uint    `json:"restaurant_id"`
	CategoryID   *uint   `json:"category_id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	SKU          string  `json:"sku"`
	BasePrice    float64 `json:"base_price"`
	Cost         float64 `json:"cost"`
	Available    *bool   `json:"available"`
}

// POST /api/restaurants
func CreateRestaurantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateRestaurantRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Restaurant name is required")
		}

		rest := models.Restaurant{Name: body.Name, Email: body.Email, Phone: body.Phone, Address: body.Address}
		if err := database.DB.Create(&rest).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Restaurant could not be created")
		}
		return c.Status(fiber.StatusCreated).JSON(rest)
	}
}

// GET /api/restaurants
func ListRestaurantsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rests []models.Restaurant
		if err := database.DB.Order("id").Find(&rests).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list restaurants")
		}
		return c.JSON(rests)
	}
}

// POST /api/customers
func CreateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.RestaurantID == 0 || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "restaurant_id and name are required")
		}

		cust := models.Customer{
			RestaurantID: body.RestaurantID,
			Name:         body.Name,
			Email:        body.Email,
			Phone:        body.Phone,
			Address:      body.Address,
		}
		if err := database.DB.Create(&cust).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Customer could not be created")
		}
		return c.Status(fiber.StatusCreated).JSON(cust)
	}
}

// GET /api/customers?restaurant_id=1
func ListCustomersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Customer{})
		if rid := c.QueryInt("restaurant_id"); rid > 0 {
			dbq = dbq.Where("restaurant_id = ?", rid)
		}

		var custs []models.Customer
		if err := dbq.Order("name").Find(&custs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list customers")
		}
		return c.JSON(custs)
	}
}

// POST /api/categories
func CreateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.RestaurantID == 0 || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "restaurant_id and name are required")
		}

		cat := models.ProductCategory{
			RestaurantID: body.RestaurantID,
			Name:         body.Name,
			Description:  body.Description,
			DisplayOrder: body.DisplayOrder,
			Active:       true,
		}
		if err := database.DB.Create(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Category could not be created")
		}
		return c.Status(fiber.StatusCreated).JSON(cat)
	}
}

// GET /api/categories?restaurant_id=1
func ListCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.ProductCategory{}).Where("active = ?", true)
		if rid := c.QueryInt("restaurant_id"); rid > 0 {
			dbq = dbq.Where("restaurant_id = ?", rid)
		}

		var cats []models.ProductCategory
		if err := dbq.Order("display_order, name").Find(&cats).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list categories")
		}
		return c.JSON(cats)
	}
}

// POST /api/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.RestaurantID == 0 || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "restaurant_id and name are required")
		}
		if body.BasePrice < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "base_price cannot be negative")
		}

		prod := models.Product{
			RestaurantID: body.RestaurantID,
			CategoryID:   body.CategoryID,
			Name:         body.Name,
			Description:  body.Description,
			SKU:          body.SKU,
			BasePrice:    body.BasePrice,
			Cost:         body.Cost,
			Available:    true,
			Active:       true,
		}
		if body.Available != nil {
			prod.Available = *body.Available
		}
		if err := database.DB.Create(&prod).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Product could not be created")
		}
		return c.Status(fiber.StatusCreated).JSON(prod)
	}
}

// PUT /api/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
		}

		var prod models.Product
		if err := database.DB.First(&prod, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.BasePrice < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "base_price cannot be negative")
		}

		if body.Name != "" {
			prod.Name = body.Name
		}
		if body.Description != "" {
			prod.Description = body.Description
		}
		if body.SKU != "" {
			prod.SKU = body.SKU
		}
		if body.BasePrice > 0 {
			prod.BasePrice = body.BasePrice
		}
		if body.Cost > 0 {
			prod.Cost = body.Cost
		}
		if body.CategoryID != nil {
			prod.CategoryID = body.CategoryID
		}
		if body.Available != nil {
			prod.Available = *body.Available
		}

		if err := database.DB.Save(&prod).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Product could not be updated")
		}
		return c.JSON(prod)
	}
}

// GET /api/products?restaurant_id=1
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Product{}).Where("active = ?", true)
		if rid := c.QueryInt("restaurant_id"); rid > 0 {
			dbq = dbq.Where("restaurant_id = ?", rid)
		}
		if cid := c.QueryInt("category_id"); cid > 0 {
			dbq = dbq.Where("category_id = ?", cid)
		}

		var prods []models.Product
		if err := dbq.Order("name").Find(&prods).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list products")
		}
		return c.JSON(prods)
	}
}
