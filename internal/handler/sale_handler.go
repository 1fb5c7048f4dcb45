package handler

import (
	"time"

	"central-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SaleHandler struct {
	saleService service.SaleService
}

func NewSaleHandler(saleService service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// parseDateQuery accepts YYYY-MM-DD or RFC3339 timestamps.
func parseDateQuery(value string) *time.Time {
	if value == "" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t
	}
	return nil
}

// GetSales returns a paginated, optionally date-filtered sale list.
// GET /api/sales?page=&limit=&startDate=&endDate=
func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	startDate := parseDateQuery(c.Query("startDate"))
	endDate := parseDateQuery(c.Query("endDate"))

	result, err := h.saleService.GetSales(page, limit, startDate, endDate)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"count":        result.Count,
		"total_pages":  result.TotalPages,
		"current_page": result.CurrentPage,
		"data":         result.Sales,
	})
}

// GetSale returns one sale with its items.
// GET /api/sales/:id
func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "Invalid sale ID"})
	}

	sale, err := h.saleService.GetSaleByID(id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "data": sale})
}

// CreateSale runs the transactional sale workflow.
// POST /api/sales
func (h *SaleHandler) CreateSale(c *fiber.Ctx) error {
	var req service.CreateSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "Invalid JSON"})
	}

	sale, err := h.saleService.CreateSale(&req, currentUserUUID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"message": "Sale created successfully",
		"data":    sale,
	})
}

// UpdateSale patches header fields only.
// PUT /api/sales/:id
func (h *SaleHandler) UpdateSale(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "Invalid sale ID"})
	}

	var req service.UpdateSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "Invalid JSON"})
	}

	sale, err := h.saleService.UpdateSale(id, &req, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Sale updated successfully",
		"data":    sale,
	})
}

// DeleteSale removes a sale and restores stock.
// DELETE /api/sales/:id
func (h *SaleHandler) DeleteSale(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "Invalid sale ID"})
	}

	if err := h.saleService.DeleteSale(id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Sale deleted successfully"})
}

// GetStatistics aggregates sales over a date range, defaulting to the last
// 30 days.
// GET /api/sales/statistics?startDate=&endDate=
func (h *SaleHandler) GetStatistics(c *fiber.Ctx) error {
	startDate := parseDateQuery(c.Query("startDate"))
	endDate := parseDateQuery(c.Query("endDate"))

	stats, err := h.saleService.GetStatistics(startDate, endDate)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "data": stats})
}
