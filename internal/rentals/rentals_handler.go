package rentals

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ubbbj/laptop-rental/internal/middleware"
	"github.com/ubbbj/laptop-rental/pkg/auditlog"
	custom_error "github.com/ubbbj/laptop-rental/pkg/errors"
	"github.com/ubbbj/laptop-rental/pkg/models"
	"github.com/ubbbj/laptop-rental/pkg/roles"
	"github.com/ubbbj/laptop-rental/pkg/security"

	"github.com/gin-gonic/gin"
)

type RentalHandler struct {
	service  Workflow
	AuditLog *auditlog.Auditlog
}

func NewHandler(service Workflow, a *auditlog.Auditlog) *RentalHandler {
	return &RentalHandler{
		service:  service,
		AuditLog: a,
	}
}

func (h *RentalHandler) RegisterRoutes(router *gin.Engine) {
	protected := router.Group("/api")
	protected.Use(security.JWTMiddleware())
	{
		protected.GET("/rentals", h.ListActive)
		protected.POST("/rentals", h.CreateRental)
		protected.GET("/rentals/history", h.ListHistory)
		protected.PUT("/rentals/:id/confirm", security.Authorize(roles.Admin), h.ConfirmRental)
		protected.PUT("/rentals/:id/reject", security.Authorize(roles.Admin), h.RejectRental)
		protected.DELETE("/rentals/:id", security.Authorize(roles.Admin), h.CompleteRental)
	}
}

// ListActive zwraca laptopy z otwartym cyklem, opcjonalnie ?status=pending|confirmed.
func (h *RentalHandler) ListActive(c *gin.Context) {
	laptops, err := h.service.ListActive(c.Query("status"))
	if err != nil {
		h.respondError(c, err, "Błąd pobierania wypożyczeń")
		return
	}

	c.JSON(http.StatusOK, laptops)
}

func (h *RentalHandler) CreateRental(c *gin.Context) {
	var req models.RentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	laptop, err := h.service.RequestRental(req)
	if err != nil {
		h.respondError(c, err, "Błąd tworzenia wniosku o wypożyczenie")
		return
	}

	go h.AuditLog.Log("request", h.auditPayload(c, laptop, "Złożono wniosek o wypożyczenie"), laptop)

	c.JSON(http.StatusCreated, laptop)
}

func (h *RentalHandler) ConfirmRental(c *gin.Context) {
	laptopID, ok := h.bindLaptopID(c)
	if !ok {
		return
	}

	laptop, err := h.service.ConfirmRental(laptopID)
	if err != nil {
		h.respondError(c, err, "Błąd potwierdzania wypożyczenia")
		return
	}

	go h.AuditLog.Log("confirm", h.auditPayload(c, laptop, "Potwierdzono wypożyczenie"), laptop)

	c.JSON(http.StatusOK, laptop)
}

func (h *RentalHandler) RejectRental(c *gin.Context) {
	laptopID, ok := h.bindLaptopID(c)
	if !ok {
		return
	}

	laptop, err := h.service.RejectRental(laptopID)
	if err != nil {
		h.respondError(c, err, "Błąd odrzucania wypożyczenia")
		return
	}

	go h.AuditLog.Log(
		"reject",
		map[string]interface{}{
			"serial":     laptop.Serial,
			"request_id": c.GetString(middleware.RequestIDKey),
			"msg":        "Wniosek o wypożyczenie odrzucony",
		},
		laptop,
	)

	c.JSON(http.StatusOK, gin.H{"message": "Wniosek o wypożyczenie odrzucony", "laptop": laptop})
}

func (h *RentalHandler) CompleteRental(c *gin.Context) {
	laptopID, ok := h.bindLaptopID(c)
	if !ok {
		return
	}

	record, err := h.service.CompleteRental(laptopID)
	if err != nil {
		h.respondError(c, err, "Błąd kończenia wypożyczenia")
		return
	}

	go h.AuditLog.Log(
		"return",
		map[string]interface{}{
			"serial":     record.Serial,
			"rented_by":  record.RentedBy,
			"request_id": c.GetString(middleware.RequestIDKey),
			"msg":        "Wypożyczenie zakończone",
		},
		record,
	)

	c.JSON(http.StatusOK, gin.H{"message": "Wypożyczenie zakończone", "history_record": record})
}

func (h *RentalHandler) ListHistory(c *gin.Context) {
	records, err := h.service.ListHistory()
	if err != nil {
		h.respondError(c, err, "Błąd pobierania historii wypożyczeń")
		return
	}

	c.JSON(http.StatusOK, records)
}

// auditPayload buduje wpis dziennika dla laptopa. Odczytany stan mógł już
// zostać zmieniony przez równoległą operację, więc Rental bywa puste nawet po
// udanym przejściu.
func (h *RentalHandler) auditPayload(c *gin.Context, laptop *models.Laptop, msg string) map[string]interface{} {
	payload := map[string]interface{}{
		"serial":     laptop.Serial,
		"request_id": c.GetString(middleware.RequestIDKey),
		"msg":        msg,
	}
	if laptop.Rental != nil {
		payload["rented_by"] = laptop.Rental.Email
	}

	return payload
}

func (h *RentalHandler) bindLaptopID(c *gin.Context) (int, bool) {
	laptopID, err := strconv.Atoi(c.Param("id"))
	if err != nil || laptopID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid laptop ID parameter, must be an integer"})
		return 0, false
	}

	return laptopID, true
}

func (h *RentalHandler) respondError(c *gin.Context, err error, internalMsg string) {
	var notFound *custom_error.NotFoundError
	var conflict *custom_error.StateConflictError
	var validation *custom_error.ValidationError

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Laptop nie znaleziony"})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":          "Operacja niedozwolona w bieżącym stanie wypożyczenia",
			"current_state":  conflict.Current.String(),
			"expected_state": conflict.Expected.String(),
		})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nieprawidłowe dane wniosku", "details": validation.Error()})
	default:
		// szczegóły zostały już zalogowane w serwisie
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalMsg})
	}
}
