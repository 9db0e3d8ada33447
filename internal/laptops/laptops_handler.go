package laptops

import (
	"errors"
	"net/http"
	"strconv"

	auditlogRepo "github.com/ubbbj/laptop-rental/internal/auditlog"
	"github.com/ubbbj/laptop-rental/internal/middleware"
	"github.com/ubbbj/laptop-rental/pkg/auditlog"
	custom_error "github.com/ubbbj/laptop-rental/pkg/errors"
	"github.com/ubbbj/laptop-rental/pkg/models"
	"github.com/ubbbj/laptop-rental/pkg/roles"
	"github.com/ubbbj/laptop-rental/pkg/security"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

type LaptopHandler struct {
	r        LaptopRepository
	service  *LaptopService
	logRepo  *auditlogRepo.AuditLogRepository
	AuditLog *auditlog.Auditlog
}

func NewLaptopHandler(r LaptopRepository, service *LaptopService, logRepo *auditlogRepo.AuditLogRepository, a *auditlog.Auditlog) *LaptopHandler {
	return &LaptopHandler{
		r:        r,
		service:  service,
		logRepo:  logRepo,
		AuditLog: a,
	}
}

func (h *LaptopHandler) RegisterRoutes(router *gin.Engine) {
	// Ścieżki publiczne: lista i podgląd po zeskanowaniu kodu QR.
	router.GET("/api/laptops", h.GetLaptopList)
	router.GET("/api/laptops/:id", h.GetLaptopByID)
	router.GET("/api/laptops/serial/:serial", h.GetLaptopBySerial)
	router.GET("/api/laptops/serial/:serial/qr", h.GetLaptopQR)

	protected := router.Group("/api")
	protected.Use(security.JWTMiddleware())
	{
		protected.POST("/laptops", security.Authorize(roles.Admin), h.CreateLaptop)
		protected.POST("/laptops/bulk", security.Authorize(roles.Admin), h.CreateBulkLaptops)
		protected.PUT("/laptops/:id", security.Authorize(roles.Admin), h.UpdateLaptop)
		protected.DELETE("/laptops/:id", security.Authorize(roles.Admin), h.RemoveLaptop)
		protected.GET("/auditlog/laptops/:id", security.Authorize(roles.Admin), h.GetLaptopLog)
	}
}

func (h *LaptopHandler) GetLaptopList(c *gin.Context) {
	laptops, err := h.r.GetLaptopList()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Błąd pobierania listy laptopów", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, laptops)
}

func (h *LaptopHandler) GetLaptopByID(c *gin.Context) {
	laptopID, ok := h.bindLaptopID(c)
	if !ok {
		return
	}

	laptop, err := h.r.GetLaptop(laptopID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to get laptop", "details": err.Error()})
		return
	}
	if laptop == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Laptop nie znaleziony"})
		return
	}

	c.JSON(http.StatusOK, laptop)
}

func (h *LaptopHandler) GetLaptopBySerial(c *gin.Context) {
	serial := c.Param("serial")
	if serial == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to bind serial number"})
		return
	}

	laptop, err := h.r.FindLaptopBySerial(serial)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to get laptop", "details": err.Error()})
		return
	}
	if laptop == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Laptop nie znaleziony"})
		return
	}

	c.JSON(http.StatusOK, laptop)
}

// GetLaptopQR renderuje naklejkę QR laptopa jako PNG.
func (h *LaptopHandler) GetLaptopQR(c *gin.Context) {
	serial := c.Param("serial")

	laptop, err := h.r.FindLaptopBySerial(serial)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to get laptop", "details": err.Error()})
		return
	}
	if laptop == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Laptop nie znaleziony"})
		return
	}

	png, err := qrcode.Encode(laptop.QRPayload, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Błąd generowania kodu QR", "details": err.Error()})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

func (h *LaptopHandler) CreateLaptop(c *gin.Context) {
	var req models.LaptopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	laptop, err := h.service.CreateLaptop(req)
	if err != nil {
		switch err.(type) {
		case *custom_error.UniqueViolationError:
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Numer seryjny laptopa jest już zarejestrowany"})
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Błąd podczas dodawania laptopa"})
		}
		return
	}

	c.JSON(http.StatusCreated, laptop)
}

func (h *LaptopHandler) CreateBulkLaptops(c *gin.Context) {
	var req models.BulkLaptopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if len(req.Serials) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Lista numerów seryjnych jest pusta"})
		return
	}

	createdLaptops, errors, err := h.service.CreateBulkLaptops(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Błąd rejestracji partii laptopów", "details": err.Error()})
		return
	}

	status := http.StatusCreated
	if len(createdLaptops) == 0 {
		status = http.StatusConflict
	}

	c.JSON(status, gin.H{
		"created": createdLaptops,
		"errors":  errors,
	})
}

func (h *LaptopHandler) UpdateLaptop(c *gin.Context) {
	laptopID, ok := h.bindLaptopID(c)
	if !ok {
		return
	}

	var req models.UpdateLaptopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	// Edycja administracyjna obejmuje wyłącznie dane sprzętu; stanem
	// wypożyczenia zarządza tylko silnik wypożyczeń.
	changes := &models.LaptopChanges{
		Brand:       req.Brand,
		Model:       req.Model,
		Serial:      req.Serial,
		Description: req.Description,
		Specs:       req.Specs,
		Images:      req.Images,
	}

	if !changes.HasChanges() {
		laptop, err := h.r.GetLaptop(laptopID)
		if err != nil || laptop == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Laptop nie znaleziony"})
			return
		}
		c.JSON(http.StatusOK, laptop)
		return
	}

	if err := h.r.UpdateLaptop(laptopID, changes); err != nil {
		var notFound *custom_error.NotFoundError
		switch {
		case errors.As(err, &notFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Laptop nie znaleziony"})
		default:
			if _, ok := err.(*custom_error.UniqueViolationError); ok {
				c.JSON(http.StatusConflict, gin.H{"error": "Numer seryjny laptopa jest już zarejestrowany"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Błąd aktualizacji laptopa"})
		}
		return
	}

	laptop, err := h.r.GetLaptop(laptopID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Błąd pobierania laptopa", "details": err.Error()})
		return
	}

	go h.AuditLog.Log(
		"update",
		map[string]interface{}{
			"serial":     laptop.Serial,
			"request_id": c.GetString(middleware.RequestIDKey),
			"msg":        "Zaktualizowano dane laptopa",
		},
		laptop,
	)

	c.JSON(http.StatusOK, laptop)
}

func (h *LaptopHandler) RemoveLaptop(c *gin.Context) {
	laptopID, ok := h.bindLaptopID(c)
	if !ok {
		return
	}

	force := c.Query("force") == "true"

	laptop, err := h.r.GetLaptop(laptopID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Błąd pobierania laptopa", "details": err.Error()})
		return
	}
	if laptop == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Laptop nie znaleziony"})
		return
	}

	removed, err := h.r.RemoveLaptop(laptopID, force)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Błąd usuwania laptopa", "details": err.Error()})
		return
	}
	if !removed {
		// Warunek w WHERE odrzucił usunięcie: otwarty cykl wypożyczenia.
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":   "Laptop ma otwarty cykl wypożyczenia",
			"details": "Zakończ lub odrzuć wypożyczenie, albo użyj ?force=true",
		})
		return
	}

	go h.AuditLog.Log(
		"remove",
		map[string]interface{}{
			"serial":     laptop.Serial,
			"forced":     force,
			"request_id": c.GetString(middleware.RequestIDKey),
			"msg":        "Usunięto laptopa z ewidencji",
		},
		laptop,
	)

	c.JSON(http.StatusOK, gin.H{"message": "Laptop usunięty"})
}

func (h *LaptopHandler) GetLaptopLog(c *gin.Context) {
	laptopID, ok := h.bindLaptopID(c)
	if !ok {
		return
	}

	logs, err := h.logRepo.GetResourceLog(laptopID, "laptop")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Błąd pobierania dziennika", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, logs)
}

func (h *LaptopHandler) bindLaptopID(c *gin.Context) (int, bool) {
	laptopID, err := strconv.Atoi(c.Param("id"))
	if err != nil || laptopID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid laptop ID parameter, must be an integer"})
		return 0, false
	}

	return laptopID, true
}
