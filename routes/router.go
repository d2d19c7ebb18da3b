package routes

import (
	"strconv"

	"davetli.app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	recoverMiddleware "github.com/gofiber/fiber/v2/middleware/recover"
)

// AppServices rota kaydında handler'lara bağlanacak servis demeti.
type AppServices struct {
	Upload  services.IBulkUploadService
	Row     services.IBulkRowService
	Confirm services.IBulkConfirmService
}

// SetupRoutes tüm uygulama rotalarını ve genel middleware'leri ayarlar.
func SetupRoutes(app *fiber.App, appServices AppServices) {
	app.Use(recoverMiddleware.New()) // Panic yakalama
	app.Use(logger.New())            // İstek loglama
	app.Use(authenticatedUser())

	registerPanelRoutes(app, appServices)

	// Eşleşmeyen tüm rotalar
	app.Use(notFoundHandler)
}

// authenticatedUser kimliği doğrulanmış kullanıcıyı locals'a yazar.
// Kimlik doğrulama üst katmanda (gateway) yapılır; bu servis yalnızca
// X-User-ID başlığını okur.
func authenticatedUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("X-User-ID")
		if header != "" {
			if userID, err := strconv.ParseUint(header, 10, 32); err == nil && userID > 0 {
				c.Locals("userID", uint(userID))
			}
		}
		return c.Next()
	}
}

// requireUser userID locals'ı olmayan istekleri reddeder.
func requireUser(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok || userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  "error",
			"message": "Oturum bilgisi bulunamadı.",
		})
	}
	return c.Next()
}

func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"status":  "error",
		"message": "Kaynak bulunamadı.",
	})
}
