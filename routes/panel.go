package routes

import (
	panel_handlers "davetli.app/handlers/panel"

	"github.com/gofiber/fiber/v2"
)

// registerPanelRoutes /panel altındaki toplu yükleme rotalarını tanımlar.
func registerPanelRoutes(app *fiber.App, appServices AppServices) {
	bulkHandler := panel_handlers.NewPanelBulkHandler(appServices.Upload, appServices.Row, appServices.Confirm)

	panelGroup := app.Group("/panel")
	panelGroup.Use(requireUser)

	// --- Toplu Davetiye Yükleme ---
	panelGroup.Post("/bulk/upload", bulkHandler.UploadFile)               // POST   /panel/bulk/upload
	panelGroup.Get("/bulk/:jobID/status", bulkHandler.GetJobStatus)       // GET    /panel/bulk/{jobID}/status
	panelGroup.Get("/bulk/:jobID/rows", bulkHandler.ListRows)             // GET    /panel/bulk/{jobID}/rows
	panelGroup.Post("/bulk/:jobID/rows", bulkHandler.AddRow)              // POST   /panel/bulk/{jobID}/rows
	panelGroup.Patch("/bulk/:jobID/rows/:rowID", bulkHandler.PatchRow)    // PATCH  /panel/bulk/{jobID}/rows/{rowID}
	panelGroup.Delete("/bulk/:jobID/rows/:rowID", bulkHandler.DeleteRow)  // DELETE /panel/bulk/{jobID}/rows/{rowID}
	panelGroup.Post("/bulk/:jobID/clear", bulkHandler.ClearData)          // POST   /panel/bulk/{jobID}/clear
	panelGroup.Post("/bulk/:jobID/confirm", bulkHandler.ConfirmJob)       // POST   /panel/bulk/{jobID}/confirm
}
