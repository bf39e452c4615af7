package http

import (
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
)

// Docs monta la UI de Swagger en /docs y sirve el documento en /docs/swagger.json.
// swagger.New entra en pánico si filePath no existe.
func Docs(app *fiber.App, filePath, title string) {
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: filePath,
		Path:     "docs",
		Title:    title,
	}))
}
