package version

import (
	"os/exec"
	"runtime/debug"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/flippy-engine/internal/models"
)

var Version models.VersionResponse

func init() {
	Version.Commit = "unknown"

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				Version.Commit = setting.Value
				return
			}
		}
	}

	output, err := exec.Command("git", "rev-parse", "HEAD").Output()
	if err == nil {
		Version.Commit = strings.TrimSpace(string(output))
	}
}

func SetupRoutes(app *fiber.App) {
	versionGroup := app.Group("/version")
	versionGroup.Get("/", versionHandler)
}

func versionHandler(c *fiber.Ctx) error {
	return c.JSON(Version)
}
