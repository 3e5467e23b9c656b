package route

import (
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/bassista/go_notes/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
)

// NewUIRouter serves the browser client from staticDir: index.html at / and
// the remaining files by name. Unknown /api paths and anything else missing
// answer a JSON 404. The UI is skipped when the directory is absent.
func NewUIRouter(r *gin.Engine, staticDir string) {
	osFs := afero.NewOsFs()
	enabled := false
	if staticDir != "" {
		ok, err := afero.DirExists(osFs, staticDir)
		enabled = err == nil && ok
	}
	if !enabled {
		logger.WithComponent("ui").Infof("static directory %q not found, UI disabled", staticDir)
	} else {
		r.GET("/", func(c *gin.Context) {
			c.File(filepath.Join(staticDir, "index.html"))
		})
		logger.WithComponent("ui").Infof("serving UI from %s", staticDir)
	}

	r.NoRoute(func(c *gin.Context) {
		p := c.Request.URL.Path
		if !enabled || c.Request.Method != http.MethodGet || p == "/api" || strings.HasPrefix(p, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		file := filepath.Join(staticDir, filepath.FromSlash(path.Clean(p)))
		if isFile, _ := afero.Exists(osFs, file); !isFile {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		if isDir, _ := afero.IsDir(osFs, file); isDir {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.File(file)
	})
}
