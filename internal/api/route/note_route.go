package route

import (
	"time"

	"github.com/bassista/go_notes/internal/api/controller"
	"github.com/bassista/go_notes/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

func NewNoteRouter(timeout time.Duration, group *gin.RouterGroup, store controller.NoteStore) {
	group.Use(middleware.RequestTimeout(timeout))

	nc := controller.NewNoteController(store)

	group.GET("notes", nc.AllNotes)
	group.GET("notes/:id", nc.GetNote)
	group.POST("notes", nc.CreateNote)
	group.PUT("notes/:id", nc.UpdateNote)
	group.DELETE("notes/:id", nc.DeleteNote)
}
