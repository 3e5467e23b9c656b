package controller

import (
	"github.com/bassista/go_notes/internal/logger"
	"github.com/bassista/go_notes/internal/repository"
	"github.com/bassista/go_notes/internal/service"
	"github.com/gin-gonic/gin"
)

// NoteController handles note-related HTTP endpoints using the generic CRUD controller.
type NoteController struct {
	crud *CrudController[repository.Note, service.NoteInput]
}

// NewNoteController creates a new NoteController backed by the given note store.
func NewNoteController(store NoteStore) *NoteController {
	return &NoteController{
		crud: &CrudController[repository.Note, service.NoteInput]{
			Service: &NoteCrudService{Store: store},
			Messages: CrudMessages{
				Invalid:      "Title and content are required",
				NotFound:     "Note not found",
				Corrupt:      "Note store is corrupt",
				ListFailed:   "Failed to load notes",
				CreateFailed: "Failed to save note",
				UpdateFailed: "Failed to update note",
				DeleteFailed: "Failed to delete note",
				Deleted:      "Note deleted successfully",
			},
		},
	}
}

// AllNotes handles GET /notes - returns all notes.
func (nc *NoteController) AllNotes(c *gin.Context) {
	logger.WithComponent("note-controller").Debugf("GET /notes handler called")
	nc.crud.GetAll(c)
}

// GetNote handles GET /notes/:id.
func (nc *NoteController) GetNote(c *gin.Context) {
	logger.WithNote("note-controller", c.Param("id")).Debugf("GET /notes/:id handler called")
	nc.crud.GetOne(c)
}

// CreateNote handles POST /notes.
func (nc *NoteController) CreateNote(c *gin.Context) {
	logger.WithComponent("note-controller").Debugf("POST /notes handler called")
	nc.crud.Create(c)
}

// UpdateNote handles PUT /notes/:id.
func (nc *NoteController) UpdateNote(c *gin.Context) {
	logger.WithNote("note-controller", c.Param("id")).Debugf("PUT /notes/:id handler called")
	nc.crud.Update(c)
}

// DeleteNote handles DELETE /notes/:id.
func (nc *NoteController) DeleteNote(c *gin.Context) {
	logger.WithNote("note-controller", c.Param("id")).Debugf("DELETE /notes/:id handler called")
	nc.crud.Delete(c)
}
