package handlers

import (
	"net/http"

	"task_tracker/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	msgTaskCreated  = "The task was created successfully"
	msgTaskUpdated  = "The task was updated successfully"
	msgTaskDeleted  = "The task was deleted successfully"
	msgTasksDeleted = "The tasks were deleted successfully"
)

// listQuery holds the offset pagination parameters. A missing or zero limit
// selects the configured default page size.
type listQuery struct {
	Skip  int `form:"skip"`
	Limit int `form:"limit"`
}

// @Summary      List tasks
// @Description  Returns the caller's tasks ordered by id.
// @Tags         tasks
// @Produce      json
// @Param        skip   query     int  false  "Number of tasks to skip"  default(0)
// @Param        limit  query     int  false  "Page size"  default(100)
// @Success      200    {object}  response{data=[]models.Task}
// @Failure      401    {object}  errorResponse
// @Failure      422    {object}  errorResponse
// @Router       /api/v1/tasks [get]
// @Security     BasicAuth
// @Security     BearerAuth
func (h *Handler) listTasks(c *gin.Context) {
	var q listQuery
	if !h.bindQuery(c, &q) {
		return
	}

	tasks, err := h.services.ListByOwner(c.Request.Context(), userFrom(c).ID, q.Skip, q.Limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	h.ok(c, http.StatusOK, tasks, "")
}

// @Summary      Get task
// @Tags         tasks
// @Produce      json
// @Param        id   path      int  true  "Task id"
// @Success      200  {object}  response{data=models.Task}
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/tasks/{id} [get]
// @Security     BasicAuth
// @Security     BearerAuth
func (h *Handler) getTask(c *gin.Context) {
	h.ok(c, http.StatusOK, taskFrom(c), "")
}

// @Summary      Create task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        input  body      models.TaskCreate  true  "Task"
// @Success      201    {object}  response{data=models.Task}
// @Failure      400    {object}  errorResponse  "inactive account"
// @Failure      401    {object}  errorResponse
// @Failure      422    {object}  errorResponse
// @Router       /api/v1/tasks [post]
// @Security     BasicAuth
// @Security     BearerAuth
func (h *Handler) createTask(c *gin.Context) {
	var input models.TaskCreate
	if !h.bindJSON(c, &input) {
		return
	}

	task, err := h.services.Tasks.Create(c.Request.Context(), input, userFrom(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.ok(c, http.StatusCreated, task, msgTaskCreated)
}

// @Summary      Update task
// @Description  Only the fields present in the body are changed.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id     path      int                true  "Task id"
// @Param        input  body      models.TaskUpdate  true  "Fields to change"
// @Success      200    {object}  response{data=models.Task}
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Failure      422    {object}  errorResponse
// @Router       /api/v1/tasks/{id} [put]
// @Security     BasicAuth
// @Security     BearerAuth
func (h *Handler) updateTask(c *gin.Context) {
	var input models.TaskUpdate
	if !h.bindJSON(c, &input) {
		return
	}

	task, err := h.services.Tasks.Update(c.Request.Context(), *taskFrom(c), input)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.ok(c, http.StatusOK, task, msgTaskUpdated)
}

// @Summary      Delete task
// @Tags         tasks
// @Produce      json
// @Param        id   path      int  true  "Task id"
// @Success      200  {object}  response{data=models.Task}
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/tasks/{id} [delete]
// @Security     BasicAuth
// @Security     BearerAuth
func (h *Handler) deleteTask(c *gin.Context) {
	task, err := h.services.Tasks.Delete(c.Request.Context(), taskFrom(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.ok(c, http.StatusOK, task, msgTaskDeleted)
}

// @Summary      Delete tasks
// @Description  Deletes the caller's tasks among ids and returns the ids actually deleted.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        input  body      models.TasksDelete  true  "Ids to delete"
// @Success      200    {object}  response{data=models.TasksDelete}
// @Failure      400    {object}  errorResponse  "inactive account"
// @Failure      401    {object}  errorResponse
// @Failure      422    {object}  errorResponse
// @Router       /api/v1/tasks [delete]
// @Security     BasicAuth
// @Security     BearerAuth
func (h *Handler) deleteTasks(c *gin.Context) {
	var input models.TasksDelete
	if !h.bindJSON(c, &input) {
		return
	}

	ids, err := h.services.DeleteManyByOwner(c.Request.Context(), input.IDs, userFrom(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.ok(c, http.StatusOK, models.TasksDelete{IDs: ids}, msgTasksDeleted)
}
