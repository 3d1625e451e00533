package api

import (
	"encoding/json"
	"strconv"

	"github.com/example/taskboard/modules/task"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"
)

// ListTasks returns a filtered, paginated page of tasks visible to the actor.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthenticated(c)
	}

	page, err := queryInt(c, "page")
	if err != nil {
		return badRequest(c, "Page must be a positive integer")
	}
	pageSize, err := queryInt(c, "limit")
	if err != nil {
		return badRequest(c, "Limit must be between 1 and 100")
	}

	taskReq := task.ListTasksRequest{
		Actor:          actor,
		Status:         c.Query("status"),
		Priority:       c.Query("priority"),
		AssignedUserID: c.Query("assignedUserId"),
		Search:         c.Query("search"),
		Page:           page,
		PageSize:       pageSize,
	}
	var resp task.TaskPageResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.taskContainer, "list",
		json.Marshal, json.Unmarshal, &taskReq, &resp,
	); err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// GetTask returns a single task with its creator and assignee summaries.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthenticated(c)
	}

	taskReq := task.GetTaskRequest{Actor: actor, TaskID: c.Params("id")}
	var resp task.SingleTaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.taskContainer, "get",
		json.Marshal, json.Unmarshal, &taskReq, &resp,
	); err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// CreateTask creates a new task with the actor as creator.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthenticated(c)
	}

	var body CreateTaskBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	taskReq := task.CreateTaskRequest{
		Actor:          actor,
		Title:          body.Title,
		Description:    body.Description,
		Priority:       body.Priority,
		DueDate:        body.DueDate,
		AssignedUserID: body.AssignedUserID,
	}
	var resp task.SingleTaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.taskContainer, "create",
		json.Marshal, json.Unmarshal, &taskReq, &resp,
	); err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// UpdateTask applies partial updates to a task.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthenticated(c)
	}

	var body UpdateTaskBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	taskReq := task.UpdateTaskRequest{
		Actor:          actor,
		TaskID:         c.Params("id"),
		Title:          body.Title,
		Description:    body.Description,
		Status:         body.Status,
		Priority:       body.Priority,
		DueDate:        body.DueDate,
		AssignedUserID: body.AssignedUserID,
	}
	var resp task.SingleTaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.taskContainer, "update",
		json.Marshal, json.Unmarshal, &taskReq, &resp,
	); err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// DeleteTask permanently removes a task.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthenticated(c)
	}

	taskReq := task.DeleteTaskRequest{Actor: actor, TaskID: c.Params("id")}
	var resp task.DeleteTaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.taskContainer, "delete",
		json.Marshal, json.Unmarshal, &taskReq, &resp,
	); err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Task deleted successfully",
		"id":      resp.ID,
	})
}

// ChangeTaskStatus transitions a task to a new status.
func (h *Handlers) ChangeTaskStatus(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return unauthenticated(c)
	}

	var body ChangeStatusBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	taskReq := task.ChangeStatusRequest{
		Actor:  actor,
		TaskID: c.Params("id"),
		Status: body.Status,
	}
	var resp task.ChangeStatusResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(), h.taskContainer, "change-status",
		json.Marshal, json.Unmarshal, &taskReq, &resp,
	); err != nil {
		return mapServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// queryInt parses an optional integer query parameter; 0 means unspecified.
func queryInt(c *fiber.Ctx, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
