package api

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/elee1766/medassist/src/chat"
)

// Handler serves the chat routes.
type Handler struct {
	service *chat.Service
	logger  *slog.Logger
}

// NewHandler creates a Handler backed by service.
func NewHandler(service *chat.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	Response    string `json:"response"`
	IsEmergency bool   `json:"is_emergency"`
	Error       bool   `json:"error,omitempty"`
	ErrorKind   string `json:"error_kind,omitempty"`
	Timestamp   string `json:"timestamp"`
}

type sessionRequest struct {
	SessionID string `json:"session_id"`
	File      string `json:"file"`
}

type statusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// ErrorResponse is returned for rejected requests.
type ErrorResponse struct {
	Message string `json:"message"`
}

func writeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorResponse{Message: message})
}

// parseBody decodes an optional JSON body; an empty body leaves v untouched.
func parseBody(c *fiber.Ctx, v any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	c.Request().Header.SetContentType(fiber.MIMEApplicationJSON)
	return c.BodyParser(v)
}

// Health reports liveness.
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}

// Chat runs one turn. Provider failures still produce a chat response, with
// error set and a 500 status.
func (h *Handler) Chat(c *fiber.Ctx) error {
	var req chatRequest
	if err := parseBody(c, &req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "invalid JSON payload")
	}

	reply, err := h.service.HandleTurn(c.UserContext(), req.SessionID, req.Message)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			return writeError(c, fiber.StatusBadRequest, "message is required")
		}
		return err
	}

	resp := chatResponse{
		Response:    reply.Content,
		IsEmergency: reply.IsEmergency,
		Error:       reply.Error,
		Timestamp:   reply.Timestamp.Format(time.RFC3339),
	}
	status := fiber.StatusOK
	if reply.Error {
		resp.ErrorKind = reply.ErrorKind.String()
		status = fiber.StatusInternalServerError
	}
	return c.Status(status).JSON(resp)
}

// Reset forgets a session. It succeeds whether or not the session existed.
func (h *Handler) Reset(c *fiber.Ctx) error {
	var req sessionRequest
	if err := parseBody(c, &req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "invalid JSON payload")
	}

	h.service.ResetSession(req.SessionID)
	return c.Status(fiber.StatusOK).JSON(statusResponse{Status: "success"})
}

// Save writes a snapshot of a session into the snapshot directory. Only the
// base name of a requested file is honoured.
func (h *Handler) Save(c *fiber.Ctx) error {
	var req sessionRequest
	if err := parseBody(c, &req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "invalid JSON payload")
	}

	name := ""
	if file := strings.TrimSpace(req.File); file != "" {
		name = filepath.Base(file)
		if name == "." || name == ".." || name == string(filepath.Separator) {
			return writeError(c, fiber.StatusBadRequest, "invalid file name")
		}
	}

	path, err := h.service.SaveSnapshot(req.SessionID, name)
	if err != nil {
		if errors.Is(err, chat.ErrSnapshotsDisabled) {
			return writeError(c, fiber.StatusServiceUnavailable, "snapshots are disabled")
		}
		return err
	}
	return c.Status(fiber.StatusOK).JSON(statusResponse{Status: "success", Path: path})
}
