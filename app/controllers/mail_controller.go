package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/TeamFoxHQ/TeamFox/internal/pkg/msgraph"
	"github.com/TeamFoxHQ/TeamFox/internal/pkg/usercontext"
)

// HandleListMailFolders returns the complete mail folder tree.
func HandleListMailFolders(c *fiber.Ctx) error {
	folders, err := graph.ListMailFolders(c.Context(), usercontext.GetUserID(c))
	if err != nil {
		return renderGraphError(c, err)
	}
	return c.JSON(fiber.Map{"folders": folders})
}

// HandleListMessages returns one page of messages. The continuation cursor
// from a previous page is passed back verbatim via the next query parameter.
func HandleListMessages(c *fiber.Ctx) error {
	top, _ := strconv.Atoi(c.Query("top", "25"))
	page, err := graph.ListMessages(
		c.Context(),
		usercontext.GetUserID(c),
		c.Query("folder"),
		top,
		c.Query("next"),
	)
	if err != nil {
		return renderGraphError(c, err)
	}
	return c.JSON(page)
}

// HandleGetMessage returns a single message with its full body.
func HandleGetMessage(c *fiber.Ctx) error {
	messageID := c.Params("id")
	if messageID == "" {
		return badRequest(c, "message id missing")
	}
	msg, err := graph.GetMessage(c.Context(), usercontext.GetUserID(c), messageID)
	if err != nil {
		return renderGraphError(c, err)
	}
	return c.JSON(msg)
}

type sendMailRequest struct {
	Subject  string   `json:"subject"`
	Body     string   `json:"body"`
	BodyType string   `json:"body_type"`
	To       []string `json:"to"`
	Cc       []string `json:"cc"`
}

// HandleSendMail sends a new message. Failures surface exactly as Graph
// reported them; the send is never silently retried.
func HandleSendMail(c *fiber.Ctx) error {
	var req sendMailRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if len(req.To) == 0 {
		return badRequest(c, "at least one recipient is required")
	}

	err := graph.SendMail(c.Context(), usercontext.GetUserID(c), msgraph.OutgoingMail{
		Subject:  req.Subject,
		Body:     req.Body,
		BodyType: req.BodyType,
		To:       req.To,
		Cc:       req.Cc,
	})
	if err != nil {
		return renderGraphError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message": "sent"})
}

type replyRequest struct {
	Comment string   `json:"comment"`
	To      []string `json:"to"`
}

// HandleReplyMessage replies to the sender of a message.
func HandleReplyMessage(c *fiber.Ctx) error {
	var req replyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	err := graph.ReplyToMessage(c.Context(), usercontext.GetUserID(c), c.Params("id"), req.Comment)
	if err != nil {
		return renderGraphError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message": "replied"})
}

// HandleForwardMessage forwards a message to new recipients.
func HandleForwardMessage(c *fiber.Ctx) error {
	var req replyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if len(req.To) == 0 {
		return badRequest(c, "at least one recipient is required")
	}
	err := graph.ForwardMessage(c.Context(), usercontext.GetUserID(c), c.Params("id"), req.Comment, req.To)
	if err != nil {
		return renderGraphError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message": "forwarded"})
}

// HandleDeleteMessage removes a message from the mailbox.
func HandleDeleteMessage(c *fiber.Ctx) error {
	err := graph.DeleteMessage(c.Context(), usercontext.GetUserID(c), c.Params("id"))
	if err != nil {
		return renderGraphError(c, err)
	}
	return c.JSON(fiber.Map{"message": "deleted"})
}

// HandleMarkMessageRead flags a message as read.
func HandleMarkMessageRead(c *fiber.Ctx) error {
	err := graph.MarkMessageRead(c.Context(), usercontext.GetUserID(c), c.Params("id"))
	if err != nil {
		return renderGraphError(c, err)
	}
	return c.JSON(fiber.Map{"message": "marked read"})
}
