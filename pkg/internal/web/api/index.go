package api

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func MapAPIs(app *fiber.App, baseURL string, auth fiber.Handler) {
	api := app.Group(baseURL).Name("API")
	{
		api.Get("/rooms", auth, listRoom)
		api.Post("/rooms", auth, createRoom)
		api.Get("/rooms/:room", auth, getRoom)
		api.Get("/rooms/:room/members", auth, listRoomMember)
		api.Post("/rooms/:room/members", auth, addRoomMember)

		api.Get("/rooms/:room/messages", auth, listMessage)
		api.Get("/rooms/:room/messages/:messageId", auth, getMessage)
		api.Post("/rooms/:room/messages", auth, newMessage)
		api.Put("/rooms/:room/messages/:messageId", auth, editMessage)
		api.Delete("/rooms/:room/messages/:messageId", auth, deleteMessage)

		api.Get("/rooms/:room/outbox", auth, listOutbox)
		api.Get("/rooms/:room/outbox/:token", auth, getOutboxEntry)
		api.Post("/rooms/:room/outbox/:token/retry", auth, retryOutboxEntry)
		api.Delete("/rooms/:room/outbox/:token", auth, discardOutboxEntry)

		api.Get("/rooms/:room/messages/:messageId/reacts", auth, listReactions)
		api.Put("/rooms/:room/messages/:messageId/reacts", auth, toggleReaction)

		api.Post("/rooms/:room/typing", auth, setTypingStatus)

		api.Post("/attachments", auth, uploadAttachment)
		api.Get("/attachments/:attachmentId", auth, getAttachment)

		api.Get("/posts/:postId", auth, getPost)
		api.Post("/posts", auth, createPost)
		api.Put("/posts/:postId", auth, editPost)
		api.Delete("/posts/:postId", auth, deletePost)
		api.Get("/posts/:postId/comments", auth, listComment)
		api.Post("/posts/:postId/comments", auth, createComment)
		api.Delete("/posts/:postId/comments/:commentId", auth, deleteComment)

		admin := api.Group("/admin").Name("Admin API")
		{
			admin.Post("/cleanup/messages", auth, sweepMessages)
			admin.Post("/cleanup/attachments", auth, sweepOrphanedAttachments)
			admin.Get("/cleanup/attachments", auth, listOrphanedAttachments)
		}

		api.Get("/unified", auth, websocket.New(unifiedGateway))
	}
}
