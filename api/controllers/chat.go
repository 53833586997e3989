package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ekomart/ekomart-backend/api/middleware"
	"github.com/ekomart/ekomart-backend/api/responses"
	"github.com/ekomart/ekomart-backend/api/validators"
	"github.com/ekomart/ekomart-backend/internal/chat"
	"github.com/ekomart/ekomart-backend/pkg/enums"
	pkgerrors "github.com/ekomart/ekomart-backend/pkg/errors"
	"github.com/ekomart/ekomart-backend/pkg/logger"
)

func chatCaller(r *http.Request) chat.Caller {
	principal, _ := middleware.PrincipalFromContext(r.Context())
	return chat.Caller{UserID: principal.UserID, Admin: principal.IsAdmin()}
}

// CreateConversation opens a support conversation, optionally with a first message.
func CreateConversation(svc chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}

		var body chat.CreateConversationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		conversation, err := svc.Create(r.Context(), middleware.UserIDFromContext(r.Context()), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, conversation)
	}
}

// ListConversations returns the caller's conversations, most recent activity first.
func ListConversations(svc chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}

		params, err := validators.ParsePageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListMine(r.Context(), middleware.UserIDFromContext(r.Context()), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminListConversations returns all conversations with an optional status filter.
func AdminListConversations(svc chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}

		params, err := validators.ParsePageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var status *enums.ConversationStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseConversationStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			status = &parsed
		}

		result, err := svc.ListAll(r.Context(), params, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// GetConversation returns one conversation with its messages.
func GetConversation(svc chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}

		conversationID, err := validators.ParsePathUUID(chi.URLParam(r, "conversationId"), "conversationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		conversation, err := svc.Get(r.Context(), chatCaller(r), conversationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, conversation)
	}
}

// PostChatMessage appends a message to a conversation the caller belongs to.
func PostChatMessage(svc chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}

		conversationID, err := validators.ParsePathUUID(chi.URLParam(r, "conversationId"), "conversationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body chat.PostMessageRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message, err := svc.PostMessage(r.Context(), chatCaller(r), conversationID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, message)
	}
}

// CloseConversation ends a support thread (admin only).
func CloseConversation(svc chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}

		conversationID, err := validators.ParsePathUUID(chi.URLParam(r, "conversationId"), "conversationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		conversation, err := svc.Close(r.Context(), chatCaller(r), conversationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, conversation)
	}
}

// MarkConversationRead marks the counterpart's messages as read.
func MarkConversationRead(svc chat.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "chat service unavailable"))
			return
		}

		conversationID, err := validators.ParsePathUUID(chi.URLParam(r, "conversationId"), "conversationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.MarkRead(r.Context(), chatCaller(r), conversationID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, "conversation marked as read")
	}
}
