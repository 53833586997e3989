package enums

import "fmt"

// ChatSender maps to the chat_sender enum in Postgres.
type ChatSender string

const (
	ChatSenderCustomer ChatSender = "customer"
	ChatSenderAdmin    ChatSender = "admin"
)

var validChatSenders = []ChatSender{ChatSenderCustomer, ChatSenderAdmin}

// IsValid checks whether the given sender matches the canonical enum.
func (s ChatSender) IsValid() bool {
	for _, candidate := range validChatSenders {
		if candidate == s {
			return true
		}
	}
	return false
}

// Counterpart returns the other side of the two-party conversation.
func (s ChatSender) Counterpart() ChatSender {
	if s == ChatSenderAdmin {
		return ChatSenderCustomer
	}
	return ChatSenderAdmin
}

// ParseChatSender converts raw strings into ChatSender.
func ParseChatSender(value string) (ChatSender, error) {
	for _, candidate := range validChatSenders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid chat sender %q", value)
}

// ConversationStatus maps to the conversation_status enum in Postgres.
type ConversationStatus string

const (
	ConversationStatusOpen   ConversationStatus = "open"
	ConversationStatusClosed ConversationStatus = "closed"
)

var validConversationStatuses = []ConversationStatus{
	ConversationStatusOpen,
	ConversationStatusClosed,
}

// IsValid checks whether the given status matches the canonical enum.
func (s ConversationStatus) IsValid() bool {
	for _, candidate := range validConversationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseConversationStatus converts raw strings into ConversationStatus.
func ParseConversationStatus(value string) (ConversationStatus, error) {
	for _, candidate := range validConversationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid conversation status %q", value)
}
