package utils

import "strings"

const (
	chatIDPrefix    = "chat_"
	chatIDSeparator = "_"
)

// ChatID derives the conversation identifier for two users. The pair is
// sorted first so ChatID(a, b) == ChatID(b, a). User IDs are UUIDs and never
// contain the separator.
func ChatID(userA, userB string) string {
	if userA > userB {
		userA, userB = userB, userA
	}
	return chatIDPrefix + userA + chatIDSeparator + userB
}

// ParseChatID returns the two participants encoded in a chat ID.
func ParseChatID(chatID string) (string, string, bool) {
	rest, ok := strings.CutPrefix(chatID, chatIDPrefix)
	if !ok {
		return "", "", false
	}

	userA, userB, ok := strings.Cut(rest, chatIDSeparator)
	if !ok || userA == "" || userB == "" || strings.Contains(userB, chatIDSeparator) {
		return "", "", false
	}
	return userA, userB, true
}

// IsChatParticipant reports whether userID is one of the chat's two members.
func IsChatParticipant(chatID, userID string) bool {
	userA, userB, ok := ParseChatID(chatID)
	if !ok {
		return false
	}
	return userID == userA || userID == userB
}
