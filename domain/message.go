package domain

import (
	"fmt"
	"strings"
)

// ChatLine is the relayed form of a named peer's message.
func ChatLine(name, body string) string {
	return fmt.Sprintf("%s: %s", name, body)
}

func JoinLine(name string, id PeerID) string {
	return fmt.Sprintf("%sNew user: %s %s", SystemPrefix, name, id)
}

func RosterLine(roster []string) string {
	return fmt.Sprintf("%sConnected! Other user(s): %s", SystemPrefix, strings.Join(roster, " "))
}

func LeaveLine(name string, roster []string) string {
	return fmt.Sprintf("%s%s left. User(s): %s", SystemPrefix, name, strings.Join(roster, " "))
}

func FileReceivedLine(name string) string {
	return fmt.Sprintf("%sServer received file: %s", SystemPrefix, name)
}

// IsSystemLine reports whether a received line was generated by the server.
func IsSystemLine(line string) bool {
	return strings.HasPrefix(line, SystemPrefix)
}

// DecodeLine turns a raw frame into text, replacing invalid UTF-8 sequences.
func DecodeLine(frame []byte) string {
	return strings.ToValidUTF8(string(frame), "�")
}
