package domain

import "strings"

const (
	QuitCommand   = ":quit"
	sendPrefix    = `:send "`
	receivePrefix = `:receive "`
	commandQuote  = `"`
	minSendLen    = 9
	minReceiveLen = 11
)

// ParseSendFile extracts the path of a `:send "<path>"` command.
func ParseSendFile(line string) (string, bool) {
	return parseQuoted(line, sendPrefix, minSendLen)
}

// ParseReceiveFile extracts the file name of a `:receive "<name>"` command.
func ParseReceiveFile(line string) (string, bool) {
	return parseQuoted(line, receivePrefix, minReceiveLen)
}

func parseQuoted(line, prefix string, minLen int) (string, bool) {
	if !strings.HasPrefix(line, prefix) || !strings.HasSuffix(line, commandQuote) {
		return "", false
	}
	if len(line) < minLen {
		return "", false
	}
	return strings.TrimSuffix(strings.TrimPrefix(line, prefix), commandQuote), true
}
