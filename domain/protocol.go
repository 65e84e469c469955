// Package domain contains the core concepts of the chat relay.
// No network, storage or UI logic should be added here.
package domain

const (
	// ChatPort carries the CRLF line protocol.
	ChatPort = 49494
	// FilePort carries the file sideband.
	FilePort = 49495

	OutboundQueueCapacity = 1024
	LinesPerTick          = 10
	HistoryCapacity       = 16
	ReadBufferSize        = 1024

	// SystemPrefix marks server generated lines so clients can tell them from chat.
	SystemPrefix = ">>> "
)
