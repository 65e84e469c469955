package domain_test

import (
	"lanchat/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSendFile(t *testing.T) {
	tests := []struct {
		line string
		path string
		ok   bool
	}{
		{line: `:send "notes.txt"`, path: "notes.txt", ok: true},
		{line: `:send "/home/alice/My Photos/cat.png"`, path: "/home/alice/My Photos/cat.png", ok: true},
		{line: `:send "a"`, path: "a", ok: true},
		{line: `:send ""`},
		{line: `:send "`},
		{line: `:send notes.txt`},
		{line: `:send "notes.txt`},
		{line: `hello :send "notes.txt"`},
		{line: `:receive "notes.txt"`},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			path, ok := domain.ParseSendFile(tt.line)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.path, path)
		})
	}
}

func TestParseReceiveFile(t *testing.T) {
	tests := []struct {
		line string
		name string
		ok   bool
	}{
		{line: `:receive "notes.txt"`, name: "notes.txt", ok: true},
		{line: `:receive "a"`, name: "a", ok: true},
		{line: `:receive "`},
		{line: `:receive notes.txt`},
		{line: `:send "notes.txt"`},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			name, ok := domain.ParseReceiveFile(tt.line)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.name, name)
		})
	}
}
