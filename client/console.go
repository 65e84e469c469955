package client

import (
	"fmt"
	"io"
	"lanchat/domain"
	"sync"

	"github.com/gookit/color"
)

// Console serializes output from the network reader and the input loop.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	colours bool
}

func NewConsole(out io.Writer, colours bool) *Console {
	return &Console{out: out, colours: colours}
}

// Print writes a line received from the server. Server lines stand out.
func (c *Console) Print(line string) {
	if c.colours && domain.IsSystemLine(line) {
		line = color.FgCyan.Render(line)
	}
	c.write(line)
}

// Echo shows the user's own input the way peers will not see it.
func (c *Console) Echo(line string) {
	line = "y: " + line
	if c.colours {
		line = color.FgGreen.Render(line)
	}
	c.write(line)
}

// Notice is a local status line, never sent to the server.
func (c *Console) Notice(format string, args ...any) {
	line := domain.SystemPrefix + fmt.Sprintf(format, args...)
	if c.colours {
		line = color.New(color.FgYellow, color.OpBold).Render(line)
	}
	c.write(line)
}

func (c *Console) write(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.out, line)
}
