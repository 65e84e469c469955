// Package client is the interactive side of the chat: it relays typed lines
// to the server, prints what comes back and handles the local file commands.
package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"lanchat/domain"
	"lanchat/infrastructure/tcp"
	"lanchat/protocol"
	"log/slog"
	"net"
	"strconv"
	"strings"
)

type Options struct {
	Name     string
	ChatAddr string
	Files    *FileClient
}

// OptionsFromConfig targets the well known ports of the server.
func OptionsFromConfig(cfg Config) Options {
	host := cfg.Server
	return Options{
		Name:     cfg.Name,
		ChatAddr: net.JoinHostPort(host, strconv.Itoa(domain.ChatPort)),
		Files: NewFileClient("http://"+net.JoinHostPort(host, strconv.Itoa(domain.FilePort)),
			cfg.DownloadDir, nil),
	}
}

type Client struct {
	log     *slog.Logger
	console *Console
	opts    Options
}

func New(log *slog.Logger, console *Console, opts Options) *Client {
	return &Client{log: log, console: console, opts: opts}
}

// consoleSink prints every line the server sends.
type consoleSink struct {
	console *Console
}

func (s consoleSink) OnLine(_ domain.PeerID, line string) error {
	s.console.Print(line)
	return nil
}

func (s consoleSink) OnClose(domain.PeerID) {
	s.console.Notice("Disconnected")
}

// Run connects, sends the name and relays input lines until `:quit`,
// the end of input, the server hanging up or ctx being canceled.
func (c *Client) Run(ctx context.Context, input io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.console.Notice("trying to connect with: %s", c.opts.ChatAddr)
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", c.opts.ChatAddr)
	if err != nil {
		return fmt.Errorf("connection error: %w", err)
	}
	c.console.Notice("Connected!")

	queue := tcp.NewOutboundQueue(domain.OutboundQueueCapacity)
	connection := tcp.NewConnection(c.log, domain.PeerID(c.opts.ChatAddr), conn, queue, consoleSink{console: c.console})
	if err = queue.TryEnqueue(protocol.Encode(c.opts.Name)); err != nil {
		connection.Close()
		return err
	}

	done := make(chan error, 1)
	go func() { done <- connection.Run(ctx) }()

	lines := make(chan string)
	go readInput(ctx, input, lines)

	for {
		select {
		case err := <-done:
			return err
		case line, ok := <-lines:
			if !ok || line == domain.QuitCommand {
				if ok {
					c.console.Echo(line)
				}
				connection.Close()
				return <-done
			}
			c.handle(ctx, queue, line)
		}
	}
}

// handle runs the local commands and sends anything else to the server.
func (c *Client) handle(ctx context.Context, queue *tcp.OutboundQueue, line string) {
	c.console.Echo(line)

	if path, ok := domain.ParseSendFile(line); ok {
		name, created, err := c.opts.Files.Upload(ctx, path)
		if err != nil {
			c.console.Notice("send error = %v", err)
			return
		}
		if created {
			c.console.Notice("File sent: %s", name)
		} else {
			c.console.Notice("File replaced: %s", name)
		}
		return
	}

	if name, ok := domain.ParseReceiveFile(line); ok {
		path, err := c.opts.Files.Download(ctx, name)
		if err != nil {
			c.console.Notice("receive error = %v", err)
			return
		}
		c.console.Notice("File received: %s", path)
		return
	}

	if err := queue.TryEnqueue(protocol.Encode(line)); err != nil {
		c.console.Notice("transfer error = %v", err)
	}
}

func readInput(ctx context.Context, input io.Reader, lines chan<- string) {
	defer close(lines)
	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		select {
		case lines <- strings.TrimSuffix(scanner.Text(), "\r"):
		case <-ctx.Done():
			return
		}
	}
}
