package email

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sales-reporter/backend/internal/application/adapter"
	domainerror "github.com/sales-reporter/backend/internal/domain/error"
)

// fakeSMTPServer accepts one session and captures the envelope and data.
type fakeSMTPServer struct {
	listener net.Listener
	rcptCode int
	done     chan struct{}

	from string
	rcpt string
	data string
}

func startFakeSMTPServer(t *testing.T, rcptCode int) *fakeSMTPServer {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &fakeSMTPServer{listener: l, rcptCode: rcptCode, done: make(chan struct{})}
	t.Cleanup(func() { _ = l.Close() })
	go s.serve()
	return s
}

func (s *fakeSMTPServer) port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

func (s *fakeSMTPServer) serve() {
	defer close(s.done)

	conn, err := s.listener.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	r := bufio.NewReader(conn)
	reply := func(line string) { _, _ = conn.Write([]byte(line + "\r\n")) }

	reply("220 localhost ESMTP ready")
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		cmd := strings.TrimRight(line, "\r\n")
		upper := strings.ToUpper(cmd)

		switch {
		case strings.HasPrefix(upper, "EHLO"), strings.HasPrefix(upper, "HELO"):
			reply("250-localhost")
			reply("250 8BITMIME")
		case strings.HasPrefix(upper, "MAIL FROM:"):
			s.from = cmd[len("MAIL FROM:"):]
			reply("250 OK")
		case strings.HasPrefix(upper, "RCPT TO:"):
			s.rcpt = cmd[len("RCPT TO:"):]
			if s.rcptCode != 250 {
				reply(strconv.Itoa(s.rcptCode) + " mailbox unavailable")
				continue
			}
			reply("250 OK")
		case upper == "DATA":
			reply("354 End data with <CR><LF>.<CR><LF>")
			var b strings.Builder
			for {
				dl, err := r.ReadString('\n')
				if err != nil {
					return
				}
				if dl == ".\r\n" {
					break
				}
				b.WriteString(dl)
			}
			s.data = b.String()
			reply("250 OK queued")
		case upper == "QUIT":
			reply("221 Bye")
			return
		case upper == "RSET", upper == "NOOP":
			reply("250 OK")
		default:
			reply("502 command not implemented")
		}
	}
}

func TestSMTPSender_Send(t *testing.T) {
	server := startFakeSMTPServer(t, 250)
	sender := NewSMTPSender(SMTPConfig{
		Host:      "127.0.0.1",
		Port:      server.port(),
		FromName:  "Sales Reports",
		FromEmail: "noreply@example.com",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := sender.Send(ctx, adapter.SendEmailInput{
		To:      "owner@example.com",
		Subject: "Daily Sales Summary Report - 1/25/2025",
		Text:    "Total Sales Amount: $1200\nSKU: ITEM001, Total Quantity Sold: 5\n",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.ProviderID)

	<-server.done
	assert.Contains(t, server.from, "<noreply@example.com>")
	assert.Contains(t, server.rcpt, "<owner@example.com>")
	assert.Contains(t, server.data, "To: owner@example.com\r\n")
	assert.Contains(t, server.data, "Subject: Daily Sales Summary Report - 1/25/2025\r\n")
	assert.Contains(t, server.data, "Content-Type: text/plain; charset=utf-8\r\n")
	assert.Contains(t, server.data, "Total Sales Amount: $1200\r\nSKU: ITEM001, Total Quantity Sold: 5\r\n")
}

func TestSMTPSender_PermanentRejection(t *testing.T) {
	server := startFakeSMTPServer(t, 550)
	sender := NewSMTPSender(SMTPConfig{Host: "127.0.0.1", Port: server.port(), FromEmail: "noreply@example.com"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := sender.Send(ctx, adapter.SendEmailInput{To: "nobody@example.com", Subject: "s", Text: "t"})
	require.Error(t, err)

	var emailErr *domainerror.EmailError
	require.True(t, errors.As(err, &emailErr))
	assert.Equal(t, domainerror.ErrCodePermanentEmailFailure, emailErr.Code)
}

func TestSMTPSender_Unreachable(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	sender := NewSMTPSender(SMTPConfig{Host: "127.0.0.1", Port: port, FromEmail: "noreply@example.com"})
	_, err = sender.Send(context.Background(), adapter.SendEmailInput{To: "a@example.com"})
	require.Error(t, err)

	var emailErr *domainerror.EmailError
	require.True(t, errors.As(err, &emailErr))
	assert.Equal(t, domainerror.ErrCodeTemporaryEmailFailure, emailErr.Code)
}
