/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: client_test.go
Description: Tests for the transport client against real local listeners.
Covers the ok/timeout/refused outcomes, the reconnect-once recovery path,
and liveness probing.
*/

package transport_test

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kleascm/resp-fuzzer/pkg/interfaces"
	"github.com/kleascm/resp-fuzzer/pkg/transport"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func clientConfig(port int) *interfaces.HarnessConfig {
	return &interfaces.HarnessConfig{
		Host:           "127.0.0.1",
		Port:           port,
		MaxCommands:    5,
		DictMixRatio:   0.5,
		ConnectTimeout: time.Second,
		ReadTimeout:    200 * time.Millisecond,
		WriteTimeout:   200 * time.Millisecond,
		MaxDrainBytes:  4096,
	}
}

// listen opens a loopback listener and returns it with its port.
func listen(t *testing.T) (net.Listener, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	return ln, ln.Addr().(*net.TCPAddr).Port
}

func TestSendOK(t *testing.T) {
	ln, port := listen(t)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 1024)
		conn.Read(buf)
		conn.Write([]byte("+PONG\r\n"))
		conn.Read(buf) // hold until the client hangs up
	}()

	c := transport.NewClient(clientConfig(port), quietLogger())
	defer c.Close()

	outcome := c.Send([]byte("*1\r\n$4\r\nPING\r\n"))
	assert.Equal(t, interfaces.OutcomeOK, outcome)
}

// TestSendErrorReplyIsOK verifies a RESP error reply still counts as a live
// target: the harness cares about liveness, not command success.
func TestSendErrorReplyIsOK(t *testing.T) {
	ln, port := listen(t)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 1024)
		conn.Read(buf)
		conn.Write([]byte("-ERR unknown command\r\n"))
		conn.Read(buf)
	}()

	c := transport.NewClient(clientConfig(port), quietLogger())
	defer c.Close()

	assert.Equal(t, interfaces.OutcomeOK, c.Send([]byte("*1\r\n$7\r\nBOGUSOP\r\n")))
}

func TestSendTimeout(t *testing.T) {
	ln, port := listen(t)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		// Read the request, never answer.
		buf := make([]byte, 1024)
		conn.Read(buf)
		time.Sleep(2 * time.Second)
	}()

	c := transport.NewClient(clientConfig(port), quietLogger())
	defer c.Close()

	outcome := c.Send([]byte("*1\r\n$4\r\nPING\r\n"))
	assert.Equal(t, interfaces.OutcomeTimeout, outcome)
}

func TestSendRefused(t *testing.T) {
	// Grab a free port, then close the listener so nothing is bound there.
	ln, port := listen(t)
	ln.Close()

	c := transport.NewClient(clientConfig(port), quietLogger())
	defer c.Close()

	outcome := c.Send([]byte("*1\r\n$4\r\nPING\r\n"))
	assert.Equal(t, interfaces.OutcomeRefused, outcome)
}

// TestReconnectOnce verifies a stale connection is replaced transparently:
// the first connection dies, the retry on a fresh one succeeds, and the
// caller sees a single ok outcome.
func TestReconnectOnce(t *testing.T) {
	ln, port := listen(t)
	go func() {
		// First connection is cut immediately, simulating a target restart
		// between iterations.
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		conn.Close()

		conn, err = ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 1024)
		conn.Read(buf)
		conn.Write([]byte("+PONG\r\n"))
		conn.Read(buf)
	}()

	c := transport.NewClient(clientConfig(port), quietLogger())
	defer c.Close()

	require.NoError(t, c.Connect())
	time.Sleep(50 * time.Millisecond) // let the server-side close land

	outcome := c.Send([]byte("*1\r\n$4\r\nPING\r\n"))
	assert.Equal(t, interfaces.OutcomeOK, outcome)
}

// TestSecondFailureSurfaces verifies only one reconnect is attempted: when
// the replacement connection dies too, the failure reaches the caller.
func TestSecondFailureSurfaces(t *testing.T) {
	ln, port := listen(t)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	c := transport.NewClient(clientConfig(port), quietLogger())
	defer c.Close()

	require.NoError(t, c.Connect())
	time.Sleep(50 * time.Millisecond)

	outcome := c.Send([]byte("*1\r\n$4\r\nPING\r\n"))
	assert.Contains(t, []interfaces.Outcome{interfaces.OutcomeReset, interfaces.OutcomeRefused}, outcome)
}

func TestPing(t *testing.T) {
	ln, port := listen(t)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 1024)
		n, _ := conn.Read(buf)
		assert.Contains(t, string(buf[:n]), "PING")
		conn.Write([]byte("+PONG\r\n"))
		conn.Read(buf)
	}()

	c := transport.NewClient(clientConfig(port), quietLogger())
	defer c.Close()

	assert.Equal(t, interfaces.OutcomeOK, c.Ping())
}

func TestCloseIdempotent(t *testing.T) {
	c := transport.NewClient(clientConfig(1), quietLogger())
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}
