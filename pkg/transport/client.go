/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: client.go
Description: Transport client for the RESP fuzzing harness. Owns the single
TCP connection to the target, applies per-operation connect/read/write
deadlines, and classifies every send as ok, refused, reset, or timeout. The
connection is reused across sends; on refused/reset one reconnect is
attempted before the failure is surfaced, which is the heuristic separating
a transient network blip from a dead target. Responses are drained up to a
bounded size for liveness detection only, never parsed.
*/

package transport

import (
	"io"
	"net"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/kleascm/resp-fuzzer/pkg/interfaces"
	"github.com/kleascm/resp-fuzzer/pkg/resp"
)

// pingPayload is the prebuilt liveness probe.
var pingPayload = resp.Encode(interfaces.Command{Name: "PING"})

// Client holds the socket to (host, port). Not safe for concurrent use;
// the harness is single-threaded by design and the socket is owned here
// exclusively.
type Client struct {
	cfg   *interfaces.HarnessConfig
	log   *logrus.Logger
	conn  net.Conn
	drain []byte
}

// NewClient creates a disconnected client. The first Send dials lazily.
func NewClient(cfg *interfaces.HarnessConfig, log *logrus.Logger) *Client {
	return &Client{
		cfg:   cfg,
		log:   log,
		drain: make([]byte, 4096),
	}
}

// Connect dials the target, replacing any existing connection.
func (c *Client) Connect() error {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	conn, err := net.DialTimeout("tcp", c.cfg.Addr(), c.cfg.ConnectTimeout)
	if err != nil {
		return errors.Wrapf(err, "dial %s", c.cfg.Addr())
	}
	c.conn = conn
	return nil
}

// Close tears down the connection if one is open.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// Send transmits one encoded command and drains the response. A refused or
// reset outcome triggers exactly one reconnect-and-retry before being
// surfaced; a second consecutive failure is the iteration-level fault the
// harness classifies as a possible crash.
func (c *Client) Send(payload []byte) interfaces.Outcome {
	outcome := c.sendOnce(payload)
	if outcome != interfaces.OutcomeRefused && outcome != interfaces.OutcomeReset {
		return outcome
	}

	c.log.WithField("outcome", outcome.String()).Debug("send failed, reconnecting once")
	if err := c.Connect(); err != nil {
		return classify(err)
	}
	return c.sendOnce(payload)
}

// Ping sends the liveness probe and waits for any response byte.
func (c *Client) Ping() interfaces.Outcome {
	return c.Send(pingPayload)
}

func (c *Client) sendOnce(payload []byte) interfaces.Outcome {
	if c.conn == nil {
		if err := c.Connect(); err != nil {
			return classify(err)
		}
	}

	if err := c.conn.SetWriteDeadline(deadline(c.cfg.WriteTimeout)); err != nil {
		return interfaces.OutcomeReset
	}
	if _, err := c.conn.Write(payload); err != nil {
		return classify(err)
	}

	// Liveness read: one bounded read. Any response byte means the target
	// is alive; the content is discarded.
	if err := c.conn.SetReadDeadline(deadline(c.cfg.ReadTimeout)); err != nil {
		return interfaces.OutcomeReset
	}
	buf := c.drain
	if c.cfg.MaxDrainBytes < len(buf) {
		buf = buf[:c.cfg.MaxDrainBytes]
	}
	n, err := c.conn.Read(buf)
	if n > 0 {
		return interfaces.OutcomeOK
	}
	if err != nil {
		return classify(err)
	}
	return interfaces.OutcomeOK
}

func deadline(d time.Duration) time.Time {
	return time.Now().Add(d)
}

// classify maps a network error to a transport outcome.
func classify(err error) interfaces.Outcome {
	if err == nil {
		return interfaces.OutcomeOK
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return interfaces.OutcomeTimeout
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return interfaces.OutcomeRefused
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) {
		return interfaces.OutcomeReset
	}
	// Unknown transport failures are treated as resets: from the engine's
	// point of view the connection is gone either way.
	return interfaces.OutcomeReset
}
