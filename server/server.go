// Package server exposes a DB over a line-delimited TCP protocol.
//
// Each client connection is handled by its own goroutine. Requests and
// responses are newline-delimited single-line JSON objects; see Request and
// Response for the shapes. The server itself holds no state beyond the DB
// handle — all consistency guarantees live in the storage engine.
package server

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"net"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/xdb-io/xdb"
	"github.com/xdb-io/xdb/codec"
)

// maxLineBytes bounds a single request line.
const maxLineBytes = 1 << 20

// Options configure a Server.
type Options struct {
	// Logger defaults to a text logger on stderr.
	Logger *xdb.Logger

	// Codec encodes requests/responses. Defaults to codec.Default.
	Codec codec.Codec

	// AcceptPerSecond caps the rate of accepted connections; 0 disables
	// limiting. Burst is the limiter's burst size (defaults to
	// AcceptPerSecond when 0).
	AcceptPerSecond float64
	Burst           int
}

// Server serves the line-delimited protocol over TCP.
type Server struct {
	db      *xdb.DB
	logger  *xdb.Logger
	codec   codec.Codec
	limiter *rate.Limiter
}

// New creates a Server for db.
func New(db *xdb.DB, optFns ...func(o *Options)) *Server {
	opts := Options{
		Logger: xdb.NewLogger(nil),
		Codec:  codec.Default,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = xdb.NewLogger(nil)
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}

	s := &Server{
		db:     db,
		logger: opts.Logger,
		codec:  opts.Codec,
	}
	if opts.AcceptPerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = int(opts.AcceptPerSecond)
			if burst < 1 {
				burst = 1
			}
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.AcceptPerSecond), burst)
	}

	return s
}

// ListenAndServe listens on addr and serves until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections from ln until ctx is canceled, then closes the
// listener and waits for in-flight connections to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("server listening", "addr", ln.Addr().String())

	g, ctx := errgroup.WithContext(ctx)
	stop := context.AfterFunc(ctx, func() {
		_ = ln.Close()
	})
	defer stop()

	for {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				break
			}
		}

		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			s.logger.Warn("accept failed", "error", err)
			continue
		}

		g.Go(func() error {
			s.handleConn(ctx, conn)
			return nil
		})
	}

	err := g.Wait()
	s.logger.Info("server stopped")
	return err
}

// handleConn runs one client session: read a line, route it, answer, repeat
// until "exit", EOF, or shutdown.
func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	// Unblock the read loop on shutdown.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	remote := conn.RemoteAddr().String()
	s.logger.Info("client connected", "remote", remote)

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := s.codec.Unmarshal(line, &req); err != nil {
			s.logger.Warn("invalid JSON request", "remote", remote)
			s.writeResponse(conn, errorResponse("Invalid JSON"))
			continue
		}

		resp, exit := s.route(ctx, &req)
		s.writeResponse(conn, resp)
		if exit {
			s.logger.Info("session terminated", "remote", remote)
			return
		}
	}

	s.logger.Info("client disconnected", "remote", remote)
}

// route dispatches a request to the engine and shapes the response. The
// second return value is true when the session should end.
func (s *Server) route(ctx context.Context, req *Request) (Response, bool) {
	if req.Action == "" {
		return errorResponse("Missing 'action'"), false
	}
	if req.Action == "exit" {
		return okResponse("Goodbye!", nil), true
	}
	if req.Collection == "" {
		return errorResponse("Missing 'collection'"), false
	}

	switch req.Action {
	case "insert":
		id, err := s.db.Insert(ctx, req.Collection, req.Data)
		if err != nil {
			return errorResponse("Failed to insert"), false
		}
		return okResponse("Inserted", xdb.Document{"_id": id}), false

	case "find":
		docs, err := s.db.Find(ctx, req.Collection, req.Query, req.Limit)
		if err != nil {
			return errorResponse("Failed to find"), false
		}
		return okResponse("Success", docs), false

	case "update":
		if req.ID == "" {
			return errorResponse("Missing 'id'"), false
		}
		found, err := s.db.Update(ctx, req.Collection, req.ID, req.Data)
		if err != nil || !found {
			return errorResponse("Not Found"), false
		}
		return okResponse("Updated", nil), false

	case "upsert":
		id, err := s.db.Upsert(ctx, req.Collection, req.ID, req.Data)
		if err != nil {
			return errorResponse("Failed to upsert"), false
		}
		return okResponse("Upserted", xdb.Document{"_id": id}), false

	case "delete":
		if req.ID == "" {
			return errorResponse("Not Found"), false
		}
		found, err := s.db.Delete(ctx, req.Collection, req.ID)
		if err != nil || !found {
			return errorResponse("Not Found"), false
		}
		return okResponse("Deleted", nil), false

	case "count":
		n, err := s.db.Count(ctx, req.Collection)
		if err != nil {
			return errorResponse("Failed to count"), false
		}
		return okResponse("Success", xdb.Document{"count": n}), false

	default:
		return errorResponse("Unknown Action"), false
	}
}

func (s *Server) writeResponse(conn net.Conn, resp Response) {
	data, err := s.codec.Marshal(resp)
	if err != nil {
		s.logger.Error("encode response failed", "error", err)
		return
	}
	// Newline is the protocol delimiter.
	if _, err := conn.Write(append(data, '\n')); err != nil {
		s.logger.Warn("write response failed", "error", err)
	}
}
