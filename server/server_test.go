package server

import (
	"bufio"
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xdb-io/xdb"
	"github.com/xdb-io/xdb/codec"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := xdb.Open(filepath.Join(t.TempDir(), "store.json"), xdb.WithAutoSnapshot(false))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db)
}

func TestRouteValidation(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     Request
		status  string
		message string
		exit    bool
	}{
		{"missing action", Request{}, statusError, "Missing 'action'", false},
		{"exit", Request{Action: "exit"}, statusOK, "Goodbye!", true},
		{"missing collection", Request{Action: "find"}, statusError, "Missing 'collection'", false},
		{"unknown action", Request{Action: "merge", Collection: "users"}, statusError, "Unknown Action", false},
		{"insert without data", Request{Action: "insert", Collection: "users"}, statusError, "Failed to insert", false},
		{"update without id", Request{Action: "update", Collection: "users"}, statusError, "Missing 'id'", false},
		{"delete without id", Request{Action: "delete", Collection: "users"}, statusError, "Not Found", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, exit := s.route(ctx, &tt.req)
			assert.Equal(t, tt.status, resp.Status)
			assert.Equal(t, tt.message, resp.Message)
			assert.Equal(t, tt.exit, exit)
		})
	}
}

func TestRouteCRUD(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	resp, _ := s.route(ctx, &Request{
		Action:     "insert",
		Collection: "users",
		Data:       xdb.Document{"username": "bot", "score": 100.0},
	})
	require.Equal(t, statusOK, resp.Status)
	id := resp.Data.(xdb.Document)["_id"].(string)
	require.Len(t, id, 16)

	resp, _ = s.route(ctx, &Request{Action: "count", Collection: "users"})
	require.Equal(t, statusOK, resp.Status)
	assert.Equal(t, 1, resp.Data.(xdb.Document)["count"])

	resp, _ = s.route(ctx, &Request{
		Action:     "update",
		Collection: "users",
		ID:         id,
		Data:       xdb.Document{"score": 200.0},
	})
	assert.Equal(t, statusOK, resp.Status)
	assert.Equal(t, "Updated", resp.Message)

	resp, _ = s.route(ctx, &Request{
		Action:     "find",
		Collection: "users",
		Query:      xdb.Filter{"_id": id},
	})
	require.Equal(t, statusOK, resp.Status)
	docs := resp.Data.([]xdb.Document)
	require.Len(t, docs, 1)
	assert.Equal(t, 200.0, docs[0]["score"])

	resp, _ = s.route(ctx, &Request{
		Action:     "upsert",
		Collection: "users",
		Data:       xdb.Document{"username": "second"},
	})
	require.Equal(t, statusOK, resp.Status)
	assert.Equal(t, "Upserted", resp.Message)

	resp, _ = s.route(ctx, &Request{Action: "delete", Collection: "users", ID: id})
	assert.Equal(t, "Deleted", resp.Message)

	resp, _ = s.route(ctx, &Request{Action: "delete", Collection: "users", ID: id})
	assert.Equal(t, statusError, resp.Status)

	resp, _ = s.route(ctx, &Request{Action: "count", Collection: "users"})
	assert.Equal(t, 1, resp.Data.(xdb.Document)["count"])
}

func TestServeTCP(t *testing.T) {
	s := newTestServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	c := codec.Default
	reader := bufio.NewReader(conn)

	send := func(line string) Response {
		t.Helper()
		_, err := conn.Write([]byte(line + "\n"))
		require.NoError(t, err)
		raw, err := reader.ReadBytes('\n')
		require.NoError(t, err)
		var resp Response
		require.NoError(t, c.Unmarshal(raw, &resp))
		return resp
	}

	// Blank lines are ignored, not answered.
	_, err = conn.Write([]byte("\n   \n"))
	require.NoError(t, err)

	resp := send(`{"action":"insert","collection":"users","data":{"username":"bot"}}`)
	require.Equal(t, statusOK, resp.Status)
	id := resp.Data.(map[string]any)["_id"].(string)

	resp = send(`not json at all`)
	assert.Equal(t, statusError, resp.Status)
	assert.Equal(t, "Invalid JSON", resp.Message)

	resp = send(`{"action":"find","collection":"users","query":{"_id":"` + id + `"}}`)
	require.Equal(t, statusOK, resp.Status)
	docs := resp.Data.([]any)
	require.Len(t, docs, 1)
	assert.Equal(t, "bot", docs[0].(map[string]any)["username"])

	resp = send(`{"action":"exit"}`)
	assert.Equal(t, "Goodbye!", resp.Message)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after context cancellation")
	}
}
