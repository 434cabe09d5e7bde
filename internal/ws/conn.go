package ws

import "sync"

// JSONConn is the write side of a WebSocket. *websocket.Conn satisfies it.
type JSONConn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// SerialConn lets several goroutines write to one connection. The read loop
// replies with errors while game broadcasts push state, and the underlying
// socket supports only one concurrent writer.
type SerialConn struct {
	mu   sync.Mutex
	conn JSONConn
}

func NewSerialConn(conn JSONConn) *SerialConn {
	return &SerialConn{conn: conn}
}

func (c *SerialConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Close does not wait for an in-flight write; closing the socket is what
// unblocks a stalled writer.
func (c *SerialConn) Close() error {
	return c.conn.Close()
}
