// Package lsp implements a language server for markdown documents.
package lsp

import (
	"context"
	"io"

	"github.com/sourcegraph/jsonrpc2"
)

// Run serves language server requests over the given streams, usually
// standard input and output, until the client disconnects.
func Run(ctx context.Context, in io.ReadCloser, out io.WriteCloser, opts ...jsonrpc2.ConnOpt) error {
	conn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(transport{in, out}, jsonrpc2.VSCodeObjectCodec{}),
		handler(newServer()), opts...)
	<-conn.DisconnectNotify()
	return nil
}

type transport struct {
	in  io.ReadCloser
	out io.WriteCloser
}

func (c transport) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c transport) Write(p []byte) (int, error) { return c.out.Write(p) }

func (c transport) Close() error {
	if err := c.in.Close(); err != nil {
		c.out.Close()
		return err
	}
	return c.out.Close()
}
