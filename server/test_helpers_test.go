package server

import (
	"context"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"
)

// ---------------------------------------------------------------------------
// Shared test infrastructure for server package tests.
// ---------------------------------------------------------------------------

// bg returns a background context for test calls.
func bg() context.Context {
	return context.Background()
}

// structReq builds a Connect request carrying a Struct built from fields.
func structReq(t *testing.T, fields map[string]any) *connect.Request[structpb.Struct] {
	t.Helper()
	msg, err := structpb.NewStruct(fields)
	if err != nil {
		t.Fatalf("structpb.NewStruct: %v", err)
	}
	return connect.NewRequest(msg)
}

// newTestCompileService creates a CompileService with default options.
func newTestCompileService() *CompileService {
	return NewCompileService(testOptions(), NewResultStore())
}

// startTestServer runs a ParleyServer behind httptest and returns clients
// for both procedures.
func startTestServer(t *testing.T, opts ...ServerOption) (compile, disasm *connect.Client[structpb.Struct, structpb.Struct]) {
	t.Helper()
	srv := New(opts...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Stop()
	})
	compile = connect.NewClient[structpb.Struct, structpb.Struct](ts.Client(), ts.URL+CompileProcedure)
	disasm = connect.NewClient[structpb.Struct, structpb.Struct](ts.Client(), ts.URL+DisassembleProcedure)
	return compile, disasm
}
