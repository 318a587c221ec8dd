package server

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/chazu/parley/artifact"
	"github.com/chazu/parley/compiler"
	"github.com/chazu/parley/pkg/bytecode"
)

// Procedure paths of the compile service.
const (
	CompileProcedure     = "/parley.v1.CompileService/Compile"
	DisassembleProcedure = "/parley.v1.CompileService/Disassemble"
)

// CompileService compiles scripts on request. Messages are
// google.protobuf.Struct so clients need no generated stubs.
type CompileService struct {
	opts    compiler.Options
	results *ResultStore
}

// NewCompileService creates a CompileService.
func NewCompileService(opts compiler.Options, results *ResultStore) *CompileService {
	return &CompileService{opts: opts, results: results}
}

// Compile compiles a script.
//
// Request fields: source (required), name, strict.
// Response fields: id, code, labels, truncated, stop_line.
func (s *CompileService) Compile(
	ctx context.Context,
	req *connect.Request[structpb.Struct],
) (*connect.Response[structpb.Struct], error) {
	fields := req.Msg.GetFields()
	source := fields["source"].GetStringValue()
	if source == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("source is required"))
	}
	name := fields["name"].GetStringValue()
	if name == "" {
		name = "untitled"
	}

	opts := s.opts
	if fields["strict"].GetBoolValue() {
		opts.Unclassified = compiler.UnclassifiedError
		opts.DuplicateLabels = compiler.DuplicateReject
	}

	p, err := compiler.Compile(source, opts)
	if err != nil {
		log.Debug("compile rejected", "name", name, "error", err)
		return nil, compileError(err)
	}

	a := artifact.FromProgram(name, source, p)
	id := s.results.Create(a)

	labels := make(map[string]any, len(a.Labels))
	for label, off := range a.Labels {
		labels[label] = off
	}
	msg, err := structpb.NewStruct(map[string]any{
		"id":        id,
		"code":      a.Code,
		"labels":    labels,
		"truncated": p.Truncated,
		"stop_line": p.StopLine,
	})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	log.Info("compiled", "name", name, "id", id, "bytes", len(a.Code))
	return connect.NewResponse(msg), nil
}

// Disassemble returns a listing for a previous compile result (field id)
// or for raw bytecode (field code).
func (s *CompileService) Disassemble(
	ctx context.Context,
	req *connect.Request[structpb.Struct],
) (*connect.Response[structpb.Struct], error) {
	fields := req.Msg.GetFields()

	var (
		code   string
		labels map[string]int
	)
	if id := fields["id"].GetStringValue(); id != "" {
		a, ok := s.results.Lookup(id)
		if !ok {
			return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("compile result %q not found", id))
		}
		code, labels = a.Code, a.Labels
	} else if c, ok := fields["code"]; ok {
		code = c.GetStringValue()
	} else {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("id or code is required"))
	}

	listing, err := bytecode.Disassemble(code, labels)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	msg, err := structpb.NewStruct(map[string]any{"listing": listing})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(msg), nil
}

// compileError maps compiler errors to Connect codes.
func compileError(err error) *connect.Error {
	var (
		parseErr    *compiler.ParseError
		unresolved  *compiler.UnresolvedReferenceError
		overflowErr *compiler.PlaceholderOverflowError
	)
	switch {
	case errors.As(err, &parseErr), errors.As(err, &unresolved), errors.As(err, &overflowErr):
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}
