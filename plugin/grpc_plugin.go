// Package plugin provides gRPC-based plugin communication for lintstack.
//
// This file implements the go-plugin GRPCPlugin interface. The RuleSet
// service has a single unary method, Describe, which returns the plugin's
// rule set as a structpb.Struct. The service is declared by hand so that
// no generated stubs are needed.

package plugin

import (
	"context"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/jokarl/lintstack/ruleset"
)

// Ensure RuleSetPlugin implements plugin.GRPCPlugin.
var _ plugin.GRPCPlugin = (*RuleSetPlugin)(nil)

// RuleSetPlugin is the implementation of plugin.GRPCPlugin for the RuleSet service.
// This is used by both the host (to create a client) and the plugin (to create a server).
type RuleSetPlugin struct {
	plugin.Plugin
	// Impl is the concrete implementation of the RuleSet interface.
	// Only used when serving (plugin side).
	Impl ruleset.RuleSet
}

// GRPCServer is called by the plugin to register the gRPC server.
func (p *RuleSetPlugin) GRPCServer(_ *plugin.GRPCBroker, s *grpc.Server) error {
	s.RegisterService(&ruleSetServiceDesc, &GRPCRuleSetServer{impl: p.Impl})
	return nil
}

// GRPCClient is called by the host to create a gRPC client.
func (p *RuleSetPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, c *grpc.ClientConn) (interface{}, error) {
	return &GRPCRuleSetClient{conn: c}, nil
}

// =============================================================================
// Service Description
// =============================================================================

const (
	serviceName    = "lintstack.RuleSet"
	describeMethod = "/" + serviceName + "/Describe"
)

// ruleSetService is the server-side interface of the RuleSet service.
type ruleSetService interface {
	Describe(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

var ruleSetServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*ruleSetService)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Describe", Handler: describeHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "lintstack/ruleset",
}

func describeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ruleSetService).Describe(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: describeMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ruleSetService).Describe(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// =============================================================================
// GRPCRuleSetServer - Plugin side
// =============================================================================

// GRPCRuleSetServer wraps a ruleset.RuleSet to implement the gRPC server.
// This runs in the plugin process and handles requests from the host.
type GRPCRuleSetServer struct {
	impl ruleset.RuleSet
}

// Describe returns the rule set's metadata, rules and presets.
func (s *GRPCRuleSetServer) Describe(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return toStruct(s.impl)
}

// =============================================================================
// GRPCRuleSetClient - Host side
// =============================================================================

// GRPCRuleSetClient calls the RuleSet service of a plugin process.
type GRPCRuleSetClient struct {
	conn grpc.ClientConnInterface
}

// Describe fetches the plugin's rule set. The result is a static snapshot
// that stays valid after the plugin process exits.
func (c *GRPCRuleSetClient) Describe(ctx context.Context) (*ruleset.BuiltinRuleSet, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, describeMethod, &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return fromStruct(out)
}
