// Package mcp exposes the analysis pipeline as Model Context Protocol tools
// over stdio.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/blackwell-systems/tweetgenie/internal/analyzer"
	"github.com/blackwell-systems/tweetgenie/internal/logging"
	"github.com/blackwell-systems/tweetgenie/internal/source"
	"github.com/blackwell-systems/tweetgenie/internal/suggest"
)

// ServerName is the implementation name announced to clients.
const ServerName = "tweetgenie"

// Server answers tool calls by reading the current dataset and running the
// pipeline over it.
type Server struct {
	provider source.Provider
	policy   analyzer.Policy
	log      *logrus.Logger
	mcp      *mcp.Server
}

// NewServer creates a Server with every tool registered.
func NewServer(provider source.Provider, p analyzer.Policy, version string, log *logrus.Logger) *Server {
	if log == nil {
		log = logging.Discard()
	}
	s := &Server{
		provider: provider,
		policy:   p,
		log:      log,
		mcp:      mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: version}, nil),
	}
	addTools(s)
	return s
}

// Run serves over stdin/stdout until the client disconnects or ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.RunTransport(ctx, &mcp.StdioTransport{})
}

// RunTransport serves over t.
func (s *Server) RunTransport(ctx context.Context, t mcp.Transport) error {
	s.log.WithField("server", ServerName).Debug("mcp server starting")
	if err := s.mcp.Run(ctx, t); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

// Connect attaches one session over t and returns without blocking.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.mcp.Connect(ctx, t, nil)
}

// report loads the dataset and analyses it.
func (s *Server) report(ctx context.Context) (*analyzer.Dataset, suggest.Report, error) {
	ds, err := s.provider.Dataset(ctx)
	if err != nil {
		return nil, suggest.Report{}, fmt.Errorf("loading dataset: %w", err)
	}
	return ds, suggest.Analyze(*ds, s.policy), nil
}
