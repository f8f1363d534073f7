// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the contract field mapper for LLM integration via stdio transport.
package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/contractviewer/internal/apperr"
	"github.com/starford/contractviewer/internal/contract"
	"github.com/starford/contractviewer/internal/models"
	"github.com/starford/contractviewer/internal/render"
)

// Resource URIs.
const (
	FieldsURI = "contractviewer://fields"
	FormatURI = "contractviewer://export-format"
)

// Fetcher downloads the configured stored document.
type Fetcher interface {
	Fetch(ctx context.Context) (*models.Object, error)
}

// Server wraps the MCP server with the contract tools.
type Server struct {
	mcp     *server.MCPServer
	fetcher Fetcher
}

// New creates a new MCP server with all tools registered. fetcher may be
// nil, in which case fetch_contract reports that no storage is configured.
func New(fetcher Fetcher) *Server {
	s := &Server{fetcher: fetcher}

	s.mcp = server.NewMCPServer(
		"Contract Viewer",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("import_contract",
		mcp.WithDescription("Map a lease contract JSON document of any supported shape to the flat "+
			"field record. Returns {record, metadata}. Read the contractviewer://export-format "+
			"resource for the canonical shape."),
		mcp.WithString("document", mcp.Required(), mcp.Description("The contract document as JSON text")),
	), s.importContract)

	s.mcp.AddTool(mcp.NewTool("import_contract_url",
		mcp.WithDescription("Download a contract JSON document from an http(s) URL or a "+
			"data:application/json;base64 URI and map it to the flat field record."),
		mcp.WithString("url", mcp.Required(), mcp.Description("http(s) URL or base64 data URI")),
	), s.importContractURL)

	s.mcp.AddTool(mcp.NewTool("export_contract",
		mcp.WithDescription("Build the canonical contract document from a flat field record."),
		mcp.WithString("record", mcp.Required(), mcp.Description("JSON object of field name to string value; missing fields are empty")),
	), s.exportContract)

	s.mcp.AddTool(mcp.NewTool("print_contract",
		mcp.WithDescription("Render a flat field record as a plain-text printout grouped by section."),
		mcp.WithString("record", mcp.Required(), mcp.Description("JSON object of field name to string value")),
	), s.printContract)

	s.mcp.AddTool(mcp.NewTool("fetch_contract",
		mcp.WithDescription("Download the configured stored contract document and map it to the flat field record."),
	), s.fetchContract)

	s.mcp.AddTool(mcp.NewTool("list_fields",
		mcp.WithDescription("List the form sections with every field name, label and placeholder."),
	), s.listFields)

	s.mcp.AddResource(
		mcp.NewResource(FieldsURI, "Contract Fields",
			mcp.WithResourceDescription("Form sections and field catalog of the flat record."),
			mcp.WithMIMEType("application/json"),
		),
		s.readFieldsResource,
	)
	s.mcp.AddResource(
		mcp.NewResource(FormatURI, "Contract Export Format",
			mcp.WithResourceDescription("How documents are read and the canonical shape written on export."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

type importResult struct {
	Record   contract.Record    `json:"record"`
	Metadata *contract.Metadata `json:"metadata,omitempty"`
	Source   string             `json:"source,omitempty"`
}

func importText(data []byte, source string) (*mcp.CallToolResult, error) {
	record, meta, err := contract.Parse(data)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(importResult{Record: record, Metadata: meta, Source: source}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) importContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := req.RequireString("document")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return importText([]byte(doc), "")
}

func parseRecord(req mcp.CallToolRequest) (contract.Record, error) {
	raw, err := req.RequireString("record")
	if err != nil {
		return nil, err
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("%w: record must be an object of string values", apperr.ErrInvalidJSON)
	}
	return contract.FromMap(m)
}

func (s *Server) exportContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	record, err := parseRecord(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := contract.Export(record).MarshalIndent()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) printContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	record, err := parseRecord(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var buf bytes.Buffer
	if err := render.Text(&buf, record, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (s *Server) fetchContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.fetcher == nil {
		return mcp.NewToolResultError("no storage configured"), nil
	}
	obj, err := s.fetcher.Fetch(ctx)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError("stored document not found"), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return importText(obj.Data, obj.Path)
}

func (s *Server) listFields(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(contract.Sections, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readFieldsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	out, err := json.MarshalIndent(contract.Sections, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      FieldsURI,
			MIMEType: "application/json",
			Text:     string(out),
		},
	}, nil
}

func (s *Server) readFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      FormatURI,
			MIMEType: "text/markdown",
			Text:     ExportFormatGuide(),
		},
	}, nil
}
