package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/salesboard/internal/core/domain"
)

// SummaryInput is the input schema for the summary tool.
type SummaryInput struct{}

// TableInput is the input schema for the table tool.
type TableInput struct {
	Search   string `json:"search,omitempty" jsonschema:"case-insensitive text to find in product names"`
	Category string `json:"category,omitempty" jsonschema:"exact category to keep"`
	Reviews  string `json:"reviews,omitempty" jsonschema:"review filter: has_reviews, no_reviews or empty for all"`
	Page     int    `json:"page,omitempty" jsonschema:"zero-based page number"`
	PageSize int    `json:"page_size,omitempty" jsonschema:"rows per page (default 10)"`
}

// TableOutput is the output schema for the table tool.
type TableOutput struct {
	Rows       []RecordOutput `json:"rows"`
	TotalCount int            `json:"total_count"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	PageCount  int            `json:"page_count"`
}

// RecordOutput is a canonical record without its raw source row.
type RecordOutput struct {
	ID          string   `json:"id"`
	ProductName string   `json:"product_name"`
	Category    string   `json:"category"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty"`
	Discount    *float64 `json:"discount,omitempty"`
}

// CategoriesInput is the input schema for the categories tool.
type CategoriesInput struct{}

// CategoriesOutput is the output schema for the categories tool.
type CategoriesOutput struct {
	Categories []string `json:"categories"`
}

// LoadInput is the input schema for the load tool.
type LoadInput struct {
	Path string `json:"path,omitempty" jsonschema:"local CSV, TSV or JSON file to load"`
	URL  string `json:"url,omitempty" jsonschema:"sales API endpoint to fetch instead of a file"`
}

// LoadOutput is the output schema for the load tool.
type LoadOutput struct {
	SnapshotID string `json:"snapshot_id"`
	RowCount   int    `json:"row_count"`
	Source     string `json:"source"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "summary",
		Description: "Chart aggregates of the loaded sales dataset",
	}, s.handleSummary)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "table",
		Description: "One filtered page of sales records",
	}, s.handleTable)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "categories",
		Description: "Distinct product categories in the loaded dataset",
	}, s.handleCategories)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "load",
		Description: "Load sales rows from a file or API endpoint",
	}, s.handleLoad)
}

func (s *Server) handleSummary(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ SummaryInput,
) (*mcp.CallToolResult, domain.Summary, error) {
	summary, err := s.ports.Dataset.Summary(ctx)
	if err != nil {
		return nil, domain.Summary{}, err
	}
	return nil, *summary, nil
}

func (s *Server) handleTable(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TableInput,
) (*mcp.CallToolResult, TableOutput, error) {
	reviews := domain.ReviewFilter(input.Reviews)
	if !reviews.IsValid() {
		return nil, TableOutput{}, fmt.Errorf("%w: reviews must be has_reviews or no_reviews", domain.ErrInvalidInput)
	}
	if input.PageSize > domain.MaxPageSize {
		return nil, TableOutput{}, fmt.Errorf("%w: page_size must be at most %d", domain.ErrInvalidInput, domain.MaxPageSize)
	}

	page, err := s.ports.Dataset.Table(ctx, domain.TableQuery{
		Search:   input.Search,
		Category: input.Category,
		Reviews:  reviews,
		Page:     input.Page,
		PageSize: input.PageSize,
	})
	if err != nil {
		return nil, TableOutput{}, err
	}

	output := TableOutput{
		Rows:       make([]RecordOutput, len(page.Rows)),
		TotalCount: page.TotalCount,
		Page:       page.Page,
		PageSize:   page.PageSize,
		PageCount:  page.PageCount(),
	}
	for i := range page.Rows {
		output.Rows[i] = recordOutput(&page.Rows[i])
	}

	return nil, output, nil
}

func (s *Server) handleCategories(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ CategoriesInput,
) (*mcp.CallToolResult, CategoriesOutput, error) {
	page, err := s.ports.Dataset.Table(ctx, domain.TableQuery{PageSize: 1})
	if err != nil {
		return nil, CategoriesOutput{}, err
	}
	return nil, CategoriesOutput{Categories: page.Categories}, nil
}

func (s *Server) handleLoad(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LoadInput,
) (*mcp.CallToolResult, LoadOutput, error) {
	var source domain.Source
	switch {
	case input.Path != "" && input.URL != "":
		return nil, LoadOutput{}, fmt.Errorf("%w: give either path or url", domain.ErrInvalidInput)
	case input.Path != "":
		source = domain.Source{Type: domain.SourceTypeFile, Location: input.Path}
	case input.URL != "":
		source = domain.Source{Type: domain.SourceTypeAPI, Location: input.URL}
	default:
		return nil, LoadOutput{}, fmt.Errorf("%w: path or url is required", domain.ErrInvalidInput)
	}

	info, err := s.ports.Dataset.Ingest(ctx, source)
	if err != nil {
		return nil, LoadOutput{}, err
	}

	return nil, LoadOutput{
		SnapshotID: info.ID,
		RowCount:   info.RowCount,
		Source:     info.Source.String(),
	}, nil
}

func recordOutput(r *domain.Record) RecordOutput {
	return RecordOutput{
		ID:          r.ID,
		ProductName: r.ProductName,
		Category:    r.Category,
		Rating:      r.Rating,
		ReviewCount: r.ReviewCount,
		Discount:    r.Discount,
	}
}
