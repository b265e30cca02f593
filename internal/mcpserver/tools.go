package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jackzampolin/bookmark/internal/config"
	"github.com/jackzampolin/bookmark/internal/frontmatter"
	"github.com/jackzampolin/bookmark/internal/progress"
	"github.com/jackzampolin/bookmark/internal/resolve"
	"github.com/jackzampolin/bookmark/internal/toc"
	"github.com/jackzampolin/bookmark/internal/types"
)

// BookQuery identifies a book. At least one field must be set.
type BookQuery struct {
	LitresID string `json:"litres_id,omitempty" jsonschema:"Litres numeric book ID"`
	ISBN     string `json:"isbn,omitempty" jsonschema:"ISBN-10 or ISBN-13"`
	Title    string `json:"title,omitempty" jsonschema:"book title, used for search"`
	URL      string `json:"url,omitempty" jsonschema:"direct book page URL"`
}

func (q BookQuery) identifiers() types.Identifiers {
	return types.Identifiers{LitresID: q.LitresID, ISBN: q.ISBN, Title: q.Title, DirectURL: q.URL}
}

type FetchTOCResponse struct {
	Source     string               `json:"source"`
	SourceURL  string               `json:"source_url,omitempty"`
	PreviewURL string               `json:"preview_url,omitempty"`
	Chapters   []types.ChapterEntry `json:"chapters"`
	Markdown   string               `json:"markdown"`
	Attempts   []resolve.Attempt    `json:"attempts"`
}

type BookInfoResponse struct {
	Source      string              `json:"source"`
	Metadata    *types.BookMetadata `json:"metadata"`
	Frontmatter string              `json:"frontmatter"`
}

type ReadingProgressQuery struct {
	Path       string `json:"path,omitempty" jsonschema:"path of a markdown note on this machine"`
	Markdown   string `json:"markdown,omitempty" jsonschema:"note contents, used when path is empty"`
	TotalPages int    `json:"total_pages,omitempty" jsonschema:"total page count of the book"`
	PDFPath    string `json:"pdf_path,omitempty" jsonschema:"local PDF to read the page count from"`
	Heading    string `json:"heading,omitempty" jsonschema:"checklist section heading, default Progress"`
}

type ReadingProgressResponse struct {
	Result           progress.Result     `json:"result"`
	TotalPagesSource progress.HintSource `json:"total_pages_source,omitempty"`
	Summary          string              `json:"summary"`
}

func FetchTOCTool() *mcp.Tool {
	inputschema, err := jsonschema.For[BookQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "fetch-toc",
		Description: "Find a book's table of contents by trying Litres, Labirint, Open Library and Google Books in order. Returns the chapters and a markdown checklist ready to paste into a reading note.",
		InputSchema: inputschema,
	}
}

func BookInfoTool() *mcp.Tool {
	inputschema, err := jsonschema.For[BookQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "book-info",
		Description: "Look up book metadata (title, author, publisher, year, pages, ISBN, cover) and render it as YAML frontmatter for a reading note.",
		InputSchema: inputschema,
	}
}

func ReadingProgressTool() *mcp.Tool {
	inputschema, err := jsonschema.For[ReadingProgressQuery](nil)
	if err != nil {
		panic(err)
	}
	return &mcp.Tool{
		Name:        "reading-progress",
		Description: "Score the progress checklist of a reading note. Uses page ranges like [1-20] when present, then weights like [w:3], then plain item counts.",
		InputSchema: inputschema,
	}
}

type toolset struct {
	deps Deps
}

func (ts *toolset) config() *config.Config {
	if ts.deps.Config == nil {
		return config.DefaultConfig()
	}
	return ts.deps.Config.Get()
}

func (ts *toolset) chain(mode resolve.Mode) *resolve.Chain {
	cfg := ts.config()
	order := cfg.Sources.TOCOrder
	if mode == resolve.ModeMetadata {
		order = cfg.Sources.InfoOrder
	}
	return resolve.NewChain(resolve.Config{
		Sources: ts.deps.Sources.Ordered(order),
		Logger:  ts.deps.Logger,
	})
}

func (ts *toolset) fetchTOC(ctx context.Context, req *mcp.CallToolRequest, q BookQuery) (*mcp.CallToolResult, *FetchTOCResponse, error) {
	ts.deps.Logger.Info("fetch-toc tool called", "isbn", q.ISBN, "title", q.Title)

	out, err := ts.chain(resolve.ModeTOC).ResolveTOC(ctx, q.identifiers())
	if err != nil {
		return nil, nil, withGuidance(err)
	}
	return nil, &FetchTOCResponse{
		Source:     out.Source,
		SourceURL:  out.SourceURL,
		PreviewURL: out.PreviewURL,
		Chapters:   out.Chapters,
		Markdown:   toc.RenderMarkdown(ts.config().Checklist.Heading, out.Chapters),
		Attempts:   out.Attempts,
	}, nil
}

func (ts *toolset) bookInfo(ctx context.Context, req *mcp.CallToolRequest, q BookQuery) (*mcp.CallToolResult, *BookInfoResponse, error) {
	ts.deps.Logger.Info("book-info tool called", "isbn", q.ISBN, "title", q.Title)

	out, err := ts.chain(resolve.ModeMetadata).ResolveMetadata(ctx, q.identifiers())
	if err != nil {
		return nil, nil, withGuidance(err)
	}
	block, err := frontmatter.Render(out.Metadata, out.Source)
	if err != nil {
		return nil, nil, err
	}
	return nil, &BookInfoResponse{Source: out.Source, Metadata: out.Metadata, Frontmatter: block}, nil
}

func (ts *toolset) readingProgress(ctx context.Context, req *mcp.CallToolRequest, q ReadingProgressQuery) (*mcp.CallToolResult, *ReadingProgressResponse, error) {
	ts.deps.Logger.Info("reading-progress tool called", "path", q.Path)

	markdown := q.Markdown
	if q.Path != "" {
		data, err := os.ReadFile(q.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s: %w", q.Path, err)
		}
		markdown = string(data)
	}
	if markdown == "" {
		return nil, nil, errors.New("provide path or markdown")
	}

	heading := q.Heading
	if heading == "" {
		heading = ts.config().Progress.Heading
	}
	items, err := progress.ParseSection(markdown, heading)
	if err != nil {
		return nil, nil, err
	}
	total, src, err := progress.TotalPagesHint(q.TotalPages, markdown, q.PDFPath)
	if err != nil {
		return nil, nil, err
	}
	result := progress.Score(items, total)
	return nil, &ReadingProgressResponse{
		Result:           result,
		TotalPagesSource: src,
		Summary:          progress.FormatHuman(result),
	}, nil
}

// withGuidance appends the next-step hint to a not-found error.
func withGuidance(err error) error {
	var nf *resolve.NotFoundError
	if errors.As(err, &nf) {
		return fmt.Errorf("%w\n%s", err, nf.Guidance())
	}
	return err
}
