package mcp

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracedToolHandler is the handler shape wrapped by WithTracing.
type TracedToolHandler[In, Out any] func(
	context.Context,
	*mcp.CallToolRequest,
	In,
) (*mcp.CallToolResult, Out, error)

// WithTracing wraps handler with an OpenTelemetry span and debug logging.
// Errors are recorded on the span and logged.
func WithTracing[In, Out any](
	tracer trace.Tracer,
	logger *slog.Logger,
	handler TracedToolHandler[In, Out],
) mcp.ToolHandlerFor[In, Out] {
	return func(
		ctx context.Context,
		req *mcp.CallToolRequest,
		args In,
	) (*mcp.CallToolResult, Out, error) {
		name := req.Params.Name

		ctx, span := tracer.Start(ctx, "tool/"+name)
		defer span.End()

		logger.DebugContext(ctx, "handling tool call",
			slog.String("name", name),
			slog.Any("args", args),
		)

		result, out, err := handler(ctx, req, args)
		if err != nil {
			logger.ErrorContext(ctx, "tool call failed",
				slog.String("name", name),
				slog.Any("error", err),
			)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return result, out, err
		}

		logger.DebugContext(ctx, "tool call completed", slog.String("name", name))
		return result, out, nil
	}
}
