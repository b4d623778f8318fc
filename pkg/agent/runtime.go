// Package agent orchestrates sessions against an agent runtime.
//
// The runtime itself (the agent CLI and its SDK) is an external
// collaborator; this package drives it through the Runtime interface,
// applies tool policy and permission hooks, and records session traces.
package agent

import (
	"context"
	"io"
	"time"

	"github.com/loop-ai-toolkit/agent-loop/pkg/trace"
)

// Runtime manages an agent subprocess or SDK connection.
type Runtime interface {
	// Execute runs the agent with the given options and returns its output.
	Execute(ctx context.Context, opts ExecuteOptions) (*Output, error)

	// Close releases the runtime's resources.
	Close() error
}

// ExecuteOptions contains options for one agent execution.
type ExecuteOptions struct {
	// Prompt is the task/query for the agent.
	Prompt string

	// SystemPrompt is appended to the runtime's preset system prompt.
	SystemPrompt string

	// Model specifies which model to use (sonnet, opus, haiku).
	Model string

	// MaxTurns limits the number of reasoning iterations.
	MaxTurns int

	// MaxThinkingTokens bounds extended thinking.
	MaxThinkingTokens int

	// Timeout for the execution.
	Timeout time.Duration

	// PermissionMode is "default" or "bypass".
	PermissionMode string

	// AllowedTools restricts which tools the agent can use.
	AllowedTools []string

	// AddDirs are extra directories the agent may access.
	AddDirs []string

	// MCPConfig is the path to an MCP server configuration file. Custom
	// tool calls dispatch through the servers it names, where permission
	// hooks are enforced.
	MCPConfig string

	// OutputSchema, when set, requests structured JSON output.
	OutputSchema map[string]interface{}

	// OnBlock, when set, receives content blocks as they arrive.
	OnBlock func(trace.Block)

	// Env holds extra environment variables for the runtime process.
	Env []string
}

// Output represents the parsed result of an agent execution.
type Output struct {
	// Raw is the complete raw output.
	Raw string

	// Blocks are the content blocks observed during the run.
	Blocks []trace.Block

	// Result is the final result text.
	Result string

	// StructuredOutput is the schema-conforming JSON output, if requested.
	StructuredOutput map[string]interface{}

	// IsError indicates the runtime reported a failed run.
	IsError bool

	// DurationMS is the runtime-reported duration in milliseconds.
	DurationMS int64

	// CostUSD is the runtime-reported total cost.
	CostUSD float64

	// Usage contains token usage if available.
	Usage *TokenUsage
}

// discardConsole is used when no console writer is configured.
var discardConsole io.Writer = io.Discard
