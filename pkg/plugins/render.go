package plugins

import (
	"context"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/rsify/jay/pkg/cli"
	"github.com/rsify/jay/pkg/eval"
	"github.com/rsify/jay/pkg/logutil"
)

// Defaults of the render plugins.
const (
	DefaultPrompt         = "> "
	DefaultHighlightStyle = "monokai"
	DefaultEagerTimeout   = 100 * time.Millisecond
)

var (
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("8"))
	grayStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Highlight colors the line with the given chroma style.
func Highlight(h *Host, styleName string) {
	if styleName == "" {
		styleName = DefaultHighlightStyle
	}
	lexer := chroma.Coalesce(lexers.Get("javascript"))
	style := styles.Get(styleName)
	formatter := formatters.Get("terminal256")
	onRender(h, func(_ context.Context, r cli.Render) cli.Render {
		if r.Output == "" {
			return r
		}
		it, err := lexer.Tokenise(nil, r.Output)
		if err != nil {
			logger.Println("tokenise:", err)
			return r
		}
		var sb strings.Builder
		if err := formatter.Format(&sb, style, it); err != nil {
			logger.Println("format:", err)
			return r
		}
		// Lexers may add a trailing newline; the line never has one.
		r.Output = strings.ReplaceAll(sb.String(), "\n", "")
		return r
	})
}

// PS1 prepends the prompt to the line.
func PS1(h *Host, prompt string) {
	if prompt == "" {
		prompt = DefaultPrompt
	}
	styled := promptStyle.Render(prompt)
	width := ansi.StringWidth(prompt)
	onRender(h, func(_ context.Context, r cli.Render) cli.Render {
		return cli.Render{Output: styled + r.Output, Cursor: r.Cursor + width}
	})
}

// Eager appends the value of the line as a comment, if it can be evaluated
// without side effects within the timeout.
func Eager(h *Host, timeout time.Duration) {
	if timeout <= 0 {
		timeout = DefaultEagerTimeout
	}
	onRender(h, func(ctx context.Context, r cli.Render) cli.Render {
		s := h.Editor.Session()
		if s == nil || s.Stopping() {
			return r
		}
		line := s.Buffer().Content
		if strings.TrimSpace(line) == "" {
			return r
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		stopTimer := logutil.Timer(logger, "eager evaluation")
		v, err := h.Evaler.Pure(ctx, line)
		stopTimer()
		if err != nil {
			return r
		}
		_, width := h.Editor.TTY().Size()
		avail := width - ansi.StringWidth(r.Output) - ansi.StringWidth(s.Ghost()) - len(" // ")
		if avail <= 0 {
			return r
		}
		preview := ansi.Truncate(eval.Format(v), avail, "…")
		r.Output += grayStyle.Render(" // " + preview)
		return r
	})
}
