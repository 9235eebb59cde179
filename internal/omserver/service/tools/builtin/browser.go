package builtin

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tools"
	"github.com/xAGI-labs/ProjectOM/pkg/logger"
)

const (
	BrowserToolName = "browser"

	defaultBrowserTimeout = 30 * time.Second
	maxPageText           = 32 * 1024
)

// Browser actions.
const (
	ActionGoToURL      = "go_to_url"
	ActionClickElement = "click_element"
	ActionInputText    = "input_text"
	ActionGetText      = "get_text"
	ActionGetHTML      = "get_html"
	ActionScreenshot   = "screenshot"
	ActionGoBack       = "go_back"
)

// BrowserConfig configures the browser tool.
type BrowserConfig struct {
	Headless   bool
	ProfileDir string
	Timeout    time.Duration
	// ExecPath overrides the chrome binary, empty means auto detect.
	ExecPath string
}

// Browser drives a single headless Chrome session shared by all calls.
// The session starts on first use and lives until Cleanup.
type Browser struct {
	cfg BrowserConfig

	mu          sync.Mutex
	ctx         context.Context
	allocCancel context.CancelFunc
	taskCancel  context.CancelFunc
}

// NewBrowser creates the browser tool. No browser is launched yet.
func NewBrowser(cfg BrowserConfig) *Browser {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultBrowserTimeout
	}
	return &Browser{cfg: cfg}
}

func (b *Browser) Descriptor() tools.Descriptor {
	return tools.Descriptor{
		Name: BrowserToolName,
		Description: "Interact with a web browser to perform various actions such as navigation, element interaction and content extraction.\n" +
			"Supported actions:\n" +
			"- 'go_to_url': Go to a specific URL\n" +
			"- 'click_element': Click an element matching a CSS selector\n" +
			"- 'input_text': Type text into an element matching a CSS selector\n" +
			"- 'get_text': Get the visible text of the page or of an element\n" +
			"- 'get_html': Get the outer HTML of the page or of an element\n" +
			"- 'screenshot': Capture a screenshot of the current page\n" +
			"- 'go_back': Go back in history",
		Parameters: []tools.Parameter{
			{Name: "action", Type: tools.TypeString, Required: true,
				Description: "The browser action to perform."},
			{Name: "url", Type: tools.TypeString,
				Description: "URL for 'go_to_url'."},
			{Name: "selector", Type: tools.TypeString,
				Description: "CSS selector for 'click_element', 'input_text', 'get_text' and 'get_html'."},
			{Name: "text", Type: tools.TypeString,
				Description: "Text for 'input_text'."},
			{Name: "timeout", Type: tools.TypeInteger,
				Description: "Timeout of the action in seconds."},
		},
	}
}

func (b *Browser) Execute(ctx context.Context, args map[string]any) (any, error) {
	action, err := tools.RequireString(args, "action")
	if err != nil {
		return nil, err
	}

	timeout := b.cfg.Timeout
	if secs, ok, err := tools.IntArg(args, "timeout"); err != nil {
		return nil, err
	} else if ok && secs > 0 {
		timeout = time.Duration(secs) * time.Second
	}

	selector := tools.StringArg(args, "selector")
	var actions []chromedp.Action
	res := &tools.Result{}

	switch action {
	case ActionGoToURL:
		url, err := tools.RequireString(args, "url")
		if err != nil {
			return nil, err
		}
		actions = append(actions, chromedp.Navigate(url), chromedp.WaitReady("body", chromedp.ByQuery))
		res.Output = fmt.Sprintf("Navigated to %s", url)
	case ActionClickElement:
		if selector == "" {
			return nil, fmt.Errorf("%w: selector is required for %s", tools.ErrInvalidArgument, action)
		}
		actions = append(actions, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible))
		res.Output = fmt.Sprintf("Clicked element %s", selector)
	case ActionInputText:
		if selector == "" {
			return nil, fmt.Errorf("%w: selector is required for %s", tools.ErrInvalidArgument, action)
		}
		text := tools.StringArg(args, "text")
		actions = append(actions, chromedp.SendKeys(selector, text, chromedp.ByQuery, chromedp.NodeVisible))
		res.Output = fmt.Sprintf("Input %q into element %s", text, selector)
	case ActionGetText:
		if selector == "" {
			selector = "body"
		}
		var text string
		actions = append(actions, chromedp.Text(selector, &text, chromedp.ByQuery, chromedp.NodeVisible))
		if err := b.run(ctx, timeout, actions...); err != nil {
			return nil, fmt.Errorf("browser %s: %w", action, err)
		}
		return &tools.Result{Output: clip(text)}, nil
	case ActionGetHTML:
		if selector == "" {
			selector = "html"
		}
		var html string
		actions = append(actions, chromedp.OuterHTML(selector, &html, chromedp.ByQuery))
		if err := b.run(ctx, timeout, actions...); err != nil {
			return nil, fmt.Errorf("browser %s: %w", action, err)
		}
		return &tools.Result{Output: clip(html)}, nil
	case ActionScreenshot:
		var buf []byte
		actions = append(actions, chromedp.FullScreenshot(&buf, 90))
		if err := b.run(ctx, timeout, actions...); err != nil {
			return nil, fmt.Errorf("browser %s: %w", action, err)
		}
		return &tools.Result{
			Output:      fmt.Sprintf("Captured screenshot (%d bytes)", len(buf)),
			Base64Image: base64.StdEncoding.EncodeToString(buf),
		}, nil
	case ActionGoBack:
		actions = append(actions, chromedp.NavigateBack())
		res.Output = "Navigated back"
	default:
		return nil, fmt.Errorf("%w: unknown browser action %q", tools.ErrInvalidArgument, action)
	}

	if err := b.run(ctx, timeout, actions...); err != nil {
		return nil, fmt.Errorf("browser %s: %w", action, err)
	}
	var location string
	if err := b.run(ctx, timeout, chromedp.Location(&location)); err == nil && location != "" {
		res.System = "current url: " + location
	}
	return res, nil
}

// run executes actions on the shared tab. The call context only bounds the
// wait, it does not own the browser.
func (b *Browser) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	tabCtx, err := b.session()
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(tabCtx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

func (b *Browser) session() (context.Context, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ctx != nil {
		return b.ctx, nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	if b.cfg.ProfileDir != "" {
		if err := os.MkdirAll(b.cfg.ProfileDir, 0o755); err != nil {
			return nil, fmt.Errorf("create browser profile dir: %w", err)
		}
		opts = append(opts, chromedp.UserDataDir(b.cfg.ProfileDir))
	}
	if !b.cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if b.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(b.cfg.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	taskCtx, taskCancel := chromedp.NewContext(allocCtx)

	// launch now so start failures surface on this call
	if err := chromedp.Run(taskCtx); err != nil {
		taskCancel()
		allocCancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	b.ctx = taskCtx
	b.allocCancel = allocCancel
	b.taskCancel = taskCancel
	logger.Info("[Browser] session started (headless=%v)", b.cfg.Headless)
	return b.ctx, nil
}

// Cleanup closes the browser session if one was started.
func (b *Browser) Cleanup(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ctx == nil {
		return nil
	}
	err := chromedp.Cancel(b.ctx)
	b.taskCancel()
	b.allocCancel()
	b.ctx = nil
	b.taskCancel = nil
	b.allocCancel = nil
	logger.Info("[Browser] session closed")
	return err
}

func clip(s string) string {
	return truncate(s, maxPageText, "\n... (content truncated)")
}
