// Package httprfc executes functions through a JSON-over-HTTP RFC gateway.
//
// Each call is sent as
//
//	POST {http.base_url}/{FUNCTION}
//	{"IMPORT": {...}, "TABLES": {...}}
//
// and the gateway answers with
//
//	{"EXPORT": {...}, "TABLES": {...}, "ERROR": "..."}
//
// A non-empty ERROR or a non-2xx status is reported as *RemoteError.
package httprfc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"bapi-mapper/execution"
)

// Name is the context name registered with the execution package.
const Name = "http"

// Property keys read by Configure.
const (
	PropertyPrefix   = "http."
	PropertyBaseURL  = "http.base_url"
	PropertyUser     = "http.user"
	PropertyPassword = "http.password"
	PropertyTimeout  = "http.timeout"
	PropertyRetries  = "http.retries"
)

const DefaultTimeout = 30 * time.Second

var (
	ErrMissingBaseURL = errors.New("missing " + PropertyBaseURL)
	ErrInvalidBaseURL = errors.New("invalid " + PropertyBaseURL)
)

// json keeps numbers as json.Number so that integers above 2^53 reach the
// binder unchanged.
var json = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

func init() {
	execution.RegisterContext(Name, func() execution.Context { return New() })
}

// RemoteError is a failure reported by the gateway or the remote function.
type RemoteError struct {
	Function   string
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("function %s failed with status %d: %s", e.Function, e.StatusCode, e.Message)
}

type request struct {
	Import execution.ParameterList    `json:"IMPORT"`
	Tables map[string]execution.Table `json:"TABLES,omitempty"`
}

type response struct {
	Export map[string]any              `json:"EXPORT"`
	Tables map[string][]map[string]any `json:"TABLES"`
	Error  string                      `json:"ERROR"`
}

// Context is an execution context backed by a resty client.
type Context struct {
	mu         sync.Mutex
	httpClient *http.Client
	logger     *zap.Logger
	client     *resty.Client
}

// Option configures a Context.
type Option func(*Context)

// WithHTTPClient makes the context send requests through hc.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Context) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger for requests and retries.
func WithLogger(l *zap.Logger) Option {
	return func(c *Context) {
		c.logger = l
	}
}

// New creates an unconfigured context.
func New(opts ...Option) *Context {
	c := &Context{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Configure reads the http.* properties and prepares the client.
func (c *Context) Configure(props execution.Properties) error {
	props = props.WithPrefix(PropertyPrefix)

	baseURL := props.Get(PropertyBaseURL, "")
	if baseURL == "" {
		return ErrMissingBaseURL
	}

	if u, err := url.Parse(baseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w %q", ErrInvalidBaseURL, baseURL)
	}

	timeout, err := props.Duration(PropertyTimeout, DefaultTimeout)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", PropertyTimeout, err)
	}

	retries, err := cast.ToIntE(props.Get(PropertyRetries, "0"))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", PropertyRetries, err)
	}

	var client *resty.Client
	if c.httpClient != nil {
		client = resty.NewWithClient(c.httpClient)
	} else {
		client = resty.New()
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetLogger(c.logger.Sugar()).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)

	if user := props.Get(PropertyUser, ""); user != "" {
		client.SetBasicAuth(user, props.Get(PropertyPassword, ""))
	}

	c.mu.Lock()
	c.client = client
	c.mu.Unlock()

	c.logger.Debug("http context configured",
		zap.String("base_url", baseURL),
		zap.Duration("timeout", timeout),
		zap.Int("retries", retries),
	)

	return nil
}

// Connection returns a connection sharing the context's client.
func (c *Context) Connection(context.Context) (execution.Connection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil, execution.ErrNotConfigured
	}

	return &connection{client: c.client, logger: c.logger}, nil
}

// Reset drops the client; Configure must be called again before use.
func (c *Context) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.client = nil

	return nil
}

type connection struct {
	client *resty.Client
	logger *zap.Logger
}

func (conn *connection) Execute(ctx context.Context, fn *execution.Function) error {
	body := request{Import: fn.Imports, Tables: fn.Tables}
	if body.Import == nil {
		body.Import = execution.ParameterList{}
	}

	res, err := conn.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&response{}).
		SetError(&response{}).
		Post("/" + url.PathEscape(fn.Name))
	if err != nil {
		return fmt.Errorf("function %s: %w", fn.Name, err)
	}

	conn.logger.Debug("function executed",
		zap.String("function", fn.Name),
		zap.Int("status", res.StatusCode()),
		zap.Duration("duration", res.Time()),
	)

	if res.IsError() {
		msg := res.Status()
		if e, ok := res.Error().(*response); ok && e.Error != "" {
			msg = e.Error
		}

		return &RemoteError{Function: fn.Name, StatusCode: res.StatusCode(), Message: msg}
	}

	out, ok := res.Result().(*response)
	if !ok || !resty.IsJSONType(res.Header().Get("Content-Type")) {
		return &RemoteError{Function: fn.Name, StatusCode: res.StatusCode(), Message: "response is not JSON"}
	}

	if out.Error != "" {
		return &RemoteError{Function: fn.Name, StatusCode: res.StatusCode(), Message: out.Error}
	}

	if fn.Exports == nil {
		fn.Exports = make(execution.ParameterList, len(out.Export))
	}

	for name, value := range out.Export {
		fn.Exports[name] = value
	}

	if fn.Tables == nil {
		fn.Tables = make(map[string]execution.Table, len(out.Tables))
	}

	for name, rows := range out.Tables {
		table := make(execution.Table, 0, len(rows))
		for _, row := range rows {
			table = append(table, row)
		}

		fn.Tables[name] = table
	}

	return nil
}

// Close is a no-op; connections share the context's client.
func (conn *connection) Close() error {
	return nil
}
