package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/tidwall/gjson"

	"github.com/ssj4429108/OkRequest/httpclient"
)

// printer writes responses. The status line and headers go to errOut so
// that out carries only the body.
type printer struct {
	out     io.Writer
	errOut  io.Writer
	include bool
	query   string
}

func statusColor(code int) *color.Color {
	switch {
	case code >= 200 && code < 300:
		return color.New(color.FgGreen, color.Bold)
	case code >= 300 && code < 400:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func protocolLabel(p string) string {
	switch p {
	case "":
		return "HTTP"
	case "h2":
		return "HTTP/2"
	default:
		return strings.ToUpper(p)
	}
}

func (p *printer) status(code int, message, protocol string) {
	line := fmt.Sprintf("%s %d", protocolLabel(protocol), code)
	if message != "" {
		line += " " + message
	}
	statusColor(code).Fprintln(p.errOut, line)
}

func (p *printer) headers(h map[string]string) {
	if !p.include {
		return
	}
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)
	cyan := color.New(color.FgCyan).SprintFunc()
	for _, name := range names {
		fmt.Fprintf(p.errOut, "%s: %s\n", cyan(name), h[name])
	}
	fmt.Fprintln(p.errOut)
}

// response prints a successful response.
func (p *printer) response(resp *httpclient.Response) error {
	p.status(resp.Code(), resp.Message(), resp.Protocol())
	p.headers(resp.Headers())
	return p.body(resp.Body())
}

// failure prints the status and body of an unsuccessful response.
func (p *printer) failure(herr *httpclient.Error) {
	p.status(herr.StatusCode, herr.Message, "")
	if text, ok := herr.Body.Text(); ok && text != "" {
		fmt.Fprintln(p.out, text)
	}
}

func (p *printer) body(b *httpclient.ResponseBody) error {
	if p.query != "" {
		res, ok := b.Get(p.query)
		if !ok || !res.Exists() {
			return withCode(ExitHTTPError, fmt.Errorf("query %q matched nothing", p.query))
		}
		fmt.Fprintln(p.out, res.String())
		return nil
	}
	if text, ok := b.Text(); ok && text != "" {
		fmt.Fprintln(p.out, strings.TrimRight(text, "\n"))
	}
	return nil
}

// event prints one streamed event, applying the query to its data.
func (p *printer) event(ev httpclient.Event) error {
	data := ev.Data
	if p.query != "" {
		res := gjson.Get(data, p.query)
		if !res.Exists() {
			return nil
		}
		data = res.String()
	}
	if ev.Event != "" {
		fmt.Fprintf(p.out, "%s: %s\n", color.New(color.FgMagenta).Sprint(ev.Event), data)
		return nil
	}
	fmt.Fprintln(p.out, data)
	return nil
}
