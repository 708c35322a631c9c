package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ssj4429108/OkRequest/httpclient"
	"github.com/ssj4429108/OkRequest/logger"
	"github.com/ssj4429108/OkRequest/security"
	"github.com/ssj4429108/OkRequest/version"
)

// globalFlags apply to every request command.
type globalFlags struct {
	configFile string
	baseURL    string
	timeout    time.Duration
	insecure   bool
	verbose    bool
	noColor    bool
}

func (g *globalFlags) override(cfg *Config) {
	if g.baseURL != "" {
		cfg.HTTP.BaseURL = g.baseURL
	}
	if g.timeout > 0 {
		cfg.HTTP.Timeout = g.timeout
	}
	if g.insecure {
		if cfg.HTTP.TLS == nil {
			cfg.HTTP.TLS = &security.TLSConfig{}
		}
		cfg.HTTP.TLS.VerifyMode = security.VerifyAll
	}
	if g.verbose {
		cfg.Logging.Level = "debug"
		cfg.HTTP.EnableCurlLog = true
	}
	if g.noColor {
		cfg.Logging.NoColor = true
	}
}

// Execute runs the okreq command line and returns the exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand(stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err != nil && !httpclient.IsHTTP(err) {
		fmt.Fprintf(stderr, "%s %v\n", color.New(color.FgRed).Sprint("error:"), err)
	}
	return exitCode(err)
}

// NewRootCommand builds the okreq command tree writing to stdout and stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           appName,
		Short:         "Send HTTP requests from the command line",
		Long:          "okreq sends HTTP requests through the OkRequest client and prints the response.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if g.noColor {
				color.NoColor = true
			}
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withCode(ExitUsageError, err)
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&g.configFile, "config", "c", "", "config file (default ./okreq.yaml)")
	pf.StringVar(&g.baseURL, "base-url", "", "base url prepended to relative urls")
	pf.DurationVarP(&g.timeout, "timeout", "t", 0, "connect and response header timeout")
	pf.BoolVarP(&g.insecure, "insecure", "k", false, "accept any server certificate")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "log requests at debug level, including curl commands")
	pf.BoolVar(&g.noColor, "no-color", false, "disable colored output")

	for _, m := range []httpclient.Method{
		httpclient.MethodGet, httpclient.MethodPost, httpclient.MethodPut,
		httpclient.MethodPatch, httpclient.MethodDelete, httpclient.MethodHead,
		httpclient.MethodOptions,
	} {
		root.AddCommand(newMethodCommand(m, g))
	}
	root.AddCommand(newVersionCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "okreq %s\n", version.Get())
		},
	}
}

func newMethodCommand(method httpclient.Method, g *globalFlags) *cobra.Command {
	f := &requestFlags{}
	name := strings.ToLower(method.String())
	cmd := &cobra.Command{
		Use:   name + " <url>",
		Short: "Send a " + method.String() + " request",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return withCode(ExitUsageError, fmt.Errorf("%s takes exactly one url, got %d arguments", name, len(args)))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, method, args[0], g, f)
		},
	}

	fl := cmd.Flags()
	fl.StringArrayVarP(&f.headers, "header", "H", nil, "request header 'Name: value' (repeatable)")
	fl.StringVar(&f.jsonBody, "json", "", "JSON request body")
	fl.StringArrayVarP(&f.form, "form", "f", nil, "url-encoded form field key=value (repeatable)")
	fl.StringArrayVarP(&f.parts, "part", "F", nil, "multipart field name=value or name=@path (repeatable)")
	fl.StringVar(&f.file, "file", "", "send the file at path as the body")
	fl.StringVar(&f.contentType, "content-type", "", "content type for --file (default by extension)")
	fl.StringVar(&f.protocol, "protocol", "", "protocol preference: http/1.1, h2 or h2_prior_knowledge")
	fl.BoolVarP(&f.stream, "stream", "s", false, "read the response as an event stream")
	fl.StringVarP(&f.query, "query", "q", "", "print only the gjson path from the response body")
	fl.BoolVar(&f.curl, "curl", false, "print the request as a curl command instead of sending it")
	fl.BoolVarP(&f.include, "include", "i", false, "print response headers")
	return cmd
}

func runRequest(cmd *cobra.Command, method httpclient.Method, rawURL string, g *globalFlags, f *requestFlags) error {
	cfg, err := loadConfig(g.configFile, g.override)
	if err != nil {
		return err
	}
	log := logger.NewWithWriter(&cfg.Logging, cmd.ErrOrStderr()).WithComponent(appName)

	s, err := newSession(cfg, log)
	if err != nil {
		return withCode(ExitConfigError, err)
	}
	p := &printer{out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr(), include: f.include, query: f.query}

	return s.run(cmd.Context(), func(ctx context.Context, c *httpclient.Client) error {
		b := c.NewRequest(method, rawURL)
		if err := f.apply(b); err != nil {
			return err
		}
		req, err := b.Build()
		if err != nil {
			return withCode(ExitUsageError, err)
		}

		if f.curl {
			curl, err := req.ToCurl()
			if err != nil {
				return err
			}
			fmt.Fprintln(p.out, curl)
			return nil
		}
		if f.stream {
			return c.Listen(ctx, req, p.event)
		}

		resp, err := c.Execute(ctx, req)
		var herr *httpclient.Error
		switch {
		case errors.As(err, &herr) && herr.Code == httpclient.ErrCodeHTTP:
			p.failure(herr)
			return err
		case err != nil:
			return err
		case resp == nil:
			return withCode(ExitNetworkError, errors.New("no response"))
		}
		return p.response(resp)
	})
}
