// gpayclient is a CLI tool for checking Google Pay configurations.
// Each command performs a single operation, making it composable for scripts.
//
// Commands:
//
//	gpayclient parse -file config.json [-mode test|live]
//	gpayclient post -server URL -file config.yaml [-mode test|live]
//	gpayclient networks -server URL
//
// Examples:
//
//	gpayclient parse -file merchant.yaml -mode live
//	gpayclient post -server http://localhost:8080 -file merchant.json -q | jq .payment_method
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"gpay-config/internal/dropin"
	"gpay-config/internal/googlepay"
	"gpay-config/internal/model"
)

var client = &http.Client{Timeout: 30 * time.Second}

// Global flags (apply to all commands)
var (
	quiet   bool
	noColor bool
)

// ANSI color codes
var (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

func init() {
	if os.Getenv("NO_COLOR") != "" {
		disableColors()
	}
}

func disableColors() {
	colorReset, colorRed, colorGreen, colorYellow = "", "", "", ""
	colorCyan, colorGray = "", ""
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "parse":
		runParse(args)
	case "post":
		runPost(args)
	case "networks":
		runNetworks(args)
	case "-h", "-help", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `gpayclient - Google Pay configuration tool

Usage:
  gpayclient <command> [options]

Commands:
  parse     Parse a configuration file locally
  post      Send a configuration file to a gpayconfig server
  networks  Show the server's card network allow-list

Examples:
  gpayclient parse -file merchant.yaml -mode live
  gpayclient post -server http://localhost:8080 -file merchant.json

Run 'gpayclient <command> -h' for command-specific options.
`)
}

// =============================================================================
// PARSE COMMAND
// =============================================================================

func runParse(args []string) {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	var file, mode string
	fs.StringVar(&file, "file", "", "Configuration file, JSON or YAML (required)")
	fs.StringVar(&mode, "mode", "test", "Checkout mode: test or live")
	fs.BoolVar(&quiet, "q", false, "Quiet mode - only output the result JSON")
	fs.BoolVar(&noColor, "no-color", false, "Disable colored output")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: gpayclient parse -file FILE [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	if noColor {
		disableColors()
	}
	if file == "" {
		fs.Usage()
		os.Exit(1)
	}

	raw, err := readConfigFile(file)
	if err != nil {
		fatal("Failed to read configuration: %v", err)
	}

	resp, err := parseLocal(raw, googlepay.ParseMode(mode), cliLogger())
	if err != nil {
		printConfigError(model.NewConfigurationError(err))
		os.Exit(1)
	}

	printSuccess("Configuration is valid (%s mode)", resp.Mode)
	printResult(resp)
}

// parseLocal resolves raw against the built-in card network list.
func parseLocal(raw map[string]any, mode googlepay.Mode, logger *slog.Logger) (*model.ConfigurationResponse, error) {
	allowList := googlepay.DefaultCardNetworks()
	p, err := googlepay.NewParser(raw,
		googlepay.WithCardNetworks(allowList),
		googlepay.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	cfg, err := p.Parse(mode)
	if err != nil {
		return nil, err
	}

	pm, err := googlepay.Apply[*dropin.PaymentMethod](cfg, dropin.NewBuilder(mode, allowList.List()))
	if err != nil {
		return nil, err
	}
	return &model.ConfigurationResponse{Mode: mode, Configuration: cfg, PaymentMethod: pm}, nil
}

// =============================================================================
// POST COMMAND
// =============================================================================

func runPost(args []string) {
	fs := flag.NewFlagSet("post", flag.ExitOnError)
	var server, file, mode string
	fs.StringVar(&server, "server", "http://localhost:8080", "gpayconfig base URL")
	fs.StringVar(&file, "file", "", "Configuration file, JSON or YAML (required)")
	fs.StringVar(&mode, "mode", "", "Checkout mode sent as Payment-Mode (server default if empty)")
	fs.BoolVar(&quiet, "q", false, "Quiet mode - only output the result JSON")
	fs.BoolVar(&noColor, "no-color", false, "Disable colored output")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: gpayclient post -file FILE [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	if noColor {
		disableColors()
	}
	if file == "" {
		fs.Usage()
		os.Exit(1)
	}

	raw, err := readConfigFile(file)
	if err != nil {
		fatal("Failed to read configuration: %v", err)
	}

	headers := map[string]string{}
	if mode != "" {
		// Sent as an RFC 8941 string item
		headers["Payment-Mode"] = fmt.Sprintf("%q", mode)
	}

	var resp model.ConfigurationResponse
	if err := doRequest(server, http.MethodPost, "/googlepay/configurations", raw, headers, &resp); err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			printConfigError(apiErr)
			os.Exit(1)
		}
		fatal("Request failed: %v", err)
	}

	printSuccess("Server accepted configuration (%s mode)", resp.Mode)
	printResult(&resp)
}

// =============================================================================
// NETWORKS COMMAND
// =============================================================================

func runNetworks(args []string) {
	fs := flag.NewFlagSet("networks", flag.ExitOnError)
	var server string
	fs.StringVar(&server, "server", "http://localhost:8080", "gpayconfig base URL")
	fs.BoolVar(&noColor, "no-color", false, "Disable colored output")
	fs.Parse(args)

	if noColor {
		disableColors()
	}

	var resp model.CardNetworksResponse
	if err := doRequest(server, http.MethodGet, "/googlepay/card-networks", nil, nil, &resp); err != nil {
		fatal("Request failed: %v", err)
	}

	fmt.Printf("%sversion%s %s\n", colorCyan, colorReset, resp.Version)
	for _, n := range resp.Networks {
		fmt.Printf("  %s\n", n)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// readConfigFile loads a raw configuration. .yaml and .yml are YAML, anything
// else JSON.
func readConfigFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return raw, nil
}

// doRequest sends body as JSON and decodes a 2xx response into out.
// Error responses are returned as *model.APIError when the body carries one.
func doRequest(server, method, path string, body any, headers map[string]string, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, strings.TrimSuffix(server, "/")+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	printInfo("%s %s -> %d (%v)", method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode >= 400 {
		var errResp model.ErrorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != nil {
			errResp.Error.StatusCode = resp.StatusCode
			return errResp.Error
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

// cliLogger prints rejected card networks as warnings on stderr.
func cliLogger() *slog.Logger {
	level := slog.LevelWarn
	if quiet {
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// =============================================================================
// OUTPUT HELPERS
// =============================================================================

func printResult(resp *model.ConfigurationResponse) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		fatal("Failed to encode result: %v", err)
	}
	fmt.Println(string(data))
}

func printConfigError(apiErr *model.APIError) {
	printError("%s: %s", apiErr.Code, apiErr.Message)
	for _, d := range apiErr.Details {
		fmt.Fprintf(os.Stderr, "  %s%s%s: %s\n", colorYellow, d.Field, colorReset, d.Reason)
	}
}

func printSuccess(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stderr, "%s✓ %s%s\n", colorGreen, fmt.Sprintf(format, args...), colorReset)
	}
}

func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s✗ %s%s\n", colorRed, fmt.Sprintf(format, args...), colorReset)
}

func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stderr, "%s→ %s%s\n", colorGray, fmt.Sprintf(format, args...), colorReset)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s✗ %s%s\n", colorRed, fmt.Sprintf(format, args...), colorReset)
	os.Exit(1)
}
