// Command benchmark measures end-to-end extraction latency and quality of a
// running foxread server across a fixed set of sites.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"
)

var (
	apiURL      = flag.String("api-url", "http://localhost:8900", "FoxRead base URL")
	apiKey      = flag.String("api-key", "", "API key for authenticated requests")
	runs        = flag.Int("runs", 3, "Number of runs per URL")
	concurrency = flag.Int("concurrency", 1, "Parallel runs per URL; each one is a separate worker process")
	timeout     = flag.Int("timeout", 60, "Worker timeout in seconds passed to the server")
	output      = flag.String("output", "benchmark-results.json", "JSON output file path")
)

// Sites cover the three policy categories.
var testURLs = []struct {
	Label string
	URL   string
}{
	{"Static", "https://example.com"},
	{"Docs", "https://go.dev/doc/effective_go"},
	{"Social", "https://x.com/golang"},
	{"Zhihu", "https://zhuanlan.zhihu.com/p/579628061"},
	{"CSDN", "https://blog.csdn.net"},
}

type extractResponse struct {
	Success       bool   `json:"success"`
	Title         string `json:"title"`
	ContentLength int    `json:"content_length"`
	Quality       string `json:"quality"`
	Timing        struct {
		TotalMs int64 `json:"total_ms"`
	} `json:"timing"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type runResult struct {
	Run           int    `json:"run"`
	WallMs        int64  `json:"wall_ms"`
	ServerMs      int64  `json:"server_ms"`
	HTTPStatus    int    `json:"http_status"`
	ContentLength int    `json:"content_length"`
	Quality       string `json:"quality,omitempty"`
	Success       bool   `json:"success"`
	ErrorCode     string `json:"error_code,omitempty"`
	Error         string `json:"error,omitempty"`
}

type urlResult struct {
	URL         string         `json:"url"`
	Label       string         `json:"label"`
	Runs        []runResult    `json:"runs"`
	Successful  int            `json:"successful"`
	AvgWallMs   float64        `json:"avg_wall_ms"`
	AvgLength   float64        `json:"avg_content_length"`
	TopQuality  string         `json:"top_quality,omitempty"`
	ErrorCounts map[string]int `json:"error_counts,omitempty"`
}

type benchmarkReport struct {
	Timestamp  string      `json:"timestamp"`
	APIURL     string      `json:"api_url"`
	RunsPerURL int         `json:"runs_per_url"`
	Results    []urlResult `json:"results"`
}

func main() {
	flag.Parse()

	fmt.Println("=== FoxRead Benchmark ===")
	fmt.Printf("API URL:     %s\n", *apiURL)
	fmt.Printf("Runs/URL:    %d (concurrency %d)\n", *runs, *concurrency)
	fmt.Printf("Output:      %s\n", *output)
	fmt.Println()

	if err := checkHealth(*apiURL); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	report := benchmarkReport{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		APIURL:     *apiURL,
		RunsPerURL: *runs,
	}

	client := &http.Client{Timeout: time.Duration(*timeout+30) * time.Second}
	for _, t := range testURLs {
		fmt.Printf("Benchmarking [%s] %s ...\n", t.Label, t.URL)

		results := make([]runResult, *runs)
		g, ctx := errgroup.WithContext(context.Background())
		g.SetLimit(max(*concurrency, 1))
		for i := range results {
			g.Go(func() error {
				results[i] = benchmarkURL(ctx, client, t.URL, i+1)
				return nil
			})
		}
		_ = g.Wait()

		for _, rr := range results {
			if rr.Success {
				fmt.Printf("  Run %d: OK  %dms  %s (%d chars)\n", rr.Run, rr.WallMs, rr.Quality, rr.ContentLength)
			} else {
				fmt.Printf("  Run %d: FAILED %s %s\n", rr.Run, rr.ErrorCode, rr.Error)
			}
		}

		report.Results = append(report.Results, summarize(t.Label, t.URL, results))
		fmt.Println()
	}

	printTable(report.Results)

	if err := writeJSON(*output, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing JSON output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nDetailed results written to %s\n", *output)
}

func checkHealth(baseURL string) error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return fmt.Errorf("cannot reach %s: %w", baseURL, err)
	}
	defer resp.Body.Close()

	var h struct {
		Status          string `json:"status"`
		WorkerAvailable bool   `json:"worker_available"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return fmt.Errorf("decode health: %w", err)
	}
	if !h.WorkerAvailable {
		return fmt.Errorf("server is %q: worker executable not installed", h.Status)
	}
	return nil
}

func benchmarkURL(ctx context.Context, client *http.Client, target string, run int) runResult {
	rr := runResult{Run: run}

	q := url.Values{"url": {target}, "format": {"json"}, "timeout": {fmt.Sprint(*timeout)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, *apiURL+"/api?"+q.Encode(), nil)
	if err != nil {
		rr.Error = fmt.Sprintf("request error: %v", err)
		return rr
	}
	if *apiKey != "" {
		req.Header.Set("X-API-Key", *apiKey)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		rr.Error = fmt.Sprintf("request failed: %v", err)
		return rr
	}
	defer resp.Body.Close()

	var er extractResponse
	err = json.NewDecoder(resp.Body).Decode(&er)
	rr.WallMs = time.Since(start).Milliseconds()
	rr.HTTPStatus = resp.StatusCode
	if err != nil {
		rr.Error = fmt.Sprintf("decode error: %v", err)
		return rr
	}

	rr.Success = er.Success
	rr.ServerMs = er.Timing.TotalMs
	rr.ContentLength = er.ContentLength
	rr.Quality = er.Quality
	if er.Error != nil {
		rr.ErrorCode = er.Error.Code
		rr.Error = er.Error.Message
	} else if !er.Success {
		rr.ErrorCode = "SOFT_FAILURE"
	}
	return rr
}

var qualityRank = map[string]int{"basic": 1, "good": 2, "excellent": 3}

func summarize(label, target string, results []runResult) urlResult {
	ur := urlResult{URL: target, Label: label, Runs: results, ErrorCounts: map[string]int{}}
	for _, r := range results {
		if !r.Success {
			ur.ErrorCounts[r.ErrorCode]++
			continue
		}
		ur.Successful++
		ur.AvgWallMs += float64(r.WallMs)
		ur.AvgLength += float64(r.ContentLength)
		if qualityRank[r.Quality] > qualityRank[ur.TopQuality] {
			ur.TopQuality = r.Quality
		}
	}
	if ur.Successful > 0 {
		ur.AvgWallMs /= float64(ur.Successful)
		ur.AvgLength /= float64(ur.Successful)
	}
	return ur
}

func printTable(results []urlResult) {
	fmt.Println(strings.Repeat("─", 85))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Site\tOK\tAvg Latency\tAvg Length\tQuality\tErrors\n")
	fmt.Fprintf(w, "────\t──\t───────────\t──────────\t───────\t──────\n")

	for _, r := range results {
		var errs []string
		for code, n := range r.ErrorCounts {
			errs = append(errs, fmt.Sprintf("%s×%d", code, n))
		}
		fmt.Fprintf(w, "%s\t%d/%d\t%dms\t%d\t%s\t%s\n",
			r.Label,
			r.Successful, len(r.Runs),
			int64(r.AvgWallMs),
			int(r.AvgLength),
			orDash(r.TopQuality),
			orDash(strings.Join(errs, " ")),
		)
	}

	w.Flush()
	fmt.Println(strings.Repeat("─", 85))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func writeJSON(path string, report benchmarkReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
