// Command smoke probes a running api-gateway instance and reports per-endpoint
// status. Intended for post-deploy checks; exits non-zero when a critical
// endpoint fails.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"
)

type target struct {
	Method   string
	Path     string
	Expect   int
	Critical bool
}

var targets = []target{
	{Method: http.MethodGet, Path: "/health", Expect: http.StatusOK, Critical: true},
	{Method: http.MethodGet, Path: "/ready", Expect: http.StatusOK, Critical: true},
	{Method: http.MethodGet, Path: "/metrics", Expect: http.StatusOK, Critical: false},
	{Method: http.MethodGet, Path: "/api/v1/results", Expect: http.StatusOK, Critical: true},
	{Method: http.MethodGet, Path: "/api/v1/results/grade-preview?marks=45&total=50", Expect: http.StatusOK, Critical: true},
	{Method: http.MethodGet, Path: "/api/v1/subject-configs", Expect: http.StatusOK, Critical: false},
	{Method: http.MethodPost, Path: "/api/v1/results/bulk", Expect: http.StatusUnauthorized, Critical: true},
}

func main() {
	var (
		base    string
		timeout time.Duration
	)
	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	client := &http.Client{Timeout: timeout}
	failedCritical := 0

	for _, t := range targets {
		status, err := probe(client, base, t)
		switch {
		case err != nil:
			fmt.Printf("FAIL %-4s %-55s error: %v\n", t.Method, t.Path, err)
			if t.Critical {
				failedCritical++
			}
		case status != t.Expect:
			fmt.Printf("FAIL %-4s %-55s got %d want %d\n", t.Method, t.Path, status, t.Expect)
			if t.Critical {
				failedCritical++
			}
		default:
			fmt.Printf("OK   %-4s %-55s %d\n", t.Method, t.Path, status)
		}
	}

	if failedCritical > 0 {
		fmt.Printf("%d critical endpoint(s) failing\n", failedCritical)
		os.Exit(1)
	}
}

func probe(client *http.Client, base string, t target) (int, error) {
	req, err := http.NewRequest(t.Method, base+t.Path, nil)
	if err != nil {
		return 0, err
	}
	if t.Method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close() //nolint:errcheck
	return resp.StatusCode, nil
}
