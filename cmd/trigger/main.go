package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Diagnostic CLI: fires /send-mailout for one mailout id the same way the
// poller does, so a send can be triggered or retried from a shell.
func main() {
	_ = godotenv.Load()

	var (
		id     = flag.String("id", "", "mailout page id (required)")
		url    = flag.String("url", "http://127.0.0.1:8080/send-mailout", "trigger endpoint")
		secret = flag.String("secret", os.Getenv("EXECUTOR_SHARED_SECRET"), "shared secret")
	)
	flag.Parse()

	if *id == "" {
		fmt.Fprintln(os.Stderr, "usage: trigger -id <mailout-id> [-url ...] [-secret ...]")
		os.Exit(2)
	}

	payload := map[string]string{"mailout_id": *id}
	if *secret != "" {
		payload["auth_token"] = *secret
	}
	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	req, err := http.NewRequest(http.MethodPost, *url, bytes.NewReader(body))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	if *secret != "" {
		req.Header.Set("X-Auth-Token", *secret)
	}

	client := &http.Client{Timeout: 30 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	out, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	fmt.Printf("%d %s\n", resp.StatusCode, bytes.TrimSpace(out))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		os.Exit(1)
	}
}
