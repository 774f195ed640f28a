// Command preflight validates the environment before a deploy starts the
// API: it fails on anything the service would refuse to run with and warns
// about likely misconfiguration.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	secret := strings.TrimSpace(os.Getenv("HASH_SECRET"))
	if secret == "" {
		fail("HASH_SECRET is empty (the API will refuse to start).")
	}
	if len(secret) < 16 {
		warn("HASH_SECRET is short; prefer 16+ characters.")
	}
	ok("HASH_SECRET set")

	dataDir := strings.TrimSpace(os.Getenv("DATA_DIR"))
	if dataDir == "" {
		warn("DATA_DIR not set; records will land in ./.data")
	} else if info, err := os.Stat(dataDir); err == nil && !info.IsDir() {
		fail("DATA_DIR exists but is not a directory: " + dataDir)
	} else {
		ok("DATA_DIR: " + dataDir)
	}

	if v := strings.TrimSpace(os.Getenv("CHECK_INTERVAL_MS")); v != "" {
		ms, err := strconv.Atoi(v)
		switch {
		case err != nil:
			fail("CHECK_INTERVAL_MS is not a number: " + v)
		case ms == 0:
			warn("CHECK_INTERVAL_MS=0 disables the check worker entirely.")
		case ms < 5000:
			warn("CHECK_INTERVAL_MS under 5s will probe aggressively.")
		default:
			ok("CHECK_INTERVAL_MS: " + v)
		}
	}

	if addr := strings.TrimSpace(os.Getenv("ADDR")); addr == "" {
		warn("ADDR not set; defaulting to 127.0.0.1:8080 (not reachable from outside).")
	} else {
		ok("ADDR: " + addr)
	}

	fmt.Println("preflight passed")
}
