package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"callscribe/internal/records"
)

const llmCheckTimeout = 30 * time.Second

// CheckLLM verifies that the LLM endpoint answers a ping within 30 seconds.
// Callers should hand in a client configured for a single attempt.
func CheckLLM(ctx context.Context, name string, pinger Pinger) Result {
	checkCtx, cancel := context.WithTimeout(ctx, llmCheckTimeout)
	defer cancel()

	start := time.Now()
	reply, err := pinger.Ping(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: summarizeLLMError(err)}
	}
	return Result{
		Name:   name,
		Passed: true,
		Detail: fmt.Sprintf("replied %q in %s", reply, time.Since(start).Round(time.Millisecond)),
	}
}

// CheckCatalog verifies that the catalog file parses and holds at least one
// subcategory.
func CheckCatalog(path, charset string, mainColumn, subColumn int) Result {
	const name = "Catalog"

	catalog, err := records.LoadCatalog(path, charset, mainColumn, subColumn)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if catalog.Len() == 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: no subcategories)", path)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d subcategories)", path, catalog.Len())}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// summarizeLLMError produces a human-readable summary for LLM check failures.
func summarizeLLMError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "ping timed out (LLM endpoint unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "ping timed out (LLM endpoint unreachable)"
	}
	return err.Error()
}
