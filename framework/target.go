package framework

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// WaitForTarget polls a URL belonging to the system under test until it returns a 200 status,
// or until the timeout elapses. Connection errors are retried; any other status is an error.
func WaitForTarget(name, url string, timeout time.Duration, output io.Writer) error {
	fmt.Fprintf(output, "Connecting to %s at %s", name, url)

	client := &http.Client{Timeout: timeout}
	deadline := time.Now().Add(timeout)
	for {
		fmt.Fprintf(output, ".")
		resp, err := client.Get(url)
		if err == nil {
			fmt.Fprintln(output)
			_ = resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("%s returned status code %d", name, resp.StatusCode)
			}
			return nil
		}
		if !time.Now().Before(deadline) {
			fmt.Fprintln(output)
			return fmt.Errorf("timed out waiting for %s, result of last query was: %w", name, err)
		}
		time.Sleep(time.Millisecond * 100)
	}
}
