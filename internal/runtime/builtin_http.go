package runtime

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// registerHTTP binds the http natives.
func registerHTTP(i *Interpreter) {
	i.registry.RegisterFn("http_request", func(args []Value) (Value, error) {
		url, err := stringArg(args, 0, "http.request")
		if err != nil {
			return nil, err
		}
		resp, err := httpClient.Get(url)
		if err != nil {
			return nil, fmt.Errorf("request to '%s' failed: %w", url, err)
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("reading response from '%s': %w", url, err)
		}
		return StringVal(body), nil
	})

	// createServer is a stub: it reports what it would listen on. Serving
	// requires script callbacks, which the evaluator does not schedule.
	i.registry.RegisterFn("http_createServer", func(args []Value) (Value, error) {
		port := "8080"
		if len(args) > 0 {
			if n, ok := args[0].(NumberVal); ok {
				port = FormatNumber(float64(n))
			}
		}
		return StringVal("server on port " + port), nil
	})
}
