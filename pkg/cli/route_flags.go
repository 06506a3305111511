package cli

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/routestore/pkg/route"
)

// routeFlags collects the request and response of a route from flags.
type routeFlags struct {
	method        string
	payload       string
	payloadFile   string
	payloadBase64 string
	status        uint64
	body          string
	bodyFile      string
	bodyBase64    string
}

func (f *routeFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.method, "method", "m", "GET", "Request method")
	fl.StringVar(&f.payload, "payload", "", "Request payload as text")
	fl.StringVar(&f.payloadFile, "payload-file", "", "Read the request payload from a file")
	fl.StringVar(&f.payloadBase64, "payload-base64", "", "Request payload, base64-encoded")
	fl.Uint64VarP(&f.status, "status", "s", 200, "Response status")
	fl.StringVarP(&f.body, "body", "b", "", "Response body as text")
	fl.StringVar(&f.bodyFile, "body-file", "", "Read the response body from a file")
	fl.StringVar(&f.bodyBase64, "body-base64", "", "Response body, base64-encoded")
	cmd.MarkFlagsMutuallyExclusive("payload", "payload-file", "payload-base64")
	cmd.MarkFlagsMutuallyExclusive("body", "body-file", "body-base64")
}

func (f *routeFlags) request(cmd *cobra.Command) (route.Request, error) {
	payload, err := readBytes(cmd, "payload", f.payload, f.payloadFile, f.payloadBase64)
	if err != nil {
		return route.Request{}, err
	}
	return route.Request{Method: strings.TrimSpace(f.method), Payload: payload}, nil
}

func (f *routeFlags) response(cmd *cobra.Command) (route.Response, error) {
	body, err := readBytes(cmd, "body", f.body, f.bodyFile, f.bodyBase64)
	if err != nil {
		return route.Response{}, err
	}
	return route.Response{Status: f.status, Body: body}, nil
}

// readBytes returns the bytes given through one of the text, file or base64
// flags named after prefix, or nil when none was set.
func readBytes(cmd *cobra.Command, prefix, text, file, b64 string) ([]byte, error) {
	switch {
	case cmd.Flags().Changed(prefix):
		return []byte(text), nil
	case cmd.Flags().Changed(prefix + "-file"):
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s file: %w", prefix, err)
		}
		if data == nil {
			data = []byte{}
		}
		return data, nil
	case cmd.Flags().Changed(prefix + "-base64"):
		data, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s-base64: %w", prefix, err)
		}
		return data, nil
	default:
		return nil, nil
	}
}
