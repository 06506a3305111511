package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/routestore/pkg/cli/internal/output"
)

var callCmd = &cobra.Command{
	Use:   "call <operation> [json-arguments|-]",
	Short: "Invoke a registered operation with JSON arguments",
	Long: `Invoke a registered operation by name and print its result envelope:
{"ok": <value>} on success or {"err": {"kind": ..., "msg": ...}} on failure.
The command exits non-zero when the result is an error.

Pass "-" to read the arguments from stdin. See 'routestore endpoints' for the
available operations.`,
	Example: `  routestore call get_routes
  routestore call add_route '{"route":"r1","request":{"method":"GET","payload":""},"expected_response":{"status":200,"body":"b2s="}}'
  routestore call delete_route '{"route":"r1"}'`,
	Args: cobra.RangeArgs(1, 2),
	RunE: withHost(func(cmd *cobra.Command, args []string, h *host) error {
		var raw json.RawMessage
		if len(args) == 2 {
			arg := args[1]
			if arg == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read arguments: %w", err)
				}
				arg = string(data)
			}
			if strings.TrimSpace(arg) != "" && !json.Valid([]byte(arg)) {
				return fmt.Errorf("arguments are not valid JSON")
			}
			raw = json.RawMessage(arg)
		}

		res := h.table.Invoke(cmd.Context(), args[0], raw)
		if err := output.JSON(cmd.OutOrStdout(), res); err != nil {
			return err
		}
		if !res.IsOk() {
			return errSilent
		}
		return nil
	}),
}

var endpointsCmd = &cobra.Command{
	Use:   "endpoints",
	Short: "List the operations available to 'call'",
	Args:  cobra.NoArgs,
	RunE: withHost(func(cmd *cobra.Command, _ []string, h *host) error {
		endpoints := h.table.Endpoints()

		if jsonOutput {
			type endpointInfo struct {
				Name        string `json:"name"`
				Kind        string `json:"kind"`
				Description string `json:"description"`
			}
			infos := make([]endpointInfo, 0, len(endpoints))
			for _, e := range endpoints {
				infos = append(infos, endpointInfo{Name: e.Name, Kind: e.Kind.String(), Description: e.Description})
			}
			return printJSON(cmd, infos)
		}

		tw := output.Table(cmd.OutOrStdout())
		fmt.Fprintln(tw, "NAME\tKIND\tDESCRIPTION")
		for _, e := range endpoints {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, e.Kind, e.Description)
		}
		return tw.Flush()
	}),
}

func init() {
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(endpointsCmd)
}
