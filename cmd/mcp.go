package cmd

import (
	"context"
	"fmt"
	"log"

	mcpserver "github.com/lukman83/autolot/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP stdio server",
	RunE:  runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	st, err := openStore(context.Background())
	if err != nil {
		return err
	}
	defer st.Close()

	// stdout carries the protocol; keep logs on stderr.
	log.SetOutput(cmd.ErrOrStderr())
	backend, _ := buildBackend(st)

	fmt.Fprintln(cmd.ErrOrStderr(), "Starting Autolot MCP server on stdio...")
	if err := mcpserver.Serve(backend); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
