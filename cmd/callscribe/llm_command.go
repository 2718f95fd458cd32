package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"callscribe/internal/services"
)

func newLLMCommand(ctx *commandContext) *cobra.Command {
	llmCmd := &cobra.Command{
		Use:   "llm",
		Short: "LLM endpoint utilities",
	}
	llmCmd.AddCommand(newLLMPingCommand(ctx))
	return llmCmd
}

func newLLMPingCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Send a trivial prompt to the configured endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.llmClient()
			if err != nil {
				return err
			}
			cfg := client.Config()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Endpoint: %s (%s)\n", cfg.Endpoint, cfg.Backend)
			fmt.Fprintf(out, "Model:    %s\n", cfg.Model)

			start := time.Now()
			reply, err := client.Ping(cmd.Context())
			if err != nil {
				return services.Wrap(services.ErrTransient, "llm", "ping", cfg.Endpoint, err)
			}
			fmt.Fprintf(out, "Reply:    %q (%s)\n", reply, time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}
