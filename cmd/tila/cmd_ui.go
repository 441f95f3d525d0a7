package main

import (
	"fmt"
	"net"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/dhamidi/tila/ui"
)

func newUICmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Start the web playground",
		Long: `Start a web playground for Tila programs.

Programs entered in the browser are parsed on the server and shown as a
syntax tree and in canonical form. POST /parse also answers with JSON when
the request accepts application/json.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := ui.NewServer()
			if err != nil {
				return fmt.Errorf("create server: %w", err)
			}

			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return fmt.Errorf("invalid address %q: %w", addr, err)
			}
			if host == "" {
				host = "localhost"
			}
			log.Noticef("playground listening on %s", addr)
			fmt.Printf("Playground at http://%s\n", net.JoinHostPort(host, port))
			return http.ListenAndServe(addr, server)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "address to listen on")

	return cmd
}
