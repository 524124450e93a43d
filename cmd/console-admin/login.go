package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var (
		username      string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Exchange credentials for an API token",
		Long: `Sign in against the network server and print the issued JWT.

Examples:
  export CONSOLE_API_TOKEN=$(console-admin login --username admin --password-stdin < pw.txt)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogin(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), username, passwordStdin)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username; prompted when empty")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin without prompting")

	return cmd
}

func runLogin(ctx context.Context, opts *rootOptions, in io.Reader, out, errOut io.Writer, username string, passwordStdin bool) error {
	reader := bufio.NewReader(in)
	prompt := !passwordStdin

	if strings.TrimSpace(username) == "" {
		if !prompt {
			return fmt.Errorf("--username is required with --password-stdin")
		}
		u, err := readLine(reader, errOut, "Username: ")
		if err != nil {
			return err
		}
		username = u
	}

	var password string
	var err error
	if prompt {
		password, err = readLine(reader, errOut, "Password: ")
	} else {
		password, err = readLine(reader, nil, "")
	}
	if err != nil {
		return err
	}

	set, err := opts.stores(errOut)
	if err != nil {
		return err
	}
	token, err := set.Session.Login(ctx, username, password)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}

// readLine prints label to w when set and returns one line without its terminator.
func readLine(r *bufio.Reader, w io.Writer, label string) (string, error) {
	if w != nil && label != "" {
		_, _ = io.WriteString(w, label)
	}
	line, err := r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
