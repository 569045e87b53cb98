package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/projectvantage/vantage/internal/domain/model"
	"github.com/projectvantage/vantage/internal/view"
)

type authFlags struct {
	Email    string
	Password string
}

func (c *cli) loginCommand() *cobra.Command {
	return c.authCommand(model.AuthLogin, "login", "Log in and keep the session for later commands")
}

func (c *cli) signupCommand() *cobra.Command {
	return c.authCommand(model.AuthSignup, "signup", "Create an account")
}

func (c *cli) authCommand(mode model.AuthMode, use, short string) *cobra.Command {
	var f authFlags

	cmd := &cobra.Command{
		Use:     use + " --email EMAIL [--password PASSWORD]",
		Short:   short,
		GroupID: "session",
		Long: `
		The password is read from the first line of standard input when --password
		is not given, so it does not have to appear in the shell history.
		`,
		Example: `
		$ echo "$PASS" | vantage login --email ops@example.com
		✓ Login successful!
		→ dashboard.html
		`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if f.Password == "" {
				f.Password = c.readLine()
			}

			s, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			form := s.console.SubmitAuth(ctx, mode, model.Credentials{Email: f.Email, Password: f.Password})
			fmt.Fprint(c.out, c.term.Auth(form))

			if form.Message != nil && form.Message.IsError() {
				return errReported
			}
			if form.Navigate == view.PageDashboard {
				s.email = strings.TrimSpace(f.Email)
				return s.save(ctx)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.Email, "email", "", "Account email")
	flags.StringVar(&f.Password, "password", "", "Account password (read from stdin when empty)")
	return cmd
}

func (c *cli) readLine() string {
	if c.in == nil {
		return ""
	}
	sc := bufio.NewScanner(c.in)
	if sc.Scan() {
		return strings.TrimRight(sc.Text(), "\r\n")
	}
	return ""
}

func (c *cli) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "logout",
		Short:   "End the session and forget the saved cookies",
		GroupID: "session",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			form := s.console.Logout(ctx)
			if err := s.store.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprint(c.out, c.term.Auth(form))
			return nil
		},
	}
}

func (c *cli) sessionCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "session",
		Short:   "Check whether the saved session is still valid",
		GroupID: "session",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			res := s.console.CheckSession(ctx)
			if !res.Allowed() {
				fmt.Fprintln(c.out, c.term.Message(view.Message{Kind: view.MessageError, Text: "Not logged in"}))
				fmt.Fprint(c.out, c.term.Auth(view.AuthForm{Navigate: view.PageLogin}))
				return errReported
			}
			fmt.Fprintf(c.out, "logged_in: true\nuser_id: %s\n", res.Status.UserID.Or("unknown"))
			return s.save(ctx)
		},
	}
}

func (c *cli) dashboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Short:   "Show hero metrics, overview, incident timeline and watchlist",
		GroupID: "session",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			d, ok := s.console.LoadDashboard(ctx)
			if !ok {
				fmt.Fprint(c.out, c.term.Auth(view.AuthForm{
					Message:  &view.Message{Kind: view.MessageError, Text: "Not logged in"},
					Navigate: view.PageLogin,
				}))
				return errReported
			}
			fmt.Fprint(c.out, c.term.Dashboard(d))
			return s.save(ctx)
		},
	}
}

func (c *cli) toolCommands() []*cobra.Command {
	return []*cobra.Command{
		c.toolCommand(model.ToolPing, "ping HOST", "Ping a host from the backend", cobra.ExactArgs(1)),
		c.toolCommand(model.ToolPortScan, "scan HOST PORT", "Probe one TCP port from the backend", cobra.ExactArgs(2)),
		c.toolCommand(model.ToolTraceroute, "traceroute HOST", "Trace the route to a host from the backend", cobra.ExactArgs(1)),
	}
}

func (c *cli) toolCommand(tool model.Tool, use, short string, args cobra.PositionalArgs) *cobra.Command {
	return &cobra.Command{
		Use:     use,
		Short:   short,
		GroupID: "tools",
		Args:    args,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx)
			if err != nil {
				return err
			}

			req := model.DiagnosticRequest{Host: args[0]}
			if len(args) > 1 {
				req.Port = args[1]
			}
			panel, err := s.console.RunTool(ctx, tool, req)
			if err != nil {
				return err
			}
			fmt.Fprint(c.out, c.term.Panel(panel))
			if panel.Prompt != "" || panel.Error != "" {
				return errReported
			}
			return s.save(ctx)
		},
	}
}
