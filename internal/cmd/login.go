package cmd

import (
	"bufio"
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/term"
	"github.com/proptic/proptic/internal/api"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Aliases: []string{"auth"},
	Use:     "login [email]",
	Short:   "Sign in to the Proptic platform",
	Long: `Sign in to the Proptic platform.
The token is kept in the OS keyring, or in the data directory when no
keyring is available. The dashboard and the listing commands reuse it.`,
	Example: `
# Sign in, asking for the email
proptic login

# Sign in as a given user
proptic login manager@example.com
  `,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setupApp(cmd, false)
		if err != nil {
			return err
		}
		defer app.Close()

		in := bufio.NewReader(os.Stdin)
		email := app.com.Config.Options.LastEmail
		if len(args) > 0 {
			email = args[0]
		}
		email, err = promptEmail(in, email)
		if err != nil {
			return err
		}
		password, err := promptPassword(in)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*app.com.Config.Timeout())
		defer cancel()

		fmt.Println("Signing in...")
		res, err := app.com.Client.Login(ctx, email, password)
		if err != nil {
			return loginError(err)
		}
		profile, err := app.com.Client.WithToken(res.Token).Profile(ctx)
		if err != nil {
			return loginError(err)
		}

		if err := cmp.Or(
			app.com.Tokens.Save(res.Token),
			app.com.Config.SetConfigField("options.last_email", email),
		); err != nil {
			return err
		}

		name := cmp.Or(profile.User.FullName, strings.TrimSpace(profile.User.FirstName+" "+profile.User.LastName), email)
		fmt.Println()
		fmt.Println("Signed in as " + lipgloss.NewStyle().Bold(true).Render(name))
		if roles := profile.User.Roles; len(roles) > 0 {
			labels := make([]string, 0, len(roles))
			for _, r := range roles {
				labels = append(labels, r.Label())
			}
			fmt.Println("Roles: " + strings.Join(labels, ", "))
		}
		return nil
	},
}

func promptEmail(in *bufio.Reader, current string) (string, error) {
	for {
		if current != "" {
			fmt.Printf("Email [%s]: ", current)
		} else {
			fmt.Print("Email: ")
		}
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("failed to read email: %w", err)
		}
		if email := strings.TrimSpace(line); email != "" {
			return email, nil
		}
		if current != "" {
			return current, nil
		}
	}
}

// promptPassword reads the password without echo when stdin is a terminal.
func promptPassword(in *bufio.Reader) (string, error) {
	fmt.Print("Password: ")
	if term.IsTerminal(os.Stdin.Fd()) {
		b, err := term.ReadPassword(os.Stdin.Fd())
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func loginError(err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		return errors.New("invalid email or password")
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return errors.New(apiErr.Message)
	}
	return err
}
