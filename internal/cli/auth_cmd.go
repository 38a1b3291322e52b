// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - login, signup and logout command handlers.
//
// Command: login [callback]
// Short:   Sign in with email and password, or consume an auth
//          callback URL carrying tokens in its fragment.
//
// Examples:
//   mentorae login                         Prompt for credentials
//   mentorae login "mentorae://auth#..."   Consume a callback URL
//   mentorae signup                        Create an account
//   mentorae logout                        Sign out (prompts)
//   mentorae logout -y                     Sign out without prompting
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/mentorae/tutor-tui/internal/auth"
	"github.com/mentorae/tutor-tui/internal/ui/styles"
)

// HandleLogin signs the user in.
func HandleLogin(ctx context.Context, app *App, args Args) error {
	// A callback URL from the browser flow carries tokens directly.
	if args.Query != "" {
		if err := app.Session.Bootstrap(ctx, args.Query); err != nil {
			return err
		}
		if !app.Session.IsAuthenticated() {
			return errors.New("callback tokens were rejected by the server")
		}
		fmt.Println(styles.RenderSuccess("Signed in as " + userLabel(app)))
		return nil
	}

	email, err := readLine("Email: ")
	if err != nil {
		return err
	}
	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}

	user, err := app.Session.Login(ctx, email, password)
	if err != nil {
		var vErr *auth.ValidationError
		switch {
		case errors.As(err, &vErr):
			return fmt.Errorf("%s: %s", vErr.Field, vErr.Message)
		case errors.Is(err, auth.ErrInvalidCredentials):
			return errors.New("invalid email or password")
		default:
			return err
		}
	}

	name := user.Name
	if name == "" {
		name = user.Email
	}
	fmt.Println(styles.RenderSuccess("Signed in as " + name))
	return nil
}

// HandleSignup creates an account.
func HandleSignup(ctx context.Context, app *App, args Args) error {
	name, err := readLine("Name: ")
	if err != nil {
		return err
	}
	email, err := readLine("Email: ")
	if err != nil {
		return err
	}
	password, err := readPassword("Password (6+ characters): ")
	if err != nil {
		return err
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return err
	}

	if err := app.Session.Signup(ctx, name, email, password, confirm); err != nil {
		var vErr *auth.ValidationError
		if errors.As(err, &vErr) {
			return fmt.Errorf("%s: %s", vErr.Field, vErr.Message)
		}
		return err
	}

	fmt.Println(styles.RenderSuccess("Account created. Run 'mentorae login' to sign in."))
	return nil
}

// HandleLogout ends the session and clears stored tokens.
func HandleLogout(ctx context.Context, app *App, args Args) error {
	if err := app.Bootstrap(ctx); err != nil {
		return err
	}
	if !app.Session.IsAuthenticated() {
		fmt.Println("Not signed in.")
		return nil
	}

	confirm := func() bool { return true }
	if !args.Yes {
		confirm = func() bool {
			answer, err := readLine("Sign out and clear stored tokens? [y/N] ")
			if err != nil {
				return false
			}
			answer = strings.ToLower(answer)
			return answer == "y" || answer == "yes"
		}
	}

	if err := app.Session.Logout(ctx, confirm); err != nil {
		return err
	}
	if app.Session.IsAuthenticated() {
		fmt.Println("Logout cancelled.")
		return nil
	}
	fmt.Println(styles.RenderSuccess("Signed out."))
	return nil
}

// userLabel names the signed-in user for display.
func userLabel(app *App) string {
	user := app.Session.User()
	if user == nil {
		return "unknown"
	}
	if user.Name != "" {
		return user.Name
	}
	return user.Email
}

// readLine reads one line from stdin.
func readLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readPassword reads a password without echo.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(password)), nil
}
