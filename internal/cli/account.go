package cli

import (
	"fmt"

	"github.com/oathline/oathline/internal/session"
	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register [email]",
	Short: "Create an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			return fmt.Errorf("a password is required\nHint: use --password")
		}

		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		user, err := e.app.AuthService.Register(args[0], password)
		if err != nil {
			return err
		}

		e.manager.OnSessionChange(session.Event{Type: session.EventSignedIn, UserID: user.ID})

		err = saveUserID(user.ID)
		if err != nil {
			return err
		}

		fmt.Printf("✓ Registered and signed in as %s\n", args[0])
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Sign in to an existing account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			return fmt.Errorf("a password is required\nHint: use --password")
		}

		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		user, err := e.app.AuthService.Login(args[0], password)
		if err != nil {
			return err
		}

		e.manager.OnSessionChange(session.Event{Type: session.EventSignedIn, UserID: user.ID})

		err = saveUserID(user.ID)
		if err != nil {
			return err
		}

		fmt.Printf("✓ Signed in as %s\n", args[0])
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and continue as a guest",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		e.manager.OnSessionChange(session.Event{Type: session.EventSignedOut})

		state := e.manager.State()
		err = saveUserID(state.User.ID)
		if err != nil {
			return err
		}

		fmt.Println("✓ Signed out; you are now a guest")
		return nil
	},
}

func init() {
	registerCmd.Flags().StringP("password", "p", "", "Account password")
	loginCmd.Flags().StringP("password", "p", "", "Account password")
}

// RegisterCmd returns the register command
func RegisterCmd() *cobra.Command {
	return registerCmd
}

// LoginCmd returns the login command
func LoginCmd() *cobra.Command {
	return loginCmd
}

// LogoutCmd returns the logout command
func LogoutCmd() *cobra.Command {
	return logoutCmd
}
