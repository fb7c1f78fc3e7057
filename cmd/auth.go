package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	huh "charm.land/huh/v2"
	"github.com/spf13/cobra"

	"github.com/zhubert/parley/internal/api"
)

var (
	loginUsername  string
	loginPassword  string
	signupUsername string
	signupEmail    string
	signupPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store an access token",
	Long: `Signs in with a username (or email) and password and stores the access
token in the credentials file. Missing values are prompted for.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	Args:  cobra.NoArgs,
	RunE:  runSignup,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored access token",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username or email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password")

	signupCmd.Flags().StringVarP(&signupUsername, "username", "u", "", "Username")
	signupCmd.Flags().StringVarP(&signupEmail, "email", "e", "", "Email address")
	signupCmd.Flags().StringVarP(&signupPassword, "password", "p", "", "Password")

	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd)
}

// promptMissing asks for every field whose value is still empty. Nothing is
// shown when all values were given as flags.
func promptMissing(fields ...promptField) error {
	var inputs []huh.Field
	for _, f := range fields {
		if *f.value != "" {
			continue
		}
		in := huh.NewInput().Title(f.title).Value(f.value).Validate(required(f.title))
		if f.secret {
			in = in.EchoMode(huh.EchoModePassword)
		}
		inputs = append(inputs, in)
	}
	if len(inputs) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(inputs...)).Run()
}

type promptField struct {
	title  string
	value  *string
	secret bool
}

func required(title string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", strings.ToLower(title))
		}
		return nil
	}
}

func runLogin(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	if err := promptMissing(
		promptField{title: "Username or email", value: &loginUsername},
		promptField{title: "Password", value: &loginPassword, secret: true},
	); err != nil {
		return err
	}
	return login(cmd.Context(), cmd.OutOrStdout(), env, loginUsername, loginPassword)
}

// login signs in, then looks up the canonical username since the login may
// have been an email address.
func login(ctx context.Context, out io.Writer, env *environment, username, password string) error {
	if _, err := env.client.Login(ctx, strings.TrimSpace(username), password); err != nil {
		return fmt.Errorf("login failed: %s", api.DetailOr(err, err.Error()))
	}
	name := strings.TrimSpace(username)
	if me, err := env.client.Me(ctx); err == nil && me.Username != "" {
		name = me.Username
	}
	if err := env.creds.SetUsername(name); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save username: %v\n", err)
	}
	fmt.Fprintf(out, "Signed in as %s.\n", name)
	return nil
}

func runSignup(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	if err := promptMissing(
		promptField{title: "Username", value: &signupUsername},
		promptField{title: "Email", value: &signupEmail},
		promptField{title: "Password", value: &signupPassword, secret: true},
	); err != nil {
		return err
	}
	return signup(cmd.Context(), cmd.OutOrStdout(), env, signupUsername, signupEmail, signupPassword)
}

func signup(ctx context.Context, out io.Writer, env *environment, username, email, password string) error {
	res, err := env.client.Signup(ctx, strings.TrimSpace(username), strings.TrimSpace(email), password)
	if err != nil {
		return fmt.Errorf("signup failed: %s", api.DetailOr(err, err.Error()))
	}
	name := res.Username
	if name == "" {
		name = strings.TrimSpace(username)
	}
	fmt.Fprintf(out, "Account %s created. Run `parley login` to sign in.\n", name)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	return logout(cmd.OutOrStdout(), env)
}

func logout(out io.Writer, env *environment) error {
	if !env.client.Authenticated() {
		fmt.Fprintln(out, "Not signed in.")
		return nil
	}
	if err := env.client.Logout(); err != nil {
		return fmt.Errorf("error clearing credentials: %w", err)
	}
	fmt.Fprintln(out, "Signed out.")
	return nil
}
