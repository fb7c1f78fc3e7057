package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zhubert/parley/internal/api"
	"github.com/zhubert/parley/internal/errors"
	"github.com/zhubert/parley/internal/personality"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment()
		if err != nil {
			return err
		}
		return whoami(cmd.Context(), cmd.OutOrStdout(), env)
	},
}

var chatsCmd = &cobra.Command{
	Use:   "chats",
	Short: "List your chats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment()
		if err != nil {
			return err
		}
		return listChats(cmd.Context(), cmd.OutOrStdout(), env)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), versionTemplate())
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd, chatsCmd, versionCmd)
}

var errNotSignedIn = errors.New("not signed in; run `parley login` first")

func requireLogin(env *environment) error {
	if !env.client.Authenticated() {
		return errNotSignedIn
	}
	return nil
}

// whoami fetches the profile and the chat list at the same time
func whoami(ctx context.Context, out io.Writer, env *environment) error {
	if err := requireLogin(env); err != nil {
		return err
	}

	var (
		user  *api.User
		chats []api.Chat
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = env.client.Me(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		chats, err = env.client.ListChats(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return describe(err)
	}

	fmt.Fprintf(out, "%s <%s>\n", user.Username, user.Email)
	fmt.Fprintf(out, "%d chat(s) on %s\n", len(chats), env.client.BaseURL())
	return nil
}

func listChats(ctx context.Context, out io.Writer, env *environment) error {
	if err := requireLogin(env); err != nil {
		return err
	}
	chats, err := env.client.ListChats(ctx)
	if err != nil {
		return describe(err)
	}
	if len(chats) == 0 {
		fmt.Fprintln(out, "No chats yet.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPERSONALITY\tCREATED")
	for _, c := range chats {
		created := "-"
		if !c.CreatedAt.IsZero() {
			created = c.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Name, personality.Label(c.Personality), created)
	}
	return w.Flush()
}

// describe turns a backend error into a user-facing one
func describe(err error) error {
	if api.IsUnauthorized(err) {
		return errors.New("session expired; run `parley login` again")
	}
	return errors.New(api.DetailOr(err, err.Error()))
}
