package account

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"nathanbeddoewebdev/safecore/internal/auth"
	"nathanbeddoewebdev/safecore/internal/crypt"
	"nathanbeddoewebdev/safecore/internal/oplog"
	"nathanbeddoewebdev/safecore/internal/session"
	"nathanbeddoewebdev/safecore/internal/styles"
	"nathanbeddoewebdev/safecore/internal/util"

	"golang.org/x/term"

	"github.com/spf13/cobra"
)

func LoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <name>",
		Short: "Derive account keys and store them in the keychain",
		Long: `Derive the account key pair from a name and password and store the
seed in the local keychain.

Example:
  safecore account login alice`,
		Args:         cobra.ExactArgs(1),
		RunE:         runLogin,
		SilenceUsage: true,
	}

	cmd.Flags().String("password", "", "Account password (optional, overrides prompt)")

	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	name := auth.NormalizeAccount(args[0])
	if err := util.ValidateAccountName(name); err != nil {
		return err
	}
	cmd.SetContext(oplog.WithMetadata(cmd.Context(), oplog.Metadata{Account: name}))

	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("no terminal to prompt for a password; use --password")
		}
		fmt.Fprint(cmd.OutOrStdout(), "Password: ")
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		password = strings.TrimRight(string(b), "\r\n")
	}
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	seed, err := crypt.HashPassword([]byte(password), crypt.AccountSalt(name), crypt.DefaultPwHashParams)
	if err != nil {
		return err
	}
	kp, err := crypt.KeyPairFromSeed(seed)
	if err != nil {
		return err
	}
	if err := auth.SaveSeed(newStore(), name, seed); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", styles.SuccessText.Render("Logged in as"), name)
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", styles.Label.Render("Public key:"), hex.EncodeToString(kp.Public[:]))
	return nil
}

func LogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "logout",
		Short:        "Remove the current account's keys from the keychain",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := newStore()
			account, err := auth.Current(store)
			if errors.Is(err, auth.ErrNotFound) {
				return session.ErrNotLoggedIn
			}
			if err != nil {
				return err
			}
			if err := auth.Logout(store, account); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged out of %s\n", account)
			return nil
		},
	}
}

func StatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "status",
		Short:        "Show the current account",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			kp, account, err := session.Keys(newStore())
			if errors.Is(err, session.ErrNotLoggedIn) {
				fmt.Fprintln(cmd.OutOrStdout(), "not logged in")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", styles.Label.Render("Account:"), account)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", styles.Label.Render("Public key:"), hex.EncodeToString(kp.Public[:]))
			return nil
		},
	}
}
