// Package account implements user account commands: registration, login and
// local session management.
package account

import (
	"context"
	"fmt"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"chapterprep/config"
	"chapterprep/forms"
	"chapterprep/session"
	"chapterprep/state"
)

// Register creates new account. It does not log in.
func Register(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("register")

	form := forms.RegisterForm{
		Username: cmd.String("username"),
		Email:    cmd.String("email"),
	}
	var err error
	if form.Password, form.PasswordConfirm, err = readPasswords(cmd, true); err != nil {
		return err
	}
	if err := form.Validate(); err != nil {
		return err
	}
	if err := env.Connect(); err != nil {
		return err
	}

	res, err := env.API.Register(ctx, form.Request())
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	log.Info("Account created, you can log in now", zap.String("username", res.Username), zap.Int64("id", res.ID))
	return nil
}

// Login authenticates user and keeps session for following commands.
func Login(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("login")

	form := forms.LoginForm{Username: strings.TrimSpace(cmd.String("username"))}
	var err error
	if form.Password, _, err = readPasswords(cmd, false); err != nil {
		return err
	}
	if err := form.Validate(); err != nil {
		return err
	}
	if err := env.Connect(); err != nil {
		return err
	}

	res, err := env.API.Login(ctx, form.Username, form.Password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	sess := session.Session{
		Token:    config.SecretString(res.AccessToken),
		Username: form.Username,
		UserID:   res.UserID,
	}
	if err := env.Session.Save(sess); err != nil {
		return err
	}
	log.Info("Logged in", zap.String("username", sess.Username), zap.Int64("id", sess.UserID))
	return nil
}

// Logout forgets local session. Server is not contacted.
func Logout(ctx context.Context, _ *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if err := env.Connect(); err != nil {
		return err
	}
	if err := env.Session.Clear(); err != nil {
		return err
	}
	env.Log.Info("Logged out")
	return nil
}

// Whoami prints user of the stored session.
func Whoami(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if err := env.Connect(); err != nil {
		return err
	}
	sess, err := env.RequireSession()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.Root().Writer, "%s (id %d)\n", sess.Username, sess.UserID)
	return err
}
