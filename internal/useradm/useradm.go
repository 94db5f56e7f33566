// Package useradm implements the operator tool that creates accounts
// directly in the configured store, bypassing the admin-gated HTTP API.
// It is how the first admin account comes into existence.
package useradm

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/bulkassi/webProg2/internal/flagx"
	"github.com/bulkassi/webProg2/internal/logging"
	"github.com/bulkassi/webProg2/internal/server/auth"
	"github.com/bulkassi/webProg2/internal/server/config"
	"github.com/bulkassi/webProg2/internal/server/repositories/repomanager"
	"github.com/bulkassi/webProg2/internal/server/services"
)

// newManager is a seam for tests.
var newManager = repomanager.New

type options struct {
	username string
	email    string
	role     string
}

func parseOptions(args []string) (options, error) {
	o := options{}
	fs := flag.NewFlagSet("useradm", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&o.username, "u", "", "username")
	fs.StringVar(&o.email, "e", "", "email")
	fs.StringVar(&o.role, "r", "admin", "role: user, moderator or admin")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"u", "e", "r"})); err != nil {
		return o, err
	}
	return o, nil
}

// Run creates one account. Missing username/email are asked for on p, the
// password always is.
func Run(ctx context.Context, cfg *config.Config, args []string, p *Prompter, out io.Writer, log logging.Logger) error {
	o, err := parseOptions(args)
	if err != nil {
		return err
	}

	if strings.TrimSpace(o.username) == "" {
		if o.username, err = p.Text("Username"); err != nil {
			return err
		}
	}
	if strings.TrimSpace(o.email) == "" {
		if o.email, err = p.Text("Email"); err != nil {
			return err
		}
	}
	password, err := p.Password()
	if err != nil {
		return err
	}

	repos, err := newManager(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("store init error: %w", err)
	}
	defer repos.Close(ctx)

	if err := repos.RunMigrations(ctx); err != nil {
		return fmt.Errorf("store migration error: %w", err)
	}

	users := services.NewUserService(repos, auth.NewPasswordHasher(cfg.BcryptCost), log)
	account, err := users.Create(ctx, services.NewAccountInput{
		Username: o.username,
		Email:    o.email,
		Password: password,
		Role:     o.role,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "created %s account %q (id %s)\n", account.Role, account.Username, account.ID)
	return nil
}
