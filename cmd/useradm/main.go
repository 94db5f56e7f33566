// Command useradm creates an account of any role directly in the store.
//
//	useradm -u root -e root@example.org -r admin -b postgres -d "$DATABASE_DSN"
//
// Store selection follows the server's configuration (JSON file, environment
// and the -b/-m/-n/-d flags).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bulkassi/webProg2/internal/logging"
	"github.com/bulkassi/webProg2/internal/server/config"
	"github.com/bulkassi/webProg2/internal/useradm"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	log := logging.NewJSONLogger(os.Stderr, "warn")
	prompter := useradm.NewPrompter(os.Stdin, os.Stdout, int(os.Stdin.Fd()))

	if err := useradm.Run(ctx, cfg, os.Args[1:], prompter, os.Stdout, log); err != nil {
		fmt.Fprintln(os.Stderr, "useradm:", err)
		os.Exit(1)
	}
}
