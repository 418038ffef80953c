package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"product-configurator/core/config"
	"product-configurator/core/database"
	"product-configurator/core/logger"
	"product-configurator/core/storage"
	"product-configurator/feature/product"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// yesConfirm skips the interactive prompt of destructive commands.
var yesConfirm bool

// app bundles the dependencies shared by the CLI commands.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	service *product.Service
}

// bootstrap loads configuration and connects to the database. Object storage
// is only connected when withStorage is set.
func bootstrap(withStorage bool) (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var client storage.Client
	if withStorage {
		client, err = storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to storage: %w", err)
		}
	}

	return &app{
		cfg:     cfg,
		logger:  l,
		db:      db,
		service: product.NewService(db, client, cfg.Storage, cfg.Reconcile, l),
	}, nil
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm destructive actions: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
