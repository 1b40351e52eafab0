// Package cli implements the stride CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lvocabulary78-netizen/Stride/internal/admin"
	"github.com/lvocabulary78-netizen/Stride/internal/auth"
	"github.com/lvocabulary78-netizen/Stride/internal/config"
	"github.com/lvocabulary78-netizen/Stride/internal/store"
)

var (
	dataFlag   string
	configFlag string
	actorFlag  string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "stride",
	Short: "Conversational glossary service",
	Long:  "A small glossary service: look words up, and let admins add, update and delete entries through a guided dialogue.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dataFlag, "data", "d", "", "Glossary document path (default: $STRIDE_DATA or ~/.stride/glossary.json)")
	RootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Optional YAML config file")
	RootCmd.PersistentFlags().StringVarP(&actorFlag, "actor", "a", "", "Actor ID to run as (default: $USER)")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, err
	}
	if dataFlag != "" {
		cfg.DataPath = dataFlag
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (*store.FileStore, error) {
	return store.NewFileStore(cfg.DataPath)
}

func newAdminService(cfg *config.Config, s store.Store) *admin.Service {
	return admin.NewService(s, auth.NewAllowList(cfg.Admins), nil)
}

func currentActor() auth.Actor {
	id := actorFlag
	if id == "" {
		id = os.Getenv("USER")
	}
	if id == "" {
		id = "local"
	}
	return auth.Actor{ID: id, Name: id}
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
