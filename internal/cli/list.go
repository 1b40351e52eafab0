package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all terms",
		Run:   runList,
	}

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	svc := newAdminService(cfg, s)
	terms, err := svc.ListTerms(cmd.Context(), currentActor())
	if err != nil {
		exitErr("list", err)
	}

	for _, term := range terms {
		fmt.Println(term)
	}
}
