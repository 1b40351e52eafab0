package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lvocabulary78-netizen/Stride/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm [term]",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		Run:   runRm,
	}

	RootCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
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
	removed, err := svc.Delete(cmd.Context(), currentActor(), args[0])
	if err != nil {
		exitErr("rm", err)
	}

	term := model.Normalize(args[0])
	if !removed {
		fmt.Printf("%q is not in the glossary\n", term)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), `{"deleted":true,"term":%q}`+"\n", term)
}
