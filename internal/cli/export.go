package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the glossary document",
		Long:  "Export the raw glossary document for backup. Writes to stdout unless --out is given.",
		Run:   runExport,
	}

	cmd.Flags().StringP("out", "o", "", "Output file (default: stdout)")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	out, _ := cmd.Flags().GetString("out")

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
	b, err := svc.ExportSnapshot(cmd.Context(), currentActor())
	if err != nil {
		exitErr("export", err)
	}

	if out == "" {
		os.Stdout.Write(b)
		return
	}
	if err := os.WriteFile(out, b, 0o644); err != nil {
		exitErr("export", err)
	}
	fmt.Printf("wrote %d bytes to %s\n", len(b), out)
}
