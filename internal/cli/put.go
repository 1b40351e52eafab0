package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lvocabulary78-netizen/Stride/internal/model"
	"github.com/lvocabulary78-netizen/Stride/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "put [term]",
		Short: "Add or replace an entry directly",
		Long:  "Add or replace a glossary entry without the guided dialogue. Examples can be repeated flags or piped via stdin, one per line.",
		Args:  cobra.ExactArgs(1),
		Run:   runPut,
	}

	cmd.Flags().StringP("meaning", "m", "", "Meaning of the term (required)")
	cmd.Flags().StringArrayP("example", "e", nil, "Example sentence (repeatable)")

	cmd.MarkFlagRequired("meaning")

	RootCmd.AddCommand(cmd)
}

func runPut(cmd *cobra.Command, args []string) {
	meaning, _ := cmd.Flags().GetString("meaning")
	examples, _ := cmd.Flags().GetStringArray("example")

	if len(examples) == 0 {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			examples = model.SplitExamples(string(b))
		}
	}

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
	entry, err := svc.Upsert(cmd.Context(), currentActor(), store.UpsertParams{
		Term:     args[0],
		Meaning:  meaning,
		Examples: examples,
	})
	if err != nil {
		exitErr("put", err)
	}

	b, _ := json.MarshalIndent(entry, "", "  ")
	fmt.Println(string(b))
}
