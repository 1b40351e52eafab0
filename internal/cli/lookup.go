package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lvocabulary78-netizen/Stride/internal/query"
)

func init() {
	cmd := &cobra.Command{
		Use:   "lookup [terms]",
		Short: "Look up one or more terms",
		Long:  "Look up terms in the glossary. Separate multiple terms with commas.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runLookup,
	}

	RootCmd.AddCommand(cmd)
}

func runLookup(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	resolver := query.NewResolver(s)
	result, err := resolver.Resolve(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		exitErr("lookup", err)
	}

	if result.EmptyGlossary {
		fmt.Println("The glossary is empty.")
		return
	}

	b, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(b))
}
