package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lvocabulary78-netizen/Stride/internal/admin"
	"github.com/lvocabulary78-netizen/Stride/internal/auth"
	"github.com/lvocabulary78-netizen/Stride/internal/dialogue"
	"github.com/lvocabulary78-netizen/Stride/internal/logging"
	"github.com/lvocabulary78-netizen/Stride/internal/query"
)

func init() {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the glossary interactively",
		Long: "An interactive terminal front for the glossary. Type a word to look it up; " +
			"admins can use /add, /delete, /list, /stats and /backup. " +
			`Use \n inside a message to separate example sentences.`,
		Run: runChat,
	}

	RootCmd.AddCommand(cmd)
}

// chatSession is the terminal transport: it owns routing between the
// dialogue engine and the query resolver, and renders replies.
type chatSession struct {
	actor    auth.Actor
	engine   *dialogue.Engine
	resolver *query.Resolver
	admin    *admin.Service

	// pending holds the choices from the last KindChoices reply; while
	// set, the next input picks one of them.
	pending []dialogue.Choice
}

func runChat(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	admins := auth.NewAllowList(cfg.Admins)
	logger := logging.New(logging.ParseLevel(cfg.LogLevel))

	cs := &chatSession{
		actor:    currentActor(),
		engine:   dialogue.NewEngine(s, admins, logger),
		resolver: query.NewResolver(s),
		admin:    admin.NewService(s, admins, logger),
	}

	fmt.Println(cs.admin.Welcome(cs.actor))
	fmt.Println("\nType /quit to leave.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "/quit" || line == "/exit" {
			return
		}
		cs.step(cmd, line)
	}
}

func (cs *chatSession) step(cmd *cobra.Command, line string) {
	ctx := cmd.Context()

	// A pending choice consumes the next input, except for commands.
	if cs.pending != nil && !strings.HasPrefix(line, "/") {
		data, ok := cs.pickChoice(line)
		if !ok {
			fmt.Println("Pick one of the options by number.")
			return
		}
		cs.pending = nil
		reply, err := cs.engine.HandleChoice(ctx, cs.actor, data)
		cs.render(reply, err)
		return
	}
	cs.pending = nil

	switch c, arg := cutCommand(line); c {
	case "/start", "/help":
		fmt.Println(cs.admin.Welcome(cs.actor))
		return
	case "/add":
		reply, err := cs.engine.Start(ctx, cs.actor)
		cs.render(reply, err)
		return
	case "/cancel":
		reply, err := cs.engine.Cancel(ctx, cs.actor)
		cs.render(reply, err)
		return
	case "/delete":
		if arg == "" {
			fmt.Println("Usage: /delete <term>")
			return
		}
		removed, err := cs.admin.Delete(ctx, cs.actor, arg)
		if err != nil {
			cs.render(nil, err)
			return
		}
		if removed {
			fmt.Printf("Deleted %q.\n", arg)
		} else {
			fmt.Printf("%q is not in the glossary.\n", arg)
		}
		return
	case "/list":
		terms, err := cs.admin.ListTerms(ctx, cs.actor)
		if err != nil {
			cs.render(nil, err)
			return
		}
		if len(terms) == 0 {
			fmt.Println("The glossary is empty.")
			return
		}
		for _, t := range terms {
			fmt.Println("  " + t)
		}
		return
	case "/stats":
		st, err := cs.admin.Stats(ctx, cs.actor)
		if err != nil {
			cs.render(nil, err)
			return
		}
		fmt.Printf("Terms: %d\nExamples: %d\nAvg examples per term: %.1f\n",
			st.Count, st.TotalExamples, st.AvgExamplesPerTerm)
		return
	case "/backup":
		b, err := cs.admin.ExportSnapshot(ctx, cs.actor)
		if err != nil {
			cs.render(nil, err)
			return
		}
		out := arg
		if out == "" {
			out = "glossary-backup.json"
		}
		if err := os.WriteFile(out, b, 0o644); err != nil {
			fmt.Printf("backup failed: %v\n", err)
			return
		}
		fmt.Printf("Backup written to %s (%d bytes).\n", out, len(b))
		return
	}

	// The messenger convention: multi-line messages arrive as one text.
	text := strings.ReplaceAll(line, `\n`, "\n")

	if cs.engine.HasOpenSession(cs.actor.ID) {
		reply, err := cs.engine.HandleMessage(ctx, cs.actor, text)
		cs.render(reply, err)
		return
	}

	result, err := cs.resolver.Resolve(ctx, text)
	if err != nil {
		cs.render(nil, err)
		return
	}
	cs.renderResult(result)
}

func (cs *chatSession) pickChoice(line string) (string, bool) {
	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(cs.pending) {
		return cs.pending[n-1].Data, true
	}
	for _, c := range cs.pending {
		if strings.EqualFold(line, c.Data) || strings.EqualFold(line, c.Label) {
			return c.Data, true
		}
	}
	return "", false
}

func (cs *chatSession) render(reply *dialogue.Reply, err error) {
	if err != nil {
		if errors.Is(err, auth.ErrPermissionDenied) {
			fmt.Println("This operation is only available to admins.")
			return
		}
		fmt.Printf("error: %v\n", err)
		return
	}
	if reply == nil {
		return
	}

	fmt.Println(reply.Text)
	if reply.Kind == dialogue.KindChoices {
		for i, c := range reply.Choices {
			fmt.Printf("  %d. %s\n", i+1, c.Label)
		}
		cs.pending = reply.Choices
	}
}

func (cs *chatSession) renderResult(result *query.Result) {
	if result.EmptyGlossary {
		fmt.Println("The glossary is empty. Ask an admin to add some words!")
		return
	}
	for _, entry := range result.Matches {
		fmt.Printf("\n%s\n  %s\n", entry.Term, entry.Meaning)
		for _, ex := range entry.Examples {
			fmt.Println("    - " + ex)
		}
	}
	if len(result.Unmatched) > 0 {
		fmt.Printf("\nNot found: %s\n", strings.Join(result.Unmatched, ", "))
	}
}

func cutCommand(line string) (cmd, arg string) {
	if !strings.HasPrefix(line, "/") {
		return "", line
	}
	cmd, arg, _ = strings.Cut(line, " ")
	return cmd, strings.TrimSpace(arg)
}
