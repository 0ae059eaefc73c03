package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"harshagw/qanun/internal/app"
	"harshagw/qanun/internal/library"
	"harshagw/qanun/internal/search"
	"harshagw/qanun/internal/tree"

	"github.com/c-bata/go-prompt"
)

type REPL struct {
	lib      *library.Library
	searcher *search.Searcher
	limit    int
	extended bool
}

func main() {
	configPath := flag.String("config", "", "path to a YAML or JSON config file")
	flag.Parse()

	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	log := app.Logger(cfg)

	lib, err := app.Library(cfg, log, nil)
	if err != nil {
		fmt.Printf("Error opening library: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Qanun Legal Search REPL")
	fmt.Println()
	printHelp()
	fmt.Println()

	start := time.Now()
	searcher, err := lib.Searcher()
	if err != nil {
		fmt.Printf("Error building index: %v\n", err)
		os.Exit(1)
	}
	r := &REPL{lib: lib, searcher: searcher, limit: cfg.Search.Limit, extended: cfg.Search.Extended}
	fmt.Printf("Index ready from %s (%d articles, %s)\n\n",
		cfg.DataDir, searcher.Index().Len(), time.Since(start).Round(time.Millisecond))

	p := prompt.New(
		r.executor,
		r.completer,
		prompt.OptionPrefix("qanun >> "),
		prompt.OptionTitle("qanun"),
	)
	p.Run()
}

func printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  search [--source=K] [--extended] <query> - Fuzzy search over articles")
	fmt.Println("  suggest <prefix>                          - Complete an article number")
	fmt.Println("  similar <word>                            - Vocabulary terms close to word")
	fmt.Println("  number <n>                                - Every article numbered n")
	fmt.Println("  article <source> <book> <n>               - Show an article")
	fmt.Println("  expand <source> <book> <token>            - Show the node a path token points at")
	fmt.Println("  books <source>                            - List books of a source")
	fmt.Println("  sources                                   - List sources")
	fmt.Println("  stats                                     - Index statistics")
	fmt.Println("  help                                      - Show this help")
	fmt.Println("  quit                                      - Exit")
}

var commands = []prompt.Suggest{
	{Text: "search", Description: "Fuzzy search over articles"},
	{Text: "suggest", Description: "Complete an article number"},
	{Text: "similar", Description: "Vocabulary terms close to a word"},
	{Text: "number", Description: "Every article with a number"},
	{Text: "article", Description: "Show an article"},
	{Text: "expand", Description: "Resolve a path token"},
	{Text: "books", Description: "List books of a source"},
	{Text: "sources", Description: "List sources"},
	{Text: "stats", Description: "Index statistics"},
	{Text: "help", Description: "Show help"},
	{Text: "quit", Description: "Exit"},
}

func (r *REPL) completer(d prompt.Document) []prompt.Suggest {
	args := strings.Fields(d.TextBeforeCursor())
	if len(args) == 0 || (len(args) == 1 && !strings.HasSuffix(d.TextBeforeCursor(), " ")) {
		return prompt.FilterHasPrefix(commands, d.GetWordBeforeCursor(), true)
	}
	switch args[0] {
	case "books", "article", "expand":
		if len(args) == 1 || (len(args) == 2 && !strings.HasSuffix(d.TextBeforeCursor(), " ")) {
			var s []prompt.Suggest
			for _, src := range r.lib.Registry().List() {
				s = append(s, prompt.Suggest{Text: src.Key, Description: src.Label})
			}
			return prompt.FilterHasPrefix(s, d.GetWordBeforeCursor(), true)
		}
	}
	return nil
}

func (r *REPL) executor(input string) {
	input = strings.TrimSpace(input)
	if input == "" {
		return
	}

	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case "search":
		r.cmdSearch(parts[1:])
	case "suggest":
		r.cmdSuggest(parts[1:])
	case "similar":
		r.cmdSimilar(parts[1:])
	case "number":
		r.cmdNumber(parts[1:])
	case "article":
		r.cmdArticle(parts[1:])
	case "expand":
		r.cmdExpand(parts[1:])
	case "books":
		r.cmdBooks(parts[1:])
	case "sources":
		r.cmdSources()
	case "stats":
		r.cmdStats()
	case "help":
		printHelp()
	case "quit", "exit":
		fmt.Println("Goodbye!")
		r.lib.Close()
		os.Exit(0)
	default:
		fmt.Printf("Unknown command: %s\n", cmd)
	}
}

func (r *REPL) cmdSearch(args []string) {
	req := search.Request{Limit: r.limit, Extended: r.extended}
	for len(args) > 0 && strings.HasPrefix(args[0], "--") {
		if key, ok := strings.CutPrefix(args[0], "--source="); ok {
			if !r.lib.Registry().Valid(key) {
				fmt.Printf("Unknown source: %s\n", key)
				return
			}
			req.Source = key
		} else if args[0] == "--extended" {
			req.Extended = true
		} else {
			fmt.Printf("Unknown flag: %s\n", args[0])
			return
		}
		args = args[1:]
	}
	if len(args) < 1 {
		fmt.Println("Usage: search [--source=<key>] [--extended] <query>")
		return
	}
	req.Query = strings.Join(args, " ")

	resp, err := r.searcher.Run(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if resp.TooShort {
		fmt.Printf("Query too short, type at least %d characters\n", search.MinQueryLength)
		return
	}

	if len(resp.Results) == 0 {
		fmt.Printf("No results for %q\n", req.Query)
		if words, err := r.searcher.DidYouMean(req.Query, 3); err == nil && len(words) > 0 {
			fmt.Printf("Did you mean: %s\n", strings.Join(words, ", "))
		}
		return
	}
	fmt.Printf("Found %d results for %q in %s:\n", len(resp.Results), req.Query, resp.Took.Round(time.Microsecond))
	for _, res := range resp.Results {
		label := r.lib.Registry().ArticleTerm(res.SourceKey) + " " + res.ArticleNumber
		fmt.Printf("  %s/%s %s (%.4f)\n", res.SourceKey, res.BookID, label, res.Score)
		if path := search.FormatLegalPath(res); path != "" {
			fmt.Printf("    %s\n", path)
		}
		fmt.Printf("    %s\n", oneLine(res.Snippet))
	}
}

func (r *REPL) cmdSuggest(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: suggest <prefix>")
		return
	}
	suggestions, err := r.searcher.Suggest(strings.Join(args, " "), r.limit)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(suggestions) == 0 {
		fmt.Println("No suggestions")
		return
	}
	for _, s := range suggestions {
		fmt.Printf("  %s  (%s/%s)\n", s.Label, s.SourceKey, s.BookID)
	}
}

func (r *REPL) cmdSimilar(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: similar <word>")
		return
	}
	words, err := r.searcher.DidYouMean(args[0], 0)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(words) == 0 {
		fmt.Printf("No terms close to %s\n", args[0])
		return
	}
	fmt.Printf("Terms close to %s: %s\n", args[0], strings.Join(words, ", "))
}

func (r *REPL) cmdNumber(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: number <n>")
		return
	}
	results, err := r.searcher.ByIdentifier(args[0])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(results) == 0 {
		fmt.Printf("No article numbered %s\n", args[0])
		return
	}
	for _, res := range results {
		fmt.Printf("  %s\n", library.ArticleLink(res.SourceKey, res.BookID, res.ArticleNumber))
		fmt.Printf("    %s\n", oneLine(search.Snippet(res.Content, 0, 0)))
	}
}

func (r *REPL) cmdArticle(args []string) {
	if len(args) < 3 {
		fmt.Println("Usage: article <source> <book> <n>")
		return
	}
	view, ok, err := r.lib.Article(args[0], args[1], args[2])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if !ok {
		fmt.Println("Article not found")
		return
	}

	fmt.Printf("%s - %s\n", view.Source.Label, view.Label)
	for _, c := range view.Breadcrumbs {
		fmt.Printf("  > %s\n", c.Label)
	}
	fmt.Println()
	fmt.Println(view.Content)
	fmt.Println()
	if view.Prev != nil {
		fmt.Printf("prev: %s\n", view.Prev.Link)
	}
	if view.Next != nil {
		fmt.Printf("next: %s\n", view.Next.Link)
	}
	fmt.Printf("expand: %s\n", view.ExpandLink)
}

func (r *REPL) cmdExpand(args []string) {
	if len(args) < 3 {
		fmt.Println("Usage: expand <source> <book> <token>")
		return
	}
	node, ok, err := r.lib.Expand(args[0], args[1], args[2])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if !ok {
		fmt.Println("Nothing at that path")
		return
	}

	fmt.Printf("Path %v: %s\n", tree.DecodePath(args[2]), node.Label(r.lib.Registry().ArticleTerm(args[0])))
	for _, c := range node.ChildCollections() {
		fmt.Printf("  %s (%d)\n", c.Kind, len(c.Children))
	}
	if node.IsLeaf() {
		data, _ := json.MarshalIndent(node.Paragraphs, "", "  ")
		fmt.Println(string(data))
	}
}

func (r *REPL) cmdBooks(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: books <source>")
		return
	}
	books, err := r.lib.Books(args[0])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(books) == 0 {
		fmt.Printf("No books for %s\n", args[0])
		return
	}
	fmt.Printf("%d books:\n", len(books))
	for _, b := range books {
		fmt.Printf("  %s: %s %s  %s\n", b.ID, b.Name, b.Title, b.Link)
	}
}

func (r *REPL) cmdSources() {
	for _, src := range r.lib.Registry().List() {
		fmt.Printf("  %s: %s (%s)\n", src.Key, src.Label, src.ArticleTerm)
	}
}

func (r *REPL) cmdStats() {
	idx := r.searcher.Index()
	fmt.Printf("Articles:   %d\n", idx.Len())
	fmt.Printf("Vocabulary: %d terms\n", idx.Vocabulary())
	for _, src := range r.lib.Registry().List() {
		docs, err := idx.Partition(src.Key)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("  %s: %s articles\n", src.Key, strconv.FormatUint(docs.GetCardinality(), 10))
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
