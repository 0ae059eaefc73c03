package main

import (
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"harshagw/qanun/internal/app"
	"harshagw/qanun/internal/extract"
	"harshagw/qanun/internal/library"
	"harshagw/qanun/internal/search"
	"harshagw/qanun/internal/tree"

	"github.com/rs/zerolog"
)

// Check is one property verified over every book.
type Check struct {
	Name string
	Run  func(b Book) []string // failure messages
}

// Book is a loaded tree with its identity.
type Book struct {
	Source string
	ID     string
	Root   *tree.Node
}

func main() {
	configPath := flag.String("config", "", "path to a YAML or JSON config file")
	flag.Parse()

	fmt.Println("Corpus Verification")
	fmt.Println("===================")
	fmt.Println()

	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg.SnapshotDir = ""

	lib, err := app.Library(cfg, zerolog.Nop(), nil)
	if err != nil {
		fmt.Printf("Error opening library: %v\n", err)
		os.Exit(1)
	}
	defer lib.Close()

	books, err := loadBooks(lib)
	if err != nil {
		fmt.Printf("Error loading books: %v\n", err)
		os.Exit(1)
	}
	searcher, err := lib.Searcher()
	if err != nil {
		fmt.Printf("Error building index: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Loaded %d books, %d articles from %s\n", len(books), searcher.Index().Len(), cfg.DataDir)

	passed := 0
	failed := 0
	for _, check := range getChecks(searcher) {
		fmt.Printf("\n%s\n", check.Name)
		fmt.Println(strings.Repeat("-", len(check.Name)))

		for _, b := range books {
			failures := check.Run(b)
			if len(failures) == 0 {
				fmt.Printf("  ✓ %s/%s\n", b.Source, b.ID)
				passed++
				continue
			}
			fmt.Printf("  ✗ %s/%s\n", b.Source, b.ID)
			for i, f := range failures {
				if i == 5 {
					fmt.Printf("    ... and %d more\n", len(failures)-5)
					break
				}
				fmt.Printf("    %s\n", f)
			}
			failed++
		}
	}

	// Summary
	fmt.Println()
	fmt.Println("========================================")
	fmt.Printf("Results: %d passed, %d failed, %d total\n", passed, failed, passed+failed)

	if failed > 0 {
		os.Exit(1)
	}
	fmt.Println("\nAll checks passed!")
}

func loadBooks(lib *library.Library) ([]Book, error) {
	var books []Book
	for _, src := range lib.Registry().List() {
		infos, err := lib.Books(src.Key)
		if err != nil {
			return nil, err
		}
		for _, info := range infos {
			root, ok, err := lib.Expand(src.Key, info.ID, "")
			if err != nil {
				return nil, err
			}
			if ok {
				books = append(books, Book{Source: src.Key, ID: info.ID, Root: root})
			}
		}
	}
	return books, nil
}

func getChecks(s *search.Searcher) []Check {
	return []Check{
		{Name: "Every numbered node is collected", Run: checkLeaves},
		{Name: "Paths round-trip to their leaf", Run: checkPaths},
		{Name: "Identifier lookup finds each leaf", Run: checkLookup},
		{Name: "Extraction yields one record per leaf", Run: checkExtract},
		{Name: "Indexed identifiers point back at the book", Run: func(b Book) []string {
			return checkIndexed(s, b)
		}},
	}
}

func checkLeaves(b Book) []string {
	var count func(n *tree.Node) int
	count = func(n *tree.Node) int {
		c := 0
		if n.Number != "" {
			c++
		}
		for _, child := range n.Children() {
			c += count(child)
		}
		return c
	}
	numbered := count(b.Root)
	if leaves := len(tree.CollectLeavesInOrder(b.Root)); leaves != numbered {
		return []string{fmt.Sprintf("%d leaves collected, %d numbered nodes", leaves, numbered)}
	}
	return nil
}

func checkPaths(b Book) []string {
	var failures []string
	for _, leaf := range tree.CollectLeavesInOrder(b.Root) {
		path, ok := tree.PathTo(b.Root, leaf)
		if !ok {
			failures = append(failures, fmt.Sprintf("%s: unreachable", leaf.Number))
			continue
		}
		token := tree.EncodePath(path)
		if got := tree.ResolveByPath(b.Root, tree.DecodePath(token)); got != leaf {
			failures = append(failures, fmt.Sprintf("%s: token %q resolves elsewhere", leaf.Number, token))
		}
	}
	return failures
}

func checkLookup(b Book) []string {
	var failures []string
	seen := map[string]bool{}
	for _, leaf := range tree.CollectLeavesInOrder(b.Root) {
		m, ok := tree.FindByIdentifier(b.Root, leaf.Number)
		switch {
		case !ok:
			failures = append(failures, fmt.Sprintf("%s: not found", leaf.Number))
		case m.Node != leaf && !seen[leaf.Number]:
			failures = append(failures, fmt.Sprintf("%s: found a different node", leaf.Number))
		case tree.ResolveByPath(b.Root, m.Path) != m.Node:
			failures = append(failures, fmt.Sprintf("%s: match path %v is stale", leaf.Number, m.Path))
		}
		seen[leaf.Number] = true
	}
	return failures
}

func checkExtract(b Book) []string {
	records := extract.Extract(b.Root, extract.Book{SourceKey: b.Source, ID: b.ID})
	leaves := tree.CollectLeavesInOrder(b.Root)
	if len(records) != len(leaves) {
		return []string{fmt.Sprintf("%d records for %d leaves", len(records), len(leaves))}
	}
	var failures []string
	for i, rec := range records {
		if rec.ArticleNumber != leaves[i].Number {
			failures = append(failures, fmt.Sprintf("record %d: number %q, leaf %q", i, rec.ArticleNumber, leaves[i].Number))
		}
	}
	return failures
}

func checkIndexed(s *search.Searcher, b Book) []string {
	var failures []string
	for _, leaf := range tree.CollectLeavesInOrder(b.Root) {
		results, err := s.ByIdentifier(leaf.Number)
		if err != nil {
			return []string{err.Error()}
		}
		found := slices.ContainsFunc(results, func(r search.Result) bool {
			return r.SourceKey == b.Source && r.BookID == b.ID
		})
		if !found {
			failures = append(failures, fmt.Sprintf("%s: not indexed", leaf.Number))
		}
	}
	return failures
}
