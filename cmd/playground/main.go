// Playground for trying queries against a small sample library.
//
// Run with: go run ./cmd/playground
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"harshagw/qanun/internal/app"
	"harshagw/qanun/internal/config"
	"harshagw/qanun/internal/search"
)

var sampleBooks = map[string]string{
	"cpp/book_1st.json": `{
  "name": "الكتاب الأول",
  "title": "التحري عن الجرائم ومعاينتها",
  "chapters": [
    {"name": "القسم الأول", "title": "الشرطة القضائية", "articles": [
      {"number": "16", "paragraphs": ["يمارس مهام الشرطة القضائية القضاة والضباط والموظفون والأعوان المبينون في هذا القسم."]},
      {"number": "17", "paragraphs": ["يسير وكيل الملك أعمال الشرطة القضائية في دائرة نفوذه."]},
      {"number": "66", "paragraphs": ["إذا تطلبت ضرورة البحث أن يحتفظ ضابط الشرطة القضائية بشخص أو عدة أشخاص فله أن يضعهم تحت الحراسة النظرية."]}
    ]}
  ]
}`,
	"dp/code_book_3.json": `{
  "name": "الكتاب الثالث",
  "title": "الجرائم وعقوباتها",
  "chapters": [
    {"name": "الباب التاسع", "title": "الجنايات والجنح ضد الأموال", "articles": [
      {"number": "505", "paragraphs": ["من اختلس عمدا مالا مملوكا للغير يعد سارقا ويعاقب بالحبس من سنة إلى خمس سنوات."]},
      {"number": "540", "paragraphs": ["يعد مرتكبا لجريمة النصب من استعمل الاحتيال ليوقع شخصا في الغلط."]}
    ]}
  ]
}`,
}

func runQueries(s *search.Searcher, queries []string) {
	for _, q := range queries {
		fmt.Printf("Query: %s\n", q)
		fmt.Println(strings.Repeat("-", 60))

		resp, err := s.Run(search.Request{Query: q})
		if err != nil {
			fmt.Printf("  Error: %v\n\n", err)
			continue
		}

		switch {
		case resp.TooShort:
			fmt.Println("  Query too short")
		case len(resp.Results) == 0:
			fmt.Println("  No results found")
		default:
			for i, r := range resp.Results {
				fmt.Printf("  %d. %s/%s #%s (score: %.4f)\n", i+1, r.SourceKey, r.BookID, r.ArticleNumber, r.Score)
				fmt.Printf("     %s\n", search.Highlight(r.Snippet, q))
			}
		}
		fmt.Println()
	}
}

func main() {
	// Create a temporary data directory for the sample books
	dir, err := os.MkdirTemp("", "qanun-playground-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	for name, body := range sampleBooks {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			log.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			log.Fatal(err)
		}
	}

	fmt.Println("=== Qanun Playground ===")
	fmt.Printf("Data directory: %s\n\n", dir)

	cfg := config.Default()
	cfg.DataDir = dir
	lib, err := app.Library(cfg, zerolog.Nop(), nil)
	if err != nil {
		log.Fatal(err)
	}
	defer lib.Close()

	searcher, err := lib.Searcher()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Indexed %d articles\n\n", searcher.Index().Len())

	runQueries(searcher, []string{
		"الشرطة القضائية",
		"الحراسه النظرية",
		"505",
		"النصب",
		"ا",
	})
}
