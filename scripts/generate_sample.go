// Command generate_sample fills a store with sample posts for trying the
// list and preview views against a realistic amount of data.
//
//	go run ./scripts -db ./sample.db -n 50
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	mrand "math/rand"
	"strings"

	"github.com/mithrel/hxblog/internal/db"
	"github.com/mithrel/hxblog/pkg/api"
)

var topics = []string{"Go", "SQLite", "htmx", "Markdown", "HTTP/3", "Caching", "Testing", "Deploys"}

func main() {
	dbURL := flag.String("db", "./sample.db", "store URL (sqlite path, postgres://..., mem://)")
	total := flag.Int("n", 50, "number of posts to create")
	flag.Parse()

	ctx := context.Background()
	store, err := db.Open(ctx, *dbURL)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	// Deterministic seed for reproducible output
	mr := mrand.New(mrand.NewSource(42))

	err = db.WithHandle(ctx, store, func(h db.Handle) error {
		for i := 0; i < *total; i++ {
			topic := topics[mr.Intn(len(topics))]
			d := api.Draft{
				Title: fmt.Sprintf("Notes on %s #%03d", topic, i+1),
				Body:  sampleBody(mr, topic),
			}
			if _, err := h.Create(ctx, d); err != nil {
				return err
			}
		}
		n, err := h.Count(ctx)
		if err != nil {
			return err
		}
		log.Printf("store now holds %d posts", n)
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}
}

func sampleBody(mr *mrand.Rand, topic string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s in practice\n\n", topic)
	for p := 0; p < 1+mr.Intn(3); p++ {
		fmt.Fprintf(&b, "Paragraph %d about **%s** with some `inline code` and a > quote marker.\n\n", p+1, topic)
	}
	if mr.Float64() < 0.5 {
		b.WriteString("```go\nfmt.Println(\"hello\")\n```\n\n")
	}
	if mr.Float64() < 0.3 {
		b.WriteString("| key | value |\n|-----|-------|\n| a   | 1     |\n")
	}
	return b.String()
}
