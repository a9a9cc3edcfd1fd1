//go:build ignore

// Generates markdown and man pages for every hxblog command:
//
//	go run ./cmd/hxblog/doc_gen.go -out ./docs
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra/doc"

	"github.com/mithrel/hxblog/internal/cli"
)

func main() {
	out := flag.String("out", "./docs", "directory receiving markdown/ and man/")
	flag.Parse()

	root := cli.NewRootCmd()
	root.DisableAutoGenTag = true

	mdDir := filepath.Join(*out, "markdown")
	manDir := filepath.Join(*out, "man")
	for _, dir := range []string{mdDir, manDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("doc_gen: %v", err)
		}
	}

	if err := doc.GenMarkdownTree(root, mdDir); err != nil {
		log.Fatalf("doc_gen: markdown: %v", err)
	}
	header := &doc.GenManHeader{
		Title:   "HXBLOG",
		Section: "1",
		Source:  "hxblog",
		Manual:  "hxblog manual",
	}
	if err := doc.GenManTree(root, header, manDir); err != nil {
		log.Fatalf("doc_gen: man: %v", err)
	}
	log.Printf("docs written to %s", *out)
}
