// Command btreedb opens a B+ tree-backed key/value file and drives an
// interactive REPL over it.
package main

import (
	"log"
	"os"

	"github.com/bptreedb/bptreedb/btree"
	"github.com/bptreedb/bptreedb/frontend"
	"github.com/bptreedb/bptreedb/pager"
)

func main() {
	path := "btree.db"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	pg, err := pager.Open(path, 0)
	if err != nil {
		log.Fatalf("open pager: %v", err)
	}
	defer pg.Close()

	tree, err := btree.Open(pg)
	if err != nil {
		log.Fatalf("open tree: %v", err)
	}
	defer tree.Close()

	if err := frontend.Run(tree, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("repl: %v", err)
	}
}
