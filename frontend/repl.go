// Package frontend is a line-oriented REPL over a Tree: insert, select,
// scan, and a couple of diagnostic dot-commands.
package frontend

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bptreedb/bptreedb/btree"
)

func printPrompt(w io.Writer) {
	fmt.Fprint(w, "db > ")
}

func readInput(reader *bufio.Reader) (string, error) {
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// Run drives the REPL loop, reading lines from in and writing prompts
// and results to out, until ".exit" or EOF.
func Run(tree *btree.Tree, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	for {
		printPrompt(out)
		line, err := readInput(reader)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if line == "" {
			continue
		}
		if line == ".exit" {
			return nil
		}

		var stmt Statement
		switch prepareStatement(line, &stmt) {
		case PrepareSyntaxError:
			fmt.Fprintln(out, syntaxErrorMessage(line))
			continue
		case PrepareUnrecognizedStatement:
			fmt.Fprintf(out, "unrecognized statement %q\n", line)
			continue
		}
		executeStatement(tree, stmt, out)
	}
}

func executeStatement(tree *btree.Tree, stmt Statement, out io.Writer) {
	switch stmt.Type {
	case StatementInsert:
		if err := tree.Insert(stmt.Key, stmt.Value); err != nil {
			if errors.Is(err, btree.ErrDuplicateKey) {
				fmt.Fprintf(out, "error: key %d already exists\n", stmt.Key)
				return
			}
			fmt.Fprintf(out, "error: %v\n", err)
			return
		}
		fmt.Fprintln(out, "Executed.")

	case StatementSelect:
		cur, err := tree.Find(stmt.Key)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return
		}
		k, err := cur.Key()
		if err != nil || k != stmt.Key {
			fmt.Fprintf(out, "(not found)\n")
			return
		}
		v, err := cur.GetValue()
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return
		}
		fmt.Fprintf(out, "%d -> %s\n", k, v)

	case StatementScan:
		cur, err := tree.Find(stmt.Key)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return
		}
		count := 0
		for !cur.EndOfTable {
			k, err := cur.Key()
			if err != nil {
				break
			}
			if k > stmt.RangeEnd {
				break
			}
			v, err := cur.GetValue()
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				return
			}
			fmt.Fprintf(out, "%d -> %s\n", k, v)
			count++
			if err := cur.Advance(); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				return
			}
		}
		fmt.Fprintf(out, "(%d rows)\n", count)

	case StatementValidate:
		if err := tree.Validate(); err != nil {
			fmt.Fprintf(out, "invalid: %v\n", err)
			return
		}
		fmt.Fprintln(out, "ok")

	case StatementDot:
		if err := tree.ExportDOT(stmt.Arg); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return
		}
		fmt.Fprintf(out, "wrote %s\n", stmt.Arg)
	}
}
