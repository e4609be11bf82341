package btree

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/bptreedb/bptreedb/pager"
)

// ExportDOT writes a Graphviz description of the tree to filename, with
// one HTML-table node per page: leaves show their packed cells and
// next_leaf pointer, internal nodes show their routing keys and
// children, and a dashed rank links the leaf chain left to right.
func (t *Tree) ExportDOT(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return t.writeDOT(f)
}

// Print renders the tree to a PNG under dir/name.png via the "dot"
// binary, writing the intermediate .dot file alongside it. Returns an
// error wrapping any failure from Graphviz itself (e.g. "dot" missing
// from PATH); the .dot file is kept either way for inspection.
func (t *Tree) Print(dir, name string) error {
	dotPath := fmt.Sprintf("%s/%s.dot", dir, name)
	pngPath := fmt.Sprintf("%s/%s.png", dir, name)

	if err := t.ExportDOT(dotPath); err != nil {
		return fmt.Errorf("dot export: %w", err)
	}

	cmd := exec.Command("dot", "-Tpng", dotPath, "-o", pngPath)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("graphviz render (is 'dot' installed?): %w", err)
	}
	return nil
}

func (t *Tree) writeDOT(f io.Writer) error {
	fmt.Fprintln(f, "digraph BTree {")
	fmt.Fprintln(f, "  graph [ranksep=0.8, nodesep=0.5, bgcolor=\"#ffffff\", rankdir=TB];")
	fmt.Fprintln(f, "  node [shape=none, fontname=\"Helvetica\", fontsize=10];")
	fmt.Fprintln(f, "  edge [arrowsize=0.8, color=\"#444444\"];")

	nodeNames := make(map[uint32]string)
	var leafIDs []uint32
	counter := 0
	var exportErr error

	var exportRec func(id uint32) string
	exportRec = func(id uint32) string {
		if name, ok := nodeNames[id]; ok {
			return name
		}
		name := fmt.Sprintf("node%d", counter)
		counter++
		nodeNames[id] = name

		p, err := t.readPage(id)
		if err != nil {
			exportErr = err
			return name
		}

		if isLeaf(p) {
			n := leafNumCells(p)
			used := leafUsedBytes(p, n)
			pct := 100 * float64(used) / float64(pager.PageSize-leafHeaderSize)

			label := fmt.Sprintf(`<<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0" CELLPADDING="4">
<TR><TD COLSPAN="2" BGCOLOR="#D5E8D4"><B>PAGE %d (LEAF)</B><BR/><FONT POINT-SIZE="8">Fill: %.1f%%</FONT></TD></TR>
<TR><TD PORT="keys" BGCOLOR="#F5F5F5" ALIGN="LEFT">`, id, pct)
			for i := 0; i < n; i++ {
				k := LeafCellKey(p, i)
				v := LeafCellValue(p, i)
				preview := ""
				if len(v) > 0 {
					s := string(v)
					if len(s) > 6 {
						s = s[:6] + ".."
					}
					preview = fmt.Sprintf(" <FONT COLOR='#666666'>[%s]</FONT>", s)
				}
				label += fmt.Sprintf("<B>%d</B>%s<BR/>", k, preview)
			}
			next := leafNextLeaf(p)
			nextLabel := "NULL"
			if next != 0 {
				nextLabel = fmt.Sprintf("%d", next)
			}
			label += fmt.Sprintf(`</TD><TD PORT="next" BGCOLOR="#E1F5FE" VALIGN="MIDDLE">Next: %s</TD></TR></TABLE>>`, nextLabel)
			fmt.Fprintf(f, "  %s [label=%s];\n", name, label)
			leafIDs = append(leafIDs, id)
			return name
		}

		n := internalNumKeys(p)
		label := fmt.Sprintf(`<<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0" CELLPADDING="4">
<TR><TD COLSPAN="%d" BGCOLOR="#DAE8FC"><B>PAGE %d (INTERNAL)</B></TD></TR><TR>`, n*2+1, id)
		for i := 0; i < n; i++ {
			child := InternalCellChild(p, i)
			key := InternalCellKey(p, i)
			label += fmt.Sprintf(`<TD PORT="f%d" BGCOLOR="#E1F5FE">P:%d</TD><TD BGCOLOR="#FFFFFF"><B>%d</B></TD>`, i, child, key)
		}
		rc := internalRightChild(p)
		label += fmt.Sprintf(`<TD PORT="f%d" BGCOLOR="#E1F5FE">P:%d</TD></TR></TABLE>>`, n, rc)
		fmt.Fprintf(f, "  %s [label=%s];\n", name, label)

		for i := 0; i < n; i++ {
			childName := exportRec(InternalCellChild(p, i))
			fmt.Fprintf(f, "  %s:f%d -> %s;\n", name, i, childName)
		}
		childName := exportRec(rc)
		fmt.Fprintf(f, "  %s:f%d -> %s;\n", name, n, childName)
		return name
	}

	exportRec(RootPage)
	if exportErr != nil {
		return exportErr
	}

	if len(leafIDs) > 1 {
		fmt.Fprintln(f, "  { rank=same;")
		for _, id := range leafIDs {
			fmt.Fprintf(f, "    %s;\n", nodeNames[id])
		}
		fmt.Fprintln(f, "  }")
		for _, id := range leafIDs {
			p, err := t.readPage(id)
			if err != nil {
				return err
			}
			next := leafNextLeaf(p)
			if next != 0 {
				if target, ok := nodeNames[next]; ok {
					fmt.Fprintf(f, "  %s:next -> %s [style=dashed, color=\"#03A9F4\", constraint=false];\n", nodeNames[id], target)
				}
			}
		}
	}

	fmt.Fprintln(f, "}")
	return nil
}
