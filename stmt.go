package main

import (
	"github.com/danswartzendruber/avl"
	"strings"
)

//
// A set of wrapper routines to the AVL package.  Each block's jump
// table is an AVL tree of labelNodes keyed by label text, mapping a
// label to the position of the labeled statement within the block.
// Wrapping the AVL interface here keeps the parser and the execution
// engine free of tree plumbing
//

func newJumpTable() *jumpTable {
	return &jumpTable{}
}

func cmpLabelKey(key any, node any) int {
	return strings.Compare(key.(string), node.(*labelNode).label)
}

func cmpLabelNodes(node1, node2 any) int {
	return strings.Compare(node1.(*labelNode).label, node2.(*labelNode).label)
}

//
// Insert a label.  If the label is already bound within this block,
// the first binding wins and the new one is dropped
//

func labelTreeInsert(jt *jumpTable, label string, pos int) {
	node := &labelNode{label: label, pos: pos}

	avl.AvlTreeInsert(&jt.root, &node.avl, node, cmpLabelNodes)
}

func labelTreeLookup(jt *jumpTable, label string) (int, bool) {
	p := avl.AvlTreeLookup(jt.root, label, cmpLabelKey)
	if p != nil {
		return p.(*labelNode).pos, true
	}

	return 0, false
}

//
// In-order walk of the bound labels, used by the trace/dump paths and
// the tests
//

func labelTreeLabels(jt *jumpTable) []string {
	var labels []string

	p := avl.AvlTreeFirstInOrder(jt.root)
	for p != nil {
		node := p.(*labelNode)
		labels = append(labels, node.label)
		p = avl.AvlTreeNextInOrder(&node.avl)
	}

	return labels
}
