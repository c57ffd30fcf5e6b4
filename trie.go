// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package metacore

// trieNode is one character-labeled node of the Dictionary's lazily-built
// spell-correction trie (spec.md S3.7/S4.4). wordCount is non-zero exactly
// for nodes that terminate a distinct word currently in the hash table.
type trieNode struct {
	children  map[rune]*trieNode
	wordCount int
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[rune]*trieNode)}
}

// Trie is the root of the Dictionary's word trie.
type Trie struct {
	root *trieNode
}

// NewTrie creates an empty trie.
func NewTrie() *Trie { return &Trie{root: newTrieNode()} }

// Insert adds one occurrence of word, creating nodes as needed (spec.md
// S4.4: "its (word, terminal-count) multiset equals the bag of hash-table
// keys").
func (t *Trie) Insert(word string) {
	n := t.root
	for _, r := range word {
		child, ok := n.children[r]
		if !ok {
			child = newTrieNode()
			n.children[r] = child
		}
		n = child
	}
	n.wordCount++
}

// Remove drops one occurrence of word, pruning now-empty leaf nodes.
func (t *Trie) Remove(word string) {
	path := make([]*trieNode, 0, len(word)+1)
	path = append(path, t.root)
	n := t.root
	for _, r := range word {
		child, ok := n.children[r]
		if !ok {
			return
		}
		path = append(path, child)
		n = child
	}
	if n.wordCount == 0 {
		return
	}
	n.wordCount--

	for i := len(path) - 1; i > 0; i-- {
		node := path[i]
		if node.wordCount > 0 || len(node.children) > 0 {
			break
		}
		parent := path[i-1]
		r := []rune(word)[i-1]
		delete(parent.children, r)
	}
}

// editOp labels the edit that produced a search state, for the
// transposition and insertion/deletion-adjacency rules of spec.md S4.4.
type editOp int

const (
	opNone editOp = iota
	opNoChange
	opInsert
	opDelete
	opReplace
	opTranspose
)

// trieState is one node of the explicit depth-first search stack spec.md
// S4.4 describes: the built edit string, the trie position, the input
// position, the accumulated cost, the replacement count, and the
// previous edit (to enforce adjacency rules).
type trieState struct {
	built   []rune
	node    *trieNode
	inPos   int
	cost    int
	repls   int
	prevOp  editOp
	prevCh  rune
}

// Correction is one accepted spell-correction candidate.
type Correction struct {
	Word         string
	Distance     int
	Replacements int
}

// foldRune applies cmp's case/width folding, if any, for comparing a trie edge
// character against an input character.
func foldRune(cmp Comparator, r rune) rune {
	if cmp == nil {
		return r
	}
	return cmp.FoldRune(r)
}

// Correct runs the explicit DFS spell-correction search of spec.md S4.4
// over t, bounding total edit distance to maxDist and de-duplicating
// accepted words by keeping the (lowest distance, lowest replacement
// count) candidate.
func (t *Trie) Correct(input string, maxDist int, cmp Comparator) []Correction {
	runes := []rune(input)
	best := make(map[string]Correction)

	var stack []trieState
	stack = append(stack, trieState{node: t.root})

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if s.cost > maxDist {
			continue
		}

		if s.inPos >= len(runes) && s.node.wordCount > 0 {
			word := string(s.built)
			if cand, ok := best[word]; !ok || s.cost < cand.Distance ||
				(s.cost == cand.Distance && s.repls < cand.Replacements) {
				best[word] = Correction{Word: word, Distance: s.cost, Replacements: s.repls}
			}
		}

		// No-change: follow the matching trie edge, if any.
		if s.inPos < len(runes) {
			want := foldRune(cmp, runes[s.inPos])
			for edge, child := range s.node.children {
				if foldRune(cmp, edge) == want {
					ns := s
					ns.built = append(append([]rune(nil), s.built...), edge)
					ns.node = child
					ns.inPos++
					ns.prevOp = opNoChange
					ns.prevCh = edge
					stack = append(stack, ns)
				}
			}
		}

		if s.cost >= maxDist {
			continue
		}

		// Insertion: consume an extra input character without advancing
		// the trie. Disallowed immediately after a deletion.
		if s.inPos < len(runes) && s.prevOp != opDelete {
			ns := s
			ns.inPos++
			ns.cost++
			ns.prevOp = opInsert
			stack = append(stack, ns)
		}

		// Deletion: advance the trie without consuming input. Disallowed
		// immediately after an insertion.
		if s.prevOp != opInsert {
			for edge, child := range s.node.children {
				ns := s
				ns.built = append(append([]rune(nil), s.built...), edge)
				ns.node = child
				ns.cost++
				ns.prevOp = opDelete
				stack = append(stack, ns)
			}
		}

		// Replacement, and the transposition that can follow it.
		if s.inPos < len(runes) {
			for edge, child := range s.node.children {
				if foldRune(cmp, edge) == foldRune(cmp, runes[s.inPos]) {
					continue // already covered by no-change
				}
				ns := s
				ns.built = append(append([]rune(nil), s.built...), edge)
				ns.node = child
				ns.inPos++
				ns.cost++
				ns.repls++
				ns.prevOp = opReplace
				ns.prevCh = edge
				stack = append(stack, ns)

				// Transposition: only immediately after this replacement,
				// and only if the next input character matches the
				// character this replacement just consumed from the
				// trie edge (i.e. the two characters are swapped).
				if s.inPos+1 < len(runes) && foldRune(cmp, runes[s.inPos+1]) == foldRune(cmp, edge) {
					for edge2, child2 := range child.children {
						if foldRune(cmp, edge2) == foldRune(cmp, runes[s.inPos]) {
							ts := ns
							ts.built = append(append([]rune(nil), ns.built...), edge2)
							ts.node = child2
							ts.inPos++
							// The preceding replacement already paid the one unit of
							// cost a transposition costs in total (Damerau-Levenshtein
							// counts a swap as a single edit); this second character
							// adds no further cost. It was provisionally tallied as a
							// replacement though, so that count is reversed here.
							ts.repls--
							ts.prevOp = opTranspose
							stack = append(stack, ts)
						}
					}
				}
			}
		}
	}

	out := make([]Correction, 0, len(best))
	for _, c := range best {
		if c.Distance > 0 {
			out = append(out, c)
		}
	}
	return out
}
