package alloc

// pageRefList is a doubly-linked list of superblocks, threaded through
// the next/prev fields spec.md §3 puts directly on PageRef (the
// teacher's mSpanList instead keeps list membership in a separate
// head/tail-pointer structure; PageRef is simpler since spec.md names
// next/prev as header fields, so the list head is just the first
// element).
type pageRefList struct {
	head *pageRef
}

func (l *pageRefList) empty() bool {
	return l.head == nil
}

// pushFront prepends pr — every list in this allocator is LIFO
// (spec.md §4.2's "Tie-breaks: lists are LIFO throughout").
func (l *pageRefList) pushFront(pr *pageRef) {
	pr.prev = nil
	pr.next = l.head
	if l.head != nil {
		l.head.prev = pr
	}
	l.head = pr
}

// popFront removes and returns the head, or nil if the list is empty.
func (l *pageRefList) popFront() *pageRef {
	pr := l.head
	if pr == nil {
		return nil
	}
	l.head = pr.next
	if l.head != nil {
		l.head.prev = nil
	}
	pr.next = nil
	pr.prev = nil
	return pr
}

// remove detaches pr from the list. pr must currently be a member.
func (l *pageRefList) remove(pr *pageRef) {
	if pr.prev != nil {
		pr.prev.next = pr.next
	} else {
		l.head = pr.next
	}
	if pr.next != nil {
		pr.next.prev = pr.prev
	}
	pr.next = nil
	pr.prev = nil
}

// singleList is the singly-linked free_pages list (spec.md §3: "next"
// only, prev unused/nulled).
type singleList struct {
	head *pageRef
}

func (l *singleList) empty() bool {
	return l.head == nil
}

func (l *singleList) pushFront(pr *pageRef) {
	pr.prev = nil
	pr.next = l.head
	l.head = pr
}

func (l *singleList) popFront() *pageRef {
	pr := l.head
	if pr == nil {
		return nil
	}
	l.head = pr.next
	pr.next = nil
	return pr
}

// pushChainFront prepends an entire next-linked chain (used by the
// large-free path, spec.md §4.5, which builds a chain of npages free
// superblocks before splicing it onto free_pages in one step).
func (l *singleList) pushChainFront(chainHead, chainTail *pageRef) {
	chainTail.next = l.head
	l.head = chainHead
}
