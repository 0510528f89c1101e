// Package list provides an immutable singly linked list. Lists share their
// tails, so pushing onto a list never copies it and a list may be referenced
// from any number of longer lists.
package list

import (
	"fmt"
	"iter"
	"strings"
)

// List is an immutable list. A nil *List is the empty list, and every method
// accepts a nil receiver.
type List[T any] struct {
	head T
	tail *List[T]
	len  int
}

// Of returns a list whose head is the first element of vs.
func Of[T any](vs ...T) *List[T] {
	var l *List[T]
	for i := len(vs) - 1; i >= 0; i-- {
		l = l.Push(vs[i])
	}
	return l
}

// Push returns a new list with v in front of l. l itself is unchanged.
func (l *List[T]) Push(v T) *List[T] {
	return &List[T]{
		head: v,
		tail: l,
		len:  l.Len() + 1,
	}
}

func (l *List[T]) IsEmpty() bool {
	return l == nil
}

func (l *List[T]) Len() int {
	if l == nil {
		return 0
	}
	return l.len
}

// Peek returns the head of the list. It panics when the list is empty.
func (l *List[T]) Peek() T {
	if l == nil {
		panic("list: peek on an empty list")
	}
	return l.head
}

// Tail returns the list without its head. The tail of the empty list is the empty list.
func (l *List[T]) Tail() *List[T] {
	if l == nil {
		return nil
	}
	return l.tail
}

// Pop returns the tail and the head of the list. It panics when the list is empty.
func (l *List[T]) Pop() (*List[T], T) {
	if l == nil {
		panic("list: pop on an empty list")
	}
	return l.tail, l.head
}

// At returns the i-th element counted from the head.
func (l *List[T]) At(i int) T {
	if i < 0 || i >= l.Len() {
		panic(fmt.Sprintf("list: index out of range; index: %v, length: %v", i, l.Len()))
	}
	for ; i > 0; i-- {
		l = l.tail
	}
	return l.head
}

// All yields the elements from the head to the last element.
func (l *List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for e := l; e != nil; e = e.tail {
			if !yield(e.head) {
				return
			}
		}
	}
}

// Slice returns the elements from the head to the last element.
func (l *List[T]) Slice() []T {
	s := make([]T, 0, l.Len())
	for v := range l.All() {
		s = append(s, v)
	}
	return s
}

// Reversed returns the elements from the last element to the head, that is,
// in the order they were pushed.
func (l *List[T]) Reversed() []T {
	n := l.Len()
	s := make([]T, n)
	for e := l; e != nil; e = e.tail {
		n--
		s[n] = e.head
	}
	return s
}

func (l *List[T]) String() string {
	var b strings.Builder
	b.WriteString("[")
	for e := l; e != nil; e = e.tail {
		fmt.Fprintf(&b, "%v", e.head)
		if e.tail != nil {
			b.WriteString(" ")
		}
	}
	b.WriteString("]")
	return b.String()
}
