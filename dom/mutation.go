package dom

// MutationObserver receives notifications about child list changes in a document.
// Observers are registered per document and called synchronously after each
// insertion or removal.
type MutationObserver interface {
	// OnChildListMutation is called when children are added to or removed from target.
	OnChildListMutation(target *Node, addedNodes, removedNodes []*Node)
}

// MutationObserverFunc adapts a function to the MutationObserver interface.
type MutationObserverFunc func(target *Node, addedNodes, removedNodes []*Node)

// OnChildListMutation calls f.
func (f MutationObserverFunc) OnChildListMutation(target *Node, addedNodes, removedNodes []*Node) {
	f(target, addedNodes, removedNodes)
}

// observerEntry gives each registration an identity, since function observers
// are not comparable.
type observerEntry struct {
	observer MutationObserver
}

// Observe registers an observer for child list mutations anywhere in the document.
// The returned function unregisters it.
func (d *Document) Observe(observer MutationObserver) (cancel func()) {
	data := d.AsNode().documentData
	entry := &observerEntry{observer: observer}
	data.observers = append(data.observers, entry)
	return func() {
		for i, o := range data.observers {
			if o == entry {
				data.observers = append(data.observers[:i], data.observers[i+1:]...)
				return
			}
		}
	}
}

// notifyChildListMutation notifies the observers of target's document.
func notifyChildListMutation(target *Node, addedNodes, removedNodes []*Node) {
	if target == nil || target.ownerDoc == nil {
		return
	}
	for _, o := range target.ownerDoc.AsNode().documentData.observers {
		o.observer.OnChildListMutation(target, addedNodes, removedNodes)
	}
}
