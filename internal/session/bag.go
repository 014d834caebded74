package session

// BagItem is the loot payload a dog carries: just enough to credit score
// on return, independent of whether the source item still exists on the map.
type BagItem struct {
	TypeIdx int
	Value   float64
}

// Bag is a bounded, ordered collection of loot a dog is carrying.
type Bag struct {
	items    []BagItem
	capacity int
}

// NewBag creates an empty bag with the given capacity.
func NewBag(capacity int) Bag {
	return Bag{capacity: capacity}
}

// Len reports how many items are currently in the bag.
func (b *Bag) Len() int { return len(b.items) }

// Capacity reports the bag's configured capacity.
func (b *Bag) Capacity() int { return b.capacity }

// IsFull reports whether the bag has reached its capacity.
func (b *Bag) IsFull() bool { return len(b.items) >= b.capacity }

// Add appends an item, preserving insertion order. Returns false without
// mutating the bag if it is already full — the caller (the collision
// resolver) must then drop the pickup event entirely.
func (b *Bag) Add(item BagItem) bool {
	if b.IsFull() {
		return false
	}
	b.items = append(b.items, item)
	return true
}

// Empty removes and returns every item currently in the bag, in order.
func (b *Bag) Empty() []BagItem {
	items := b.items
	b.items = nil
	return items
}

// Items returns a snapshot of the bag's current contents.
func (b *Bag) Items() []BagItem {
	out := make([]BagItem, len(b.items))
	copy(out, b.items)
	return out
}
