// Package demux routes parsed replies to one latest-value slot per tag.
package demux

import (
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/fxlink/go-fxcli/fxwire"
	"github.com/fxlink/go-fxcli/internal/slot"
)

const (
	// MaxUnknownWords caps how many distinct unknown routing words are
	// counted individually.
	MaxUnknownWords = 64

	// OverflowWord collects the unknown words seen after the cap is reached.
	OverflowWord = "*"
)

// Demux owns one slot per routable tag. The slot set is fixed at creation.
type Demux struct {
	slots [fxwire.NumTags]*slot.Slot[fxwire.Reply]

	unknown      *xsync.Counter
	unknownWords *xsync.MapOf[string, *xsync.Counter]
}

// New creates a Demux with an empty slot for every tag in fxwire.Tags.
func New() *Demux {
	d := &Demux{
		unknown:      xsync.NewCounter(),
		unknownWords: xsync.NewMapOf[string, *xsync.Counter](),
	}
	for i := range d.slots {
		d.slots[i] = slot.New[fxwire.Reply]()
	}

	return d
}

// Route writes r into the slot of r.Tag. Replies with an unknown tag are
// counted and dropped, and Route returns false.
func (d *Demux) Route(r fxwire.Reply) bool {
	idx := r.Tag.Index()
	if idx < 0 {
		d.unknown.Inc()
		d.countUnknownWord(r.Word)

		return false
	}

	d.slots[idx].Write(r)

	return true
}

func (d *Demux) countUnknownWord(word string) {
	c, ok := d.unknownWords.Load(word)
	if !ok {
		if d.unknownWords.Size() >= MaxUnknownWords {
			word = OverflowWord
		}
		c, _ = d.unknownWords.LoadOrCompute(word, xsync.NewCounter)
	}
	c.Inc()
}

// Slot returns the slot of tag, or nil when tag is not routable.
func (d *Demux) Slot(tag fxwire.Tag) *slot.Slot[fxwire.Reply] {
	idx := tag.Index()
	if idx < 0 {
		return nil
	}
	return d.slots[idx]
}

// Clear drops the unread reply of tag.
func (d *Demux) Clear(tag fxwire.Tag) {
	if s := d.Slot(tag); s != nil {
		s.Clear()
	}
}

// ClearAll drops every unread reply.
func (d *Demux) ClearAll() {
	for _, s := range d.slots {
		s.Clear()
	}
}

// Unknown returns how many replies were dropped for an unknown tag.
func (d *Demux) Unknown() int64 {
	return d.unknown.Value()
}

// UnknownWords returns the drop count per unknown routing word. Words beyond
// the first MaxUnknownWords distinct ones are counted under OverflowWord.
func (d *Demux) UnknownWords() map[string]int64 {
	words := make(map[string]int64, d.unknownWords.Size())
	d.unknownWords.Range(func(word string, c *xsync.Counter) bool {
		words[word] = c.Value()
		return true
	})

	return words
}

// Overwritten returns how many routed replies were replaced before anyone
// took them, summed over all tags.
func (d *Demux) Overwritten() uint64 {
	var total uint64
	for _, s := range d.slots {
		total += s.Overwritten()
	}
	return total
}
