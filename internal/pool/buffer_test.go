package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferPool(t *testing.T) {
	assert := assert.New(t)

	p := NewBufferPool(0)
	assert.Equal(DefaultBufferSize, p.Size())

	buf := p.Get()
	assert.Len(*buf, DefaultBufferSize)

	*buf = (*buf)[:10]
	p.Put(buf)

	again := p.Get()
	assert.Len(*again, DefaultBufferSize)

	foreign := make([]byte, 16)
	p.Put(&foreign) // dropped, wrong capacity
	p.Put(nil)

	small := NewBufferPool(64)
	assert.Len(*small.Get(), 64)
}
