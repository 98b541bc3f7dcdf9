package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncMap(t *testing.T) {
	m := NewSyncMap[string, int]()
	m.Put("a", 1)
	m.Put("b", 2)
	m.Put("c", 3)

	v, ok := m.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	m.Delete("b")
	_, ok = m.Get("b")
	assert.False(t, ok)

	v, ok = m.Pop("c")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	_, ok = m.Pop("c")
	assert.False(t, ok)
	m.Put("c", 3)

	m.DeleteFunc(func(key string, value int) bool { return value > 2 })
	assert.Equal(t, 1, m.Len())

	var keys []string
	m.Range(func(key string, value int) bool {
		keys = append(keys, key)
		m.Put("d", 4) // Range must not hold the lock while calling f
		return true
	})
	assert.Equal(t, []string{"a"}, keys)

	var zero SyncMap[string, int]
	zero.Put("x", 1)
	assert.Equal(t, 1, zero.Len())
}
